// Package zodiac classifies sidereal ecliptic longitudes into signs, lunar
// mansions (nakshatras) and their quarters (padas).
//
// Every function in this package is pure. Longitudes are expected in degrees;
// [SignOf], [NakshatraOf] and [NavamsaOf] normalize their input first, so a
// longitude and the same longitude plus any multiple of 360 classify
// identically.
//
//	zodiac.SignOf(40)          // Taurus
//	zodiac.NakshatraOf(40)     // Rohini, pada 1
//	zodiac.NavamsaOf(40)       // Leo
package zodiac

import (
	"fmt"
	"strings"
)

// SignWidth is the arc covered by one sign.
const SignWidth = 30.0

// Sign is one of the twelve equal 30° sectors of the sidereal zodiac,
// starting with Aries at 0°.
type Sign int

// The twelve signs in ecliptic order.
const (
	Aries Sign = iota
	Taurus
	Gemini
	Cancer
	Leo
	Virgo
	Libra
	Scorpio
	Sagittarius
	Capricorn
	Aquarius
	Pisces
)

// SignCount is the number of signs.
const SignCount = 12

// Signs lists every sign in ecliptic order.
var Signs = [SignCount]Sign{
	Aries, Taurus, Gemini, Cancer, Leo, Virgo,
	Libra, Scorpio, Sagittarius, Capricorn, Aquarius, Pisces,
}

// SignOf returns the sign containing the given longitude.
func SignOf(lon float64) Sign {
	idx := int(Normalize(lon) / SignWidth)
	if idx >= SignCount {
		idx = SignCount - 1
	}
	return Sign(idx)
}

// NavamsaOf returns the navamsa (D9) sign of a longitude. Each sign is split
// into nine 3°20' parts and the parts are laid out over the zodiac
// continuously, so the first part of Aries maps to Aries, the first part of
// Taurus to Capricorn, and so on.
func NavamsaOf(lon float64) Sign {
	part := int(Normalize(lon) * 9 / SignWidth)
	return Sign(part % SignCount)
}

// Valid reports whether s is one of the twelve signs.
func (s Sign) Valid() bool { return s >= Aries && s <= Pisces }

// Start returns the longitude at which the sign begins.
func (s Sign) Start() float64 { return float64(s) * SignWidth }

// String returns the capitalized sign name.
func (s Sign) String() string {
	switch s {
	case Aries:
		return "Aries"
	case Taurus:
		return "Taurus"
	case Gemini:
		return "Gemini"
	case Cancer:
		return "Cancer"
	case Leo:
		return "Leo"
	case Virgo:
		return "Virgo"
	case Libra:
		return "Libra"
	case Scorpio:
		return "Scorpio"
	case Sagittarius:
		return "Sagittarius"
	case Capricorn:
		return "Capricorn"
	case Aquarius:
		return "Aquarius"
	case Pisces:
		return "Pisces"
	default:
		return fmt.Sprintf("Sign(%d)", int(s))
	}
}

// Keywords returns the traditional significations of the sign.
func (s Sign) Keywords() string {
	switch s {
	case Aries:
		return "initiative, courage, pioneering spirit, leadership"
	case Taurus:
		return "stability, patience, practicality, appreciation of beauty"
	case Gemini:
		return "communication, adaptability, intellect, versatility"
	case Cancer:
		return "nurturing, emotional sensitivity, protection, intuition"
	case Leo:
		return "creativity, self-expression, leadership, generosity"
	case Virgo:
		return "analytical ability, service, attention to detail, healing"
	case Libra:
		return "balance, harmony, relationships, justice"
	case Scorpio:
		return "transformation, intensity, research, occult knowledge"
	case Sagittarius:
		return "wisdom, expansion, philosophy, teaching"
	case Capricorn:
		return "discipline, structure, ambition, responsibility"
	case Aquarius:
		return "innovation, humanitarianism, independence, originality"
	case Pisces:
		return "spirituality, compassion, imagination, artistic ability"
	default:
		return ""
	}
}

// MarshalText encodes the sign as its lowercase name.
func (s Sign) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid sign %d", int(s))
	}
	return []byte(strings.ToLower(s.String())), nil
}

// UnmarshalText decodes a sign name, case-insensitively.
func (s *Sign) UnmarshalText(text []byte) error {
	v, err := ParseSign(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSign parses a sign name such as "aries" or "Aries".
func ParseSign(name string) (Sign, error) {
	for _, s := range Signs {
		if strings.EqualFold(s.String(), strings.TrimSpace(name)) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown sign %q", name)
}
