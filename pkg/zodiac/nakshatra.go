package zodiac

import "math"

const (
	// NakshatraCount is the number of lunar mansions.
	NakshatraCount = 27

	// NakshatraWidth is the arc covered by one nakshatra (13°20').
	NakshatraWidth = FullCircle / NakshatraCount

	// PadaWidth is the arc covered by one pada (3°20').
	PadaWidth = NakshatraWidth / 4
)

var nakshatraNames = [NakshatraCount]string{
	"Ashwini", "Bharani", "Krittika", "Rohini", "Mrigashira",
	"Ardra", "Punarvasu", "Pushya", "Ashlesha", "Magha",
	"Purva Phalguni", "Uttara Phalguni", "Hasta", "Chitra",
	"Swati", "Vishakha", "Anuradha", "Jyeshtha", "Mula",
	"Purva Ashadha", "Uttara Ashadha", "Shravana", "Dhanishta",
	"Shatabhisha", "Purva Bhadrapada", "Uttara Bhadrapada", "Revati",
}

var nakshatraKeywords = [NakshatraCount]string{
	"speed, healing, initiation, new beginnings",
	"struggle, restraint, transformation, death and rebirth",
	"fire, purification, criticism, protection",
	"growth, creativity, fertility, beauty",
	"searching, curiosity, gentleness, healing",
	"tears, destruction, renewal, intense emotions",
	"renewal, return, prosperity, abundance",
	"nourishment, spiritual growth, discipline, service",
	"entanglement, kundalini, occult knowledge, transformation",
	"power, authority, tradition, ancestral connections",
	"creativity, procreation, luxury, enjoyment",
	"marriage, partnerships, responsibility, healing",
	"skill, craftsmanship, healing, dexterity",
	"artistry, beauty, illusion, magic",
	"independence, flexibility, movement, commerce",
	"focus, determination, achievement, spiritual growth",
	"devotion, friendship, balance, spiritual discipline",
	"power, protection, courage, wisdom",
	"roots, destruction, transformation, spiritual seeking",
	"invincibility, early victory, purification",
	"universal values, leadership, integrity",
	"learning, listening, wisdom, tradition",
	"wealth, fame, music, organization",
	"healing, mysticism, isolation, unconventional thinking",
	"spiritual fire, austerities, transformation",
	"wisdom, universal knowledge, stability",
	"nourishment, prosperity, completion, spiritual liberation",
}

// Nakshatra describes the lunar mansion and quarter containing a longitude.
type Nakshatra struct {
	Ordinal int     `json:"number"`       // 1..27
	Name    string  `json:"name"`         // e.g. "Rohini"
	Pada    int     `json:"pada"`         // 1..4
	Start   float64 `json:"start_degree"` // sector start, inclusive
	End     float64 `json:"end_degree"`   // sector end, exclusive
}

// NakshatraOf classifies a longitude into its nakshatra and pada.
//
// Longitude 0 is Ashwini pada 1; longitudes just below 360 are Revati pada 4.
func NakshatraOf(lon float64) Nakshatra {
	lon = Normalize(lon)

	// Scale by whole counts rather than dividing by the inexact widths so that
	// exact boundaries such as 40° land in the following sector.
	quarter := int(math.Floor(lon * NakshatraCount * 4 / FullCircle))
	quarter = min(quarter, NakshatraCount*4-1)
	idx := quarter / 4
	start := float64(idx) * FullCircle / NakshatraCount
	pada := quarter%4 + 1

	return Nakshatra{
		Ordinal: idx + 1,
		Name:    nakshatraNames[idx],
		Pada:    pada,
		Start:   start,
		End:     start + NakshatraWidth,
	}
}

// NakshatraName returns the name of the nakshatra with the given 1-based
// ordinal, or "" when the ordinal is out of range.
func NakshatraName(ordinal int) string {
	if ordinal < 1 || ordinal > NakshatraCount {
		return ""
	}
	return nakshatraNames[ordinal-1]
}

// Elapsed returns the fraction of the nakshatra sector already traversed at
// lon, in [0, 1).
func (n Nakshatra) Elapsed(lon float64) float64 {
	f := (Normalize(lon) - n.Start) / NakshatraWidth
	return min(max(f, 0), math.Nextafter(1, 0))
}

// Keywords returns the traditional significations of the nakshatra.
func (n Nakshatra) Keywords() string {
	if n.Ordinal < 1 || n.Ordinal > NakshatraCount {
		return ""
	}
	return nakshatraKeywords[n.Ordinal-1]
}
