package chart

import (
	"math"
	"strconv"

	"github.com/matzehuels/sidereal/pkg/ephemeris"
	"github.com/matzehuels/sidereal/pkg/zodiac"
)

// DefaultOrb is the aspect tolerance in degrees.
const DefaultOrb = 3.0

// AspectKind separates the two rule families.
type AspectKind string

const (
	// KindUniversal aspects apply to every pair of bodies.
	KindUniversal AspectKind = "universal"
	// KindPlanetary aspects are cast only by Mars, Jupiter, Saturn and the nodes.
	KindPlanetary AspectKind = "planetary"
)

// Aspect is an angular relationship between two bodies. For planetary aspects
// Source is the body casting the aspect.
type Aspect struct {
	Source ephemeris.Body `json:"source"`
	Target ephemeris.Body `json:"target"`
	Kind   AspectKind     `json:"type"`
	Name   string         `json:"name"`
	Angle  float64        `json:"angle"` // ideal angle
	Orb    float64        `json:"orb"`   // |actual - ideal|
	Mutual bool           `json:"mutual"`
}

type universalAspect struct {
	name  string
	angle float64
}

var universalAspects = []universalAspect{
	{"conjunction", 0},
	{"sextile", 60},
	{"square", 90},
	{"trine", 120},
	{"opposition", 180},
}

// specialAspects lists the houses, counted from the casting body, that each
// body aspects in addition to the universal set.
var specialAspects = map[ephemeris.Body][]int{
	ephemeris.Mars:    {4, 7, 8},
	ephemeris.Jupiter: {5, 7, 9},
	ephemeris.Saturn:  {3, 7, 10},
	ephemeris.Rahu:    {5, 7},
	ephemeris.Ketu:    {5, 7},
}

// SpecialAspectHouses returns the houses b aspects beyond the universal set,
// or nil when b has none.
func SpecialAspectHouses(b ephemeris.Body) []int {
	return specialAspects[b]
}

// DetectAspects finds every aspect between pairs of positions within orb.
// A non-positive orb selects DefaultOrb.
//
// Pairs are visited in input order (i < j). For each pair the universal
// aspects are checked on the circular separation, then the planetary aspects
// cast by the first body, then those cast by the second. A pair may yield
// several aspects; nothing is de-duplicated.
func DetectAspects(positions []BodyPosition, orb float64) []Aspect {
	if orb <= 0 || math.IsNaN(orb) {
		orb = DefaultOrb
	}

	var out []Aspect
	for i := 0; i < len(positions); i++ {
		for j := i + 1; j < len(positions); j++ {
			p1, p2 := positions[i], positions[j]
			if p1.Body == p2.Body {
				continue
			}

			d := zodiac.Distance(p1.Longitude, p2.Longitude)
			for _, u := range universalAspects {
				if diff := math.Abs(d - u.angle); diff <= orb {
					out = append(out, Aspect{
						Source: p1.Body,
						Target: p2.Body,
						Kind:   KindUniversal,
						Name:   u.name,
						Angle:  u.angle,
						Orb:    diff,
					})
				}
			}

			out = appendPlanetary(out, p1, p2, orb)
			out = appendPlanetary(out, p2, p1, orb)
		}
	}

	markMutual(out)
	return out
}

// appendPlanetary adds the special aspects src casts on dst. The angle is
// measured forward from src, so Mars aspecting its 4th house means dst lies
// 90° ahead of Mars.
func appendPlanetary(out []Aspect, src, dst BodyPosition, orb float64) []Aspect {
	for _, house := range specialAspects[src.Body] {
		angle := float64(house-1) * 30
		sep := zodiac.Forward(src.Longitude, dst.Longitude)
		if diff := zodiac.Distance(sep, angle); diff <= orb {
			out = append(out, Aspect{
				Source: src.Body,
				Target: dst.Body,
				Kind:   KindPlanetary,
				Name:   ordinal(house) + " house aspect",
				Angle:  angle,
				Orb:    diff,
			})
		}
	}
	return out
}

// markMutual flags planetary aspects that are returned by a planetary aspect
// from the target.
func markMutual(aspects []Aspect) {
	type pair struct{ src, dst ephemeris.Body }
	cast := make(map[pair]bool)
	for _, a := range aspects {
		if a.Kind == KindPlanetary {
			cast[pair{a.Source, a.Target}] = true
		}
	}
	for i := range aspects {
		a := &aspects[i]
		if a.Kind == KindPlanetary && cast[pair{a.Target, a.Source}] {
			a.Mutual = true
		}
	}
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 10 {
	case 1:
		suffix = "st"
	case 2:
		suffix = "nd"
	case 3:
		suffix = "rd"
	}
	if n%100 >= 11 && n%100 <= 13 {
		suffix = "th"
	}
	return strconv.Itoa(n) + suffix
}
