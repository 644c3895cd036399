package chart

import (
	"github.com/matzehuels/sidereal/pkg/ephemeris"
	"github.com/matzehuels/sidereal/pkg/zodiac"
)

// Chart is a fully derived birth chart.
type Chart struct {
	Birth      Birth          `json:"birth"`
	Moment     Moment         `json:"moment"`
	Ayanamsa   float64        `json:"ayanamsa"`
	Positions  []BodyPosition `json:"positions"`
	Houses     *Houses        `json:"houses"`
	Aspects    []Aspect       `json:"aspects"`
	Dashas     *Dashas        `json:"dashas"`
	Placements []Placement    `json:"placements"`
}

// Placement records which house and navamsa sign a body occupies.
type Placement struct {
	Body    ephemeris.Body `json:"body"`
	House   int            `json:"house"`
	Sign    zodiac.Sign    `json:"sign"`
	Navamsa zodiac.Sign    `json:"navamsa"`
}

// Placements assigns every resolved body to a house.
func Placements(p *Positions, h *Houses) []Placement {
	out := make([]Placement, 0, len(p.Bodies))
	for _, bp := range p.Bodies {
		out = append(out, Placement{
			Body:    bp.Body,
			House:   h.HouseOf(bp.Longitude),
			Sign:    bp.Sign,
			Navamsa: bp.Navamsa,
		})
	}
	return out
}

// Position returns the chart position of b, if resolved.
func (c *Chart) Position(b ephemeris.Body) (BodyPosition, bool) {
	for _, bp := range c.Positions {
		if bp.Body == b {
			return bp, true
		}
	}
	return BodyPosition{}, false
}

// AspectsOf returns the aspects involving b, in detection order.
func (c *Chart) AspectsOf(b ephemeris.Body) []Aspect {
	var out []Aspect
	for _, a := range c.Aspects {
		if a.Source == b || a.Target == b {
			out = append(out, a)
		}
	}
	return out
}
