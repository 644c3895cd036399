package chart

import (
	"context"
	"time"

	"github.com/matzehuels/sidereal/pkg/observability"
	"github.com/matzehuels/sidereal/pkg/zodiac"
)

// DefaultHouseSystem is Placidus.
const DefaultHouseSystem = "P"

// HouseCusp is the sidereal starting point of one house.
type HouseCusp struct {
	House     int         `json:"house"` // 1..12
	Longitude float64     `json:"longitude"`
	Sign      zodiac.Sign `json:"sign"`
}

// Houses holds the twelve cusps of a chart in the order the house system
// numbers them, plus the sidereal angles.
type Houses struct {
	System        string      `json:"system"`
	Ayanamsa      float64     `json:"ayanamsa"`
	Cusps         []HouseCusp `json:"cusps"`
	Ascendant     float64     `json:"ascendant"`
	AscendantSign zodiac.Sign `json:"ascendant_sign"`
	MC            float64     `json:"mc"`
}

// Houses resolves the birth moment and ayanamsa the same way [Engine.Positions]
// does and computes the cusps.
func (e *Engine) Houses(ctx context.Context, b Birth, system string, ayanamsaOverride *float64) (*Houses, error) {
	m, err := e.Moment(ctx, b)
	if err != nil {
		return nil, err
	}
	ayanamsa, err := e.Ayanamsa(ctx, m, ayanamsaOverride)
	if err != nil {
		return nil, err
	}
	return e.HousesAt(ctx, m, ayanamsa, b.Latitude, b.Longitude, system)
}

// HousesAt queries raw cusps for system and shifts each by ayanamsa. The
// system code reaches the provider verbatim; an empty code means Placidus.
func (e *Engine) HousesAt(ctx context.Context, m Moment, ayanamsa, lat, lon float64, system string) (*Houses, error) {
	if system == "" {
		system = DefaultHouseSystem
	}

	start := time.Now()
	raw, err := e.Provider.HouseCusps(ctx, m.JD, lat, lon, system)
	observability.Provider().OnQuery(ctx, e.Provider.Name(), "houses", time.Since(start), err)
	if err != nil {
		return nil, ProviderError(err, "house cusps (system %q)", system)
	}

	h := &Houses{
		System:    system,
		Ayanamsa:  ayanamsa,
		Cusps:     make([]HouseCusp, len(raw.Cusps)),
		Ascendant: zodiac.Normalize(raw.Ascendant - ayanamsa),
		MC:        zodiac.Normalize(raw.MC - ayanamsa),
	}
	h.AscendantSign = zodiac.SignOf(h.Ascendant)
	for i, c := range raw.Cusps {
		lon := zodiac.Normalize(c - ayanamsa)
		h.Cusps[i] = HouseCusp{House: i + 1, Longitude: lon, Sign: zodiac.SignOf(lon)}
	}

	e.logger().Debug("computed houses", "system", system, "ascendant", h.Ascendant)
	return h, nil
}

// HouseOf returns the house (1..12) whose arc contains lon, walking from each
// cusp forward to the next. It returns 0 when no arc contains lon, which only
// happens for degenerate cusp sets.
func (h *Houses) HouseOf(lon float64) int {
	n := len(h.Cusps)
	for i := range n {
		start := h.Cusps[i].Longitude
		arc := zodiac.Forward(start, h.Cusps[(i+1)%n].Longitude)
		if arc == 0 {
			continue
		}
		if zodiac.Forward(start, lon) < arc {
			return h.Cusps[i].House
		}
	}
	return 0
}
