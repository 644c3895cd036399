package chart

import (
	"context"

	"github.com/matzehuels/sidereal/pkg/ephemeris"
	"github.com/matzehuels/sidereal/pkg/zodiac"
)

// BodyPosition is the sidereal placement of one body.
type BodyPosition struct {
	Body       ephemeris.Body   `json:"body"`
	Longitude  float64          `json:"longitude"` // sidereal, [0, 360)
	Latitude   float64          `json:"latitude"`
	Speed      float64          `json:"speed"` // degrees per day, signed
	Retrograde bool             `json:"retrograde"`
	Sign       zodiac.Sign      `json:"sign"`
	SignDegree float64          `json:"sign_degree"` // offset within Sign
	Nakshatra  zodiac.Nakshatra `json:"nakshatra"`
	Navamsa    zodiac.Sign      `json:"navamsa"`
}

// Positions is the result of resolving every body of a chart.
type Positions struct {
	Moment   Moment         `json:"moment"`
	Ayanamsa float64        `json:"ayanamsa"`
	Bodies   []BodyPosition `json:"bodies"` // resolution order
}

// Get returns the position of b, if it was resolved.
func (p *Positions) Get(b ephemeris.Body) (BodyPosition, bool) {
	for _, bp := range p.Bodies {
		if bp.Body == b {
			return bp, true
		}
	}
	return BodyPosition{}, false
}

// Place classifies a sidereal longitude and builds a BodyPosition.
func Place(b ephemeris.Body, lon, lat, speed float64) BodyPosition {
	lon = zodiac.Normalize(lon)
	sign := zodiac.SignOf(lon)
	return BodyPosition{
		Body:       b,
		Longitude:  lon,
		Latitude:   lat,
		Speed:      speed,
		Retrograde: speed < 0,
		Sign:       sign,
		SignDegree: lon - sign.Start(),
		Nakshatra:  zodiac.NakshatraOf(lon),
		Navamsa:    zodiac.NavamsaOf(lon),
	}
}

// Positions resolves the birth moment and ayanamsa, then every body.
func (e *Engine) Positions(ctx context.Context, b Birth, ayanamsaOverride *float64) (*Positions, error) {
	m, err := e.Moment(ctx, b)
	if err != nil {
		return nil, err
	}
	ayanamsa, err := e.Ayanamsa(ctx, m, ayanamsaOverride)
	if err != nil {
		return nil, err
	}
	return e.PositionsAt(ctx, m, ayanamsa)
}

// PositionsAt resolves every configured body at an already resolved moment.
//
// Planets are fetched tropical and corrected by ayanamsa. Rahu is fetched
// sidereal from the provider and used as is. Ketu is never queried: it sits
// exactly opposite Rahu with negated latitude and shares its motion.
func (e *Engine) PositionsAt(ctx context.Context, m Moment, ayanamsa float64) (*Positions, error) {
	bodies := e.ResolutionSet()
	out := &Positions{
		Moment:   m,
		Ayanamsa: ayanamsa,
		Bodies:   make([]BodyPosition, 0, len(bodies)),
	}

	var (
		rahu    ephemeris.Coordinates
		hasRahu bool
	)
	nodeCoords := func() (ephemeris.Coordinates, error) {
		if hasRahu {
			return rahu, nil
		}
		c, err := e.position(ctx, m.JD, ephemeris.Rahu, true)
		if err != nil {
			return c, err
		}
		c.Longitude = zodiac.Normalize(c.Longitude)
		rahu, hasRahu = c, true
		return c, nil
	}

	for _, b := range bodies {
		switch b {
		case ephemeris.Rahu:
			c, err := nodeCoords()
			if err != nil {
				return nil, err
			}
			out.Bodies = append(out.Bodies, Place(b, c.Longitude, c.Latitude, c.Speed))
		case ephemeris.Ketu:
			c, err := nodeCoords()
			if err != nil {
				return nil, err
			}
			out.Bodies = append(out.Bodies, Place(b, c.Longitude+180, -c.Latitude, c.Speed))
		default:
			c, err := e.position(ctx, m.JD, b, false)
			if err != nil {
				return nil, err
			}
			out.Bodies = append(out.Bodies, Place(b, c.Longitude-ayanamsa, c.Latitude, c.Speed))
		}
	}

	e.logger().Debug("resolved positions", "bodies", len(out.Bodies), "ayanamsa", ayanamsa)
	return out, nil
}
