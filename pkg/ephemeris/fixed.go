package ephemeris

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/matzehuels/sidereal/pkg/zodiac"
)

// Fixed is a deterministic provider that answers every query from
// preconfigured values, whatever the Julian day. It is intended for tests and
// offline demos.
//
// Positions are returned exactly as stored for both tropical and sidereal
// queries, so stored node positions should already be sidereal.
type Fixed struct {
	Bodies        map[Body]Coordinates
	AyanamsaValue float64
	Houses        HouseData

	// Systems restricts the accepted house-system letters. Empty accepts any.
	Systems string

	// Errs makes queries for the given body fail with the stored error.
	Errs map[Body]error

	calls atomic.Int64
}

// Name implements Provider.
func (f *Fixed) Name() string { return "fixed" }

// Calls returns the number of queries answered so far.
func (f *Fixed) Calls() int64 { return f.calls.Load() }

// Position implements Provider.
func (f *Fixed) Position(ctx context.Context, jd float64, body Body, sidereal bool) (Coordinates, error) {
	f.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return Coordinates{}, err
	}
	if err, ok := f.Errs[body]; ok {
		return Coordinates{}, err
	}
	c, ok := f.Bodies[body]
	if !ok {
		return Coordinates{}, fmt.Errorf("%w: %s", ErrUnsupportedBody, body)
	}
	return c, nil
}

// Ayanamsa implements Provider.
func (f *Fixed) Ayanamsa(ctx context.Context, jd float64) (float64, error) {
	f.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return f.AyanamsaValue, nil
}

// HouseCusps implements Provider.
func (f *Fixed) HouseCusps(ctx context.Context, jd, lat, lon float64, system string) (HouseData, error) {
	f.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return HouseData{}, err
	}
	if len(system) != 1 || (f.Systems != "" && !strings.Contains(f.Systems, system)) {
		return HouseData{}, fmt.Errorf("%w: %q", ErrUnsupportedHouseSystem, system)
	}
	return f.Houses, nil
}

// EqualHouses builds HouseData with twelve 30° houses starting at asc.
func EqualHouses(asc float64) HouseData {
	var h HouseData
	for i := range h.Cusps {
		h.Cusps[i] = zodiac.Normalize(asc + float64(i)*30)
	}
	h.Ascendant = zodiac.Normalize(asc)
	h.MC = h.Cusps[9]
	return h
}
