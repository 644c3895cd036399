package chart

import (
	"context"
	"math"
	"time"

	"github.com/matzehuels/sidereal/pkg/ephemeris"
	"github.com/matzehuels/sidereal/pkg/errors"
	"github.com/matzehuels/sidereal/pkg/zodiac"
)

const (
	// DaysPerYear is the year length used to turn period lengths into dates.
	DaysPerYear = 365.25

	// DefaultDashaYears is the default timeline horizon.
	DefaultDashaYears = 100

	// MaxDashaPeriods bounds generation to two full cycles.
	MaxDashaPeriods = 18

	// SystemVimshottari labels schedules produced by [Vimshottari].
	SystemVimshottari = "vimshottari"
)

// DashaLord is one entry of the Vimshottari cycle.
type DashaLord struct {
	Body  ephemeris.Body
	Years float64
}

// VimshottariCycle is the fixed 120-year sequence of ruling periods. The
// lord of the Moon's nakshatra is found at index (ordinal-1) mod 9.
var VimshottariCycle = [9]DashaLord{
	{ephemeris.Ketu, 7},
	{ephemeris.Venus, 20},
	{ephemeris.Sun, 6},
	{ephemeris.Moon, 10},
	{ephemeris.Mars, 7},
	{ephemeris.Rahu, 18},
	{ephemeris.Jupiter, 16},
	{ephemeris.Saturn, 19},
	{ephemeris.Mercury, 17},
}

// DashaPeriod is one ruling period of the timeline.
type DashaPeriod struct {
	Body  ephemeris.Body `json:"planet"`
	Start time.Time      `json:"start_date"`
	End   time.Time      `json:"end_date"`
	Years float64        `json:"duration_years"`
}

// Dashas is a dasha timeline anchored at birth.
type Dashas struct {
	System        string           `json:"system"`
	MoonLongitude float64          `json:"moon_longitude"`
	MoonNakshatra zodiac.Nakshatra `json:"moon_nakshatra"`
	Balance       float64          `json:"balance_years"` // length of the first period
	Periods       []DashaPeriod    `json:"periods"`
}

// Current returns the period containing t, if any.
func (d *Dashas) Current(t time.Time) (DashaPeriod, bool) {
	for _, p := range d.Periods {
		if !t.Before(p.Start) && t.Before(p.End) {
			return p, true
		}
	}
	return DashaPeriod{}, false
}

// Years converts a length in years of DaysPerYear days to a Duration.
func Years(y float64) time.Duration {
	return time.Duration(math.Round(y * DaysPerYear * 24 * float64(time.Hour)))
}

// Vimshottari lays out ruling periods from start, beginning with the lord of
// the nakshatra holding moonLon. The first period keeps only the part of its
// allotment the Moon has not yet traversed. Generation stops after the first
// period that ends beyond horizonYears, and never exceeds MaxDashaPeriods.
func Vimshottari(moonLon float64, start time.Time, horizonYears float64) *Dashas {
	moonLon = zodiac.Normalize(moonLon)
	nak := zodiac.NakshatraOf(moonLon)
	first := (nak.Ordinal - 1) % len(VimshottariCycle)
	elapsed := nak.Elapsed(moonLon)

	d := &Dashas{
		System:        SystemVimshottari,
		MoonLongitude: moonLon,
		MoonNakshatra: nak,
	}

	cur := start
	for i := range MaxDashaPeriods {
		lord := VimshottariCycle[(first+i)%len(VimshottariCycle)]
		years := lord.Years
		if i == 0 {
			years *= 1 - elapsed
			d.Balance = years
		}
		end := cur.Add(Years(years))
		d.Periods = append(d.Periods, DashaPeriod{Body: lord.Body, Start: cur, End: end, Years: years})
		cur = end

		if cur.Sub(start).Hours()/24/DaysPerYear > horizonYears {
			break
		}
	}
	return d
}

// Dashas resolves the Moon for a birth and lays out horizonYears of
// Vimshottari periods starting at the birth instant.
func (e *Engine) Dashas(ctx context.Context, b Birth, horizonYears int, ayanamsaOverride *float64) (*Dashas, error) {
	if horizonYears <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidHorizon, "dasha horizon %d must be positive", horizonYears)
	}
	m, err := e.Moment(ctx, b)
	if err != nil {
		return nil, err
	}
	ayanamsa, err := e.Ayanamsa(ctx, m, ayanamsaOverride)
	if err != nil {
		return nil, err
	}
	c, err := e.position(ctx, m.JD, ephemeris.Moon, false)
	if err != nil {
		return nil, err
	}
	return Vimshottari(c.Longitude-ayanamsa, m.UTC, float64(horizonYears)), nil
}

// DashasFor lays out the timeline from already resolved positions.
func DashasFor(p *Positions, horizonYears int) (*Dashas, error) {
	if horizonYears <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidHorizon, "dasha horizon %d must be positive", horizonYears)
	}
	moon, ok := p.Get(ephemeris.Moon)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidBody, "dasha timeline needs the moon's position")
	}
	return Vimshottari(moon.Longitude, p.Moment.UTC, float64(horizonYears)), nil
}
