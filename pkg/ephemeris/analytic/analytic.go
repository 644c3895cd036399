// Package analytic is a self-contained, low-precision ephemeris.
//
// It needs no data files: the Sun follows the Meeus low-accuracy solar theory,
// the Moon a truncated Meeus lunar series, the planets the JPL approximate
// Keplerian elements (valid 1800-2050, usable to 2100) and the lunar node its
// mean motion. Positions are good to a few arcminutes, enough for sign,
// nakshatra and pada classification away from sector boundaries.
//
// Time is taken as UT throughout; the ΔT correction (about a minute for
// modern dates) is below the precision of the theories used.
package analytic

import (
	"context"
	"fmt"
	"math"

	"github.com/matzehuels/sidereal/pkg/ephemeris"
	"github.com/matzehuels/sidereal/pkg/zodiac"
)

// Supported time range, 1800-01-01 to 2100-01-01.
const (
	MinJD = 2378496.5
	MaxJD = 2488069.5
)

// speedStep is the half-width, in days, of the central difference used for
// speeds.
const speedStep = 0.25

// Provider implements ephemeris.Provider analytically.
type Provider struct{}

// New returns an analytic provider.
func New() *Provider { return &Provider{} }

// Name implements ephemeris.Provider.
func (*Provider) Name() string { return "analytic" }

// Position implements ephemeris.Provider.
func (p *Provider) Position(ctx context.Context, jd float64, body ephemeris.Body, sidereal bool) (ephemeris.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return ephemeris.Coordinates{}, err
	}
	if err := checkRange(jd); err != nil {
		return ephemeris.Coordinates{}, err
	}
	if !body.Valid() {
		return ephemeris.Coordinates{}, fmt.Errorf("%w: %d", ephemeris.ErrUnsupportedBody, int(body))
	}

	lon, lat := ecliptic(jd, body)
	before, _ := ecliptic(jd-speedStep, body)
	after, _ := ecliptic(jd+speedStep, body)
	speed := signedArc(before, after) / (2 * speedStep)

	if sidereal {
		lon -= lahiri(jd)
	}
	return ephemeris.Coordinates{
		Longitude: zodiac.Normalize(lon),
		Latitude:  lat,
		Speed:     speed,
	}, nil
}

// Ayanamsa implements ephemeris.Provider.
func (p *Provider) Ayanamsa(ctx context.Context, jd float64) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := checkRange(jd); err != nil {
		return 0, err
	}
	return lahiri(jd), nil
}

func checkRange(jd float64) error {
	if math.IsNaN(jd) || jd < MinJD || jd > MaxJD {
		return fmt.Errorf("%w: jd %.1f outside 1800-2100", ephemeris.ErrOutOfRange, jd)
	}
	return nil
}

// ecliptic returns the geocentric longitude (mean equinox of date, degrees,
// unnormalized) and latitude of body.
func ecliptic(jd float64, body ephemeris.Body) (lon, lat float64) {
	t := ephemeris.Centuries(jd)
	switch body {
	case ephemeris.Sun:
		return sunLongitude(t), 0
	case ephemeris.Moon:
		return moon(t)
	case ephemeris.Rahu:
		return meanNode(t), 0
	case ephemeris.Ketu:
		return meanNode(t) + 180, 0
	default:
		return planet(t, body)
	}
}

// lahiri approximates the Lahiri (Chitrapaksha) ayanamsa: 23°51'25" at J2000
// growing with the general precession of 50.2788" per year.
func lahiri(jd float64) float64 {
	years := (jd - ephemeris.J2000) / 365.25
	return 23.857092 + years*50.2788/3600
}

// signedArc returns the shortest signed arc from a to b in (-180, 180].
func signedArc(a, b float64) float64 {
	d := zodiac.Normalize(b - a)
	if d > 180 {
		d -= 360
	}
	return d
}

func sind(deg float64) float64 { return math.Sin(deg * math.Pi / 180) }
func cosd(deg float64) float64 { return math.Cos(deg * math.Pi / 180) }
func tand(deg float64) float64 { return math.Tan(deg * math.Pi / 180) }

func atan2d(y, x float64) float64 { return math.Atan2(y, x) * 180 / math.Pi }
func asind(x float64) float64     { return math.Asin(x) * 180 / math.Pi }
