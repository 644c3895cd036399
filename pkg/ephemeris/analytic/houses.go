package analytic

import (
	"context"
	"fmt"
	"math"

	"github.com/matzehuels/sidereal/pkg/ephemeris"
	"github.com/matzehuels/sidereal/pkg/zodiac"
)

// HouseSystems lists the supported house system codes.
const HouseSystems = "PEOW"

// HouseCusps implements ephemeris.Provider. Cusps are tropical.
func (p *Provider) HouseCusps(ctx context.Context, jd, lat, lon float64, system string) (ephemeris.HouseData, error) {
	if err := ctx.Err(); err != nil {
		return ephemeris.HouseData{}, err
	}
	if err := checkRange(jd); err != nil {
		return ephemeris.HouseData{}, err
	}

	t := ephemeris.Centuries(jd)
	eps := obliquity(t)
	armc := zodiac.Normalize(siderealTime(jd, t) + lon)
	asc := ascendant(armc, eps, lat)
	mc := midheaven(armc, eps)

	h := ephemeris.HouseData{Ascendant: asc, MC: mc, ARMC: armc}
	switch system {
	case "P":
		cusps, err := placidus(armc, eps, lat, asc, mc)
		if err != nil {
			return ephemeris.HouseData{}, err
		}
		h.Cusps = cusps
	case "E":
		h.Cusps = ephemeris.EqualHouses(asc).Cusps
	case "O":
		h.Cusps = porphyry(asc, mc)
	case "W":
		h.Cusps = ephemeris.EqualHouses(zodiac.SignOf(asc).Start()).Cusps
	default:
		return ephemeris.HouseData{}, fmt.Errorf("%w: %q", ephemeris.ErrUnsupportedHouseSystem, system)
	}
	return h, nil
}

// obliquity is the mean obliquity of the ecliptic in degrees (Meeus 22.2).
func obliquity(t float64) float64 {
	return 23.439291 - 0.0130042*t - 1.64e-7*t*t + 5.04e-7*t*t*t
}

// siderealTime is Greenwich mean sidereal time in degrees (Meeus 12.4).
func siderealTime(jd, t float64) float64 {
	return 280.46061837 + 360.98564736629*(jd-ephemeris.J2000) + 0.000387933*t*t - t*t*t/38710000
}

func midheaven(armc, eps float64) float64 {
	return zodiac.Normalize(atan2d(sind(armc), cosd(armc)*cosd(eps)))
}

func ascendant(armc, eps, lat float64) float64 {
	return zodiac.Normalize(atan2d(cosd(armc), -(sind(armc)*cosd(eps) + tand(lat)*sind(eps))))
}

// porphyry trisects each quadrant in ecliptic longitude.
func porphyry(asc, mc float64) [12]float64 {
	var c [12]float64
	ic := zodiac.Normalize(mc + 180)
	upper := zodiac.Forward(mc, asc)
	lower := zodiac.Forward(asc, ic)

	c[0] = asc
	c[1] = asc + lower/3
	c[2] = asc + 2*lower/3
	c[9] = mc
	c[10] = mc + upper/3
	c[11] = mc + 2*upper/3
	for i := 3; i < 6; i++ {
		c[i] = c[i+6] + 180
	}
	for i := 6; i < 9; i++ {
		c[i] = c[i-6] + 180
	}
	for i := range c {
		c[i] = zodiac.Normalize(c[i])
	}
	return c
}

// placidus divides the diurnal and nocturnal semi-arcs into thirds of time.
// The intermediate cusps are found by fixed-point iteration on declination;
// the system is undefined where those points never rise or set.
func placidus(armc, eps, lat, asc, mc float64) ([12]float64, error) {
	var c [12]float64
	if math.Abs(lat) >= 90-eps {
		return c, fmt.Errorf("%w: placidus undefined at latitude %.2f", ephemeris.ErrOutOfRange, lat)
	}

	cusp := func(offset, fraction float64, diurnal bool) (float64, error) {
		lon := zodiac.Normalize(armc + offset)
		for range 50 {
			decl := asind(sind(eps) * sind(lon))
			x := tand(lat) * tand(decl)
			if x < -1 || x > 1 {
				return 0, fmt.Errorf("%w: placidus undefined at latitude %.2f", ephemeris.ErrOutOfRange, lat)
			}
			ad := asind(x)
			var ra float64
			if diurnal {
				ra = armc + fraction*(90+ad)
			} else {
				ra = armc + 180 - fraction*(90-ad)
			}
			next := zodiac.Normalize(atan2d(sind(ra), cosd(ra)*cosd(eps)))
			if zodiac.Distance(next, lon) < 1e-9 {
				return next, nil
			}
			lon = next
		}
		return lon, nil
	}

	var err error
	if c[10], err = cusp(30, 1.0/3, true); err != nil {
		return c, err
	}
	if c[11], err = cusp(60, 2.0/3, true); err != nil {
		return c, err
	}
	if c[1], err = cusp(120, 2.0/3, false); err != nil {
		return c, err
	}
	if c[2], err = cusp(150, 1.0/3, false); err != nil {
		return c, err
	}
	c[0], c[9] = asc, mc
	c[3] = zodiac.Normalize(mc + 180)
	c[4] = zodiac.Normalize(c[10] + 180)
	c[5] = zodiac.Normalize(c[11] + 180)
	c[6] = zodiac.Normalize(asc + 180)
	c[7] = zodiac.Normalize(c[1] + 180)
	c[8] = zodiac.Normalize(c[2] + 180)
	return c, nil
}
