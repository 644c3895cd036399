package analytic

import (
	"math"

	"github.com/matzehuels/sidereal/pkg/ephemeris"
)

// elements are J2000 mean orbital elements and their rates per Julian century
// (Standish, "Keplerian Elements for Approximate Positions of the Major
// Planets", table 1).
type elements struct {
	a, da       float64 // semi-major axis, au
	e, de       float64 // eccentricity
	i, di       float64 // inclination, degrees
	l, dl       float64 // mean longitude, degrees
	peri, dperi float64 // longitude of perihelion, degrees
	node, dnode float64 // longitude of the ascending node, degrees
}

var earthMoon = elements{
	1.00000261, 0.00000562,
	0.01671123, -0.00004392,
	-0.00001531, -0.01294668,
	100.46457166, 35999.37244981,
	102.93768193, 0.32327364,
	0, 0,
}

var orbits = map[ephemeris.Body]elements{
	ephemeris.Mercury: {
		0.38709927, 0.00000037,
		0.20563593, 0.00001906,
		7.00497902, -0.00594749,
		252.25032350, 149472.67411175,
		77.45779628, 0.16047689,
		48.33076593, -0.12534081,
	},
	ephemeris.Venus: {
		0.72333566, 0.00000390,
		0.00677672, -0.00004107,
		3.39467605, -0.00078890,
		181.97909950, 58517.81538729,
		131.60246718, 0.00268329,
		76.67984255, -0.27769418,
	},
	ephemeris.Mars: {
		1.52371034, 0.00001847,
		0.09339410, 0.00007882,
		1.84969142, -0.00813131,
		-4.55343205, 19140.30268499,
		-23.94362959, 0.44441088,
		49.55953891, -0.29257343,
	},
	ephemeris.Jupiter: {
		5.20288700, -0.00011607,
		0.04838624, -0.00013253,
		1.30439695, -0.00183714,
		34.39644051, 3034.74612775,
		14.72847983, 0.21252668,
		100.47390909, 0.20469106,
	},
	ephemeris.Saturn: {
		9.53667594, -0.00125060,
		0.05386179, -0.00050991,
		2.48599187, 0.00193609,
		49.95424423, 1222.49362201,
		92.59887831, -0.41897216,
		113.66242448, -0.28867794,
	},
	ephemeris.Uranus: {
		19.18916464, -0.00196176,
		0.04725744, -0.00004397,
		0.77263783, -0.00242939,
		313.23810451, 428.48202785,
		170.95427630, 0.40805281,
		74.01692503, 0.04240589,
	},
	ephemeris.Neptune: {
		30.06992276, 0.00026291,
		0.00859048, 0.00005105,
		1.77004347, 0.00035372,
		-55.12002969, 218.45945325,
		44.96476227, -0.32241464,
		131.78422574, -0.00508664,
	},
	ephemeris.Pluto: {
		39.48211675, -0.00031596,
		0.24882730, 0.00005170,
		17.14001206, 0.00004818,
		238.92903833, 145.20780515,
		224.06891629, -0.04062942,
		110.30393684, -0.01183482,
	},
}

// precessionRate is the general precession in longitude, degrees per century.
const precessionRate = 1.396971

// planet returns the geocentric ecliptic longitude (of date) and latitude of
// a planet. Light time and aberration are ignored.
func planet(t float64, body ephemeris.Body) (lon, lat float64) {
	el, ok := orbits[body]
	if !ok {
		return math.NaN(), math.NaN()
	}
	px, py, pz := heliocentric(el, t)
	ex, ey, ez := heliocentric(earthMoon, t)
	x, y, z := px-ex, py-ey, pz-ez

	lon = atan2d(y, x) + precessionRate*t
	lat = atan2d(z, math.Hypot(x, y))
	return lon, lat
}

// heliocentric returns J2000 ecliptic rectangular coordinates in au.
func heliocentric(el elements, t float64) (x, y, z float64) {
	a := el.a + el.da*t
	e := el.e + el.de*t
	inc := el.i + el.di*t
	l := el.l + el.dl*t
	peri := el.peri + el.dperi*t
	node := el.node + el.dnode*t

	m := math.Mod(l-peri, 360) * math.Pi / 180
	ea := kepler(m, e)

	// Position in the orbital plane, perihelion along +x.
	xp := a * (math.Cos(ea) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(ea)

	w := peri - node
	cw, sw := cosd(w), sind(w)
	cn, sn := cosd(node), sind(node)
	ci, si := cosd(inc), sind(inc)

	x = (cw*cn-sw*sn*ci)*xp + (-sw*cn-cw*sn*ci)*yp
	y = (cw*sn+sw*cn*ci)*xp + (-sw*sn+cw*cn*ci)*yp
	z = (sw*si)*xp + (cw*si)*yp
	return x, y, z
}

// kepler solves E - e·sin E = M for E by Newton iteration. Angles in radians.
func kepler(m, e float64) float64 {
	ea := m + e*math.Sin(m)
	for range 30 {
		delta := (ea - e*math.Sin(ea) - m) / (1 - e*math.Cos(ea))
		ea -= delta
		if math.Abs(delta) < 1e-12 {
			break
		}
	}
	return ea
}
