package zodiac

import "math"

// FullCircle is the number of degrees in the ecliptic.
const FullCircle = 360.0

// Normalize maps any longitude into [0, 360).
//
// Negative inputs wrap forward, so Normalize(-10) == 350. The result is never
// exactly 360: values that round up to it after the modulo are folded to 0.
func Normalize(deg float64) float64 {
	d := math.Mod(deg, FullCircle)
	if d < 0 {
		d += FullCircle
	}
	if d >= FullCircle {
		d = 0
	}
	return d
}

// Distance returns the shortest circular separation between two longitudes.
// The result is symmetric in its arguments and always lies in [0, 180].
func Distance(a, b float64) float64 {
	d := math.Abs(Normalize(a) - Normalize(b))
	if d > 180 {
		d = FullCircle - d
	}
	return d
}

// Forward returns the arc travelled from longitude from to longitude to in the
// direction of increasing longitude, in [0, 360).
func Forward(from, to float64) float64 {
	return Normalize(to - from)
}
