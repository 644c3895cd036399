package ephemeris

import (
	"math"
	"time"
)

const (
	// J2000 is the Julian day of 2000-01-01 12:00 UT.
	J2000 = 2451545.0

	// unixEpochJD is the Julian day of 1970-01-01 00:00 UT.
	unixEpochJD = 2440587.5

	secondsPerDay = 86400.0
)

// JulianDay converts an instant to a Julian day number in Universal Time.
func JulianDay(t time.Time) float64 {
	t = t.UTC()
	secs := float64(t.Unix()) + float64(t.Nanosecond())/1e9
	return unixEpochJD + secs/secondsPerDay
}

// TimeOf converts a Julian day back to a UTC instant, rounded to the
// nearest millisecond.
func TimeOf(jd float64) time.Time {
	ms := math.Round((jd - unixEpochJD) * secondsPerDay * 1000)
	return time.UnixMilli(int64(ms)).UTC()
}

// Centuries returns Julian centuries elapsed since J2000.
func Centuries(jd float64) float64 {
	return (jd - J2000) / 36525.0
}
