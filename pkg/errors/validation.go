package errors

import (
	"math"
	"strings"
	"time"
	"unicode"
)

// Layouts accepted for birth dates and civil clock times.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, New(ErrCodeInvalidDate, "birth date cannot be empty")
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, Wrap(ErrCodeInvalidDate, err, "birth date %q must be YYYY-MM-DD", s)
	}
	return d, nil
}

// ParseClock parses a civil clock time given as HH:MM or HH:MM:SS and returns
// the offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, New(ErrCodeInvalidTime, "birth time cannot be empty")
	}

	layout := TimeLayout
	if strings.Count(s, ":") == 1 {
		layout = "15:04"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, Wrap(ErrCodeInvalidTime, err, "birth time %q must be HH:MM or HH:MM:SS", s)
	}
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second, nil
}

// ValidateLatitude rejects non-finite latitudes and values outside [-90, 90].
func ValidateLatitude(lat float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || lat < -90 || lat > 90 {
		return New(ErrCodeInvalidLatitude, "latitude %v must be within [-90, 90]", lat)
	}
	return nil
}

// ValidateLongitude rejects non-finite longitudes and values outside [-180, 180].
func ValidateLongitude(lon float64) error {
	if math.IsNaN(lon) || math.IsInf(lon, 0) || lon < -180 || lon > 180 {
		return New(ErrCodeInvalidLongitude, "longitude %v must be within [-180, 180]", lon)
	}
	return nil
}

// ValidateHouseSystem checks that a house-system code is a single printable
// ASCII letter. Whether the provider supports the letter is not checked here.
func ValidateHouseSystem(code string) error {
	if len(code) != 1 {
		return New(ErrCodeInvalidHouseSystem, "house system %q must be a single letter", code)
	}
	r := rune(code[0])
	if r > unicode.MaxASCII || !unicode.IsLetter(r) {
		return New(ErrCodeInvalidHouseSystem, "house system %q must be a single letter", code)
	}
	return nil
}
