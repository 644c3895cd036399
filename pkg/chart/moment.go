package chart

import (
	"context"
	"time"

	"github.com/matzehuels/sidereal/pkg/ephemeris"
	"github.com/matzehuels/sidereal/pkg/errors"
	"github.com/matzehuels/sidereal/pkg/timezone"
)

// Birth is the civil description of a birth event.
type Birth struct {
	Date      string  `json:"date"`      // YYYY-MM-DD
	Time      string  `json:"time"`      // HH:MM or HH:MM:SS, local civil time
	Latitude  float64 `json:"latitude"`  // degrees north
	Longitude float64 `json:"longitude"` // degrees east
}

// Validate checks every field without consulting any collaborator.
func (b Birth) Validate() error {
	if _, err := errors.ParseDate(b.Date); err != nil {
		return err
	}
	if _, err := errors.ParseClock(b.Time); err != nil {
		return err
	}
	if err := errors.ValidateLatitude(b.Latitude); err != nil {
		return err
	}
	return errors.ValidateLongitude(b.Longitude)
}

// civil returns the wall-clock date and time as a zone-less value.
func (b Birth) civil() (time.Time, error) {
	d, err := errors.ParseDate(b.Date)
	if err != nil {
		return time.Time{}, err
	}
	clock, err := errors.ParseClock(b.Time)
	if err != nil {
		return time.Time{}, err
	}
	return d.Add(clock), nil
}

// Moment is a birth event resolved to a single astronomical instant.
type Moment struct {
	Zone  string    `json:"zone"`       // IANA name, "UTC" when none was found
	Local time.Time `json:"local"`      // civil time in Zone
	UTC   time.Time `json:"utc"`        // same instant in UTC
	JD    float64   `json:"julian_day"` // Julian day (UT)
}

// Moment resolves the birth place's zone, localizes the civil time and
// converts it to a Julian day. DST gaps and overlaps are rejected.
func (e *Engine) Moment(ctx context.Context, b Birth) (Moment, error) {
	if err := b.Validate(); err != nil {
		return Moment{}, err
	}
	civil, err := b.civil()
	if err != nil {
		return Moment{}, err
	}

	resolver := e.Resolver
	if resolver == nil {
		resolver = timezone.UTC
	}
	zone, err := resolver.ZoneFor(ctx, b.Latitude, b.Longitude)
	if err != nil {
		if errors.GetCode(err) != "" {
			return Moment{}, err
		}
		return Moment{}, errors.Wrap(errors.ErrCodeTimezone, err, "resolve zone for (%.4f, %.4f)", b.Latitude, b.Longitude)
	}
	if zone == "" {
		zone = "UTC"
	}

	loc, err := timezone.Load(zone)
	if err != nil {
		return Moment{}, err
	}
	local, err := timezone.Localize(civil, loc)
	if err != nil {
		return Moment{}, err
	}

	m := Moment{
		Zone:  zone,
		Local: local,
		UTC:   local.UTC(),
		JD:    ephemeris.JulianDay(local),
	}
	e.logger().Debug("resolved birth moment", "zone", m.Zone, "utc", m.UTC.Format(time.RFC3339), "jd", m.JD)
	return m, nil
}
