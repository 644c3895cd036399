// Package timezone resolves the civil time zone of a birth place and converts
// civil birth times to UTC instants.
//
// [Localize] never guesses: a wall-clock time that falls into a daylight
// saving gap, or that occurs twice during a fall-back overlap, is reported as
// an error with code NONEXISTENT_LOCAL_TIME or AMBIGUOUS_LOCAL_TIME.
package timezone

import (
	"context"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/ringsaturn/tzf"

	"github.com/matzehuels/sidereal/pkg/errors"
)

// Resolver maps geographic coordinates to an IANA zone name. An empty name
// with a nil error means no zone is known for the location.
type Resolver interface {
	ZoneFor(ctx context.Context, lat, lon float64) (string, error)
}

// Fixed always resolves to the same zone.
type Fixed string

// ZoneFor implements Resolver.
func (f Fixed) ZoneFor(context.Context, float64, float64) (string, error) {
	return string(f), nil
}

// UTC resolves every location to no zone, which the engine treats as UTC.
const UTC = Fixed("")

// Finder resolves zones from timezone boundary polygons.
type Finder struct {
	once   sync.Once
	finder tzf.F
	err    error
}

// NewFinder returns a Finder. Boundary data is loaded on first use.
func NewFinder() *Finder {
	return &Finder{}
}

// ZoneFor implements Resolver.
func (f *Finder) ZoneFor(ctx context.Context, lat, lon float64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f.once.Do(func() {
		f.finder, f.err = tzf.NewDefaultFinder()
	})
	if f.err != nil {
		return "", errors.Wrap(errors.ErrCodeTimezone, f.err, "load timezone boundaries")
	}
	return f.finder.GetTimezoneName(lon, lat), nil
}

// Load returns the location for an IANA name; an empty name is UTC.
func Load(name string) (*time.Location, error) {
	if name == "" || name == "UTC" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnknownTimezone, err, "unknown time zone %q", name)
	}
	return loc, nil
}

// Localize interprets the wall-clock fields of civil (its own location is
// ignored) in loc and returns the single matching instant.
func Localize(civil time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	y, mo, d := civil.Date()
	h, mi, s := civil.Clock()
	wall := time.Date(y, mo, d, h, mi, s, civil.Nanosecond(), time.UTC)

	// Offsets in effect half a day either side bracket any transition near
	// the wall time. A candidate is valid only if its offset is the one the
	// zone actually uses at that instant.
	var found []time.Time
	for _, probe := range []time.Time{wall.Add(-12 * time.Hour), wall.Add(12 * time.Hour)} {
		_, off := probe.In(loc).Zone()
		cand := wall.Add(-time.Duration(off) * time.Second)
		if _, got := cand.In(loc).Zone(); got != off {
			continue
		}
		if len(found) == 1 && found[0].Equal(cand) {
			continue
		}
		found = append(found, cand)
	}

	switch len(found) {
	case 0:
		return time.Time{}, errors.New(errors.ErrCodeNonexistentLocalTime,
			"%s does not exist in %s (clocks moved forward)", wall.Format("2006-01-02 15:04:05"), loc)
	case 1:
		return found[0].In(loc), nil
	default:
		return time.Time{}, errors.New(errors.ErrCodeAmbiguousLocalTime,
			"%s occurs twice in %s (clocks moved back)", wall.Format("2006-01-02 15:04:05"), loc)
	}
}
