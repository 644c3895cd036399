// Package chart derives Vedic sidereal chart data from a birth event.
//
// The [Engine] turns {date, time, latitude, longitude} into an astronomical
// moment, queries an [ephemeris.Provider] for raw positions and house cusps,
// and applies the sidereal correction. On top of those results the package
// detects aspects ([DetectAspects]) and lays out the Vimshottari dasha
// timeline ([Vimshottari]).
//
// The engine holds no per-chart state. The ayanamsa used for a chart is
// returned alongside the positions and passed explicitly to later steps, so
// houses and aspects can be computed concurrently once positions exist.
package chart

import (
	"context"
	stderrors "errors"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sidereal/pkg/ephemeris"
	"github.com/matzehuels/sidereal/pkg/errors"
	"github.com/matzehuels/sidereal/pkg/observability"
	"github.com/matzehuels/sidereal/pkg/timezone"
)

// Engine computes chart components using injected collaborators.
// An Engine is safe for concurrent use if its provider and resolver are.
type Engine struct {
	Provider ephemeris.Provider
	Resolver timezone.Resolver

	// Bodies is the resolution set; nil means ephemeris.DefaultBodies.
	Bodies []ephemeris.Body

	Logger *log.Logger
}

// NewEngine creates an engine. A nil resolver places every birth in UTC and
// a nil logger falls back to log.Default().
func NewEngine(p ephemeris.Provider, r timezone.Resolver, logger *log.Logger) *Engine {
	if r == nil {
		r = timezone.UTC
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{Provider: p, Resolver: r, Logger: logger}
}

func (e *Engine) logger() *log.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return log.Default()
}

// ResolutionSet returns the bodies the engine resolves, in resolution order.
func (e *Engine) ResolutionSet() []ephemeris.Body {
	if len(e.Bodies) > 0 {
		return e.Bodies
	}
	return ephemeris.DefaultBodies
}

// Ayanamsa returns override when set, otherwise the provider's Lahiri value
// at the moment.
func (e *Engine) Ayanamsa(ctx context.Context, m Moment, override *float64) (float64, error) {
	if override != nil {
		v := *override
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 60 {
			return 0, errors.New(errors.ErrCodeInvalidAyanamsa, "ayanamsa %v must be within [0, 60]", v)
		}
		return v, nil
	}

	start := time.Now()
	v, err := e.Provider.Ayanamsa(ctx, m.JD)
	observability.Provider().OnQuery(ctx, e.Provider.Name(), "ayanamsa", time.Since(start), err)
	if err != nil {
		return 0, ProviderError(err, "ayanamsa at jd %.5f", m.JD)
	}
	return v, nil
}

func (e *Engine) position(ctx context.Context, jd float64, b ephemeris.Body, sidereal bool) (ephemeris.Coordinates, error) {
	start := time.Now()
	c, err := e.Provider.Position(ctx, jd, b, sidereal)
	observability.Provider().OnQuery(ctx, e.Provider.Name(), "position", time.Since(start), err)
	if err != nil {
		return ephemeris.Coordinates{}, ProviderError(err, "position of %s", b)
	}
	return c, nil
}

// ProviderError classifies a provider failure under a pkg/errors code.
// Cancellation is returned unchanged.
func ProviderError(err error, format string, args ...any) error {
	if stderrors.Is(err, context.Canceled) {
		return err
	}
	code := errors.ErrCodeProvider
	switch {
	case stderrors.Is(err, ephemeris.ErrUnsupportedHouseSystem):
		code = errors.ErrCodeUnsupportedHouseSystem
	case stderrors.Is(err, ephemeris.ErrUnsupportedBody):
		code = errors.ErrCodeUnsupportedBody
	case stderrors.Is(err, ephemeris.ErrOutOfRange):
		code = errors.ErrCodeOutOfRange
	case stderrors.Is(err, context.DeadlineExceeded):
		code = errors.ErrCodeTimeout
	}
	return errors.Wrap(code, err, format, args...)
}
