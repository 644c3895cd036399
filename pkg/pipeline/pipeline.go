// Package pipeline runs the complete chart computation for the CLI and any
// other entry point.
//
// A run resolves positions first, then computes houses and aspects
// concurrently, then lays out the dasha timeline from the already resolved
// Moon and finally assigns every body to a house. Any failing stage fails the
// whole run; there are no partial charts.
//
// # Usage
//
//	engine := chart.NewEngine(provider, timezone.NewFinder(), logger)
//	runner := pipeline.NewRunner(engine, cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    BirthDate: "1990-06-15",
//	    BirthTime: "12:00",
//	    Latitude:  19.076,
//	    Longitude: 72.8777,
//	})
//
// Completed charts are cached under a key derived from every option that
// influences the result, together with the provider name.
package pipeline

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/sidereal/pkg/cache"
	"github.com/matzehuels/sidereal/pkg/chart"
	"github.com/matzehuels/sidereal/pkg/ephemeris"
	sderrors "github.com/matzehuels/sidereal/pkg/errors"
)

// Stage names reported to pipeline hooks.
const (
	StagePositions = "positions"
	StageHouses    = "houses"
	StageAspects   = "aspects"
	StageDashas    = "dashas"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options describes one chart request. Zero values of the optional fields
// take the defaults in their `default` tags.
type Options struct {
	BirthDate   string   `json:"birth_date" validate:"required"`
	BirthTime   string   `json:"birth_time" validate:"required"`
	Latitude    float64  `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude   float64  `json:"longitude" validate:"gte=-180,lte=180"`
	Ayanamsa    *float64 `json:"ayanamsa,omitempty" validate:"omitempty,gte=0,lte=60"`
	HouseSystem string   `json:"house_system,omitempty" default:"P" validate:"len=1,alpha"`
	Orb         float64  `json:"orb,omitempty" default:"3" validate:"gt=0,lte=15"`
	DashaYears  int      `json:"dasha_years,omitempty" default:"100" validate:"gte=1,lte=240"`

	// Bodies overrides the engine's body set. The Moon is required because
	// the dasha timeline starts from it.
	Bodies []string `json:"bodies,omitempty"`

	// Refresh recomputes the chart even if it is cached.
	Refresh bool `json:"refresh,omitempty"`

	bodies    []ephemeris.Body
	validated bool
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldCodes maps option fields to the error code reported when they fail.
var fieldCodes = map[string]sderrors.Code{
	"birth_date":   sderrors.ErrCodeInvalidDate,
	"birth_time":   sderrors.ErrCodeInvalidTime,
	"latitude":     sderrors.ErrCodeInvalidLatitude,
	"longitude":    sderrors.ErrCodeInvalidLongitude,
	"ayanamsa":     sderrors.ErrCodeInvalidAyanamsa,
	"house_system": sderrors.ErrCodeInvalidHouseSystem,
	"orb":          sderrors.ErrCodeInvalidOrb,
	"dasha_years":  sderrors.ErrCodeInvalidHorizon,
}

// ValidateAndSetDefaults applies defaults and checks every field. Failures
// carry the INVALID_* code of the first offending field. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := defaults.Set(o); err != nil {
		return sderrors.Wrap(sderrors.ErrCodeInvalidInput, err, "apply defaults")
	}
	if err := validate.Struct(o); err != nil {
		return validationError(err)
	}
	if err := o.Birth().Validate(); err != nil {
		return err
	}

	if len(o.Bodies) > 0 {
		bodies, err := ephemeris.ParseBodies(o.Bodies)
		if err != nil {
			return sderrors.Wrap(sderrors.ErrCodeInvalidBody, err, "bodies")
		}
		if !containsBody(bodies, ephemeris.Moon) {
			return sderrors.New(sderrors.ErrCodeInvalidBody, "bodies must include the moon for the dasha timeline")
		}
		o.bodies = bodies
	}

	o.validated = true
	return nil
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return sderrors.Wrap(sderrors.ErrCodeInvalidInput, err, "invalid options")
	}
	fe := fieldErrs[0]
	code, ok := fieldCodes[fe.Field()]
	if !ok {
		code = sderrors.ErrCodeInvalidInput
	}
	return sderrors.New(code, "%s", fieldMessage(fe))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "len":
		return fmt.Sprintf("%s must be exactly %s character", field, fe.Param())
	case "alpha":
		return fmt.Sprintf("%s must be a letter", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}

func containsBody(bodies []ephemeris.Body, b ephemeris.Body) bool {
	for _, x := range bodies {
		if x == b {
			return true
		}
	}
	return false
}

// Birth returns the birth event described by the options.
func (o *Options) Birth() chart.Birth {
	return chart.Birth{
		Date:      o.BirthDate,
		Time:      o.BirthTime,
		Latitude:  o.Latitude,
		Longitude: o.Longitude,
	}
}

// ChartKeyOpts returns the cache key inputs for a chart from provider.
func (o *Options) ChartKeyOpts(provider string, bodies []ephemeris.Body) cache.ChartKeyOpts {
	names := make([]string, len(bodies))
	for i, b := range bodies {
		names[i] = b.String()
	}
	return cache.ChartKeyOpts{
		Provider:    provider,
		Date:        o.BirthDate,
		Time:        o.BirthTime,
		Latitude:    o.Latitude,
		Longitude:   o.Longitude,
		Ayanamsa:    o.Ayanamsa,
		HouseSystem: o.HouseSystem,
		Orb:         o.Orb,
		DashaYears:  o.DashaYears,
		Bodies:      names,
	}
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs.
	RunID string

	Chart     *chart.Chart
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains timing and size information. Stage timings are zero when
// the chart came from the cache.
type Stats struct {
	BodyCount     int
	AspectCount   int
	PeriodCount   int
	PositionsTime time.Duration
	HousesTime    time.Duration
	AspectsTime   time.Duration
	DashasTime    time.Duration
	TotalTime     time.Duration
}

// CacheInfo tracks whether the chart came from the cache.
type CacheInfo struct {
	Key      string
	ChartHit bool
}
