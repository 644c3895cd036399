package pipeline

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/sidereal/pkg/cache"
	"github.com/matzehuels/sidereal/pkg/chart"
	"github.com/matzehuels/sidereal/pkg/observability"
)

// Runner executes the chart pipeline with caching.
//
// The Runner holds no per-run state, so one Runner can serve concurrent
// Execute calls with different options.
type Runner struct {
	Engine *chart.Engine
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses cache.DefaultKeyer and a nil logger uses log.Default().
func NewRunner(engine *chart.Engine, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Engine: engine,
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute computes a complete chart, or returns the cached one.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	start := time.Now()
	result := &Result{RunID: uuid.NewString()}
	logger := r.Logger.With("run", result.RunID[:8])

	engine := r.engineFor(opts)
	result.CacheInfo.Key = r.Keyer.ChartKey(opts.ChartKeyOpts(engine.Provider.Name(), engine.ResolutionSet()))

	if !opts.Refresh {
		var cached chart.Chart
		switch err := cache.GetJSON(ctx, r.Cache, result.CacheInfo.Key, &cached); {
		case err == nil:
			observability.Cache().OnCacheHit(ctx, cache.KeyTypeChart)
			result.Chart = &cached
			result.CacheInfo.ChartHit = true
			result.Stats = countStats(&cached)
			result.Stats.TotalTime = time.Since(start)
			logger.Debug("chart cache hit", "key", result.CacheInfo.Key)
			return result, nil
		case stderrors.Is(err, cache.ErrCacheMiss):
			observability.Cache().OnCacheMiss(ctx, cache.KeyTypeChart)
		default:
			logger.Warn("chart cache read failed", "error", err)
		}
	}

	c, err := r.compute(ctx, engine, opts, &result.Stats)
	result.Stats.TotalTime = time.Since(start)
	if err != nil {
		observability.Pipeline().OnChartComplete(ctx, 0, 0, result.Stats.TotalTime, err)
		return nil, err
	}
	result.Chart = c
	stats := countStats(c)
	result.Stats.BodyCount, result.Stats.AspectCount, result.Stats.PeriodCount = stats.BodyCount, stats.AspectCount, stats.PeriodCount
	observability.Pipeline().OnChartComplete(ctx, stats.BodyCount, stats.AspectCount, result.Stats.TotalTime, nil)

	if size, err := cache.SetJSON(ctx, r.Cache, result.CacheInfo.Key, c, cache.TTLChart); err != nil {
		logger.Warn("chart cache write failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, cache.KeyTypeChart, size)
	}

	logger.Info("computed chart",
		"bodies", stats.BodyCount,
		"aspects", stats.AspectCount,
		"periods", stats.PeriodCount,
		"duration", result.Stats.TotalTime)
	return result, nil
}

func (r *Runner) compute(ctx context.Context, engine *chart.Engine, opts Options, stats *Stats) (*chart.Chart, error) {
	birth := opts.Birth()

	var positions *chart.Positions
	err := stage(ctx, StagePositions, &stats.PositionsTime, func() error {
		var err error
		positions, err = engine.Positions(ctx, birth, opts.Ayanamsa)
		return err
	})
	if err != nil {
		return nil, err
	}

	var (
		houses  *chart.Houses
		aspects []chart.Aspect
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return stage(gctx, StageHouses, &stats.HousesTime, func() error {
			var err error
			houses, err = engine.HousesAt(gctx, positions.Moment, positions.Ayanamsa, birth.Latitude, birth.Longitude, opts.HouseSystem)
			return err
		})
	})
	g.Go(func() error {
		return stage(gctx, StageAspects, &stats.AspectsTime, func() error {
			aspects = chart.DetectAspects(positions.Bodies, opts.Orb)
			return nil
		})
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var dashas *chart.Dashas
	err = stage(ctx, StageDashas, &stats.DashasTime, func() error {
		var err error
		dashas, err = chart.DashasFor(positions, opts.DashaYears)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &chart.Chart{
		Birth:      birth,
		Moment:     positions.Moment,
		Ayanamsa:   positions.Ayanamsa,
		Positions:  positions.Bodies,
		Houses:     houses,
		Aspects:    aspects,
		Dashas:     dashas,
		Placements: chart.Placements(positions, houses),
	}, nil
}

// stage times fn and reports it to the pipeline hooks.
func stage(ctx context.Context, name string, elapsed *time.Duration, fn func() error) error {
	observability.Pipeline().OnStageStart(ctx, name)
	start := time.Now()
	err := fn()
	*elapsed = time.Since(start)
	observability.Pipeline().OnStageComplete(ctx, name, *elapsed, err)
	return err
}

// engineFor returns the runner's engine, or a copy restricted to the
// requested bodies.
func (r *Runner) engineFor(opts Options) *chart.Engine {
	if len(opts.bodies) == 0 {
		return r.Engine
	}
	e := *r.Engine
	e.Bodies = opts.bodies
	return &e
}

func countStats(c *chart.Chart) Stats {
	s := Stats{
		BodyCount:   len(c.Positions),
		AspectCount: len(c.Aspects),
	}
	if c.Dashas != nil {
		s.PeriodCount = len(c.Dashas.Periods)
	}
	return s
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
