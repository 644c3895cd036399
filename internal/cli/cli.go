// Package cli implements the sidereal command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sidereal/pkg/cache"
	"github.com/matzehuels/sidereal/pkg/chart"
	"github.com/matzehuels/sidereal/pkg/config"
	"github.com/matzehuels/sidereal/pkg/ephemeris"
	"github.com/matzehuels/sidereal/pkg/ephemeris/analytic"
	"github.com/matzehuels/sidereal/pkg/ephemeris/remote"
	"github.com/matzehuels/sidereal/pkg/ephemeris/table"
	"github.com/matzehuels/sidereal/pkg/httputil"
	"github.com/matzehuels/sidereal/pkg/pipeline"
	"github.com/matzehuels/sidereal/pkg/timezone"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "sidereal"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any command runs.
	Config *config.Config

	// Provider, when set, replaces the provider the config selects.
	Provider ephemeris.Provider

	// Resolver, when set, replaces the zone resolver the config selects.
	Resolver timezone.Resolver

	configPath string
	out        io.Writer
}

// New creates a new CLI instance with a default logger writing to w.
func New(w io.Writer, level log.Level) *CLI {
	cfg := config.Defaults()
	return &CLI{
		Logger: newLogger(w, level),
		Config: &cfg,
		out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command output, which defaults to stdout.
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// loadConfig reads the config file and applies its log level unless
// verbose logging was requested.
func (c *CLI) loadConfig(verbose bool) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.Config = cfg
	if !verbose {
		if level, err := log.ParseLevel(strings.ToLower(cfg.LogLevel)); err == nil {
			c.SetLogLevel(level)
		}
	}
	return nil
}

// =============================================================================
// Collaborator Factories
// =============================================================================

// newProvider builds the configured ephemeris provider. The returned close
// function releases its connections and is never nil.
func (c *CLI) newProvider(ctx context.Context) (ephemeris.Provider, func(), error) {
	if c.Provider != nil {
		return c.Provider, func() {}, nil
	}
	mode, err := c.Config.Mode()
	if err != nil {
		return nil, nil, err
	}

	switch mode {
	case ephemeris.ModeTable:
		store, err := table.Connect(ctx, table.MongoOptions{
			URI:        c.Config.Mongo.URI,
			Database:   c.Config.Mongo.Database,
			Collection: c.Config.Mongo.Collection,
		})
		if err != nil {
			return nil, nil, err
		}
		c.Logger.Debug("using ephemeris table", "database", c.Config.Mongo.Database, "collection", c.Config.Mongo.Collection)
		return table.New(store, analytic.New()), func() { _ = store.Close(context.Background()) }, nil

	case ephemeris.ModeRemote:
		var hc *httputil.Cache
		if c.Config.Cache.Backend != "none" {
			if hc, err = httputil.NewCache("", c.Config.CacheTTL()); err != nil {
				c.Logger.Warn("http cache disabled", "error", err)
			}
		}
		p, err := remote.New(c.Config.Ephemeris.RemoteURL, hc)
		if err != nil {
			return nil, nil, err
		}
		p.Refresh = c.Config.Ephemeris.Refresh
		c.Logger.Debug("using remote ephemeris", "url", c.Config.Ephemeris.RemoteURL)
		return p, func() {}, nil

	default:
		return analytic.New(), func() {}, nil
	}
}

func (c *CLI) newResolver() timezone.Resolver {
	if c.Resolver != nil {
		return c.Resolver
	}
	if zone := c.Config.Timezone.Zone; zone != "" {
		return timezone.Fixed(zone)
	}
	return timezone.NewFinder()
}

// newEngine builds a chart engine over the configured collaborators.
func (c *CLI) newEngine(ctx context.Context) (*chart.Engine, func(), error) {
	p, closeProvider, err := c.newProvider(ctx)
	if err != nil {
		return nil, nil, err
	}
	bodies, err := c.Config.Bodies()
	if err != nil {
		closeProvider()
		return nil, nil, err
	}
	e := chart.NewEngine(p, c.newResolver(), c.Logger)
	e.Bodies = bodies
	return e, closeProvider, nil
}

// newCache builds the configured chart cache.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     c.Config.Redis.Addr,
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
			PoolSize: c.Config.Redis.PoolSize,
			Prefix:   c.Config.Redis.Prefix,
		})
	default:
		dir, err := c.cacheDir()
		if err != nil {
			c.Logger.Warn("chart cache disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// cacheDir returns the file cache directory, ~/.cache/sidereal by default.
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

// newRunner creates a pipeline runner for CLI use. The returned close
// function releases the cache and provider.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, func(), error) {
	engine, closeProvider, err := c.newEngine(ctx)
	if err != nil {
		return nil, nil, err
	}
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		closeProvider()
		return nil, nil, fmt.Errorf("open cache: %w", err)
	}
	r := pipeline.NewRunner(engine, store, nil, c.Logger)
	return r, func() {
		_ = r.Close()
		closeProvider()
	}, nil
}
