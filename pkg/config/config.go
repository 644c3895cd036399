// Package config holds the settings shared by the sidereal CLI and server.
//
// Settings are layered: built-in [Defaults], then a TOML file, then a .env
// file in the working directory, then SIDEREAL_* environment variables.
// Call [Config.Validate] after [Load].
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/sidereal/pkg/chart"
	"github.com/matzehuels/sidereal/pkg/ephemeris"
	"github.com/matzehuels/sidereal/pkg/errors"
)

// Config is the root configuration.
type Config struct {
	Chart     ChartConfig     `toml:"chart"`
	Ephemeris EphemerisConfig `toml:"ephemeris"`
	Timezone  TimezoneConfig  `toml:"timezone"`
	Cache     CacheConfig     `toml:"cache"`
	Redis     RedisConfig     `toml:"redis"`
	Mongo     MongoConfig     `toml:"mongo"`
	Server    ServerConfig    `toml:"server"`
	LogLevel  string          `toml:"log_level"`
}

// ChartConfig sets chart defaults that command-line flags can override.
type ChartConfig struct {
	// Bodies lists body names in any order; empty means the eleven
	// default bodies. Add "pluto" to include Pluto.
	Bodies      []string `toml:"bodies"`
	HouseSystem string   `toml:"house_system"`
	Orb         float64  `toml:"orb"`
	DashaYears  int      `toml:"dasha_years"`
	Ayanamsa    *float64 `toml:"ayanamsa"`
}

// EphemerisConfig selects the provider.
type EphemerisConfig struct {
	Mode      string `toml:"mode"` // analytic, table or remote
	RemoteURL string `toml:"remote_url"`
	Refresh   bool   `toml:"refresh"`
}

// TimezoneConfig controls zone resolution. An empty Zone looks the zone up
// from the birth coordinates; any other value is used for every chart.
type TimezoneConfig struct {
	Zone string `toml:"zone"`
}

// CacheConfig selects where computed charts and HTTP responses are kept.
type CacheConfig struct {
	Backend string   `toml:"backend"` // file, redis or none
	Dir     string   `toml:"dir"`     // file backend; empty means the user cache dir
	TTL     duration `toml:"ttl"`
}

// RedisConfig holds Redis connection parameters for the redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	PoolSize int    `toml:"pool_size"`
	Prefix   string `toml:"prefix"`
}

// MongoConfig locates the ephemeris table.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ServerConfig holds ephemeris server parameters.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  duration `toml:"read_timeout"`
	WriteTimeout duration `toml:"write_timeout"`
	Metrics      bool     `toml:"metrics"`
}

// duration decodes TOML strings such as "30s" or "720h".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Chart: ChartConfig{
			HouseSystem: chart.DefaultHouseSystem,
			Orb:         chart.DefaultOrb,
			DashaYears:  chart.DefaultDashaYears,
		},
		Ephemeris: EphemerisConfig{Mode: "analytic"},
		Cache: CacheConfig{
			Backend: "file",
			TTL:     duration{30 * 24 * time.Hour},
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			PoolSize: 10,
			Prefix:   "sidereal:",
		},
		Mongo: MongoConfig{
			URI:        "mongodb://localhost:27017",
			Database:   "sidereal",
			Collection: "ephemeris",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  duration{10 * time.Second},
			WriteTimeout: duration{30 * time.Second},
			Metrics:      true,
		},
		LogLevel: "info",
	}
}

var (
	validCacheBackends = map[string]bool{"file": true, "redis": true, "none": true}
	validLogLevels     = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
)

// Validate reports every invalid setting at once. The error carries the
// CONFIG_ERROR code.
func (c *Config) Validate() error {
	var errs []string

	if _, err := c.Bodies(); err != nil {
		errs = append(errs, fmt.Sprintf("chart.bodies: %v", err))
	}
	if err := errors.ValidateHouseSystem(c.Chart.HouseSystem); err != nil {
		errs = append(errs, "chart.house_system: "+errors.UserMessage(err))
	}
	if c.Chart.Orb <= 0 || c.Chart.Orb > 15 {
		errs = append(errs, fmt.Sprintf("chart.orb %v must be within (0, 15]", c.Chart.Orb))
	}
	if c.Chart.DashaYears < 1 || c.Chart.DashaYears > 240 {
		errs = append(errs, fmt.Sprintf("chart.dasha_years %d must be within [1, 240]", c.Chart.DashaYears))
	}
	if a := c.Chart.Ayanamsa; a != nil && (*a < 0 || *a > 60) {
		errs = append(errs, fmt.Sprintf("chart.ayanamsa %v must be within [0, 60]", *a))
	}

	mode, err := c.Mode()
	if err != nil {
		errs = append(errs, "ephemeris.mode: "+err.Error())
	}
	if mode == ephemeris.ModeRemote && c.Ephemeris.RemoteURL == "" {
		errs = append(errs, "ephemeris.remote_url is required in remote mode")
	}
	if mode == ephemeris.ModeTable && (c.Mongo.URI == "" || c.Mongo.Database == "" || c.Mongo.Collection == "") {
		errs = append(errs, "mongo.uri, mongo.database and mongo.collection are required in table mode")
	}

	backend := strings.ToLower(c.Cache.Backend)
	if !validCacheBackends[backend] {
		errs = append(errs, fmt.Sprintf("unknown cache.backend %q (valid: file, redis, none)", c.Cache.Backend))
	}
	if backend == "redis" && c.Redis.Addr == "" {
		errs = append(errs, "redis.addr is required for the redis cache backend")
	}
	if c.Cache.TTL.Duration < 0 {
		errs = append(errs, "cache.ttl must not be negative")
	}

	if c.Server.Addr == "" {
		errs = append(errs, "server.addr is required")
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if len(errs) > 0 {
		return errors.New(errors.ErrCodeConfig, "invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Bodies returns the configured resolution set.
func (c *Config) Bodies() ([]ephemeris.Body, error) {
	if len(c.Chart.Bodies) == 0 {
		return ephemeris.DefaultBodies, nil
	}
	return ephemeris.ParseBodies(c.Chart.Bodies)
}

// Mode returns the configured ephemeris mode.
func (c *Config) Mode() (ephemeris.Mode, error) {
	return ephemeris.ParseMode(c.Ephemeris.Mode)
}

// CacheTTL returns the cache entry lifetime.
func (c *Config) CacheTTL() time.Duration {
	return c.Cache.TTL.Duration
}
