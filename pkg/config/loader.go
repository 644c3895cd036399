package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SIDEREAL_"

// DefaultPath returns the per-user config file location,
// e.g. ~/.config/sidereal/config.toml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "sidereal", "config.toml")
}

// Load builds a Config from the defaults, the TOML file at path, a .env file
// and SIDEREAL_* variables. An empty path uses [DefaultPath] when that file
// exists; an explicit path must exist. The result is not validated.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		switch {
		case err == nil:
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				return nil, fmt.Errorf("config %s: unknown keys %v", path, undecoded)
			}
		case !explicit && errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	// A missing .env file is not an error.
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	setStringSlice(&cfg.Chart.Bodies, "CHART_BODIES")
	setStr(&cfg.Chart.HouseSystem, "CHART_HOUSE_SYSTEM")
	setFloat64(&cfg.Chart.Orb, "CHART_ORB")
	setInt(&cfg.Chart.DashaYears, "CHART_DASHA_YEARS")
	setFloat64Ptr(&cfg.Chart.Ayanamsa, "CHART_AYANAMSA")

	setStr(&cfg.Ephemeris.Mode, "EPHEMERIS_MODE")
	setStr(&cfg.Ephemeris.RemoteURL, "EPHEMERIS_REMOTE_URL")
	setBool(&cfg.Ephemeris.Refresh, "EPHEMERIS_REFRESH")

	setStr(&cfg.Timezone.Zone, "TIMEZONE_ZONE")

	setStr(&cfg.Cache.Backend, "CACHE_BACKEND")
	setStr(&cfg.Cache.Dir, "CACHE_DIR")
	setDuration(&cfg.Cache.TTL, "CACHE_TTL")

	setStr(&cfg.Redis.Addr, "REDIS_ADDR")
	setStr(&cfg.Redis.Password, "REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "REDIS_POOL_SIZE")
	setStr(&cfg.Redis.Prefix, "REDIS_PREFIX")

	setStr(&cfg.Mongo.URI, "MONGO_URI")
	setStr(&cfg.Mongo.Database, "MONGO_DATABASE")
	setStr(&cfg.Mongo.Collection, "MONGO_COLLECTION")

	setStr(&cfg.Server.Addr, "SERVER_ADDR")
	setDuration(&cfg.Server.ReadTimeout, "SERVER_READ_TIMEOUT")
	setDuration(&cfg.Server.WriteTimeout, "SERVER_WRITE_TIMEOUT")
	setBool(&cfg.Server.Metrics, "SERVER_METRICS")

	setStr(&cfg.LogLevel, "LOG_LEVEL")
}

// Each helper only touches dst when SIDEREAL_<key> is set and parses.

func setStr(dst *string, key string) {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setFloat64Ptr(dst **float64, key string) {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = &f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
