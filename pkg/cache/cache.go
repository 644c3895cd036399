// Package cache stores computed charts and provider responses.
//
// [Cache] is a byte-oriented key/value store with per-entry TTL. Three
// implementations are provided: [FileCache] for the CLI, [RedisCache] for
// shared deployments, and [NullCache] when caching is disabled.
//
// Keys are produced by a [Keyer] so that every caller derives identical keys
// for identical inputs. [ScopedKeyer] prefixes keys to separate tenants or
// environments sharing one backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte cache with per-entry expiration.
type Cache interface {
	// Get returns the stored bytes and whether the key was present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// Default TTLs per entry type. Charts are a pure function of their inputs and
// the provider, so they live long; HTTP responses follow the remote provider.
const (
	TTLChart = 30 * 24 * time.Hour
	TTLHTTP  = 7 * 24 * time.Hour
)

// Key types reported to cache hooks.
const (
	KeyTypeChart = "chart"
	KeyTypeHTTP  = "http"
)

// Keyer derives cache keys.
type Keyer interface {
	// HTTPKey returns the key for a cached HTTP response.
	HTTPKey(namespace, key string) string

	// ChartKey returns the key for a computed chart.
	ChartKey(opts ChartKeyOpts) string
}

// ChartKeyOpts holds every input that influences a computed chart.
type ChartKeyOpts struct {
	Provider    string   `json:"provider"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Ayanamsa    *float64 `json:"ayanamsa,omitempty"`
	HouseSystem string   `json:"house_system"`
	Orb         float64  `json:"orb"`
	DashaYears  int      `json:"dasha_years"`
	Bodies      []string `json:"bodies"`
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey implements Keyer.
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// ChartKey implements Keyer.
func (DefaultKeyer) ChartKey(opts ChartKeyOpts) string {
	return hashKey("chart", opts)
}
