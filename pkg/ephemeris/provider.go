// Package ephemeris defines the contract between the chart engine and the
// source of raw astronomical positions.
//
// A [Provider] answers three questions for an astronomical time expressed as
// a Julian day in Universal Time: where is a body, what is the ayanamsa, and
// where are the house cusps for a location. The engine never computes orbital
// mechanics itself.
//
// Implementations:
//   - [Fixed]: deterministic table of values for tests and demos
//   - analytic: built-in low-precision theory, no external data
//   - table: daily positions stored in MongoDB, interpolated
//   - remote: HTTP client for a sidereal ephemeris server
package ephemeris

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by providers.
var (
	ErrUnsupportedBody        = errors.New("ephemeris: unsupported body")
	ErrUnsupportedHouseSystem = errors.New("ephemeris: unsupported house system")
	ErrOutOfRange             = errors.New("ephemeris: time out of range")
)

// Coordinates is a geocentric ecliptic position.
type Coordinates struct {
	Longitude float64 `json:"longitude"` // degrees
	Latitude  float64 `json:"latitude"`  // degrees
	Speed     float64 `json:"speed"`     // degrees per day, signed
}

// HouseData is the raw output of a house-division query. Cusps are tropical
// longitudes for houses 1 through 12 in the order the system defines them.
type HouseData struct {
	Cusps     [12]float64 `json:"cusps"`
	Ascendant float64     `json:"ascendant"`
	MC        float64     `json:"mc"`
	ARMC      float64     `json:"armc"`
}

// Provider defines the interface for ephemeris data sources.
// Implementations must be safe for concurrent use.
type Provider interface {
	// Name returns the provider name for display and logging.
	Name() string

	// Position returns the position of body at jd. Planets are returned
	// tropical. When sidereal is true the provider applies its own standard
	// ayanamsa before returning; the engine does this only for the nodes.
	Position(ctx context.Context, jd float64, body Body, sidereal bool) (Coordinates, error)

	// Ayanamsa returns the Lahiri ayanamsa at jd in degrees.
	Ayanamsa(ctx context.Context, jd float64) (float64, error)

	// HouseCusps returns tropical house cusps for a location. The system code
	// is a single letter; unknown letters yield ErrUnsupportedHouseSystem.
	HouseCusps(ctx context.Context, jd, lat, lon float64, system string) (HouseData, error)
}

// Mode selects which ephemeris backend the CLI and server construct.
type Mode int

const (
	ModeAnalytic Mode = iota // built-in theory (default)
	ModeTable                // MongoDB daily table
	ModeRemote               // HTTP ephemeris server
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeAnalytic:
		return "analytic"
	case ModeTable:
		return "table"
	case ModeRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode string.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "analytic":
		return ModeAnalytic, nil
	case "table", "mongo":
		return ModeTable, nil
	case "remote", "http":
		return ModeRemote, nil
	default:
		return 0, fmt.Errorf("unknown ephemeris mode %q (want analytic, table or remote)", s)
	}
}
