// Package pkg provides the core libraries for Sidereal birth charts.
//
// # Overview
//
// Sidereal turns a civil birth description (date, local time, latitude and
// longitude) into a Vedic chart: sidereal planetary positions with their
// signs, nakshatras and navamsas, house cusps, aspects, and the Vimshottari
// dasha timeline. The pkg directory is organized into these areas:
//
//  1. [zodiac] - Pure angle arithmetic: signs, nakshatras, navamsas
//  2. [ephemeris] - The provider interface and its implementations
//  3. [timezone] - Zone lookup from coordinates and DST-aware localization
//  4. [chart] - The engine deriving every chart component
//  5. [pipeline] - Validated, cached, observable chart computation
//  6. [io] - JSON chart documents for export and import
//  7. [server] - HTTP access to an ephemeris provider
//
// # Architecture
//
// The typical data flow through Sidereal:
//
//	Birth (date, time, place)
//	         ↓
//	    [timezone] (zone lookup, localize, reject DST gaps/overlaps)
//	         ↓
//	    [ephemeris] provider (ayanamsa, positions, house cusps)
//	         ↓
//	    [chart] engine (classify, aspects, dashas, placements)
//	         ↓
//	    terminal tables, JSON documents, HTTP
//
// # Quick Start
//
// Compute the positions of a chart with the built-in analytic ephemeris:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/sidereal/pkg/chart"
//	    "github.com/matzehuels/sidereal/pkg/ephemeris/analytic"
//	    "github.com/matzehuels/sidereal/pkg/timezone"
//	)
//
//	engine := chart.NewEngine(analytic.New(), timezone.NewFinder(), nil)
//	positions, err := engine.Positions(context.Background(), chart.Birth{
//	    Date:      "1990-06-15",
//	    Time:      "12:00",
//	    Latitude:  19.076,
//	    Longitude: 72.8777,
//	}, nil)
//
// # Main Packages
//
// ## Domain
//
//   - [zodiac] - Normalize, angular distance, sign and nakshatra lookup
//   - [chart] - Engine, Positions, Houses, DetectAspects, Vimshottari
//
// ## Ephemeris
//
//   - [ephemeris] - Provider interface, Body, Julian day conversion, Fixed test provider
//   - [ephemeris/analytic] - Low-precision closed-form ephemeris, no data files
//   - [ephemeris/table] - Daily rows in MongoDB with interpolation
//   - [ephemeris/remote] - Client for a provider served by [server]
//
// ## Infrastructure
//
//   - [cache] - Chart cache backends (file, Redis, null) and key derivation
//   - [httputil] - Retrying HTTP client and response cache
//   - [config] - TOML configuration with environment overrides
//   - [errors] - Coded errors and input validation
//   - [observability] - Hooks and Prometheus metrics
//   - [buildinfo] - Version information
//
// # Testing
//
// Tests use only the standard testing package. Backends that need a live
// service are skipped unless SIDEREAL_TEST_REDIS_ADDR or
// SIDEREAL_TEST_MONGO_URI is set.
//
//	go test ./...
//	go test ./pkg/chart/...              # Specific package
package pkg
