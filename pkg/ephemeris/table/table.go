// Package table serves positions from precomputed daily rows.
//
// Rows hold tropical coordinates at 0h UT of each day and live in a [Store],
// normally MongoDB. Positions between rows are linearly interpolated, with
// longitudes unwrapped across 0°/360°. The ayanamsa and house cusps are not
// tabulated; they come from a fallback provider, which also supplies the
// sidereal correction.
package table

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/matzehuels/sidereal/pkg/ephemeris"
	"github.com/matzehuels/sidereal/pkg/zodiac"
)

// ErrMissingRow is returned by a Store when no row exists for a body and day.
var ErrMissingRow = errors.New("table: missing row")

// Row is one body at 0h UT of one day.
type Row struct {
	Body      string  `bson:"body" json:"body"`
	JD        float64 `bson:"jd" json:"jd"`
	Longitude float64 `bson:"longitude" json:"longitude"`
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Speed     float64 `bson:"speed" json:"speed"`
}

// Store reads and writes rows.
type Store interface {
	// Day returns the row of body at jd, or ErrMissingRow.
	Day(ctx context.Context, body ephemeris.Body, jd float64) (Row, error)

	// Upsert inserts or replaces rows keyed by (body, jd).
	Upsert(ctx context.Context, rows []Row) error
}

// Provider implements ephemeris.Provider over a Store.
type Provider struct {
	store    Store
	fallback ephemeris.Provider
}

// New returns a table provider. fallback answers ayanamsa and house queries.
func New(store Store, fallback ephemeris.Provider) *Provider {
	return &Provider{store: store, fallback: fallback}
}

// Name implements ephemeris.Provider.
func (p *Provider) Name() string { return "table" }

// Position implements ephemeris.Provider.
func (p *Provider) Position(ctx context.Context, jd float64, body ephemeris.Body, sidereal bool) (ephemeris.Coordinates, error) {
	if !body.Valid() {
		return ephemeris.Coordinates{}, fmt.Errorf("%w: %d", ephemeris.ErrUnsupportedBody, int(body))
	}
	day := DayOf(jd)

	before, err := p.row(ctx, body, day)
	if err != nil {
		return ephemeris.Coordinates{}, err
	}
	after, err := p.row(ctx, body, day+1)
	if err != nil {
		return ephemeris.Coordinates{}, err
	}

	c := Interpolate(before, after, jd-day)
	if sidereal {
		ayan, err := p.fallback.Ayanamsa(ctx, jd)
		if err != nil {
			return ephemeris.Coordinates{}, err
		}
		c.Longitude = zodiac.Normalize(c.Longitude - ayan)
	}
	return c, nil
}

func (p *Provider) row(ctx context.Context, body ephemeris.Body, jd float64) (Row, error) {
	r, err := p.store.Day(ctx, body, jd)
	if errors.Is(err, ErrMissingRow) {
		return Row{}, fmt.Errorf("%w: no %s row for jd %.1f", ephemeris.ErrOutOfRange, body, jd)
	}
	return r, err
}

// Ayanamsa implements ephemeris.Provider via the fallback.
func (p *Provider) Ayanamsa(ctx context.Context, jd float64) (float64, error) {
	return p.fallback.Ayanamsa(ctx, jd)
}

// HouseCusps implements ephemeris.Provider via the fallback.
func (p *Provider) HouseCusps(ctx context.Context, jd, lat, lon float64, system string) (ephemeris.HouseData, error) {
	return p.fallback.HouseCusps(ctx, jd, lat, lon, system)
}

// DayOf returns the Julian day of 0h UT on or before jd.
func DayOf(jd float64) float64 {
	return math.Floor(jd-0.5) + 0.5
}

// Interpolate blends two consecutive daily rows at fraction f of the day.
// The longitude takes the short way round the circle, so a body crossing
// 0° Aries (or a retrograde one crossing back) interpolates correctly.
func Interpolate(a, b Row, f float64) ephemeris.Coordinates {
	delta := zodiac.Normalize(b.Longitude - a.Longitude)
	if delta > 180 {
		delta -= 360
	}
	return ephemeris.Coordinates{
		Longitude: zodiac.Normalize(a.Longitude + f*delta),
		Latitude:  a.Latitude + f*(b.Latitude-a.Latitude),
		Speed:     a.Speed + f*(b.Speed-a.Speed),
	}
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[memoryKey]Row
}

type memoryKey struct {
	body string
	jd   float64
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[memoryKey]Row)}
}

// Day implements Store.
func (m *MemoryStore) Day(ctx context.Context, body ephemeris.Body, jd float64) (Row, error) {
	if err := ctx.Err(); err != nil {
		return Row{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rows[memoryKey{body.String(), jd}]
	if !ok {
		return Row{}, ErrMissingRow
	}
	return r, nil
}

// Upsert implements Store.
func (m *MemoryStore) Upsert(ctx context.Context, rows []Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range rows {
		m.rows[memoryKey{r.Body, r.JD}] = r
	}
	return nil
}

// Len returns the number of stored rows.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows)
}
