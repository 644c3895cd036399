package table

import (
	"context"
	"errors"
	"math"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/sidereal/pkg/ephemeris"
	"github.com/matzehuels/sidereal/pkg/ephemeris/analytic"
)

var _ ephemeris.Provider = (*Provider)(nil)

func near(a, b, tol float64) bool {
	d := math.Abs(a - b)
	if d > 180 {
		d = 360 - d
	}
	return d <= tol
}

func TestDayOf(t *testing.T) {
	tests := []struct {
		jd, want float64
	}{
		{2451544.5, 2451544.5},
		{2451545.0, 2451544.5},
		{2451545.49, 2451544.5},
		{2451545.5, 2451545.5},
		{2451544.4, 2451543.5},
	}
	for _, tt := range tests {
		if got := DayOf(tt.jd); got != tt.want {
			t.Errorf("DayOf(%v) = %v, want %v", tt.jd, got, tt.want)
		}
	}
}

func TestInterpolate(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Row
		f       float64
		wantLon float64
		wantLat float64
	}{
		{"start", Row{Longitude: 10, Latitude: 1}, Row{Longitude: 12, Latitude: 2}, 0, 10, 1},
		{"middle", Row{Longitude: 10, Latitude: 1}, Row{Longitude: 12, Latitude: 2}, 0.5, 11, 1.5},
		{"across aries", Row{Longitude: 359}, Row{Longitude: 1}, 0.5, 0, 0},
		{"across aries late", Row{Longitude: 359}, Row{Longitude: 1}, 0.75, 0.5, 0},
		{"retrograde across aries", Row{Longitude: 0.2}, Row{Longitude: 359.8}, 0.5, 0, 0},
		{"retrograde", Row{Longitude: 100}, Row{Longitude: 99}, 0.25, 99.75, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Interpolate(tt.a, tt.b, tt.f)
			if !near(c.Longitude, tt.wantLon, 1e-9) {
				t.Errorf("longitude = %v, want %v", c.Longitude, tt.wantLon)
			}
			if math.Abs(c.Latitude-tt.wantLat) > 1e-9 {
				t.Errorf("latitude = %v, want %v", c.Latitude, tt.wantLat)
			}
			if c.Longitude < 0 || c.Longitude >= 360 {
				t.Errorf("longitude %v not normalized", c.Longitude)
			}
		})
	}
}

func seeded(t *testing.T, bodies ...ephemeris.Body) (*Provider, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	src := analytic.New()
	n, err := Seed(context.Background(), store, src, SeedOptions{
		Bodies: bodies,
		FromJD: 2451544.5,
		ToJD:   2451548.5,
	})
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if want := 5 * len(bodies); n != want || store.Len() != want {
		t.Fatalf("Seed wrote %d rows (store has %d), want %d", n, store.Len(), want)
	}
	return New(store, src), store
}

func TestPositionMatchesSource(t *testing.T) {
	p, _ := seeded(t, ephemeris.Sun, ephemeris.Moon, ephemeris.Rahu, ephemeris.Mars)
	src := analytic.New()
	ctx := context.Background()

	for _, body := range []ephemeris.Body{ephemeris.Sun, ephemeris.Moon, ephemeris.Rahu, ephemeris.Mars} {
		for _, sidereal := range []bool{false, true} {
			jd := 2451546.3
			got, err := p.Position(ctx, jd, body, sidereal)
			if err != nil {
				t.Fatalf("%s: %v", body, err)
			}
			want, err := src.Position(ctx, jd, body, sidereal)
			if err != nil {
				t.Fatal(err)
			}
			if !near(got.Longitude, want.Longitude, 0.1) {
				t.Errorf("%s sidereal=%v: longitude %v, direct %v", body, sidereal, got.Longitude, want.Longitude)
			}
			if math.Abs(got.Latitude-want.Latitude) > 0.1 {
				t.Errorf("%s: latitude %v, direct %v", body, got.Latitude, want.Latitude)
			}
		}
	}
}

func TestPositionAtRowIsExact(t *testing.T) {
	p, store := seeded(t, ephemeris.Venus)
	ctx := context.Background()

	row, err := store.Day(ctx, ephemeris.Venus, 2451545.5)
	if err != nil {
		t.Fatal(err)
	}
	c, err := p.Position(ctx, 2451545.5, ephemeris.Venus, false)
	if err != nil {
		t.Fatal(err)
	}
	if c.Longitude != row.Longitude || c.Speed != row.Speed {
		t.Errorf("Position = %+v, row = %+v", c, row)
	}
}

func TestPositionErrors(t *testing.T) {
	p, _ := seeded(t, ephemeris.Sun)
	ctx := context.Background()

	// The last seeded day has no successor row.
	if _, err := p.Position(ctx, 2451548.7, ephemeris.Sun, false); !errors.Is(err, ephemeris.ErrOutOfRange) {
		t.Errorf("past table end: %v, want ErrOutOfRange", err)
	}
	if _, err := p.Position(ctx, 2451546, ephemeris.Moon, false); !errors.Is(err, ephemeris.ErrOutOfRange) {
		t.Errorf("unseeded body: %v, want ErrOutOfRange", err)
	}
	if _, err := p.Position(ctx, 2451546, ephemeris.Body(42), false); !errors.Is(err, ephemeris.ErrUnsupportedBody) {
		t.Errorf("invalid body: %v, want ErrUnsupportedBody", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := p.Position(cancelled, 2451546, ephemeris.Sun, false); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled: %v", err)
	}
}

func TestFallbackQueries(t *testing.T) {
	f := &ephemeris.Fixed{AyanamsaValue: 23.85, Houses: ephemeris.EqualHouses(15), Systems: "E"}
	p := New(NewMemoryStore(), f)
	ctx := context.Background()

	if a, err := p.Ayanamsa(ctx, 2451545); err != nil || a != 23.85 {
		t.Errorf("Ayanamsa = %v, %v", a, err)
	}
	h, err := p.HouseCusps(ctx, 2451545, 10, 10, "E")
	if err != nil || h != f.Houses {
		t.Errorf("HouseCusps = %+v, %v", h, err)
	}
	if _, err := p.HouseCusps(ctx, 2451545, 10, 10, "P"); !errors.Is(err, ephemeris.ErrUnsupportedHouseSystem) {
		t.Errorf("HouseCusps(P): %v", err)
	}
}

type failingStore struct {
	*MemoryStore
	err error
}

func (s failingStore) Upsert(context.Context, []Row) error { return s.err }

func TestSeed(t *testing.T) {
	t.Run("progress", func(t *testing.T) {
		var mu sync.Mutex
		seen := map[ephemeris.Body]int{}
		store := NewMemoryStore()
		_, err := Seed(context.Background(), store, analytic.New(), SeedOptions{
			Bodies:  []ephemeris.Body{ephemeris.Sun, ephemeris.Jupiter, ephemeris.Ketu},
			FromJD:  2451545.2,
			ToJD:    2451545.2,
			Workers: 2,
			Progress: func(b ephemeris.Body, rows int) {
				mu.Lock()
				seen[b] = rows
				mu.Unlock()
			},
		})
		if err != nil {
			t.Fatal(err)
		}
		if len(seen) != 3 || seen[ephemeris.Ketu] != 1 {
			t.Errorf("progress = %v", seen)
		}
		if _, err := store.Day(context.Background(), ephemeris.Jupiter, 2451544.5); err != nil {
			t.Errorf("row not rounded to 0h UT: %v", err)
		}
	})

	t.Run("reversed range", func(t *testing.T) {
		_, err := Seed(context.Background(), NewMemoryStore(), analytic.New(), SeedOptions{
			Bodies: []ephemeris.Body{ephemeris.Sun},
			FromJD: 2451546.5,
			ToJD:   2451544.5,
		})
		if err == nil {
			t.Error("want error")
		}
	})

	t.Run("source error", func(t *testing.T) {
		_, err := Seed(context.Background(), NewMemoryStore(), analytic.New(), SeedOptions{
			Bodies: []ephemeris.Body{ephemeris.Sun},
			FromJD: 1000000.5,
			ToJD:   1000001.5,
		})
		if !errors.Is(err, ephemeris.ErrOutOfRange) {
			t.Errorf("err = %v, want ErrOutOfRange", err)
		}
	})

	t.Run("store error", func(t *testing.T) {
		boom := errors.New("boom")
		n, err := Seed(context.Background(), failingStore{NewMemoryStore(), boom}, analytic.New(), SeedOptions{
			Bodies: []ephemeris.Body{ephemeris.Sun},
			FromJD: 2451544.5,
			ToJD:   2451545.5,
		})
		if !errors.Is(err, boom) || n != 0 {
			t.Errorf("Seed = %d, %v", n, err)
		}
	})
}

// TestMongoStore runs against a live server when SIDEREAL_TEST_MONGO_URI is set.
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("SIDEREAL_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("SIDEREAL_TEST_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := Connect(ctx, MongoOptions{URI: uri, Database: "sidereal_test", Collection: "ephemeris_" + time.Now().Format("150405")})
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = store.coll.Drop(ctx)
		_ = store.Close(ctx)
	}()

	if _, err := store.Day(ctx, ephemeris.Sun, 2451544.5); !errors.Is(err, ErrMissingRow) {
		t.Fatalf("empty Day: %v", err)
	}
	rows := []Row{{Body: "Sun", JD: 2451544.5, Longitude: 279.8}, {Body: "Sun", JD: 2451545.5, Longitude: 280.8}}
	if err := store.Upsert(ctx, rows); err != nil {
		t.Fatal(err)
	}
	rows[0].Longitude = 279.9
	if err := store.Upsert(ctx, rows[:1]); err != nil {
		t.Fatal(err)
	}
	got, err := store.Day(ctx, ephemeris.Sun, 2451544.5)
	if err != nil || got.Longitude != 279.9 {
		t.Errorf("Day = %+v, %v", got, err)
	}
}
