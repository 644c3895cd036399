package remote

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sidereal/pkg/chart"
	"github.com/matzehuels/sidereal/pkg/ephemeris"
	"github.com/matzehuels/sidereal/pkg/httputil"
	"github.com/matzehuels/sidereal/pkg/server"
	"github.com/matzehuels/sidereal/pkg/timezone"
)

var _ ephemeris.Provider = (*Provider)(nil)

func fixture() *ephemeris.Fixed {
	return &ephemeris.Fixed{
		Bodies: map[ephemeris.Body]ephemeris.Coordinates{
			ephemeris.Sun:     {Longitude: 83.9, Latitude: 0, Speed: 0.955},
			ephemeris.Moon:    {Longitude: 342.1, Latitude: -4.1, Speed: 13.2},
			ephemeris.Mars:    {Longitude: 10.2, Latitude: -1.2, Speed: 0.71},
			ephemeris.Mercury: {Longitude: 74.5, Latitude: 1.5, Speed: -0.31},
			ephemeris.Jupiter: {Longitude: 95.3, Latitude: 0.2, Speed: 0.23},
			ephemeris.Venus:   {Longitude: 47.8, Latitude: -1.9, Speed: 1.2},
			ephemeris.Saturn:  {Longitude: 294.3, Latitude: 0.1, Speed: -0.05},
			ephemeris.Rahu:    {Longitude: 286.6, Speed: -0.053},
			ephemeris.Uranus:  {Longitude: 278.4, Latitude: -0.3, Speed: -0.04},
			ephemeris.Neptune: {Longitude: 283.5, Latitude: 0.8, Speed: -0.02},
		},
		AyanamsaValue: 23.72,
		Houses:        ephemeris.EqualHouses(178.5),
		Systems:       "PE",
	}
}

func newRemote(t *testing.T, handler http.Handler) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cache, err := httputil.NewCache(t.TempDir(), 0)
	if err != nil {
		t.Fatal(err)
	}
	p, err := New(srv.URL, cache)
	if err != nil {
		t.Fatal(err)
	}
	p.client.Delay = time.Millisecond
	return p
}

func serve(f *ephemeris.Fixed) http.Handler {
	return server.New(server.Config{}, f, log.New(io.Discard)).Handler()
}

func TestPositionRoundTrip(t *testing.T) {
	f := fixture()
	p := newRemote(t, serve(f))
	ctx := context.Background()

	c, err := p.Position(ctx, 2448057.77083333, ephemeris.Mercury, false)
	if err != nil {
		t.Fatalf("Position: %v", err)
	}
	if c != f.Bodies[ephemeris.Mercury] {
		t.Errorf("Position = %+v, want %+v", c, f.Bodies[ephemeris.Mercury])
	}

	a, err := p.Ayanamsa(ctx, 2448057.77083333)
	if err != nil || a != 23.72 {
		t.Errorf("Ayanamsa = %v, %v", a, err)
	}

	h, err := p.HouseCusps(ctx, 2448057.77083333, 19.076, 72.8777, "P")
	if err != nil {
		t.Fatalf("HouseCusps: %v", err)
	}
	if h != f.Houses {
		t.Errorf("HouseCusps = %+v, want %+v", h, f.Houses)
	}
}

func TestResponsesAreCached(t *testing.T) {
	f := fixture()
	p := newRemote(t, serve(f))
	ctx := context.Background()

	for range 3 {
		if _, err := p.Position(ctx, 2451545, ephemeris.Sun, false); err != nil {
			t.Fatal(err)
		}
	}
	if n := f.Calls(); n != 1 {
		t.Errorf("provider called %d times, want 1", n)
	}

	if _, err := p.Position(ctx, 2451545, ephemeris.Sun, true); err != nil {
		t.Fatal(err)
	}
	if n := f.Calls(); n != 2 {
		t.Errorf("a different query should miss the cache; calls = %d", n)
	}

	p.Refresh = true
	if _, err := p.Position(ctx, 2451545, ephemeris.Sun, false); err != nil {
		t.Fatal(err)
	}
	if n := f.Calls(); n != 3 {
		t.Errorf("refresh should bypass the cache; calls = %d", n)
	}
}

func TestSentinelMapping(t *testing.T) {
	p := newRemote(t, serve(fixture()))
	ctx := context.Background()

	if _, err := p.Position(ctx, 2451545, ephemeris.Pluto, false); !errors.Is(err, ephemeris.ErrUnsupportedBody) {
		t.Errorf("pluto: %v, want ErrUnsupportedBody", err)
	}
	if _, err := p.HouseCusps(ctx, 2451545, 10, 10, "K"); !errors.Is(err, ephemeris.ErrUnsupportedHouseSystem) {
		t.Errorf("system K: %v, want ErrUnsupportedHouseSystem", err)
	}

	outOfRange := &ephemeris.Fixed{Errs: map[ephemeris.Body]error{ephemeris.Sun: ephemeris.ErrOutOfRange}}
	p = newRemote(t, serve(outOfRange))
	if _, err := p.Position(ctx, 1, ephemeris.Sun, false); !errors.Is(err, ephemeris.ErrOutOfRange) {
		t.Errorf("out of range: %v, want ErrOutOfRange", err)
	}
}

func TestServerErrorsAreRetried(t *testing.T) {
	var calls atomic.Int32
	p := newRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := p.Ayanamsa(context.Background(), 2451545)
	if err == nil {
		t.Fatal("want error")
	}
	if errors.Is(err, ephemeris.ErrUnsupportedBody) || errors.Is(err, ephemeris.ErrOutOfRange) {
		t.Errorf("bare 502 should not map to a sentinel: %v", err)
	}
	if n := calls.Load(); n != 3 {
		t.Errorf("server called %d times, want 3 attempts", n)
	}
}

func TestNewRejectsBadURL(t *testing.T) {
	for _, u := range []string{"", "localhost:8080", "://x"} {
		if _, err := New(u, nil); err == nil {
			t.Errorf("New(%q) should fail", u)
		}
	}
}

func TestEngineOverRemoteMatchesLocal(t *testing.T) {
	birth := chart.Birth{Date: "1990-06-15", Time: "12:00:00", Latitude: 19.076, Longitude: 72.8777}
	zone := timezone.Fixed("Asia/Kolkata")
	ctx := context.Background()

	local, err := chart.NewEngine(fixture(), zone, log.New(io.Discard)).Positions(ctx, birth, nil)
	if err != nil {
		t.Fatal(err)
	}
	p := newRemote(t, serve(fixture()))
	viaRemote, err := chart.NewEngine(p, zone, log.New(io.Discard)).Positions(ctx, birth, nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(local.Bodies) != len(viaRemote.Bodies) {
		t.Fatalf("body count %d vs %d", len(local.Bodies), len(viaRemote.Bodies))
	}
	for i := range local.Bodies {
		if local.Bodies[i] != viaRemote.Bodies[i] {
			t.Errorf("%v: local %+v, remote %+v", local.Bodies[i].Body, local.Bodies[i], viaRemote.Bodies[i])
		}
	}
}
