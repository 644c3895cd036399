package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/sidereal/pkg/ephemeris"
)

func testProvider() *ephemeris.Fixed {
	return &ephemeris.Fixed{
		Bodies: map[ephemeris.Body]ephemeris.Coordinates{
			ephemeris.Sun:  {Longitude: 83.9, Speed: 0.955},
			ephemeris.Rahu: {Longitude: 286.6, Speed: -0.053},
		},
		AyanamsaValue: 23.72,
		Houses:        ephemeris.EqualHouses(178.5),
		Systems:       "PE",
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := New(Config{Gatherer: prometheus.NewRegistry()}, testProvider(), log.New(io.Discard))
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string, v any) int {
	t.Helper()
	resp, err := srv.Client().Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); v != nil && !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}
	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	var h HealthResponse
	if code := get(t, srv, "/healthz", &h); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if h.Status != "ok" || h.Provider != "fixed" {
		t.Errorf("health = %+v", h)
	}
}

func TestAyanamsa(t *testing.T) {
	srv := newTestServer(t)
	var a AyanamsaResponse
	if code := get(t, srv, "/v1/ayanamsa?jd=2448057.77", &a); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if a.Ayanamsa != 23.72 || a.JD != 2448057.77 {
		t.Errorf("ayanamsa = %+v", a)
	}
}

func TestPosition(t *testing.T) {
	srv := newTestServer(t)
	var p PositionResponse
	if code := get(t, srv, "/v1/bodies/sun?jd=2448057.77", &p); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if p.Body != ephemeris.Sun || p.Longitude != 83.9 || p.Sidereal {
		t.Errorf("position = %+v", p)
	}

	if code := get(t, srv, "/v1/bodies/north_node?jd=2448057.77&sidereal=true", &p); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if p.Body != ephemeris.Rahu || !p.Sidereal || p.Speed != -0.053 {
		t.Errorf("rahu = %+v", p)
	}
}

func TestHouses(t *testing.T) {
	srv := newTestServer(t)
	var h HousesResponse
	if code := get(t, srv, "/v1/houses?jd=2448057.77&lat=19.076&lon=72.8777", &h); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if h.System != "P" || h.Cusps[0] != 178.5 || h.Ascendant != 178.5 {
		t.Errorf("houses = %+v", h)
	}
}

func TestErrors(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{"missing jd", "/v1/ayanamsa", 400, "INVALID_INPUT"},
		{"bad jd", "/v1/ayanamsa?jd=abc", 400, "INVALID_INPUT"},
		{"unknown body", "/v1/bodies/vulcan?jd=1", 400, "INVALID_BODY"},
		{"bad sidereal", "/v1/bodies/sun?jd=1&sidereal=maybe", 400, "INVALID_INPUT"},
		{"unserved body", "/v1/bodies/pluto?jd=1", 422, "UNSUPPORTED_BODY"},
		{"bad latitude", "/v1/houses?jd=1&lat=91&lon=0", 400, "INVALID_LATITUDE"},
		{"missing longitude", "/v1/houses?jd=1&lat=10", 400, "INVALID_LONGITUDE"},
		{"malformed system", "/v1/houses?jd=1&lat=10&lon=0&system=PP", 400, "INVALID_HOUSE_SYSTEM"},
		{"unsupported system", "/v1/houses?jd=1&lat=10&lon=0&system=K", 422, "UNSUPPORTED_HOUSE_SYSTEM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e ErrorResponse
			if code := get(t, srv, tt.path, &e); code != tt.status {
				t.Errorf("status = %d, want %d", code, tt.status)
			}
			if e.Error.Code != tt.code {
				t.Errorf("code = %q, want %q (%s)", e.Error.Code, tt.code, e.Error.Message)
			}
		})
	}
}

func TestMetricsRoute(t *testing.T) {
	srv := newTestServer(t)
	if code := get(t, srv, "/metrics", nil); code != http.StatusOK {
		t.Errorf("/metrics status = %d", code)
	}

	bare := httptest.NewServer(New(Config{}, testProvider(), log.New(io.Discard)).Handler())
	defer bare.Close()
	if code := get(t, bare, "/metrics", nil); code != http.StatusNotFound {
		t.Errorf("/metrics without gatherer = %d, want 404", code)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	s := New(Config{}, testProvider(), log.New(io.Discard))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
