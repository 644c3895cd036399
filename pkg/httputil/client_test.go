package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

type ayanamsaResponse struct {
	Ayanamsa float64 `json:"ayanamsa"`
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	client := NewClient(c, map[string]string{"User-Agent": "sidereal-test"})
	client.Delay = time.Millisecond
	return client.WithHTTPClient(srv.Client())
}

func TestClientGet(t *testing.T) {
	var agent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		agent = r.Header.Get("User-Agent")
		json.NewEncoder(w).Encode(ayanamsaResponse{Ayanamsa: 23.85})
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	var resp ayanamsaResponse
	if err := client.Get(context.Background(), srv.URL+"/v1/ayanamsa", &resp); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if resp.Ayanamsa != 23.85 {
		t.Errorf("Ayanamsa = %v", resp.Ayanamsa)
	}
	if agent != "sidereal-test" {
		t.Errorf("User-Agent = %q", agent)
	}
}

func TestClientStatusErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		sentinel  error
		retryable bool
	}{
		{"not found", http.StatusNotFound, ErrNotFound, false},
		{"unprocessable", http.StatusUnprocessableEntity, ErrNetwork, false},
		{"bad request", http.StatusBadRequest, ErrNetwork, false},
		{"server error", http.StatusInternalServerError, ErrNetwork, true},
		{"bad gateway", http.StatusBadGateway, ErrNetwork, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"error":{"code":"X"}}`))
			}))
			defer srv.Close()

			var resp ayanamsaResponse
			err := newTestClient(t, srv).Get(context.Background(), srv.URL, &resp)
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("error = %v, want %v", err, tt.sentinel)
			}
			if IsRetryable(err) != tt.retryable {
				t.Errorf("retryable = %v, want %v", IsRetryable(err), tt.retryable)
			}
			var se *StatusError
			if !errors.As(err, &se) || se.StatusCode != tt.status || string(se.Body) != `{"error":{"code":"X"}}` {
				t.Errorf("StatusError = %+v", se)
			}
		})
	}
}

func TestClientCached(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode(ayanamsaResponse{Ayanamsa: 24})
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	ctx := context.Background()
	fetch := func(v *ayanamsaResponse) func() error {
		return func() error { return client.Get(ctx, srv.URL, v) }
	}

	for range 3 {
		var resp ayanamsaResponse
		if err := client.Cached(ctx, "key", false, &resp, fetch(&resp)); err != nil {
			t.Fatal(err)
		}
		if resp.Ayanamsa != 24 {
			t.Errorf("Ayanamsa = %v", resp.Ayanamsa)
		}
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("server called %d times, want 1", n)
	}

	var resp ayanamsaResponse
	if err := client.Cached(ctx, "key", true, &resp, fetch(&resp)); err != nil {
		t.Fatal(err)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("refresh: server called %d times, want 2", n)
	}
}

func TestClientCachedRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(ayanamsaResponse{Ayanamsa: 23})
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	ctx := context.Background()
	var resp ayanamsaResponse
	err := client.Cached(ctx, "retry", false, &resp, func() error { return client.Get(ctx, srv.URL, &resp) })
	if err != nil {
		t.Fatalf("Cached: %v", err)
	}
	if calls.Load() != 3 || resp.Ayanamsa != 23 {
		t.Errorf("calls = %d, resp = %+v", calls.Load(), resp)
	}
}

func TestClientCachedDoesNotCacheFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	ctx := context.Background()
	var resp ayanamsaResponse
	err := client.Cached(ctx, "missing", false, &resp, func() error { return client.Get(ctx, srv.URL, &resp) })
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if ok, _ := client.cache.Get("missing", &resp); ok {
		t.Error("failed fetch should not be cached")
	}
}

func TestClientNilCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ayanamsaResponse{Ayanamsa: 1})
	}))
	defer srv.Close()

	client := NewClient(nil, nil).WithHTTPClient(srv.Client())
	ctx := context.Background()
	var resp ayanamsaResponse
	if err := client.Cached(ctx, "k", false, &resp, func() error { return client.Get(ctx, srv.URL, &resp) }); err != nil {
		t.Fatal(err)
	}
}

func TestRetry(t *testing.T) {
	ctx := context.Background()

	calls := 0
	err := Retry(ctx, 3, time.Millisecond, func() error {
		calls++
		return nil
	})
	if err != nil || calls != 1 {
		t.Errorf("success: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = Retry(ctx, 3, time.Millisecond, func() error {
		calls++
		return ErrNotFound
	})
	if !errors.Is(err, ErrNotFound) || calls != 1 {
		t.Errorf("non-retryable: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = Retry(ctx, 3, time.Millisecond, func() error {
		calls++
		return Retryable(ErrNetwork)
	})
	if !errors.Is(err, ErrNetwork) || calls != 3 {
		t.Errorf("exhausted: err=%v calls=%d", err, calls)
	}

	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
}

func TestRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 3, time.Hour, func() error {
		return Retryable(ErrNetwork)
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
