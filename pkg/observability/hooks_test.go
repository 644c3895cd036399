package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnStageStart(ctx, "positions")
	p.OnStageComplete(ctx, "positions", time.Millisecond, nil)
	p.OnChartComplete(ctx, 11, 7, time.Second, nil)

	NoopProviderHooks{}.OnQuery(ctx, "fixed", "position", time.Microsecond, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "chart")
	c.OnCacheMiss(ctx, "chart")
	c.OnCacheSet(ctx, "chart", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "ephemeris.local", "/v1/ayanamsa")
	h.OnResponse(ctx, "GET", "ephemeris.local", "/v1/ayanamsa", 200, time.Second)
	h.OnError(ctx, "GET", "ephemeris.local", "/v1/ayanamsa", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Provider().(NoopProviderHooks); !ok {
		t.Error("Provider() should return NoopProviderHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	m := NewPrometheus(prometheus.NewRegistry())
	m.Install()
	if Pipeline() != PipelineHooks(m) || Provider() != ProviderHooks(m) {
		t.Error("Install should register the Prometheus hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	m := NewPrometheus(prometheus.NewRegistry())
	SetCacheHooks(m)
	SetCacheHooks(nil)
	if Cache() != CacheHooks(m) {
		t.Error("SetCacheHooks(nil) should keep the existing hooks")
	}
}

func TestPrometheusRecords(t *testing.T) {
	ctx := context.Background()
	m := NewPrometheus(prometheus.NewRegistry())

	m.OnStageComplete(ctx, "houses", time.Millisecond, errors.New("boom"))
	m.OnStageComplete(ctx, "houses", time.Millisecond, nil)
	if got := testutil.ToFloat64(m.stageErrors.WithLabelValues("houses")); got != 1 {
		t.Errorf("stage errors = %v, want 1", got)
	}

	m.OnChartComplete(ctx, 11, 9, time.Second, nil)
	m.OnChartComplete(ctx, 0, 0, time.Second, errors.New("boom"))
	if got := testutil.ToFloat64(m.charts.WithLabelValues("ok")); got != 1 {
		t.Errorf("ok charts = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.charts.WithLabelValues("error")); got != 1 {
		t.Errorf("failed charts = %v, want 1", got)
	}

	m.OnCacheHit(ctx, "chart")
	m.OnCacheSet(ctx, "chart", 512)
	if got := testutil.ToFloat64(m.cacheBytes.WithLabelValues("chart")); got != 512 {
		t.Errorf("cache bytes = %v, want 512", got)
	}

	m.OnResponse(ctx, "GET", "h", "/", 503, time.Millisecond)
	m.OnError(ctx, "GET", "h", "/", errors.New("refused"))
	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("h", "5xx")); got != 1 {
		t.Errorf("5xx = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("h", "error")); got != 1 {
		t.Errorf("errors = %v, want 1", got)
	}
}

func TestStatusClass(t *testing.T) {
	for code, want := range map[int]string{200: "2xx", 204: "2xx", 304: "3xx", 404: "4xx", 502: "5xx"} {
		if got := statusClass(code); got != want {
			t.Errorf("statusClass(%d) = %q, want %q", code, got, want)
		}
	}
}
