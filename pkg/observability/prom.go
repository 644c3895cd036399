package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus implements every hook interface by recording Prometheus
// counters and histograms.
type Prometheus struct {
	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	charts        *prometheus.CounterVec
	chartAspects  prometheus.Histogram
	providerCalls *prometheus.HistogramVec
	cacheEvents   *prometheus.CounterVec
	cacheBytes    *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// NewPrometheus creates the collectors and registers them with reg.
// Passing prometheus.NewRegistry() keeps tests isolated.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	f := promauto.With(reg)
	return &Prometheus{
		stageDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sidereal_stage_duration_seconds",
				Help:    "Duration of chart pipeline stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		stageErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sidereal_stage_errors_total",
				Help: "Total number of failed chart pipeline stages",
			},
			[]string{"stage"},
		),
		charts: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sidereal_charts_total",
				Help: "Total number of chart computations by outcome",
			},
			[]string{"outcome"},
		),
		chartAspects: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sidereal_chart_aspects",
				Help:    "Number of aspects detected per chart",
				Buckets: prometheus.LinearBuckets(0, 5, 10),
			},
		),
		providerCalls: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sidereal_provider_query_duration_seconds",
				Help:    "Duration of ephemeris provider queries in seconds",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"provider", "op", "outcome"},
		),
		cacheEvents: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sidereal_cache_events_total",
				Help: "Cache lookups and writes by key type",
			},
			[]string{"key_type", "event"},
		),
		cacheBytes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sidereal_cache_written_bytes_total",
				Help: "Bytes written to the cache by key type",
			},
			[]string{"key_type"},
		),
		httpRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sidereal_http_client_requests_total",
				Help: "Outgoing HTTP requests by host and status",
			},
			[]string{"host", "status"},
		),
		httpDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sidereal_http_client_duration_seconds",
				Help:    "Duration of outgoing HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"host"},
		),
	}
}

// Install registers p as the global pipeline, provider, cache and HTTP hooks.
func (p *Prometheus) Install() {
	SetPipelineHooks(p)
	SetProviderHooks(p)
	SetCacheHooks(p)
	SetHTTPHooks(p)
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// OnStageStart implements PipelineHooks.
func (p *Prometheus) OnStageStart(context.Context, string) {}

// OnStageComplete implements PipelineHooks.
func (p *Prometheus) OnStageComplete(_ context.Context, stage string, d time.Duration, err error) {
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	if err != nil {
		p.stageErrors.WithLabelValues(stage).Inc()
	}
}

// OnChartComplete implements PipelineHooks.
func (p *Prometheus) OnChartComplete(_ context.Context, _, aspects int, _ time.Duration, err error) {
	p.charts.WithLabelValues(outcome(err)).Inc()
	if err == nil {
		p.chartAspects.Observe(float64(aspects))
	}
}

// OnQuery implements ProviderHooks.
func (p *Prometheus) OnQuery(_ context.Context, provider, op string, d time.Duration, err error) {
	p.providerCalls.WithLabelValues(provider, op, outcome(err)).Observe(d.Seconds())
}

// OnCacheHit implements CacheHooks.
func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss implements CacheHooks.
func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet implements CacheHooks.
func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, size int) {
	p.cacheEvents.WithLabelValues(keyType, "set").Inc()
	p.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// OnRequest implements HTTPHooks.
func (p *Prometheus) OnRequest(context.Context, string, string, string) {}

// OnResponse implements HTTPHooks.
func (p *Prometheus) OnResponse(_ context.Context, _, host, _ string, status int, d time.Duration) {
	p.httpRequests.WithLabelValues(host, statusClass(status)).Inc()
	p.httpDuration.WithLabelValues(host).Observe(d.Seconds())
}

// OnError implements HTTPHooks.
func (p *Prometheus) OnError(_ context.Context, _, host, _ string, _ error) {
	p.httpRequests.WithLabelValues(host, "error").Inc()
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
