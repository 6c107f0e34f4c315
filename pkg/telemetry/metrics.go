// Package telemetry provides Prometheus metrics, tracing and correlation-id
// aware logging helpers.
package telemetry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	GIFsRendered   *prometheus.CounterVec
	RenderFailures *prometheus.CounterVec
	TTSRequests    *prometheus.CounterVec
	UsersJoined    prometheus.Counter

	RenderDuration *prometheus.HistogramVec
	TTSDuration    prometheus.Observer

	ActiveRenders prometheus.Gauge
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		GIFsRendered = promauto.NewCounterVec(prometheus.CounterOpts{Name: "dumpy_gifs_rendered_total", Help: "Number of mosaic GIFs rendered"}, []string{"renderer"})
		RenderFailures = promauto.NewCounterVec(prometheus.CounterOpts{Name: "dumpy_render_failures_total", Help: "Number of failed renders by error kind"}, []string{"kind"})
		TTSRequests = promauto.NewCounterVec(prometheus.CounterOpts{Name: "dumpy_tts_requests_total", Help: "Number of speech synthesis requests by outcome"}, []string{"outcome"})
		UsersJoined = promauto.NewCounter(prometheus.CounterOpts{Name: "dumpy_users_joined_total", Help: "Number of users that started the bot for the first time"})
		RenderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{Name: "dumpy_render_duration_seconds", Help: "Render duration seconds", Buckets: prometheus.DefBuckets}, []string{"renderer"})
		TTSDuration = promauto.NewHistogram(prometheus.HistogramOpts{Name: "dumpy_tts_duration_seconds", Help: "Speech synthesis round trip seconds", Buckets: prometheus.DefBuckets})
		ActiveRenders = promauto.NewGauge(prometheus.GaugeOpts{Name: "dumpy_active_renders", Help: "Renders currently holding a slot"})
	})
}

// ObserveRender records the outcome of one render. kind is "ok" on success.
func ObserveRender(renderer, kind string, d time.Duration) {
	if GIFsRendered == nil {
		return
	}
	RenderDuration.WithLabelValues(renderer).Observe(d.Seconds())
	if kind == "ok" {
		GIFsRendered.WithLabelValues(renderer).Inc()
		return
	}
	RenderFailures.WithLabelValues(kind).Inc()
}

// ObserveTTS counts the outcome of one speech request. Its duration goes to
// TTSDuration through TimeFunc.
func ObserveTTS(err error) {
	if TTSRequests == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	TTSRequests.WithLabelValues(outcome).Inc()
}

// TimeFunc measures the duration of fn and records in observer if non-nil.
func TimeFunc(obs prometheus.Observer, fn func()) time.Duration {
	start := time.Now()
	fn()
	d := time.Since(start)
	if obs != nil {
		obs.Observe(d.Seconds())
	}
	return d
}

type corrKeyType struct{}

var corrKey corrKeyType

// WithCorrelation returns a new context carrying the correlation id.
func WithCorrelation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, corrKey, id)
}

// GetCorrelation returns correlation id or empty string.
func GetCorrelation(ctx context.Context) string {
	if s, ok := ctx.Value(corrKey).(string); ok {
		return s
	}
	return ""
}

// LoggerWithCorr returns the default logger with a corr attribute if present.
func LoggerWithCorr(ctx context.Context) *slog.Logger {
	if id := GetCorrelation(ctx); id != "" {
		return slog.Default().With(slog.String("corr", id))
	}
	return slog.Default()
}
