package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func sampleCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	if err := h.Write(&m); err != nil {
		t.Fatal(err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestTimeFunc(t *testing.T) {
	h := prometheus.NewHistogram(prometheus.HistogramOpts{Name: "test_duration_seconds", Help: "test"})

	calls := 0
	d := TimeFunc(h, func() {
		calls++
		time.Sleep(time.Millisecond)
	})
	if calls != 1 {
		t.Errorf("fn called %d times", calls)
	}
	if d < time.Millisecond {
		t.Errorf("duration = %v, want at least 1ms", d)
	}
	if got := sampleCount(t, h); got != 1 {
		t.Errorf("sample count = %d, want 1", got)
	}

	if d := TimeFunc(nil, func() {}); d < 0 {
		t.Errorf("nil observer duration = %v", d)
	}
}

func TestObserveRender(t *testing.T) {
	Init()

	okBefore := testutil.ToFloat64(GIFsRendered.WithLabelValues("inprocess"))
	failBefore := testutil.ToFloat64(RenderFailures.WithLabelValues("dimension"))

	ObserveRender("inprocess", "ok", 20*time.Millisecond)
	ObserveRender("inprocess", "dimension", time.Millisecond)

	if got := testutil.ToFloat64(GIFsRendered.WithLabelValues("inprocess")); got != okBefore+1 {
		t.Errorf("gifs rendered = %v, want %v", got, okBefore+1)
	}
	if got := testutil.ToFloat64(RenderFailures.WithLabelValues("dimension")); got != failBefore+1 {
		t.Errorf("render failures = %v, want %v", got, failBefore+1)
	}
	if n := testutil.CollectAndCount(RenderDuration); n == 0 {
		t.Error("render duration histogram has no series")
	}
}

func TestObserveTTS(t *testing.T) {
	Init()

	okBefore := testutil.ToFloat64(TTSRequests.WithLabelValues("ok"))
	errBefore := testutil.ToFloat64(TTSRequests.WithLabelValues("error"))

	ObserveTTS(nil)
	ObserveTTS(errors.New("timeout"))

	if got := testutil.ToFloat64(TTSRequests.WithLabelValues("ok")); got != okBefore+1 {
		t.Errorf("ok = %v, want %v", got, okBefore+1)
	}
	if got := testutil.ToFloat64(TTSRequests.WithLabelValues("error")); got != errBefore+1 {
		t.Errorf("error = %v, want %v", got, errBefore+1)
	}
}

func TestActiveRendersGauge(t *testing.T) {
	Init()
	ActiveRenders.Set(0)
	ActiveRenders.Inc()
	ActiveRenders.Inc()
	ActiveRenders.Dec()
	if got := testutil.ToFloat64(ActiveRenders); got != 1 {
		t.Errorf("active renders = %v, want 1", got)
	}
}

func TestCorrelation(t *testing.T) {
	ctx := context.Background()
	if got := GetCorrelation(ctx); got != "" {
		t.Errorf("empty context has correlation %q", got)
	}
	ctx = WithCorrelation(ctx, "abc")
	if got := GetCorrelation(ctx); got != "abc" {
		t.Errorf("GetCorrelation = %q, want abc", got)
	}
	if LoggerWithCorr(ctx) == nil {
		t.Error("LoggerWithCorr returned nil")
	}
}

func TestStartSpanWithoutProvider(t *testing.T) {
	ctx, span := StartSpan(WithCorrelation(context.Background(), "x"), "render")
	if ctx == nil || span == nil {
		t.Fatal("StartSpan returned nil")
	}
	EndSpan(span, errors.New("boom"))
}
