package dumpybot

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"

	"github.com/ArminGh02/dumpy-bot/pkg/config"
	"github.com/ArminGh02/dumpy-bot/pkg/telemetry"
	"github.com/ArminGh02/dumpy-bot/pkg/tts"
)

func ttsSamples(t *testing.T) uint64 {
	t.Helper()
	var m dto.Metric
	if err := telemetry.TTSDuration.(prometheus.Histogram).Write(&m); err != nil {
		t.Fatal(err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestSpeakRecordsMetrics(t *testing.T) {
	telemetry.Init()

	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte("RIFF"))
	}))
	defer srv.Close()

	bot := testBot(t, func(cfg *config.Config) {
		cfg.TTSEndpoint = srv.URL
		cfg.TTSTimeout = time.Second
	})
	ctx := context.Background()

	samples := ttsSamples(t)
	okCount := testutil.ToFloat64(telemetry.TTSRequests.WithLabelValues("ok"))

	audio, err := bot.speak(ctx, "homer", "doh")
	if err != nil {
		t.Fatalf("speak: %v", err)
	}
	if string(audio) != "RIFF" {
		t.Errorf("audio = %q", audio)
	}
	if got := ttsSamples(t); got != samples+1 {
		t.Errorf("duration samples = %d, want %d", got, samples+1)
	}
	if got := testutil.ToFloat64(telemetry.TTSRequests.WithLabelValues("ok")); got != okCount+1 {
		t.Errorf("ok requests = %v, want %v", got, okCount+1)
	}

	if _, err := bot.speak(ctx, "gandalf", "you shall not pass"); !errors.Is(err, tts.ErrUnknownVoice) {
		t.Errorf("unknown voice error = %v", err)
	}
	if requests != 1 {
		t.Errorf("service called %d times, want 1", requests)
	}
	if got := ttsSamples(t); got != samples+1 {
		t.Errorf("unknown voice was timed: samples = %d, want %d", got, samples+1)
	}
}
