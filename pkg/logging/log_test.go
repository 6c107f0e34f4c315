package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func fixedWriter(buf *bytes.Buffer) Writer {
	loc := time.FixedZone("IRST", 3*3600+1800)
	return Writer{
		Loc: loc,
		Out: buf,
		Now: func() time.Time { return time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC) },
	}
}

func TestWriterPrefixesLocalTime(t *testing.T) {
	var buf bytes.Buffer
	w := fixedWriter(&buf)

	n, err := w.Write([]byte("hello\n"))
	if err != nil {
		t.Fatal(err)
	}
	if n != len("hello\n") {
		t.Errorf("Write returned %d, want %d", n, len("hello\n"))
	}
	if got, want := buf.String(), "2024-03-01 23:30:00 hello\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
		ok   bool
	}{
		{"debug", slog.LevelDebug, true},
		{"", slog.LevelInfo, true},
		{"WARN", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"loud", slog.LevelInfo, false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	logger := New(fixedWriter(&buf), slog.LevelInfo, "text")

	logger.Debug("hidden")
	logger.Info("gif rendered", slog.Int("tile_height", 15))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line logged at info level: %q", out)
	}
	if !strings.HasPrefix(out, "2024-03-01 23:30:00 ") {
		t.Errorf("missing local time prefix: %q", out)
	}
	if strings.Contains(out, "time=") {
		t.Errorf("handler timestamp not dropped: %q", out)
	}
	if !strings.Contains(out, "tile_height=15") {
		t.Errorf("attribute missing: %q", out)
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(fixedWriter(&buf), slog.LevelDebug, "json")
	logger.Warn("slow render", slog.String("renderer", "ffmpeg"))

	line := strings.TrimPrefix(buf.String(), "2024-03-01 23:30:00 ")
	var m map[string]any
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("not JSON after prefix: %q: %v", line, err)
	}
	if _, ok := m["time"]; ok {
		t.Error("time key present")
	}
	if m["level"] != "WARN" || m["renderer"] != "ffmpeg" {
		t.Errorf("unexpected record: %v", m)
	}
}
