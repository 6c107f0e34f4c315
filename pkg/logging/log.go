package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

const timeLayout = "2006-01-02 15:04:05"

// Writer prefixes every write with the current time in Loc.
type Writer struct {
	Loc *time.Location
	Out io.Writer
	// Now is used in place of time.Now when set.
	Now func() time.Time
}

func (writer Writer) Write(b []byte) (n int, err error) {
	out := writer.Out
	if out == nil {
		out = os.Stdout
	}
	now := time.Now
	if writer.Now != nil {
		now = writer.Now
	}
	if _, err := fmt.Fprintf(out, "%s %s", now().In(writer.Loc).Format(timeLayout), b); err != nil {
		return 0, err
	}
	return len(b), nil
}

// ParseLevel maps debug, info, warn and error to a slog level. Unknown values
// fall back to info and report false.
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// New builds a logger that writes through w. The handler's own timestamp is
// dropped since w already stamps each line.
func New(w Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}
