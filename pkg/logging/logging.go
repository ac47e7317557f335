package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	listview "github.com/goliatone/go-listview/components/listview"
)

// Options configures the process logger.
type Options struct {
	Environment string
	Level       string
	Writer      io.Writer
}

// New builds a zerolog logger: human-readable console output in development,
// JSON elsewhere.
func New(opts Options) zerolog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if opts.Environment == "" || opts.Environment == "development" {
		w = zerolog.NewConsoleWriter(func(cw *zerolog.ConsoleWriter) {
			cw.Out = w
			cw.TimeFormat = time.Kitchen
		})
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Telemetry writes list-view events to a logger at debug level, and error
// events at warn.
type Telemetry struct {
	logger zerolog.Logger
}

var _ listview.Telemetry = (*Telemetry)(nil)

// NewTelemetry wraps logger.
func NewTelemetry(logger zerolog.Logger) *Telemetry {
	return &Telemetry{logger: logger}
}

// Record logs the event with its payload as fields.
func (t *Telemetry) Record(_ context.Context, event string, payload map[string]any) {
	ev := t.logger.Debug()
	if strings.HasSuffix(event, ".error") {
		ev = t.logger.Warn()
	}
	ev.Str("event", event).Fields(payload).Msg("telemetry")
}
