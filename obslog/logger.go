// Package obslog provides the core's ambient structured logging: a thin
// wrapper over log/slog with a colorized console handler for interactive
// use and a JSON handler for machine consumption, matching the two-handler
// shape of the teacher's common/logger package.
//
// Only tel2puml.Run logs, once per pipeline stage at Debug; logic,
// loopgraph and walker do not log.
package obslog

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// Logger wraps slog.Logger. The core never needs request-scoped fields
// (there is no context.Context on the hot path, per spec.md §5's
// single-threaded cooperative model), so unlike the teacher's logger this
// carries no WithContext/WithRunID helpers — just With, matching what's
// actually exercised.
type Logger struct {
	*slog.Logger
}

// New builds a Logger. format "json" selects slog.NewJSONHandler for
// machine consumption; anything else (including "") selects tint's colored
// console handler.
func New(level, format string) *Logger {
	var handler slog.Handler
	logLevel := parseLevel(level)

	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	default:
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.TimeOnly,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// Discard returns a Logger whose output goes nowhere. Used as the default
// when a caller to Run doesn't supply one.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(discardWriter{}, nil))}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// WithJob returns a Logger scoped to a job name, the one dimension the core
// actually partitions work by (spec.md §5: "the enclosing system may
// parallelise across job-names").
func (l *Logger) WithJob(jobName string) *Logger {
	return &Logger{Logger: l.With("job_name", jobName)}
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
