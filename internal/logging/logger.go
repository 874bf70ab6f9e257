// Package logging wraps slog with the field names used across selfsim.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Logger wraps slog.Logger with run/sequence helpers.
type Logger struct {
	*slog.Logger
}

// New wraps handler; a nil handler logs text at info level to io.Discard.
func New(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(io.Discard, nil)
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger logs human-readable lines to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewJSONLogger logs one JSON object per line to w.
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	return New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Noop discards everything.
func Noop() *Logger {
	return New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(1000)}))
}

// ParseLevel accepts debug|info|warn|error (case-insensitive).
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(strings.TrimSpace(s)))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}

// NewFromFlags builds the CLI logger. quiet raises the floor to warn.
func NewFromFlags(w io.Writer, format, level string, quiet bool) (*Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if quiet && lvl < slog.LevelWarn {
		lvl = slog.LevelWarn
	}
	switch format {
	case "", "text":
		return NewTextLogger(w, lvl), nil
	case "json":
		return NewJSONLogger(w, lvl), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
}

// OrNoop returns l, or a discarding logger when l is nil.
func OrNoop(l *Logger) *Logger {
	if l == nil {
		return Noop()
	}
	return l
}

// WithSequence tags records with the sequence name.
func (l *Logger) WithSequence(name string) *Logger {
	return &Logger{Logger: l.Logger.With("sequence", name)}
}

// WithComponent tags records with the emitting component.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{Logger: l.Logger.With("component", name)}
}

// LogSequencePlan logs the grid summary before a sequence is processed.
func (l *Logger) LogSequencePlan(ctx context.Context, name string, length, points int, pairs int64) {
	l.InfoContext(ctx, "sequence planned",
		"sequence", name,
		"length_bp", humanize.Comma(int64(length)),
		"grid_points", points,
		"pairs", humanize.Comma(pairs),
	)
}

// LogSequenceSkipped logs a sequence too short for any grid pair.
func (l *Logger) LogSequenceSkipped(ctx context.Context, name string, length, spacing int) {
	l.InfoContext(ctx, "sequence too short for grid pairs; skipped",
		"sequence", name,
		"length_bp", length,
		"needs_bp", 2*spacing,
	)
}

// LogSequenceDone logs the outcome of one sequence.
func (l *Logger) LogSequenceDone(ctx context.Context, name string, pairs int64, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "sequence failed",
			"sequence", name,
			"pairs", humanize.Comma(pairs),
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "sequence completed",
		"sequence", name,
		"pairs", humanize.Comma(pairs),
		"elapsed", elapsed.Round(time.Millisecond),
	)
}

// LogSinkProgress logs periodic writer totals.
func (l *Logger) LogSinkProgress(ctx context.Context, batches int, rows int64) {
	l.InfoContext(ctx, "writer progress",
		"batches", batches,
		"rows", humanize.Comma(rows),
	)
}

// LogSinkFinished logs the finalized container totals or the failure.
func (l *Logger) LogSinkFinished(ctx context.Context, batches int, rows int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "writer failed; output is not usable",
			"batches", batches,
			"rows", humanize.Comma(rows),
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "writer finalized output",
		"batches", batches,
		"rows", humanize.Comma(rows),
	)
}
