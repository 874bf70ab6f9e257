// Package progress delivers best-effort status messages to an observer.
// Nothing here may fail a run: notifier errors and panics are swallowed.
package progress

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/time/rate"

	"selfsim/internal/logging"
)

// Notifier receives human-readable status strings.
type Notifier interface {
	Notify(msg string) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string) error

func (f NotifierFunc) Notify(msg string) error { return f(msg) }

// LogNotifier forwards messages to a logger at info level.
type LogNotifier struct{ Log *logging.Logger }

func (n LogNotifier) Notify(msg string) error {
	n.Log.Info(msg, "component", "progress")
	return nil
}

// Tracker is an optional structured observer (e.g. a terminal bar).
// Implementations must be safe for concurrent Advance calls.
type Tracker interface {
	Begin(name string, rows int)
	Advance(rows int)
	End(ok bool)
	Close()
}

// Reporter emits start, per-sequence, row-checkpoint and completion
// notifications. A nil *Reporter is valid and silent.
type Reporter struct {
	n       Notifier
	tracker Tracker
	prefix  string
	limiter *rate.Limiter

	failures atomic.Int64
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithTracker attaches a structured tracker.
func WithTracker(t Tracker) Option { return func(r *Reporter) { r.tracker = t } }

// WithPrefix prepends s to every message.
func WithPrefix(s string) Option { return func(r *Reporter) { r.prefix = s } }

// WithInterval caps row checkpoint messages to one per d (0 disables).
func WithInterval(d time.Duration) Option {
	return func(r *Reporter) {
		if d <= 0 {
			r.limiter = nil
			return
		}
		r.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// New returns a Reporter forwarding to n (nil n only drives the tracker).
func New(n Notifier, opts ...Option) *Reporter {
	r := &Reporter{n: n}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Notify formats and delivers a message; failures are counted, not returned.
func (r *Reporter) Notify(format string, args ...any) {
	if r == nil || r.n == nil {
		return
	}
	msg := r.prefix + fmt.Sprintf(format, args...)
	defer func() {
		if recover() != nil {
			r.failures.Add(1)
		}
	}()
	if err := r.n.Notify(msg); err != nil {
		r.failures.Add(1)
	}
}

// Failures reports how many notifications were dropped.
func (r *Reporter) Failures() int64 {
	if r == nil {
		return 0
	}
	return r.failures.Load()
}

// Start announces a run over count sequences.
func (r *Reporter) Start(count int) {
	r.Notify("Starting: %d sequence(s) loaded.", count)
}

// BeginSequence announces sequence k (0-based) of total.
func (r *Reporter) BeginSequence(k, total int, name string, length, rows int) {
	if r == nil {
		return
	}
	r.Notify("Chromosome %d/%d '%s' (%s bp)...", k+1, total, name, humanize.Comma(int64(length)))
	if r.tracker != nil && rows > 0 {
		r.safeTrack(func() { r.tracker.Begin(name, rows) })
	}
}

// CheckpointStep is the number of rows between row messages for a sequence
// with rows outer indices.
func CheckpointStep(rows int) int {
	return max(rows/20, 10)
}

// Row records that one more outer grid row finished. done is the running
// count of finished rows (1-based, unique per call), rows the total.
func (r *Reporter) Row(name string, done, rows int, pairs int64) {
	if r == nil {
		return
	}
	if r.tracker != nil {
		r.safeTrack(func() { r.tracker.Advance(1) })
	}
	last := done == rows
	if !last && done%CheckpointStep(rows) != 0 {
		return
	}
	if !last && r.limiter != nil && !r.limiter.Allow() {
		return
	}
	r.Notify("Chromosome '%s', grid point %d/%d (%s pairs processed)", name, done, rows, humanize.Comma(pairs))
}

// EndSequence summarizes one sequence.
func (r *Reporter) EndSequence(name string, pairs int64, err error) {
	if r == nil {
		return
	}
	if r.tracker != nil {
		r.safeTrack(func() { r.tracker.End(err == nil) })
	}
	if err != nil {
		r.Notify("Chromosome '%s' failed after %s pairs: %v", name, humanize.Comma(pairs), err)
		return
	}
	r.Notify("Finished chromosome '%s'. Total pairs: %s", name, humanize.Comma(pairs))
}

// Done announces completion and releases the tracker.
func (r *Reporter) Done(msg string) {
	if r == nil {
		return
	}
	if r.tracker != nil {
		r.safeTrack(r.tracker.Close)
	}
	r.Notify("%s", msg)
}

func (r *Reporter) safeTrack(fn func()) {
	defer func() {
		if recover() != nil {
			r.failures.Add(1)
		}
	}()
	fn()
}
