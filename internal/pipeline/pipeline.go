// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"selfsim/internal/batch"
	"selfsim/internal/fasta"
	"selfsim/internal/grid"
	"selfsim/internal/kernel"
	"selfsim/internal/logging"
	"selfsim/internal/progress"
)

// Config controls the comparison pipeline.
type Config struct {
	Grid       grid.Config // zero value means grid.Default()
	Workers    int         // worker goroutines; <= 0 means runtime.NumCPU()
	BatchSize  int         // rows per batch; <= 0 means batch.BulkCapacity
	Sequential bool        // run every row on the calling goroutine
}

// DefaultConfig is the bulk-mode configuration.
func DefaultConfig() Config {
	return Config{Grid: grid.Default(), Workers: runtime.NumCPU(), BatchSize: batch.BulkCapacity}
}

func (c Config) normalized() Config {
	if c.Grid.Spacing == 0 && len(c.Grid.Tiers) == 0 {
		c.Grid = grid.Default()
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.BatchSize <= 0 {
		c.BatchSize = batch.BulkCapacity
	}
	if c.Sequential {
		c.Workers = 1
	}
	return c
}

// Sender accepts sealed batches. writers.Sink and writers.Direct implement it.
type Sender interface {
	Send(ctx context.Context, b *batch.Batch) error
}

// Stats summarizes a run. Pairs and Batches count what the sink accepted.
type Stats struct {
	Sequences int
	Skipped   int
	Failed    int
	Pairs     int64
	Batches   int
}

type options struct {
	log *logging.Logger
	rep *progress.Reporter
}

// Option configures Run.
type Option func(*options)

// WithLogger sets the structured logger (default: no-op).
func WithLogger(l *logging.Logger) Option { return func(o *options) { o.log = l } }

// WithReporter attaches a progress reporter.
func WithReporter(r *progress.Reporter) Option { return func(o *options) { o.rep = r } }

// Run compares every grid pair of every sequence and hands the records to
// out in batches. Sequences are processed one after another.
//
// A sequence whose output could not be delivered fails on its own when more
// than one sequence was supplied; the run goes on and the failures are
// joined into the returned error. With a single sequence the failure is
// returned directly. Context cancellation always stops the run.
func Run(ctx context.Context, cfg Config, seqs []fasta.Record, out Sender, opts ...Option) (st Stats, err error) {
	if len(seqs) == 0 {
		return st, ErrNoSequences
	}
	cfg = cfg.normalized()
	if err := cfg.Grid.Validate(); err != nil {
		return st, fmt.Errorf("grid: %w", err)
	}
	o := options{}
	for _, fn := range opts {
		fn(&o)
	}
	log := logging.OrNoop(o.log).WithComponent("pipeline")
	rep := o.rep

	rep.Start(len(seqs))
	defer func() { rep.Done(summary(st, err)) }()

	var failed []error
	for k, rec := range seqs {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		st.Sequences++

		n := cfg.Grid.NumPoints(len(rec.Seq))
		if n < 2 {
			log.LogSequenceSkipped(ctx, rec.ID, len(rec.Seq), cfg.Grid.Spacing)
			st.Skipped++
			continue
		}
		log.LogSequencePlan(ctx, rec.ID, len(rec.Seq), n, grid.PairCount(n))
		rep.BeginSequence(k, len(seqs), rec.ID, len(rec.Seq), grid.Rows(n))

		start := time.Now()
		r := &seqRun{cfg: cfg, name: rec.ID, seq: rec.Seq, n: n, rows: grid.Rows(n), out: out, rep: rep}
		serr := r.run(ctx)
		pairs := r.sent.Load()
		st.Pairs += pairs
		st.Batches += int(r.batches.Load())
		log.LogSequenceDone(ctx, rec.ID, pairs, time.Since(start), serr)
		rep.EndSequence(rec.ID, pairs, serr)

		if serr == nil {
			continue
		}
		if cerr := ctx.Err(); cerr != nil {
			return st, cerr
		}
		st.Failed++
		e := &SequenceError{Name: rec.ID, Pairs: pairs, Err: serr}
		if len(seqs) == 1 {
			return st, e
		}
		failed = append(failed, e)
	}
	if len(failed) > 0 {
		return st, errors.Join(failed...)
	}
	return st, nil
}

func summary(st Stats, err error) string {
	if err != nil {
		return fmt.Sprintf("Stopped: %s pairs written, %d of %d sequence(s) failed.",
			humanize.Comma(st.Pairs), st.Failed, st.Sequences)
	}
	return fmt.Sprintf("Done: %s pairs across %d sequence(s).", humanize.Comma(st.Pairs), st.Sequences)
}

// seqRun holds the state shared by the workers of one sequence. seq is
// read-only for its whole lifetime.
type seqRun struct {
	cfg  Config
	name string
	seq  []byte
	n    int // grid points
	rows int
	out  Sender
	rep  *progress.Reporter

	cursor   atomic.Int64 // next outer row to hand out
	computed atomic.Int64 // pairs whose distance is known
	sent     atomic.Int64 // pairs accepted by the sink
	batches  atomic.Int64

	repMu sync.Mutex
	done  int // finished rows, guarded by repMu
}

func (r *seqRun) run(ctx context.Context) error {
	workers := min(r.cfg.Workers, r.rows)
	if r.cfg.Sequential || workers <= 1 {
		return r.work(ctx, 0)
	}
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error { return r.work(gctx, w) })
	}
	return g.Wait()
}

// work pulls outer rows from the shared cursor until none are left. The
// accumulator carries residual rows from one outer row to the next and is
// flushed once at the end.
func (r *seqRun) work(ctx context.Context, id int) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &WorkerError{Worker: id, Value: v, Stack: debug.Stack()}
		}
	}()

	acc := batch.NewAccumulator(r.cfg.BatchSize)
	acc.Reset(r.name)
	var scratch kernel.Scratch
	done := ctx.Done()

	for {
		i := int(r.cursor.Add(1) - 1)
		if i >= r.rows {
			break
		}
		var sendErr error
		grid.ForEachInRow(i, r.n, func(j int) bool {
			// long rows of wide windows must still notice an interrupt
			select {
			case <-done:
				sendErr = ctx.Err()
				return false
			default:
			}
			a, b, tier := r.cfg.Grid.Windows(r.seq, i, j)
			acc.Append(batch.Record{
				Idx1:     uint32(i),
				Idx2:     uint32(j),
				Distance: scratch.Distance(a, b),
				Tier:     tier,
			})
			if acc.IsFull() {
				sendErr = r.send(ctx, acc.Take())
			}
			return sendErr == nil
		})
		if sendErr != nil {
			return sendErr
		}
		r.rowDone(int64(r.n - 1 - i))
	}
	return r.send(ctx, acc.Take())
}

func (r *seqRun) send(ctx context.Context, b *batch.Batch) error {
	if b.Len() == 0 {
		return nil
	}
	if err := r.out.Send(ctx, b); err != nil {
		if cerr := ctx.Err(); cerr != nil && errors.Is(err, cerr) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}
	r.sent.Add(int64(b.Len()))
	r.batches.Add(1)
	return nil
}

func (r *seqRun) rowDone(pairs int64) {
	total := r.computed.Add(pairs)
	if r.rep == nil {
		return
	}
	r.repMu.Lock()
	r.done++
	r.rep.Row(r.name, r.done, r.rows, total)
	r.repMu.Unlock()
}
