// internal/writers/sink.go
package writers

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"selfsim/internal/batch"
	"selfsim/internal/logging"
)

// ErrSinkClosed is returned by Send once the consumer has stopped (it
// failed, or Close was called). Producers must not retry.
var ErrSinkClosed = errors.New("writers: sink closed")

// sinkLogEvery is the batch interval between writer progress logs.
const sinkLogEvery = 100

// BatchWriter serializes batches to one destination. Only one goroutine
// ever calls it.
type BatchWriter interface {
	WriteBatch(b *batch.Batch) error
	// Close finalizes the destination (footer, flush).
	Close() error
}

// Queue is the producer-facing side of a sink.
type Queue interface {
	Send(ctx context.Context, b *batch.Batch) error
	// Close signals end of data and returns the first write/finalize error.
	Close() error
	// Stats reports batches and rows written; valid after Close.
	Stats() (batches int, rows int64)
}

// Sink owns a BatchWriter on a dedicated goroutine and feeds it from a
// bounded channel. A full channel blocks Send.
type Sink struct {
	in        chan *batch.Batch
	done      chan struct{}
	closeOnce sync.Once
	log       *logging.Logger

	// written by the consumer before done is closed
	err     error
	batches int
	rows    int64
}

// StartSink spins up the consumer goroutine. queueCap <= 0 means 1.
func StartSink(bw BatchWriter, queueCap int, log *logging.Logger) *Sink {
	if queueCap <= 0 {
		queueCap = 1
	}
	s := &Sink{
		in:   make(chan *batch.Batch, queueCap),
		done: make(chan struct{}),
		log:  logging.OrNoop(log).WithComponent("sink"),
	}
	go s.consume(bw)
	return s
}

func (s *Sink) consume(bw BatchWriter) {
	defer close(s.done)
	ctx := context.Background()
	for b := range s.in {
		if err := bw.WriteBatch(b); err != nil {
			s.err = fmt.Errorf("write batch %d: %w", s.batches+1, err)
			s.log.LogSinkFinished(ctx, s.batches, s.rows, s.err)
			return
		}
		s.batches++
		s.rows += int64(b.Len())
		if s.batches%sinkLogEvery == 0 {
			s.log.LogSinkProgress(ctx, s.batches, s.rows)
		}
	}
	if err := bw.Close(); err != nil {
		s.err = fmt.Errorf("finalize output: %w", err)
	}
	s.log.LogSinkFinished(ctx, s.batches, s.rows, s.err)
}

// Send hands b to the consumer. Empty batches are dropped.
func (s *Sink) Send(ctx context.Context, b *batch.Batch) error {
	if b.Len() == 0 {
		return nil
	}
	select {
	case <-s.done:
		return ErrSinkClosed
	default:
	}
	select {
	case s.in <- b:
		return nil
	case <-s.done:
		return ErrSinkClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close must be called once every producer has returned.
func (s *Sink) Close() error {
	s.closeOnce.Do(func() { close(s.in) })
	<-s.done
	return s.err
}

// Stats waits for the consumer to stop and reports batches and rows written.
func (s *Sink) Stats() (int, int64) {
	<-s.done
	return s.batches, s.rows
}

// Direct writes each batch synchronously on the caller's goroutine. It is
// the sequential-mode counterpart of Sink.
type Direct struct {
	bw      BatchWriter
	log     *logging.Logger
	err     error
	closed  bool
	batches int
	rows    int64
}

// NewDirect wraps bw without a queue.
func NewDirect(bw BatchWriter, log *logging.Logger) *Direct {
	return &Direct{bw: bw, log: logging.OrNoop(log).WithComponent("sink")}
}

// Send writes b before returning. After a write failure it returns
// ErrSinkClosed.
func (d *Direct) Send(ctx context.Context, b *batch.Batch) error {
	if b.Len() == 0 {
		return nil
	}
	if d.err != nil || d.closed {
		return ErrSinkClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := d.bw.WriteBatch(b); err != nil {
		d.err = fmt.Errorf("write batch %d: %w", d.batches+1, err)
		d.log.LogSinkFinished(ctx, d.batches, d.rows, d.err)
		return ErrSinkClosed
	}
	d.batches++
	d.rows += int64(b.Len())
	if d.batches%sinkLogEvery == 0 {
		d.log.LogSinkProgress(ctx, d.batches, d.rows)
	}
	return nil
}

// Close finalizes the writer unless a write already failed.
func (d *Direct) Close() error {
	if d.closed {
		return d.err
	}
	d.closed = true
	if d.err != nil {
		return d.err
	}
	if err := d.bw.Close(); err != nil {
		d.err = fmt.Errorf("finalize output: %w", err)
	}
	d.log.LogSinkFinished(context.Background(), d.batches, d.rows, d.err)
	return d.err
}

// Stats reports batches and rows written so far.
func (d *Direct) Stats() (int, int64) { return d.batches, d.rows }

// Open starts the queue flavor matching the execution mode.
func Open(bw BatchWriter, sequential bool, queueCap int, log *logging.Logger) Queue {
	if sequential {
		return NewDirect(bw, log)
	}
	return StartSink(bw, queueCap, log)
}
