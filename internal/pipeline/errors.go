// internal/pipeline/errors.go
package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSequences is returned when the supplier produced nothing.
	ErrNoSequences = errors.New("no sequences to process")

	// ErrSendFailed means the sink stopped accepting batches. The output of
	// the affected sequence is incomplete.
	ErrSendFailed = errors.New("failed to send batch to sink")
)

// SequenceError scopes a failure to one sequence.
type SequenceError struct {
	Name  string
	Pairs int64 // pairs handed to the sink before the failure
	Err   error
}

func (e *SequenceError) Error() string {
	return fmt.Sprintf("sequence %q: %v", e.Name, e.Err)
}

func (e *SequenceError) Unwrap() error { return e.Err }

// WorkerError is a recovered panic inside a worker. It is an internal fault,
// never an input problem.
type WorkerError struct {
	Worker int
	Value  any
	Stack  []byte
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("worker %d panicked: %v", e.Worker, e.Value)
}
