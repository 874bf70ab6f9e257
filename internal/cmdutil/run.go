// internal/cmdutil/run.go
package cmdutil

import (
	"context"
	"errors"
	"fmt"
	"io"

	"selfsim/internal/fasta"
	"selfsim/internal/logging"
	"selfsim/internal/pipeline"
	"selfsim/internal/progress"
	"selfsim/internal/writers"
)

// Stream bundles what a run needs besides its inputs.
type Stream struct {
	Format   string          // registered writer format
	Writer   writers.Options // writer parameters
	Pipeline pipeline.Config
	QueueCap int // sink queue depth (parallel mode)
	Log      *logging.Logger
	Reporter *progress.Reporter
}

// RunStream builds the writer for out, runs the shared pipeline into it and
// finalizes the output. It returns the run statistics and every failure:
// pipeline errors and the writer's own I/O error are joined.
func RunStream(ctx context.Context, out io.Writer, seqs []fasta.Record, s Stream) (pipeline.Stats, error) {
	bw, err := writers.New(s.Format, out, s.Writer)
	if err != nil {
		return pipeline.Stats{}, err
	}
	q := writers.Open(bw, s.Pipeline.Sequential, s.QueueCap, s.Log)

	st, runErr := pipeline.Run(ctx, s.Pipeline, seqs, q,
		pipeline.WithLogger(s.Log),
		pipeline.WithReporter(s.Reporter),
	)
	if cerr := q.Close(); cerr != nil {
		return st, errors.Join(runErr, fmt.Errorf("output: %w", cerr))
	}
	return st, runErr
}
