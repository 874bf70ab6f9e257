// Package embed is the in-process API for hosts that hand over a FASTA
// buffer and want the finished output back as bytes (e.g. the wasm bridge).
// Runs are synchronous and single-goroutine.
package embed

import (
	"bytes"
	"context"
	"errors"

	"selfsim/internal/batch"
	"selfsim/internal/cmdutil"
	"selfsim/internal/fasta"
	"selfsim/internal/grid"
	"selfsim/internal/pipeline"
	"selfsim/internal/progress"
	"selfsim/internal/writers"
)

// ErrNoChromosomes is returned when the buffer holds no usable record.
var ErrNoChromosomes = errors.New("no chromosomes in FASTA")

// Notify receives progress messages. Its errors are ignored.
type Notify func(msg string) error

// ProcessToIPC returns an Arrow IPC file. The chromosome column is always
// present. gzipped forces gzip decoding; other codecs are detected.
func ProcessToIPC(data []byte, gzipped bool, notify Notify) ([]byte, error) {
	return process(writers.FormatIPC, data, gzipped, notify)
}

// ProcessToReport returns the plotting report as a JSON array of
// {name, max_idx, points}.
func ProcessToReport(data []byte, gzipped bool, notify Notify) ([]byte, error) {
	return process(writers.FormatReport, data, gzipped, notify)
}

func process(format string, data []byte, gzipped bool, notify Notify) ([]byte, error) {
	recs, err := fasta.FromBytes(data, gzipped, nil)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrNoChromosomes
	}

	var n progress.Notifier
	if notify != nil {
		n = progress.NotifierFunc(notify)
	}

	var buf bytes.Buffer
	_, err = cmdutil.RunStream(context.Background(), &buf, recs, cmdutil.Stream{
		Format: format,
		Writer: writers.Options{Tagged: true, SampleRate: 1},
		Pipeline: pipeline.Config{
			Grid:       grid.Default(),
			BatchSize:  batch.EmbeddedCapacity,
			Sequential: true,
		},
		Reporter: progress.New(n),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
