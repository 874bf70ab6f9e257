package cmdutil

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"selfsim/internal/batch"
	"selfsim/internal/fasta"
	"selfsim/internal/grid"
	"selfsim/internal/pipeline"
	"selfsim/internal/writers"
)

func seq(seed int64, n int) []byte {
	rng := rand.New(rand.NewSource(seed))
	b := make([]byte, n)
	for i := range b {
		b[i] = "ACGTN"[rng.Intn(5)]
	}
	return b
}

func smallGrid() grid.Config {
	return grid.Config{Spacing: 10, Tiers: []grid.Tier{{MaxSeparation: 40, Window: 3}, {MaxSeparation: 0, Window: 10}}}
}

// brokenWriter fails its second batch.
type brokenWriter struct{ n int }

func (b *brokenWriter) WriteBatch(*batch.Batch) error {
	b.n++
	if b.n == 2 {
		return errors.New("device unplugged")
	}
	return nil
}

func (b *brokenWriter) Close() error { return nil }

func init() {
	writers.Register("broken-test", func(io.Writer, writers.Options) (writers.BatchWriter, error) {
		return &brokenWriter{}, nil
	})
}

func TestRunStreamIPC(t *testing.T) {
	for _, sequential := range []bool{false, true} {
		var buf bytes.Buffer
		seqs := []fasta.Record{{ID: "a", Seq: seq(1, 200)}, {ID: "b", Seq: seq(2, 95)}}
		st, err := RunStream(context.Background(), &buf, seqs, Stream{
			Format:   writers.FormatIPC,
			Writer:   writers.Options{Tagged: true, Compression: writers.CompressionZstd},
			Pipeline: pipeline.Config{Grid: smallGrid(), Workers: 3, BatchSize: 16, Sequential: sequential},
			QueueCap: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, grid.PairCount(20)+grid.PairCount(9), st.Pairs)

		ds, err := writers.ReadIPC(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		assert.Len(t, ds.Rows(), int(st.Pairs))
	}
}

func TestRunStreamNoSequencesStillFinalizes(t *testing.T) {
	var buf bytes.Buffer
	_, err := RunStream(context.Background(), &buf, nil, Stream{Format: writers.FormatIPC})
	assert.ErrorIs(t, err, pipeline.ErrNoSequences)
	_, rerr := writers.ReadIPC(bytes.NewReader(buf.Bytes()))
	assert.NoError(t, rerr)
}

func TestRunStreamUnknownFormat(t *testing.T) {
	_, err := RunStream(context.Background(), io.Discard, nil, Stream{Format: "parquet"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestRunStreamWriterFailureSurfaces(t *testing.T) {
	for _, sequential := range []bool{false, true} {
		seqs := []fasta.Record{{ID: "only", Seq: seq(3, 300)}}
		_, err := RunStream(context.Background(), io.Discard, seqs, Stream{
			Format:   "broken-test",
			Pipeline: pipeline.Config{Grid: smallGrid(), Workers: 2, BatchSize: 10, Sequential: sequential},
			QueueCap: 1,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, pipeline.ErrSendFailed)
		assert.Contains(t, err.Error(), "device unplugged")
	}
}
