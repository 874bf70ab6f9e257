// internal/appcore/core.go
package appcore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"selfsim/internal/cmdutil"
	"selfsim/internal/fasta"
	"selfsim/internal/logging"
	"selfsim/internal/pipeline"
	"selfsim/internal/progress"
	"selfsim/internal/publish"
	"selfsim/internal/writers"
)

// Exit codes.
const (
	ExitOK          = 0
	ExitUsage       = 2
	ExitRuntime     = 3
	ExitInterrupted = 130
)

// progressInterval throttles row checkpoints routed to the log.
const progressInterval = 5 * time.Second

type Options struct {
	SeqFiles   []string
	OutputPath string // "-" writes to stdout
	Output     OutputFactory

	Pipeline pipeline.Config
	QueueCap int

	Publish    string // s3://bucket/key, empty to skip
	PublishCfg publish.Options

	Progress bool // mpb bar on stderr instead of log checkpoints
	Log      *logging.Logger
}

// Run loads the inputs, streams the comparison into the output and maps
// the outcome to an exit code.
func Run(parent context.Context, stdout, stderr io.Writer, o Options) int {
	log := logging.OrNoop(o.Log)

	seqs, err := fasta.LoadAll(o.SeqFiles, log)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return ExitUsage
	}
	if len(seqs) == 0 {
		fmt.Fprintln(stderr, "error:", pipeline.ErrNoSequences)
		return ExitUsage
	}

	dst, closeDst, err := openOutput(o.OutputPath, stdout)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return ExitRuntime
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	rep := newReporter(o.Progress, stderr, log)
	stream := o.Output.Stream(len(seqs), o.Pipeline, o.QueueCap, log, rep)
	st, perr := cmdutil.RunStream(ctx, dst, seqs, stream)
	if cerr := closeDst(); cerr != nil {
		perr = errors.Join(perr, fmt.Errorf("output: %w", cerr))
	}

	if perr != nil {
		switch {
		case o.OutputPath == "-" && writers.IsBrokenPipe(perr):
			return ExitOK
		case errors.Is(perr, context.Canceled):
			return ExitInterrupted
		}
		fmt.Fprintln(stderr, "error:", perr)
		if errors.Is(perr, pipeline.ErrNoSequences) {
			return ExitUsage
		}
		return ExitRuntime
	}
	log.Info("run complete",
		"sequences", st.Sequences,
		"skipped", st.Skipped,
		"pairs", humanize.Comma(st.Pairs),
		"batches", st.Batches,
	)

	if o.Publish != "" {
		client, err := publish.NewClient(o.PublishCfg)
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return ExitRuntime
		}
		if _, err := publish.NewUploader(client, log).Upload(ctx, o.OutputPath, o.Publish); err != nil {
			if errors.Is(err, context.Canceled) {
				return ExitInterrupted
			}
			fmt.Fprintln(stderr, "error:", err)
			return ExitRuntime
		}
	}
	return ExitOK
}

func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		bw := bufio.NewWriter(stdout)
		return bw, bw.Flush, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return f, f.Close, nil
}

func newReporter(bar bool, stderr io.Writer, log *logging.Logger) *progress.Reporter {
	if bar {
		return progress.New(nil, progress.WithTracker(progress.NewBar(stderr)))
	}
	return progress.New(progress.LogNotifier{Log: log}, progress.WithInterval(progressInterval))
}
