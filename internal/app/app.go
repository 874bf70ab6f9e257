// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"selfsim/internal/appcore"
	"selfsim/internal/cli"
	"selfsim/internal/clibase"
	"selfsim/internal/logging"
	"selfsim/internal/pipeline"
	"selfsim/internal/publish"
	"selfsim/internal/runutil"
	"selfsim/internal/version"
	"selfsim/internal/writers"
)

const name = "selfsim"

// flush writes buffered stdout and maps the result to an exit code.
func flush(outw *bufio.Writer, stderr io.Writer, code int) int {
	if e := outw.Flush(); writers.IsBrokenPipe(e) {
		return appcore.ExitOK
	} else if e != nil {
		_, _ = fmt.Fprintln(stderr, e)
		return appcore.ExitRuntime
	}
	return code
}

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	fs := cli.NewFlagSet(name)
	fs.SetOutput(io.Discard)

	if len(argv) == 0 {
		argv = []string{"-h"}
	}

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		outw := bufio.NewWriter(stdout)
		switch {
		case errors.Is(err, flag.ErrHelp):
			fs.SetOutput(outw)
			fs.Usage()
			return flush(outw, stderr, appcore.ExitOK)
		case errors.Is(err, clibase.ErrPrintedAndExitOK):
			clibase.PrintExamples(outw, name)
			return flush(outw, stderr, appcore.ExitOK)
		}
		_, _ = fmt.Fprintln(stderr, "error:", err)
		fs.SetOutput(outw)
		fs.Usage()
		return flush(outw, stderr, appcore.ExitUsage)
	}

	if opts.Version {
		outw := bufio.NewWriter(stdout)
		_, _ = fmt.Fprintf(outw, "%s version %s\n", name, version.Version)
		return flush(outw, stderr, appcore.ExitOK)
	}

	log, err := logging.NewFromFlags(stderr, opts.LogFormat, opts.LogLevel, opts.Quiet)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "error:", err)
		return appcore.ExitUsage
	}

	workers, queueCap, warns := runutil.ValidateExecution(opts.Sequential, opts.Threads, opts.QueueCapacity)
	for _, w := range warns {
		log.Warn(w)
	}

	return appcore.Run(parent, stdout, stderr, appcore.Options{
		SeqFiles:   opts.SeqFiles,
		OutputPath: opts.Output,
		Output:     appcore.NewOutputFactory(opts.Format, opts.Compression, opts.SampleRate, opts.Pretty, opts.Tag),
		Pipeline: pipeline.Config{
			Grid:       opts.GridSettings().GridConfig(),
			Workers:    workers,
			BatchSize:  opts.BatchSize,
			Sequential: opts.Sequential,
		},
		QueueCap: queueCap,
		Publish:  opts.Publish,
		PublishCfg: publish.Options{
			Endpoint:  opts.PublishCfg.Endpoint,
			AccessKey: opts.PublishCfg.AccessKey,
			SecretKey: opts.PublishCfg.SecretKey,
			Secure:    opts.PublishCfg.Secure,
			Region:    opts.PublishCfg.Region,
		},
		Progress: opts.Progress,
		Log:      log,
	})
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
