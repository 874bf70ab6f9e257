// Package appshell runs a CLI entry point under signal handling.
package appshell

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// ExitInterrupted is the exit code of a run stopped by SIGINT/SIGTERM.
const ExitInterrupted = 130

// Entry is a CLI entry point: argv without the program name, stdout, stderr.
type Entry func(ctx context.Context, argv []string, stdout, stderr io.Writer) int

// Main runs entry with a context cancelled by the first SIGINT/SIGTERM and
// exits with its code. After the first signal the default handlers are
// restored, so a second Ctrl-C kills the process without waiting for the
// writer to finish.
func Main(entry Entry) {
	os.Exit(run(entry, os.Args[1:], os.Stdout, os.Stderr))
}

func run(entry Entry, argv []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	finished := make(chan struct{})
	watcher := make(chan struct{})
	go func() {
		defer close(watcher)
		select {
		case <-ctx.Done():
			stop()
			fmt.Fprintln(stderr, "interrupted; stopping workers (press Ctrl-C again to abort)")
		case <-finished:
		}
	}()

	code := exitCode(ctx, entry(ctx, argv, stdout, stderr))
	close(finished)
	<-watcher
	stop()
	return code
}

// exitCode maps any success or runtime failure that followed an interrupt
// to ExitInterrupted; usage errors keep their code.
func exitCode(ctx context.Context, code int) int {
	if ctx.Err() != nil && (code == 0 || code == 3) {
		return ExitInterrupted
	}
	return code
}
