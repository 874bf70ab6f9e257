// internal/clibase/examples.go
package clibase

import (
	"errors"
	"fmt"
	"io"
)

// ErrPrintedAndExitOK is returned by ParseArgs after --examples was printed.
var ErrPrintedAndExitOK = errors.New("examples requested")

// PrintExamples writes the quickstart for name, then a pointer to --help.
func PrintExamples(out io.Writer, name string) {
	if out == nil {
		return
	}
	_, _ = fmt.Fprintf(out, "%s quickstart\n\n", name)
	for _, ex := range examples {
		_, _ = fmt.Fprintf(out, "  # %s\n  %s %s\n\n", ex.what, name, ex.args)
	}
	_, _ = fmt.Fprintln(out, "Tip: run with --help for all flags.")
}

var examples = []struct{ what, args string }{
	{"whole genome, all CPUs", "genome.fa.gz -o genome.arrow"},
	{"legacy two-argument form", "genome.fa genome.arrow"},
	{"several assemblies, zstd-compressed container", "--compression zstd 'asm/*.fa' -o all.arrow"},
	{"plotting report on STDOUT, every 10th pair", "--format report --sample-rate 10 chr1.fa"},
	{"low memory, single goroutine", "--sequential --batch-size 4096 chr1.fa -o chr1.arrow"},
	{"upload when done", "--config selfsim.yaml genome.fa -o g.arrow --publish s3://maps/g.arrow"},
}
