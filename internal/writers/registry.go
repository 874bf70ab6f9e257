// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"
)

// Output formats.
const (
	FormatIPC    = "ipc"
	FormatReport = "report"
)

// Options parameterize a BatchWriter.
type Options struct {
	Tagged      bool   // add the chromosome column (ipc)
	Compression string // none | lz4 | zstd (ipc)
	SampleRate  int    // keep every Nth pair (report)
	Pretty      bool   // indented JSON (report)
}

// Factory builds a BatchWriter over out.
type Factory func(out io.Writer, o Options) (BatchWriter, error)

// Writer registry (format → factory). Formats register in init() blocks.
var formats = map[string]Factory{}

// Register installs a format (idempotent last-wins).
func Register(format string, f Factory) { formats[format] = f }

// New dispatches to the registered factory.
func New(format string, out io.Writer, o Options) (BatchWriter, error) {
	f, ok := formats[format]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (no writer registered)", format)
	}
	return f(out, o)
}

// Formats lists registered format names, sorted.
func Formats() []string {
	out := make([]string, 0, len(formats))
	for k := range formats {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func init() {
	Register(FormatIPC, func(out io.Writer, o Options) (BatchWriter, error) {
		w, err := NewIPCWriter(out, o)
		if err != nil {
			return nil, err
		}
		return w, nil
	})
}
