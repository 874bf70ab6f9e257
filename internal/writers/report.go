// internal/writers/report.go
package writers

import (
	"encoding/json"
	"io"

	"selfsim/internal/batch"
	"selfsim/internal/report"
)

// ReportWriter folds batches into the plotting report and encodes it as a
// single JSON array on Close.
type ReportWriter struct {
	out    io.Writer
	b      *report.Builder
	pretty bool
}

// NewReportWriter returns a report writer over out.
func NewReportWriter(out io.Writer, o Options) *ReportWriter {
	return &ReportWriter{out: out, b: report.NewBuilder(o.SampleRate), pretty: o.Pretty}
}

func (w *ReportWriter) WriteBatch(b *batch.Batch) error {
	w.b.Add(b)
	return nil
}

// Close writes the report followed by a newline.
func (w *ReportWriter) Close() error {
	enc := json.NewEncoder(w.out)
	if w.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(w.b.Chromosomes())
}

func init() {
	Register(FormatReport, func(out io.Writer, o Options) (BatchWriter, error) {
		return NewReportWriter(out, o), nil
	})
}
