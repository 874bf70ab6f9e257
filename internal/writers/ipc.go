// internal/writers/ipc.go
package writers

import (
	"bufio"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"selfsim/internal/batch"
)

// Column names of the output container.
const (
	ColChromosome = "chromosome"
	ColIdx1       = "idx1"
	ColIdx2       = "idx2"
	ColDistance   = "distance"
	ColType       = "type"
)

// IPC body compression codecs.
const (
	CompressionNone = "none"
	CompressionLZ4  = "lz4"
	CompressionZstd = "zstd"
)

// ipcBufSize matches the buffered writer of the bulk tool.
const ipcBufSize = 128 << 10

// Schema returns the container schema; tagged adds the chromosome column.
func Schema(tagged bool) *arrow.Schema {
	fields := make([]arrow.Field, 0, 5)
	if tagged {
		fields = append(fields, arrow.Field{Name: ColChromosome, Type: arrow.BinaryTypes.String})
	}
	fields = append(fields,
		arrow.Field{Name: ColIdx1, Type: arrow.PrimitiveTypes.Uint32},
		arrow.Field{Name: ColIdx2, Type: arrow.PrimitiveTypes.Uint32},
		arrow.Field{Name: ColDistance, Type: arrow.PrimitiveTypes.Uint16},
		arrow.Field{Name: ColType, Type: arrow.PrimitiveTypes.Uint8},
	)
	return arrow.NewSchema(fields, nil)
}

// IPCWriter writes batches as record batches of an Arrow IPC file.
type IPCWriter struct {
	bw     *bufio.Writer
	fw     *ipc.FileWriter
	bld    *array.RecordBuilder
	tagged bool
	closed bool
}

// NewIPCWriter prepares an Arrow IPC file on out. The caller keeps
// ownership of out (closing a file is its job); Close flushes.
func NewIPCWriter(out io.Writer, o Options) (*IPCWriter, error) {
	mem := memory.NewGoAllocator()
	schema := Schema(o.Tagged)

	opts := []ipc.Option{ipc.WithSchema(schema), ipc.WithAllocator(mem)}
	switch o.Compression {
	case "", CompressionNone:
	case CompressionLZ4:
		opts = append(opts, ipc.WithLZ4())
	case CompressionZstd:
		opts = append(opts, ipc.WithZstd())
	default:
		return nil, fmt.Errorf("unsupported compression %q", o.Compression)
	}

	bw := bufio.NewWriterSize(out, ipcBufSize)
	fw, err := ipc.NewFileWriter(bw, opts...)
	if err != nil {
		return nil, fmt.Errorf("arrow writer init: %w", err)
	}
	return &IPCWriter{
		bw:     bw,
		fw:     fw,
		bld:    array.NewRecordBuilder(mem, schema),
		tagged: o.Tagged,
	}, nil
}

func (w *IPCWriter) WriteBatch(b *batch.Batch) error {
	n := b.Len()
	if n == 0 {
		return nil
	}
	col := 0
	if w.tagged {
		sb := w.bld.Field(0).(*array.StringBuilder)
		sb.Reserve(n)
		for k := 0; k < n; k++ {
			sb.Append(b.Name)
		}
		col = 1
	}
	w.bld.Field(col).(*array.Uint32Builder).AppendValues(b.Idx1, nil)
	w.bld.Field(col+1).(*array.Uint32Builder).AppendValues(b.Idx2, nil)
	w.bld.Field(col+2).(*array.Uint16Builder).AppendValues(b.Distance, nil)
	w.bld.Field(col+3).(*array.Uint8Builder).AppendValues(b.Type, nil)

	rec := w.bld.NewRecord()
	defer rec.Release()
	if err := w.fw.Write(rec); err != nil {
		return fmt.Errorf("arrow write: %w", err)
	}
	return nil
}

// Close writes the footer and flushes buffered bytes.
func (w *IPCWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.bld.Release()
	if err := w.fw.Close(); err != nil {
		return fmt.Errorf("arrow finalize: %w", err)
	}
	if err := w.bw.Flush(); err != nil {
		return err
	}
	return nil
}

// Dataset is a decoded container: one batch per run of equal chromosome
// names within each record batch, in file order.
type Dataset struct {
	Tagged  bool
	Batches []*batch.Batch
}

// Row is one decoded output row.
type Row struct {
	Chromosome string
	batch.Record
}

// Rows flattens the dataset in file order.
func (d *Dataset) Rows() []Row {
	var out []Row
	for _, b := range d.Batches {
		for k := 0; k < b.Len(); k++ {
			out = append(out, Row{Chromosome: b.Name, Record: b.Row(k)})
		}
	}
	return out
}

// ReadIPC decodes a container written by IPCWriter.
func ReadIPC(r ipc.ReadAtSeeker) (*Dataset, error) {
	rdr, err := ipc.NewFileReader(r, ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, fmt.Errorf("arrow reader: %w", err)
	}
	defer rdr.Close()

	ds := &Dataset{}
	fields := rdr.Schema().Fields()
	switch len(fields) {
	case 4:
	case 5:
		if fields[0].Name != ColChromosome {
			return nil, fmt.Errorf("unexpected first column %q", fields[0].Name)
		}
		ds.Tagged = true
	default:
		return nil, fmt.Errorf("unexpected column count %d", len(fields))
	}

	for i := 0; i < rdr.NumRecords(); i++ {
		rec, err := rdr.Record(i)
		if err != nil {
			return nil, fmt.Errorf("record batch %d: %w", i, err)
		}
		bs, err := decodeRecord(rec, ds.Tagged)
		if err != nil {
			return nil, fmt.Errorf("record batch %d: %w", i, err)
		}
		ds.Batches = append(ds.Batches, bs...)
	}
	return ds, nil
}

func decodeRecord(rec arrow.Record, tagged bool) ([]*batch.Batch, error) {
	col := 0
	var names *array.String
	if tagged {
		s, ok := rec.Column(0).(*array.String)
		if !ok {
			return nil, fmt.Errorf("column %s is %s", ColChromosome, rec.Column(0).DataType())
		}
		names, col = s, 1
	}
	idx1, ok1 := rec.Column(col).(*array.Uint32)
	idx2, ok2 := rec.Column(col + 1).(*array.Uint32)
	dist, ok3 := rec.Column(col + 2).(*array.Uint16)
	typ, ok4 := rec.Column(col + 3).(*array.Uint8)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return nil, fmt.Errorf("unexpected column types in %s", rec.Schema())
	}

	var (
		out []*batch.Batch
		cur *batch.Batch
	)
	for k := 0; k < int(rec.NumRows()); k++ {
		name := ""
		if names != nil {
			name = names.Value(k)
		}
		if cur == nil || cur.Name != name {
			cur = &batch.Batch{Name: name}
			out = append(out, cur)
		}
		cur.Idx1 = append(cur.Idx1, idx1.Value(k))
		cur.Idx2 = append(cur.Idx2, idx2.Value(k))
		cur.Distance = append(cur.Distance, dist.Value(k))
		cur.Type = append(cur.Type, typ.Value(k))
	}
	return out, nil
}
