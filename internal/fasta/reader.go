// internal/fasta/reader.go
package fasta

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"selfsim/internal/logging"
)

// Record is one named, normalized sequence.
type Record struct {
	ID  string
	Seq []byte
}

// ErrEmptyName is returned for a header with nothing after '>'.
var ErrEmptyName = errors.New("fasta: empty sequence name after '>'")

// Parse reads every record from r. Names are the first whitespace token of
// the header. Sequence bytes are upper-cased and anything outside ACGTN is
// dropped. Records without sequence data are skipped with a warning.
func Parse(r io.Reader, log *logging.Logger) ([]Record, error) {
	log = logging.OrNoop(log)
	br := bufio.NewReaderSize(r, 256<<10)

	var (
		out  []Record
		id   string
		have bool
		seq  []byte
	)
	flush := func() {
		if !have {
			return
		}
		if len(seq) == 0 {
			log.Warn("sequence entry has no sequence data; skipping", "sequence", id)
		} else {
			out = append(out, Record{ID: id, Seq: seq})
		}
		seq = nil
	}

	for lineNo := 1; ; lineNo++ {
		line, err := br.ReadSlice('\n')
		if errors.Is(err, bufio.ErrBufferFull) {
			// long single-line sequences: keep reading the same line
			full := append([]byte(nil), line...)
			for errors.Is(err, bufio.ErrBufferFull) {
				line, err = br.ReadSlice('\n')
				full = append(full, line...)
			}
			line = full
		}
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("fasta: read line %d: %w", lineNo, err)
		}

		line = bytes.TrimRight(line, "\r\n")
		if len(line) > 0 && line[0] == '>' {
			flush()
			id = parseHeaderID(line[1:])
			if id == "" {
				return nil, fmt.Errorf("%w (line %d)", ErrEmptyName, lineNo)
			}
			have = true
			seq = nil // grown by append; Seq is kept for the whole run
		} else if have {
			seq = appendNormalized(seq, line)
		}

		if err == io.EOF {
			break
		}
	}
	flush()
	return out, nil
}

// Load parses the FASTA at path ("-" = stdin; gzip/zstd/lz4 sniffed).
func Load(path string, log *logging.Logger) ([]Record, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	recs, err := Parse(rc, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

// LoadAll concatenates the records of every path, in order.
func LoadAll(paths []string, log *logging.Logger) ([]Record, error) {
	var all []Record
	for _, p := range paths {
		recs, err := Load(p, log)
		if err != nil {
			return nil, err
		}
		if len(recs) == 0 {
			logging.OrNoop(log).Warn("no valid sequences found", "path", p)
		}
		all = append(all, recs...)
	}
	return all, nil
}

// FromBytes parses an in-memory FASTA. compressed forces gzip; otherwise the
// compression format is sniffed.
func FromBytes(data []byte, compressed bool, log *logging.Logger) ([]Record, error) {
	rc, err := decompress(bytes.NewReader(data), nopCloser, compressed)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return Parse(rc, log)
}

func parseHeaderID(hdr []byte) string {
	hdr = bytes.TrimSpace(hdr)
	if i := bytes.IndexAny(hdr, " \t"); i >= 0 {
		return string(hdr[:i])
	}
	return string(hdr)
}

func appendNormalized(dst, line []byte) []byte {
	for _, c := range line {
		if 'a' <= c && c <= 'z' {
			c -= 'a' - 'A'
		}
		switch c {
		case 'A', 'C', 'G', 'T', 'N':
			dst = append(dst, c)
		}
	}
	return dst
}
