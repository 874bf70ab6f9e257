// internal/fasta/open.go
package fasta

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// multiReadCloser closes multiple io.Closers when Close() is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

var nopCloser = closerFunc(func() error { return nil })

// openReader opens path ("-" = stdin) and transparently decompresses it.
func openReader(path string) (io.ReadCloser, error) {
	if path == "-" {
		return decompress(os.Stdin, nopCloser, false)
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rc, err := decompress(fh, fh, strings.HasSuffix(path, ".gz"))
	if err != nil {
		_ = fh.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return rc, nil
}

// decompress sniffs the stream's magic bytes. forceGzip skips sniffing.
// owner is closed together with the returned reader.
func decompress(r io.Reader, owner io.Closer, forceGzip bool) (io.ReadCloser, error) {
	br := bufio.NewReaderSize(r, 256<<10)
	sig, _ := br.Peek(4)

	switch {
	case forceGzip || bytes.HasPrefix(sig, magicGzip):
		gr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, owner}}, nil

	case bytes.HasPrefix(sig, magicZstd):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return &multiReadCloser{Reader: zr, closers: []io.Closer{closerFunc(func() error { zr.Close(); return nil }), owner}}, nil

	case bytes.HasPrefix(sig, magicLZ4):
		return &multiReadCloser{Reader: lz4.NewReader(br), closers: []io.Closer{owner}}, nil
	}
	return &multiReadCloser{Reader: br, closers: []io.Closer{owner}}, nil
}
