// Package input opens the log stream syftviz reads: a named file, or
// standard input when it is piped. Gzip and zstd streams are decompressed
// transparently.
package input

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/term"
)

// ErrNoInput is returned when no path was given and stdin is a terminal.
var ErrNoInput = errors.New("No input provided. Either pipe syft output or provide a file.")

// FileNotFoundError reports a path that could not be opened.
type FileNotFoundError struct {
	Path string
	Err  error
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("File %s not found", e.Path)
}

func (e *FileNotFoundError) Unwrap() error {
	return e.Err
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Open returns the stream to parse. With an empty path it reads stdin, unless
// stdin is an interactive terminal. The caller must close the result.
func Open(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == "" {
		if isTerminal(stdin) {
			return nil, ErrNoInput
		}
		return decompress(io.NopCloser(stdin))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &FileNotFoundError{Path: path, Err: err}
	}
	return decompress(f)
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// decompress sniffs the first bytes of rc and wraps it in the matching
// decoder. Plain text passes through unchanged.
func decompress(rc io.ReadCloser) (io.ReadCloser, error) {
	br := bufio.NewReader(rc)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		rc.Close() //nolint:errcheck
		return nil, fmt.Errorf("reading input: %w", err)
	}

	switch {
	case bytes.HasPrefix(head, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			rc.Close() //nolint:errcheck
			return nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		return &stackedReader{Reader: zr, closers: []io.Closer{zr, rc}}, nil
	case bytes.HasPrefix(head, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			rc.Close() //nolint:errcheck
			return nil, fmt.Errorf("opening zstd stream: %w", err)
		}
		zrc := zr.IOReadCloser()
		return &stackedReader{Reader: zrc, closers: []io.Closer{zrc, rc}}, nil
	default:
		return &stackedReader{Reader: br, closers: []io.Closer{rc}}, nil
	}
}

// stackedReader reads from the outermost decoder and closes every layer.
type stackedReader struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedReader) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
