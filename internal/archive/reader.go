// Package archive opens the documents the filter reads and writes, handling
// xz and gzip compression and the stdin/stdout convention.
package archive

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"
)

// Stdio is the path that names stdin or stdout.
const Stdio = "-"

// Compression identifies a stream compression format.
type Compression int

const (
	// None is an uncompressed stream.
	None Compression = iota
	// Gzip is a gzip stream.
	Gzip
	// XZ is an xz stream.
	XZ
)

// String returns the format name.
func (c Compression) String() string {
	switch c {
	case Gzip:
		return "gzip"
	case XZ:
		return "xz"
	default:
		return "none"
	}
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	xzMagic   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

// CompressionFor returns the compression implied by a file name suffix.
func CompressionFor(path string) Compression {
	switch {
	case strings.HasSuffix(path, ".xz"):
		return XZ
	case strings.HasSuffix(path, ".gz"):
		return Gzip
	default:
		return None
	}
}

// IsStdio reports whether path names a standard stream.
func IsStdio(path string) bool {
	return path == "" || path == Stdio
}

// Input is a decompressed document stream.
type Input struct {
	io.Reader
	Compression Compression
	file        *os.File
	closeFile   bool
	decomp      io.Closer
}

// OpenInput opens path for reading, or stdin when path is empty or "-".
// Compression is detected from the leading magic bytes so that compressed
// stdin works as well as compressed files.
func OpenInput(path string) (*Input, error) {
	in := &Input{file: os.Stdin}
	if !IsStdio(path) {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		in.file, in.closeFile = f, true
	}

	if err := in.detect(); err != nil {
		in.Close()
		return nil, err
	}
	return in, nil
}

func (in *Input) detect() error {
	br := bufio.NewReader(in.file)
	head, err := br.Peek(len(xzMagic))
	if err != nil && err != io.EOF {
		return fmt.Errorf("read input: %w", err)
	}

	switch {
	case bytes.HasPrefix(head, xzMagic):
		xzr, err := xz.NewReader(br)
		if err != nil {
			return fmt.Errorf("xz reader: %w", err)
		}
		in.Reader, in.Compression = xzr, XZ
	case bytes.HasPrefix(head, gzipMagic):
		gzr, err := gzip.NewReader(br)
		if err != nil {
			return fmt.Errorf("gzip reader: %w", err)
		}
		in.Reader, in.Compression, in.decomp = gzr, Gzip, gzr
	default:
		in.Reader = br
	}
	return nil
}

// Close closes the decompressor and the file. Stdin is left open.
func (in *Input) Close() error {
	var errs []error
	if in.decomp != nil {
		if err := in.decomp.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if in.closeFile {
		if err := in.file.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
