package archive

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/ulikunitz/xz"
)

// Output is a document stream compressed according to its file name.
type Output struct {
	io.Writer
	Compression Compression
	file        *os.File
	closeFile   bool
	comp        io.Closer
}

// CreateOutput creates path for writing, or writes to stdout when path is
// empty or "-". A .xz or .gz suffix selects compression.
func CreateOutput(path string) (*Output, error) {
	out := &Output{file: os.Stdout}
	if !IsStdio(path) {
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("create output: %w", err)
		}
		out.file, out.closeFile = f, true
	}
	out.Writer = out.file

	switch out.Compression = CompressionFor(path); out.Compression {
	case XZ:
		xzw, err := xz.NewWriter(out.file)
		if err != nil {
			out.Close()
			return nil, fmt.Errorf("xz writer: %w", err)
		}
		out.Writer, out.comp = xzw, xzw
	case Gzip:
		gw := gzip.NewWriter(out.file)
		out.Writer, out.comp = gw, gw
	}
	return out, nil
}

// Close flushes the compressor, then closes the file. Stdout is left open.
func (out *Output) Close() error {
	var errs []error
	if out.comp != nil {
		if err := out.comp.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if out.closeFile {
		if err := out.file.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
