package encoding

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// NewUTF8Reader returns r decoded to UTF-8. A UTF-8 or UTF-16 byte order
// mark selects the source encoding and is stripped; input without a mark
// passes through unchanged.
func NewUTF8Reader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(transform.Nop))
}

// CharsetReader converts input declared with the given charset label to
// UTF-8. It has the signature of xml.Decoder.CharsetReader.
//
// Unicode labels pass through: UTF-16 documents carry a byte order mark and
// were already transcoded by NewUTF8Reader before the declaration is read.
func CharsetReader(label string, input io.Reader) (io.Reader, error) {
	if IsUnicodeLabel(label) {
		return input, nil
	}
	r, err := charset.NewReaderLabel(label, input)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", label, err)
	}
	return r, nil
}

// IsUnicodeLabel reports whether label names UTF-8 or UTF-16.
func IsUnicodeLabel(label string) bool {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "utf-8", "utf8", "utf-16", "utf16", "utf-16le", "utf-16be", "ucs-2":
		return true
	}
	return false
}
