// Package xml reads and writes TMX documents as streams of tmx events, and
// audits filtered output with XPath over one unit at a time.
//
// Security Notes:
//   - XXE (External Entity) attacks are mitigated by using Go's xml.Decoder
//     which doesn't fetch external entities by default, and we explicitly
//     disable entity expansion beyond the predefined XML entities.
//   - The xmlquery stream parser used by Audit releases each unit after it
//     has been inspected, so auditing keeps the same memory bound as filtering.
package xml

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/arafalov/uncorpora/core/encoding"
	"github.com/arafalov/uncorpora/core/errors"
	"github.com/arafalov/uncorpora/core/tmx"
)

// Reader is an event source over an XML byte stream with one event of
// lookahead. Names keep the prefixes written in the document.
type Reader struct {
	dec      *xml.Decoder
	peeked   tmx.Event
	buffered bool
	err      error
}

// NewReader returns a Reader decoding r. Input with a byte order mark is
// transcoded to UTF-8, and declared legacy charsets are converted.
func NewReader(r io.Reader) *Reader {
	dec := xml.NewDecoder(encoding.NewUTF8Reader(r))
	dec.CharsetReader = encoding.CharsetReader

	// XXE Protection (CWE-611): no custom entities are ever expanded.
	dec.Entity = map[string]string{}

	return &Reader{dec: dec}
}

// Peek returns the next event without consuming it.
func (r *Reader) Peek() (tmx.Event, error) {
	if r.buffered {
		return r.peeked, nil
	}
	if r.err != nil {
		return tmx.Event{}, r.err
	}

	e, err := r.read()
	if err != nil {
		r.err = err
		return tmx.Event{}, err
	}
	r.peeked, r.buffered = e, true
	return e, nil
}

// Next consumes and returns the next event.
func (r *Reader) Next() (tmx.Event, error) {
	e, err := r.Peek()
	if err != nil {
		return e, err
	}
	r.peeked, r.buffered = tmx.Event{}, false
	return e, nil
}

// InputPos returns the line and column of the decoder, which is just past
// the most recently read event.
func (r *Reader) InputPos() (line, column int) {
	return r.dec.InputPos()
}

func (r *Reader) read() (tmx.Event, error) {
	tok, err := r.dec.RawToken()
	if err == io.EOF {
		return tmx.Event{}, io.EOF
	}
	if err != nil {
		line, _ := r.dec.InputPos()
		return tmx.Event{}, &errors.ParseError{
			Format:  "XML",
			Message: fmt.Sprintf("line %d: %v", line, err),
			Err:     err,
		}
	}
	return toEvent(tok), nil
}

// toEvent converts a decoder token. Every byte slice is copied because the
// decoder reuses its buffers.
func toEvent(tok xml.Token) tmx.Event {
	switch t := tok.(type) {
	case xml.StartElement:
		var attrs []tmx.Attr
		if len(t.Attr) > 0 {
			attrs = make([]tmx.Attr, len(t.Attr))
			for i, a := range t.Attr {
				attrs[i] = tmx.Attr{Name: qualify(a.Name), Value: a.Value}
			}
		}
		return tmx.Start(qualify(t.Name), attrs...)
	case xml.EndElement:
		return tmx.End(qualify(t.Name))
	case xml.CharData:
		return tmx.Text(string(t))
	default:
		return tmx.Other(xml.CopyToken(tok))
	}
}

// qualify joins a raw token name back into prefix:local form.
func qualify(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
