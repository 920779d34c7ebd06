package xml

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"

	"github.com/arafalov/uncorpora/core/encoding"
	"github.com/arafalov/uncorpora/core/tmx"
)

const writeBufferSize = 1 << 20

var declEncoding = regexp.MustCompile(`encoding\s*=\s*("[^"]*"|'[^']*')`)

// Writer serializes tmx events as UTF-8 XML.
//
// A start tag is held back until the next event arrives so that an element
// closed immediately is written as <name/>. Call Flush after the last event.
type Writer struct {
	w       *bufio.Writer
	pending *tmx.Event
	err     error
}

// NewWriter returns a Writer writing to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriterSize(w, writeBufferSize)}
}

// Write serializes one event.
func (w *Writer) Write(e tmx.Event) error {
	if w.err != nil {
		return w.err
	}
	if w.pending != nil {
		start := *w.pending
		w.pending = nil
		if e.IsEnd(start.Name) {
			w.writeStart(start, true)
			return w.err
		}
		w.writeStart(start, false)
	}

	switch e.Kind {
	case tmx.KindStart:
		w.pending = &e
	case tmx.KindEnd:
		w.put("</", e.Name, ">")
	case tmx.KindText:
		w.put(encoding.EscapeXMLText(e.Text))
	default:
		w.writeOther(e.Raw)
	}
	return w.err
}

// Flush writes any held start tag and flushes the buffer.
func (w *Writer) Flush() error {
	if w.pending != nil {
		w.writeStart(*w.pending, false)
		w.pending = nil
	}
	if w.err != nil {
		return w.err
	}
	w.err = w.w.Flush()
	return w.err
}

func (w *Writer) writeStart(e tmx.Event, selfClose bool) {
	w.put("<", e.Name)
	for _, a := range e.Attrs {
		w.put(" ", a.Name, `="`, encoding.EscapeXMLAttr(a.Value), `"`)
	}
	if selfClose {
		w.put("/>")
	} else {
		w.put(">")
	}
}

func (w *Writer) writeOther(raw any) {
	switch t := raw.(type) {
	case xml.Comment:
		w.put("<!--", string(t), "-->")
	case xml.ProcInst:
		inst := string(t.Inst)
		if t.Target == "xml" {
			// The output is always UTF-8 whatever the input declared.
			inst = declEncoding.ReplaceAllString(inst, `encoding="UTF-8"`)
		}
		w.put("<?", t.Target)
		if inst != "" {
			w.put(" ", inst)
		}
		w.put("?>")
	case xml.Directive:
		w.put("<!", string(t), ">")
	default:
		w.err = fmt.Errorf("cannot serialize event payload %T", raw)
	}
}

func (w *Writer) put(parts ...string) {
	for _, s := range parts {
		if w.err != nil {
			return
		}
		_, w.err = w.w.WriteString(s)
	}
}
