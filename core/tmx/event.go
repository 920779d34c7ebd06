// Package tmx defines the markup event model the filter engine operates on
// and the TMX vocabulary it recognizes.
//
// Events are plain values. Readers in core/xml produce them, the engine in
// core/segment and core/rewrite moves and deletes them, and writers in
// core/xml serialize them again. Nothing here performs I/O.
package tmx

import "strings"

// Kind discriminates the variants of Event.
type Kind int

const (
	// KindOther covers comments, processing instructions and directives.
	KindOther Kind = iota
	// KindStart is an element start tag.
	KindStart
	// KindEnd is an element end tag.
	KindEnd
	// KindText is character data.
	KindText
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindEnd:
		return "end"
	case KindText:
		return "text"
	default:
		return "other"
	}
}

// Attr is a single attribute. Name is qualified as written in the source,
// e.g. "xml:lang".
type Attr struct {
	Name  string
	Value string
}

// Event is one markup token.
type Event struct {
	Kind Kind

	// Name is the qualified element name for KindStart and KindEnd.
	Name string

	// Attrs holds the attributes of a KindStart event in source order.
	Attrs []Attr

	// Text is the character data of a KindText event.
	Text string

	// Whitespace reports whether Text holds only XML whitespace.
	Whitespace bool

	// Raw is the opaque payload of a KindOther event.
	Raw any
}

// Start returns an element start event.
func Start(name string, attrs ...Attr) Event {
	return Event{Kind: KindStart, Name: name, Attrs: attrs}
}

// End returns an element end event.
func End(name string) Event {
	return Event{Kind: KindEnd, Name: name}
}

// Text returns a character data event.
func Text(s string) Event {
	return Event{Kind: KindText, Text: s, Whitespace: IsWhitespace(s)}
}

// Other returns an opaque event wrapping raw.
func Other(raw any) Event {
	return Event{Kind: KindOther, Raw: raw}
}

// IsWhitespace reports whether s consists only of XML whitespace
// (space, tab, carriage return, line feed).
func IsWhitespace(s string) bool {
	return strings.TrimLeft(s, " \t\r\n") == ""
}

// IsStart reports whether e is a start tag named name.
func (e Event) IsStart(name string) bool {
	return e.Kind == KindStart && e.Name == name
}

// IsEnd reports whether e is an end tag named name.
func (e Event) IsEnd(name string) bool {
	return e.Kind == KindEnd && e.Name == name
}

// IsMarker reports whether e is a start or end tag named name.
func (e Event) IsMarker(name string) bool {
	return e.IsStart(name) || e.IsEnd(name)
}

// IsWhitespaceText reports whether e is whitespace-only character data.
func (e Event) IsWhitespaceText() bool {
	return e.Kind == KindText && e.Whitespace
}

// Attr returns the value of the named attribute.
func (e Event) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}
