// Package encoding provides shared text encoding and escaping utilities.
package encoding

import "strings"

var (
	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\r", "&#xD;",
	)
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
		"\r", "&#xD;",
		"\n", "&#xA;",
		"\t", "&#x9;",
	)
)

// EscapeXMLText escapes the basic XML entities for text content.
// Carriage returns are written as character references so that they survive
// the line-ending normalization of the next parser.
func EscapeXMLText(s string) string {
	return textEscaper.Replace(s)
}

// EscapeXMLAttr escapes text for use in double-quoted XML attributes.
// Includes quote escaping in addition to basic XML entities, and keeps
// tabs and line breaks from being normalized to spaces.
func EscapeXMLAttr(s string) string {
	return attrEscaper.Replace(s)
}
