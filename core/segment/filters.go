package segment

import (
	"fmt"

	"github.com/arafalov/uncorpora/core/errors"
	"github.com/arafalov/uncorpora/core/tmx"
)

// AttrMatch restricts Remove to elements carrying an attribute value.
// The first of Names present on the element decides: an equal value matches,
// any other value does not. An element carrying none of Names never matches.
type AttrMatch struct {
	Value string
	Names []string
}

// MatchAttr returns an AttrMatch for value under any of names.
func MatchAttr(value string, names ...string) *AttrMatch {
	return &AttrMatch{Value: value, Names: names}
}

// Matches reports whether the start tag e satisfies m. The first of Names
// present decides; a tag carrying none of them does not match, so Remove keeps
// a variant that has no language attribute at all.
func (m *AttrMatch) Matches(e tmx.Event) bool {
	for _, name := range m.Names {
		if v, ok := e.Attr(name); ok {
			return v == m.Value
		}
	}
	return false
}

// Remove deletes every element named name inside [start, end), together with
// its content and the whitespace-only text that followed it. A nil match
// removes every occurrence regardless of attributes.
//
// Target elements must not nest within themselves: a second start marker
// before the close, or a start marker without a close inside the range, is
// reported as an invariant violation and the offending element is kept.
//
// It returns the range end after deletions and the number of elements removed.
func Remove(buf *Buffer, name string, match *AttrMatch, start, end int) (int, int, error) {
	removed := 0
	for i := start; i < end; {
		e := buf.At(i)
		if !e.IsStart(name) || (match != nil && !match.Matches(e)) {
			i++
			continue
		}

		closeAt, err := findClose(buf, name, i, end)
		if err != nil {
			return end, removed, err
		}

		n := closeAt - i + 1
		buf.Delete(i, n)
		end -= n
		end -= trimWhitespace(buf, i, end)
		removed++
	}
	return end, removed, nil
}

// findClose returns the index of the end marker closing the start marker at
// open, searching no further than end.
func findClose(buf *Buffer, name string, open, end int) (int, error) {
	for j := open + 1; j < end; j++ {
		e := buf.At(j)
		if e.IsStart(name) {
			return 0, errors.NewInvariant("remove",
				fmt.Sprintf("<%s> nested inside <%s> at offset %d", name, name, j))
		}
		if e.IsEnd(name) {
			return j, nil
		}
	}
	return 0, errors.NewInvariant("remove",
		fmt.Sprintf("<%s> at offset %d is not closed inside the unit", name, open))
}

// Flatten deletes the start and end markers of every element named name
// inside [start, end) and leaves the enclosed content in place. It returns
// the range end after deletions and the number of markers removed.
func Flatten(buf *Buffer, name string, start, end int) (int, int) {
	markers := 0
	for i := start; i < end; {
		if buf.At(i).IsMarker(name) {
			buf.Delete(i, 1)
			end--
			markers++
			continue
		}
		i++
	}
	return end, markers
}

// TrimLeadingWhitespace removes the run of whitespace-only text events
// starting exactly at index at and returns how many were removed.
func TrimLeadingWhitespace(buf *Buffer, at int) int {
	return trimWhitespace(buf, at, buf.Len())
}

func trimWhitespace(buf *Buffer, at, limit int) int {
	n := 0
	for at+n < limit && buf.At(at+n).IsWhitespaceText() {
		n++
	}
	buf.Delete(at, n)
	return n
}
