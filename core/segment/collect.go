package segment

import (
	"io"

	"github.com/arafalov/uncorpora/core/tmx"
)

// Source supplies events with one event of lookahead. Both methods return
// io.EOF once the stream is exhausted, and Peek always reflects what the
// following Next returns.
type Source interface {
	Peek() (tmx.Event, error)
	Next() (tmx.Event, error)
}

// Boundary selects the start and/or end marker of a named element.
type Boundary struct {
	Name  string
	Start bool
	End   bool
}

var (
	// UnitStart matches the start of a translation unit.
	UnitStart = Boundary{Name: tmx.ElemUnit, Start: true}
	// UnitEdge matches either marker of a translation unit.
	UnitEdge = Boundary{Name: tmx.ElemUnit, Start: true, End: true}
)

// Matches reports whether e is one of the selected markers.
func (b Boundary) Matches(e tmx.Event) bool {
	return (b.Start && e.IsStart(b.Name)) || (b.End && e.IsEnd(b.Name))
}

// Collect moves events from src into buf until the next event matches
// boundary. The boundary event itself is consumed and appended only when
// include is set. It reports whether the boundary was reached; false means
// the stream ended first and buf holds whatever preceded the end.
func Collect(src Source, buf *Buffer, boundary Boundary, include bool) (bool, error) {
	for {
		e, err := src.Peek()
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, err
		}

		if boundary.Matches(e) {
			if include {
				if _, err := src.Next(); err != nil {
					return false, err
				}
				buf.Append(e)
			}
			return true, nil
		}

		if _, err := src.Next(); err != nil {
			return false, err
		}
		buf.Append(e)
	}
}
