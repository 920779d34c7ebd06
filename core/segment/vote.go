package segment

import (
	"github.com/arafalov/uncorpora/core/errors"
	"github.com/arafalov/uncorpora/core/tmx"
)

// ContainsVoteMarker reports whether the unit in buf carries a vote property.
// Properties precede the first variant, so the scan stops at the first tuv.
// A unit with neither is malformed and yields an invariant violation.
func ContainsVoteMarker(buf *Buffer) (bool, error) {
	for _, e := range buf.Events() {
		switch {
		case e.IsStart(tmx.ElemProperty):
			if v, ok := e.Attr(tmx.AttrType); ok && v == tmx.TypeVote {
				return true, nil
			}
		case e.IsStart(tmx.ElemVariant):
			return false, nil
		}
	}
	return false, errors.NewInvariant("vote", "unit ended without a vote property or a tuv")
}
