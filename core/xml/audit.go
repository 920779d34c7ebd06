package xml

import (
	"io"
	"sort"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/arafalov/uncorpora/core/encoding"
	"github.com/arafalov/uncorpora/core/errors"
	"github.com/arafalov/uncorpora/core/tmx"
)

var (
	unitPath     = "//" + tmx.ElemUnit
	variantExpr  = xpath.MustCompile(tmx.ElemVariant)
	voteExpr     = xpath.MustCompile(tmx.ElemProperty + "[@" + tmx.AttrType + "='" + tmx.TypeVote + "']")
	footnoteExpr = xpath.MustCompile(".//" + tmx.ElemFootnote)
	markerExpr   = xpath.MustCompile(".//" + tmx.ElemMarker)
)

// Report summarizes the translation units of a document.
type Report struct {
	Units     int            `json:"units"`
	Variants  map[string]int `json:"variants"`
	VoteUnits int            `json:"vote_units"`
	Footnotes int            `json:"footnotes"`
	Markers   int            `json:"markers"`
}

// Languages returns the language codes seen on variants, sorted.
func (r *Report) Languages() []string {
	codes := make([]string, 0, len(r.Variants))
	for code := range r.Variants {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Incomplete returns the codes from want that appear on fewer variants
// than there are units.
func (r *Report) Incomplete(want []string) []string {
	var missing []string
	for _, code := range want {
		if r.Variants[code] < r.Units {
			missing = append(missing, code)
		}
	}
	return missing
}

// Audit streams a TMX document unit by unit and counts what it contains.
// Only one unit is held in memory at a time.
func Audit(r io.Reader) (*Report, error) {
	sp, err := xmlquery.CreateStreamParser(encoding.NewUTF8Reader(r), unitPath)
	if err != nil {
		return nil, &errors.ParseError{Format: "XML", Message: err.Error(), Err: err}
	}

	rep := &Report{Variants: make(map[string]int)}
	for {
		unit, err := sp.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &errors.ParseError{Format: "XML", Message: err.Error(), Err: err}
		}
		rep.add(unit)
	}
	return rep, nil
}

func (r *Report) add(unit *xmlquery.Node) {
	r.Units++
	for _, v := range xmlquery.QuerySelectorAll(unit, variantExpr) {
		if code := variantLang(v); code != "" {
			r.Variants[code]++
		}
	}
	if len(xmlquery.QuerySelectorAll(unit, voteExpr)) > 0 {
		r.VoteUnits++
	}
	r.Footnotes += len(xmlquery.QuerySelectorAll(unit, footnoteExpr))
	r.Markers += len(xmlquery.QuerySelectorAll(unit, markerExpr))
}

// variantLang prefers xml:lang over the legacy lang attribute.
func variantLang(n *xmlquery.Node) string {
	var legacy string
	for _, a := range n.Attr {
		if a.Name.Local != tmx.AttrLang {
			continue
		}
		if a.Name.Space != "" {
			return a.Value
		}
		legacy = a.Value
	}
	return legacy
}
