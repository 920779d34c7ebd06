// Package rewrite applies the configured structural filters to one collected
// translation unit.
package rewrite

import (
	"fmt"
	"slices"

	"github.com/arafalov/uncorpora/core/errors"
	"github.com/arafalov/uncorpora/core/segment"
	"github.com/arafalov/uncorpora/core/tmx"
)

// Config selects what the Rewriter removes.
type Config struct {
	// KeepLanguages are the variant languages that survive.
	KeepLanguages []string
	// AllLanguages is the full language set; every member not kept is removed.
	AllLanguages []string
	// DropVoteUnits drops whole units carrying a vote property.
	DropVoteUnits bool
	// Plaintext removes footnotes and flattens inline markers.
	Plaintext bool
	// KeepSessions is reserved for session filtering and is not applied.
	KeepSessions []string
}

// Reasons a unit is dropped.
const (
	ReasonVote  = tmx.TypeVote
	ReasonEmpty = "no variants left"
)

// Result reports what a single Rewrite changed.
type Result struct {
	Dropped   bool
	Reason    string
	Variants  int
	Footnotes int
	Markers   int
}

// Rewriter rewrites unit buffers according to a fixed Config.
type Rewriter struct {
	cfg    Config
	remove []string
}

// New validates cfg and returns a Rewriter holding a private copy of it.
func New(cfg Config) (*Rewriter, error) {
	if len(cfg.KeepLanguages) == 0 {
		return nil, errors.NewValidation("langs", "at least one language must be kept")
	}
	for _, code := range cfg.KeepLanguages {
		if !slices.Contains(cfg.AllLanguages, code) {
			return nil, errors.NewValidation("langs", fmt.Sprintf("not a valid language choice: %s", code))
		}
	}

	c := Config{
		KeepLanguages: slices.Clone(cfg.KeepLanguages),
		AllLanguages:  slices.Clone(cfg.AllLanguages),
		DropVoteUnits: cfg.DropVoteUnits,
		Plaintext:     cfg.Plaintext,
		KeepSessions:  slices.Clone(cfg.KeepSessions),
	}
	slices.Sort(c.KeepLanguages)
	slices.Sort(c.AllLanguages)

	var remove []string
	for _, code := range c.AllLanguages {
		if !slices.Contains(c.KeepLanguages, code) {
			remove = append(remove, code)
		}
	}

	return &Rewriter{cfg: c, remove: remove}, nil
}

// Config returns a copy of the configuration.
func (r *Rewriter) Config() Config {
	c := r.cfg
	c.KeepLanguages = slices.Clone(c.KeepLanguages)
	c.AllLanguages = slices.Clone(c.AllLanguages)
	c.KeepSessions = slices.Clone(c.KeepSessions)
	return c
}

// Removed returns the language codes whose variants are removed.
func (r *Rewriter) Removed() []string {
	return slices.Clone(r.remove)
}

// Identity reports whether the Rewriter leaves every unit unchanged.
func (r *Rewriter) Identity() bool {
	return len(r.remove) == 0 && !r.cfg.DropVoteUnits && !r.cfg.Plaintext
}

// Rewrite filters the unit held in buf, which must start with the unit start
// marker and end with its end marker. Vote dropping runs first and
// short-circuits; language removal precedes plaintext cleanup.
func (r *Rewriter) Rewrite(buf *segment.Buffer) (Result, error) {
	var res Result

	if r.cfg.DropVoteUnits {
		vote, err := segment.ContainsVoteMarker(buf)
		if err != nil {
			return res, err
		}
		if vote {
			buf.Reset()
			res.Dropped, res.Reason = true, ReasonVote
			return res, nil
		}
	}

	for _, code := range r.remove {
		match := segment.MatchAttr(code, tmx.AttrXMLLang, tmx.AttrLang)
		_, n, err := segment.Remove(buf, tmx.ElemVariant, match, 1, buf.Len()-1)
		if err != nil {
			return res, err
		}
		res.Variants += n
	}

	// A unit needs at least one variant; one emptied by language removal
	// goes as a whole.
	if res.Variants > 0 && !hasVariant(buf) {
		buf.Reset()
		res.Dropped, res.Reason = true, ReasonEmpty
		return res, nil
	}

	if r.cfg.Plaintext {
		_, n, err := segment.Remove(buf, tmx.ElemFootnote, nil, 1, buf.Len()-1)
		if err != nil {
			return res, err
		}
		res.Footnotes = n

		_, res.Markers = segment.Flatten(buf, tmx.ElemMarker, 1, buf.Len()-1)
	}

	return res, nil
}

func hasVariant(buf *segment.Buffer) bool {
	for _, e := range buf.Events() {
		if e.IsStart(tmx.ElemVariant) {
			return true
		}
	}
	return false
}
