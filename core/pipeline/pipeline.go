// Package pipeline drives a document through the rewriter one translation
// unit at a time. Events between units are passed through, so memory use
// is bounded by the largest unit rather than the document.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/arafalov/uncorpora/core/errors"
	"github.com/arafalov/uncorpora/core/rewrite"
	"github.com/arafalov/uncorpora/core/segment"
	"github.com/arafalov/uncorpora/core/tmx"
	"github.com/arafalov/uncorpora/internal/logging"
)

// Sink receives the filtered event stream in document order.
type Sink interface {
	Write(tmx.Event) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(tmx.Event) error

// Write calls f(e).
func (f SinkFunc) Write(e tmx.Event) error {
	return f(e)
}

// positioner is implemented by sources that know their input position.
type positioner interface {
	InputPos() (line, column int)
}

// Stats summarizes a run.
type Stats struct {
	Units     int   `json:"units"`
	Dropped   int   `json:"dropped"`
	Variants  int   `json:"variants"`
	Footnotes int   `json:"footnotes"`
	Markers   int   `json:"markers"`
	EventsIn  int64 `json:"events_in"`
	EventsOut int64 `json:"events_out"`
}

func (s *Stats) add(res rewrite.Result) {
	if res.Dropped {
		s.Dropped++
	}
	s.Variants += res.Variants
	s.Footnotes += res.Footnotes
	s.Markers += res.Markers
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger that receives per-unit debug records.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// Pipeline applies a Rewriter to every unit of a stream.
type Pipeline struct {
	rw  *rewrite.Rewriter
	log *slog.Logger
}

// New returns a Pipeline around rw.
func New(rw *rewrite.Rewriter, opts ...Option) *Pipeline {
	p := &Pipeline{rw: rw, log: logging.GetLogger()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run filters src into sink.
func (p *Pipeline) Run(src segment.Source, sink Sink) (Stats, error) {
	return p.RunContext(context.Background(), src, sink)
}

// RunContext filters src into sink, checking ctx between units.
//
// The head of the document up to the first unit is emitted unchanged. Each
// unit is then collected whole, rewritten and emitted, followed by the gap
// up to the next unit. When a unit is dropped, the whitespace that opened
// the following gap goes with it.
func (p *Pipeline) RunContext(ctx context.Context, src segment.Source, sink Sink) (Stats, error) {
	var st Stats
	in := &countingSource{Source: src}
	emit := func(e tmx.Event) error {
		st.EventsOut++
		return sink.Write(e)
	}

	var gap, unit segment.Buffer

	found, err := segment.Collect(in, &gap, segment.UnitStart, false)
	if err != nil {
		return p.stats(st, in), err
	}
	if err := gap.Drain(emit); err != nil {
		return p.stats(st, in), errors.NewIO("write", "", err)
	}

	for found {
		if err := ctx.Err(); err != nil {
			return p.stats(st, in), err
		}
		st.Units++

		tuid, err := p.collectUnit(in, &unit)
		fail := func(err error) (Stats, error) {
			return p.stats(st, in), p.unitError(src, st.Units, tuid, err)
		}
		if err != nil {
			return fail(err)
		}

		res, err := p.rw.Rewrite(&unit)
		if err != nil {
			return fail(err)
		}
		st.add(res)
		if res.Dropped {
			logging.UnitDropped(p.log, st.Units, tuid, res.Reason)
		}

		if err := unit.Drain(emit); err != nil {
			return fail(errors.NewIO("write", "", err))
		}

		found, err = segment.Collect(in, &gap, segment.UnitStart, false)
		if err != nil {
			return fail(err)
		}
		if res.Dropped {
			segment.TrimLeadingWhitespace(&gap, 0)
		}
		if err := gap.Drain(emit); err != nil {
			return fail(errors.NewIO("write", "", err))
		}
	}

	return p.stats(st, in), nil
}

// collectUnit reads one unit into buf, whose next event is known to be the
// unit start, and returns the unit's tuid.
func (p *Pipeline) collectUnit(src segment.Source, buf *segment.Buffer) (string, error) {
	if _, err := segment.Collect(src, buf, segment.UnitStart, true); err != nil {
		return "", err
	}
	tuid, _ := buf.At(0).Attr(tmx.AttrTUID)

	closed, err := segment.Collect(src, buf, segment.UnitEdge, true)
	if err != nil {
		return tuid, err
	}
	if !closed {
		return tuid, errors.NewMalformedStream("document ends inside a translation unit")
	}
	if last, _ := buf.Last(); last.IsStart(tmx.ElemUnit) {
		return tuid, errors.NewMalformedStream("translation unit nested inside another")
	}
	return tuid, nil
}

func (p *Pipeline) unitError(src segment.Source, unit int, tuid string, err error) error {
	ue := &errors.UnitError{Unit: unit, TUID: tuid, Err: err}
	if pos, ok := src.(positioner); ok {
		ue.Line, _ = pos.InputPos()
	}
	return ue
}

func (p *Pipeline) stats(st Stats, in *countingSource) Stats {
	st.EventsIn = in.n
	return st
}

// countingSource counts consumed events.
type countingSource struct {
	segment.Source
	n int64
}

func (c *countingSource) Next() (tmx.Event, error) {
	e, err := c.Source.Next()
	if err == nil {
		c.n++
	}
	return e, err
}
