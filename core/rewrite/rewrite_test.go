package rewrite

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	apperrors "github.com/arafalov/uncorpora/core/errors"
	"github.com/arafalov/uncorpora/core/segment"
	"github.com/arafalov/uncorpora/core/tmx"
)

// voteUnit builds the unit
//
//	<tu><prop type="vote">1</prop><tuv lang="EN"><seg>Hi <hi type="symbol">*</hi></seg></tuv><tuv lang="FR"><seg>Bonjour</seg></tuv></tu>
func voteUnit() *segment.Buffer {
	var buf segment.Buffer
	buf.Append(
		tmx.Start(tmx.ElemUnit),
		tmx.Start(tmx.ElemProperty, tmx.Attr{Name: tmx.AttrType, Value: tmx.TypeVote}),
		tmx.Text("1"),
		tmx.End(tmx.ElemProperty),
		tmx.Start(tmx.ElemVariant, tmx.Attr{Name: tmx.AttrLang, Value: "EN"}),
		tmx.Start(tmx.ElemSegment),
		tmx.Text("Hi "),
		tmx.Start(tmx.ElemMarker, tmx.Attr{Name: tmx.AttrType, Value: tmx.TypeSymbol}),
		tmx.Text("*"),
		tmx.End(tmx.ElemMarker),
		tmx.End(tmx.ElemSegment),
		tmx.End(tmx.ElemVariant),
		tmx.Start(tmx.ElemVariant, tmx.Attr{Name: tmx.AttrLang, Value: "FR"}),
		tmx.Start(tmx.ElemSegment),
		tmx.Text("Bonjour"),
		tmx.End(tmx.ElemSegment),
		tmx.End(tmx.ElemVariant),
		tmx.End(tmx.ElemUnit),
	)
	return &buf
}

// render writes buffered events as compact markup for comparisons.
func render(buf *segment.Buffer) string {
	var sb strings.Builder
	for _, e := range buf.Events() {
		switch e.Kind {
		case tmx.KindStart:
			sb.WriteString("<" + e.Name)
			for _, a := range e.Attrs {
				sb.WriteString(" " + a.Name + `="` + a.Value + `"`)
			}
			sb.WriteString(">")
		case tmx.KindEnd:
			sb.WriteString("</" + e.Name + ">")
		case tmx.KindText:
			sb.WriteString(e.Text)
		}
	}
	return sb.String()
}

func mustNew(t *testing.T, cfg Config) *Rewriter {
	t.Helper()
	r, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return r
}

func TestRewriteVoteRuleFiresFirst(t *testing.T) {
	r := mustNew(t, Config{
		KeepLanguages: []string{"EN"},
		AllLanguages:  tmx.Languages,
		DropVoteUnits: true,
		Plaintext:     true,
	})

	buf := voteUnit()
	res, err := r.Rewrite(buf)
	if err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}
	if !res.Dropped || res.Reason != ReasonVote {
		t.Errorf("unit should be dropped as a vote unit, got %+v", res)
	}
	if buf.Len() != 0 {
		t.Errorf("dropped unit left %d events: %s", buf.Len(), render(buf))
	}
	if res.Variants != 0 || res.Markers != 0 {
		t.Errorf("no further filters should run after a drop, got %+v", res)
	}
}

func TestRewriteLanguageAndPlaintext(t *testing.T) {
	r := mustNew(t, Config{
		KeepLanguages: []string{"EN"},
		AllLanguages:  tmx.Languages,
		Plaintext:     true,
	})

	buf := voteUnit()
	res, err := r.Rewrite(buf)
	if err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}

	want := `<tu><prop type="vote">1</prop><tuv lang="EN"><seg>Hi *</seg></tuv></tu>`
	if got := render(buf); got != want {
		t.Errorf("Rewrite() = %s, want %s", got, want)
	}
	want2 := Result{Variants: 1, Markers: 2}
	if res != want2 {
		t.Errorf("Result = %+v, want %+v", res, want2)
	}
}

func TestRewriteIdentity(t *testing.T) {
	r := mustNew(t, Config{KeepLanguages: tmx.Languages, AllLanguages: tmx.Languages})
	if !r.Identity() {
		t.Error("Identity() = false for a no-op configuration")
	}

	buf := voteUnit()
	before := render(buf)
	res, err := r.Rewrite(buf)
	if err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}
	if got := render(buf); got != before {
		t.Errorf("Rewrite() changed the unit:\n got %s\nwant %s", got, before)
	}
	if res != (Result{}) {
		t.Errorf("Result = %+v, want zero", res)
	}
}

func TestRewriteRemovesFootnotes(t *testing.T) {
	r := mustNew(t, Config{KeepLanguages: tmx.Languages, AllLanguages: tmx.Languages, Plaintext: true})

	var buf segment.Buffer
	buf.Append(
		tmx.Start(tmx.ElemUnit),
		tmx.Start(tmx.ElemVariant, tmx.Attr{Name: tmx.AttrXMLLang, Value: "EN"}),
		tmx.Start(tmx.ElemSegment),
		tmx.Text("See note"),
		tmx.Start(tmx.ElemFootnote, tmx.Attr{Name: tmx.AttrType, Value: tmx.TypeFootnote}),
		tmx.Text("A/55/PV.1"),
		tmx.End(tmx.ElemFootnote),
		tmx.Text("."),
		tmx.End(tmx.ElemSegment),
		tmx.End(tmx.ElemVariant),
		tmx.End(tmx.ElemUnit),
	)

	res, err := r.Rewrite(&buf)
	if err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}
	if res.Footnotes != 1 {
		t.Errorf("Footnotes = %d, want 1", res.Footnotes)
	}
	want := `<tu><tuv xml:lang="EN"><seg>See note.</seg></tuv></tu>`
	if got := render(&buf); got != want {
		t.Errorf("Rewrite() = %s, want %s", got, want)
	}
}

func TestRewriteDropsUnitLeftWithoutVariants(t *testing.T) {
	r := mustNew(t, Config{KeepLanguages: []string{"EN"}, AllLanguages: tmx.Languages})

	var buf segment.Buffer
	buf.Append(
		tmx.Start(tmx.ElemUnit),
		tmx.Start(tmx.ElemVariant, tmx.Attr{Name: tmx.AttrXMLLang, Value: "FR"}),
		tmx.Text("Bonjour"),
		tmx.End(tmx.ElemVariant),
		tmx.End(tmx.ElemUnit),
	)

	res, err := r.Rewrite(&buf)
	if err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}
	if !res.Dropped || res.Reason != ReasonEmpty || res.Variants != 1 {
		t.Errorf("Result = %+v, want dropped as empty after 1 removal", res)
	}
	if buf.Len() != 0 {
		t.Errorf("dropped unit left %d events: %s", buf.Len(), render(&buf))
	}
}

func TestRewriteVoteOnMalformedUnit(t *testing.T) {
	r := mustNew(t, Config{KeepLanguages: []string{"EN"}, AllLanguages: tmx.Languages, DropVoteUnits: true})

	var buf segment.Buffer
	buf.Append(tmx.Start(tmx.ElemUnit), tmx.End(tmx.ElemUnit))

	_, err := r.Rewrite(&buf)
	if !errors.Is(err, apperrors.ErrInvariant) {
		t.Errorf("Rewrite error = %v, want ErrInvariant", err)
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"empty keep set", Config{AllLanguages: tmx.Languages}},
		{"unknown keep code", Config{KeepLanguages: []string{"DE"}, AllLanguages: tmx.Languages}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			if !errors.Is(err, apperrors.ErrInvalidInput) {
				t.Errorf("New() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestConfigIsCopied(t *testing.T) {
	keep := []string{"FR", "EN"}
	all := []string{"EN", "FR", "RU"}
	r := mustNew(t, Config{KeepLanguages: keep, AllLanguages: all})

	keep[0] = "RU"
	all[2] = "ZH"

	cfg := r.Config()
	if !reflect.DeepEqual(cfg.KeepLanguages, []string{"EN", "FR"}) {
		t.Errorf("KeepLanguages = %v, want [EN FR]", cfg.KeepLanguages)
	}
	if !reflect.DeepEqual(r.Removed(), []string{"RU"}) {
		t.Errorf("Removed() = %v, want [RU]", r.Removed())
	}

	cfg.KeepLanguages[0] = "AR"
	if r.Config().KeepLanguages[0] != "EN" {
		t.Error("Config() exposed internal state")
	}
}
