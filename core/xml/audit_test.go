package xml

import (
	"reflect"
	"strings"
	"testing"
)

const auditDoc = `<?xml version="1.0" encoding="UTF-8"?>
<tmx version="1.4"><header/><body>
<tu tuid="1">
  <prop type="vote">1</prop>
  <tuv xml:lang="EN"><seg>Yes<hi type="symbol">*</hi></seg></tuv>
  <tuv xml:lang="FR"><seg>Oui</seg></tuv>
</tu>
<tu tuid="2">
  <tuv lang="EN"><seg>Note<sub type="fnote">A/55/1</sub></seg></tuv>
</tu>
</body></tmx>
`

// TestAudit verifies unit, variant and inline element counts.
func TestAudit(t *testing.T) {
	rep, err := Audit(strings.NewReader(auditDoc))
	if err != nil {
		t.Fatalf("Audit failed: %v", err)
	}

	if rep.Units != 2 {
		t.Errorf("Units = %d, want 2", rep.Units)
	}
	if want := map[string]int{"EN": 2, "FR": 1}; !reflect.DeepEqual(rep.Variants, want) {
		t.Errorf("Variants = %v, want %v", rep.Variants, want)
	}
	if rep.VoteUnits != 1 {
		t.Errorf("VoteUnits = %d, want 1", rep.VoteUnits)
	}
	if rep.Footnotes != 1 || rep.Markers != 1 {
		t.Errorf("Footnotes, Markers = %d, %d, want 1, 1", rep.Footnotes, rep.Markers)
	}
	if got := rep.Languages(); !reflect.DeepEqual(got, []string{"EN", "FR"}) {
		t.Errorf("Languages() = %v", got)
	}
	if got := rep.Incomplete([]string{"EN", "FR", "RU"}); !reflect.DeepEqual(got, []string{"FR", "RU"}) {
		t.Errorf("Incomplete() = %v, want [FR RU]", got)
	}
}

// TestAuditEmptyBody verifies documents without units.
func TestAuditEmptyBody(t *testing.T) {
	rep, err := Audit(strings.NewReader(`<tmx><body/></tmx>`))
	if err != nil {
		t.Fatalf("Audit failed: %v", err)
	}
	if rep.Units != 0 || len(rep.Variants) != 0 {
		t.Errorf("report = %+v, want empty", rep)
	}
}

// TestAuditMalformed verifies parse failures are reported.
func TestAuditMalformed(t *testing.T) {
	if _, err := Audit(strings.NewReader(`<tmx><body><tu><tuv></tu>`)); err == nil {
		t.Error("Audit should fail on malformed input")
	}
}
