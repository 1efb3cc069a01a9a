package numbering

import (
	"reflect"
	"testing"
)

func flatTable(fmtName, lvlText string) Table {
	return Table{
		Level: func(numID string, ilvl int) (LevelDef, bool) {
			return LevelDef{Start: 1, NumFmt: fmtName, LvlText: lvlText, Restart: -1}, true
		},
	}
}

// S1: Two-paragraph list restart.
func TestTwoParagraphListRestart(t *testing.T) {
	m := NewManager(flatTable("decimal", "%1."))
	m.Begin()

	p1, ok := m.Next("1", 0)
	if !ok || !reflect.DeepEqual(p1, []int{1}) {
		t.Fatalf("P1 path = %v, ok=%v", p1, ok)
	}
	if got := MarkerText("%1.", []string{"decimal"}, p1); got != "1." {
		t.Fatalf("P1 marker = %q", got)
	}

	p2, ok := m.Next("1", 0)
	if !ok || !reflect.DeepEqual(p2, []int{2}) {
		t.Fatalf("P2 path = %v, ok=%v", p2, ok)
	}
	if got := MarkerText("%1.", []string{"decimal"}, p2); got != "2." {
		t.Fatalf("P2 marker = %q", got)
	}
}

// S2: Nested list.
func TestNestedList(t *testing.T) {
	m := NewManager(flatTable("decimal", "%1.%2"))
	m.Begin()

	type step struct {
		ilvl       int
		wantPath   []int
		wantMarker string
	}
	steps := []step{
		{0, []int{1}, "1."},
		{1, []int{1, 1}, "1.1"},
		{1, []int{1, 2}, "1.2"},
		{0, []int{2}, "2."},
	}
	for i, s := range steps {
		path, ok := m.Next("1", s.ilvl)
		if !ok {
			t.Fatalf("step %d: Next failed", i)
		}
		if !reflect.DeepEqual(path, s.wantPath) {
			t.Fatalf("step %d: path = %v, want %v", i, path, s.wantPath)
		}
		lvlText := "%1."
		numFmts := []string{"decimal"}
		if s.ilvl == 1 {
			lvlText = "%1.%2"
			numFmts = []string{"decimal", "decimal"}
		}
		if got := MarkerText(lvlText, numFmts, path); got != s.wantMarker {
			t.Fatalf("step %d: marker = %q, want %q", i, got, s.wantMarker)
		}
	}
}

func TestNumberingGapIsNotOK(t *testing.T) {
	m := NewManager(Table{Level: func(string, int) (LevelDef, bool) { return LevelDef{}, false }})
	m.Begin()
	if _, ok := m.Next("missing", 0); ok {
		t.Fatalf("expected numbering gap to return ok=false")
	}
}

func TestCounterMonotonicity(t *testing.T) {
	m := NewManager(flatTable("decimal", "%1."))
	m.Begin()
	prev := 0
	for i := 0; i < 5; i++ {
		path, _ := m.Next("1", 0)
		if path[0] < prev {
			t.Fatalf("counter decreased: %v after %d", path, prev)
		}
		prev = path[0]
	}
}

func TestFormatCounterRoman(t *testing.T) {
	if got := FormatCounter(4, "lowerRoman"); got != "iv" {
		t.Fatalf("FormatCounter(4, lowerRoman) = %q", got)
	}
	if got := FormatCounter(9, "upperRoman"); got != "IX" {
		t.Fatalf("FormatCounter(9, upperRoman) = %q", got)
	}
}

func TestFormatCounterLetter(t *testing.T) {
	if got := FormatCounter(1, "lowerLetter"); got != "a" {
		t.Fatalf("FormatCounter(1, lowerLetter) = %q", got)
	}
	if got := FormatCounter(27, "lowerLetter"); got != "aa" {
		t.Fatalf("FormatCounter(27, lowerLetter) = %q", got)
	}
}
