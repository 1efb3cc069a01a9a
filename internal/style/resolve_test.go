package style

import (
	"testing"

	"superdoc/internal/cascade"
)

func newTestContext(styles map[string]*Definition) *Context {
	return New(DocDefaults{}, styles, NumberingTable{}, nil, nil)
}

// S3: Inline beats style (regression: hyperlink font-size bug).
func TestInlineOverridesCharacterStyle(t *testing.T) {
	styles := map[string]*Definition{
		"S": {ID: "S", Type: TypeCharacter, RunProperties: cascade.Properties{"fontSize": 18.0}},
	}
	r := NewResolver(newTestContext(styles))

	got := r.ResolveRunProperties("S", "", nil, cascade.Properties{"fontSize": 24.0, "bold": true})
	if got["fontSize"] != 24.0 {
		t.Fatalf("inline fontSize did not win: %v", got)
	}
	if got["bold"] != true {
		t.Fatalf("inline bold missing: %v", got)
	}
}

// S4: Firstline exclusivity.
func TestIndentExclusivityAcrossChain(t *testing.T) {
	styles := map[string]*Definition{
		"Para": {ID: "Para", Type: TypeParagraph,
			ParagraphProperties: cascade.Properties{
				"indent": cascade.Properties{"left": 360.0, "hanging": 360.0},
			},
		},
	}
	r := NewResolver(newTestContext(styles))

	got := r.ResolveParagraphProperties("Para", nil, cascade.Properties{
		"indent": cascade.Properties{"firstLine": 720.0},
	})
	indent := got["indent"].(cascade.Properties)
	if _, ok := indent["hanging"]; ok {
		t.Fatalf("hanging should have been dropped: %v", indent)
	}
	if indent["left"] != 360.0 || indent["firstLine"] != 720.0 {
		t.Fatalf("unexpected indent: %v", indent)
	}
}

func TestCyclicBasedOnDegradesGracefully(t *testing.T) {
	styles := map[string]*Definition{
		"A": {ID: "A", BasedOn: "B", ParagraphProperties: cascade.Properties{"a": 1.0}},
		"B": {ID: "B", BasedOn: "A", ParagraphProperties: cascade.Properties{"b": 2.0}},
	}
	r := NewResolver(newTestContext(styles))

	// Must not hang or panic; must return a partial-but-usable chain.
	got := r.ResolveParagraphProperties("A", nil, nil)
	if got["a"] != 1.0 {
		t.Fatalf("expected partial chain to include A's own properties: %v", got)
	}
}

func TestBasedOnChainRootFirst(t *testing.T) {
	styles := map[string]*Definition{
		"Root": {ID: "Root", ParagraphProperties: cascade.Properties{"x": 1.0}},
		"Mid":  {ID: "Mid", BasedOn: "Root", ParagraphProperties: cascade.Properties{"x": 2.0}},
		"Leaf": {ID: "Leaf", BasedOn: "Mid", ParagraphProperties: cascade.Properties{"y": 3.0}},
	}
	r := NewResolver(newTestContext(styles))

	got := r.ResolveParagraphProperties("Leaf", nil, nil)
	if got["x"] != 2.0 {
		t.Fatalf("expected Mid's override of Root to win: %v", got)
	}
	if got["y"] != 3.0 {
		t.Fatalf("expected Leaf's own property present: %v", got)
	}
}
