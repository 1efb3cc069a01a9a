package cascade

import (
	"reflect"
	"testing"
)

func TestCombineDeterministic(t *testing.T) {
	chain := []Properties{
		{"bold": false, "fontSize": 18.0},
		{"bold": true},
	}
	opts := Options{}
	got1 := Combine(chain, opts)
	got2 := Combine(chain, opts)
	if !reflect.DeepEqual(got1, got2) {
		t.Fatalf("Combine not deterministic: %v vs %v", got1, got2)
	}
	if got1["bold"] != true || got1["fontSize"] != 18.0 {
		t.Fatalf("unexpected merge result: %v", got1)
	}
}

func TestCombineNeverMutatesInputs(t *testing.T) {
	low := Properties{"x": 1.0}
	high := Properties{"x": 2.0}
	_ = Combine([]Properties{low, high}, Options{})
	if low["x"] != 1.0 || high["x"] != 2.0 {
		t.Fatalf("inputs mutated: low=%v high=%v", low, high)
	}
}

func TestFullOverrideKeys(t *testing.T) {
	chain := []Properties{
		{"color": Properties{"r": 1.0, "g": 2.0}},
		{"color": Properties{"b": 3.0}},
	}
	opts := Options{FullOverrideKeys: map[string]bool{"color": true}}
	got := Combine(chain, opts)
	want := Properties{"b": 3.0}
	if !reflect.DeepEqual(got["color"], want) {
		t.Fatalf("full override key was deep-merged: %v", got["color"])
	}
}

func TestIndentExclusivity(t *testing.T) {
	chain := []Properties{
		{"indent": Properties{"left": 360.0, "hanging": 360.0}},
		{"indent": Properties{"firstLine": 720.0}},
	}
	opts := Options{SpecialHandlers: map[string]SpecialHandler{"indent": IndentExclusive}}
	got := Combine(chain, opts)
	indent := got["indent"].(Properties)
	if _, ok := indent["hanging"]; ok {
		t.Fatalf("hanging should have been dropped: %v", indent)
	}
	if indent["left"] != 360.0 || indent["firstLine"] != 720.0 {
		t.Fatalf("unexpected indent: %v", indent)
	}
}

func TestArraysReplacedWholesale(t *testing.T) {
	chain := []Properties{
		{"tabs": []any{1.0, 2.0, 3.0}},
		{"tabs": []any{9.0}},
	}
	got := Combine(chain, Options{})
	want := []any{9.0}
	if !reflect.DeepEqual(got["tabs"], want) {
		t.Fatalf("arrays were element-merged: %v", got["tabs"])
	}
}

func TestEmptyLayersAreNoOp(t *testing.T) {
	chain := []Properties{
		{"bold": true},
		nil,
		{},
	}
	got := Combine(chain, Options{})
	if got["bold"] != true {
		t.Fatalf("empty layer altered result: %v", got)
	}
}
