package paint

import (
	"strings"
	"testing"

	"superdoc/internal/paginate"
)

func sampleLayout() paginate.Layout {
	return paginate.Layout{
		PageSize: paginate.PageSize{W: 600, H: 800},
		Pages: []paginate.Page{
			{Number: 1, Fragments: []paginate.Fragment{
				{Kind: paginate.FragmentPara, BlockID: "p1", X: 0, Y: 0, Width: 500, FromLine: 0, ToLine: 0},
				{Kind: paginate.FragmentImage, BlockID: "img1", X: 0, Y: 20, Width: 100, Height: 50},
			}},
		},
	}
}

func TestDebugPainterIsIdempotent(t *testing.T) {
	layout := sampleLayout()
	var b1, b2 strings.Builder
	p := DebugPainter{}
	if err := p.Paint(layout, &b1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Paint(layout, &b2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b1.String() != b2.String() {
		t.Fatalf("expected identical output across repeated paints:\n%s\n---\n%s", b1.String(), b2.String())
	}
}

func TestDebugPainterDescribesFragments(t *testing.T) {
	var b strings.Builder
	if err := (DebugPainter{}).Paint(sampleLayout(), &b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := b.String()
	if !strings.Contains(out, "para p1") {
		t.Fatalf("expected paragraph fragment line, got: %s", out)
	}
	if !strings.Contains(out, "image img1") {
		t.Fatalf("expected image fragment line, got: %s", out)
	}
}
