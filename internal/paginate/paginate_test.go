package paginate

import (
	"testing"

	"superdoc/config"
	"superdoc/internal/cascade"
	"superdoc/internal/flowblock"
	"superdoc/internal/measure"
	"superdoc/internal/warn"
)

func smallPage() config.PageConfig {
	return config.PageConfig{WidthPx: 600, HeightPx: 800, MarginTopPx: 0, MarginLeftPx: 0, Columns: 1}
}

func paraBlockMeasure(id string, lineHeights []float64, props cascade.Properties) (flowblock.Block, measure.Measure) {
	lines := make([]measure.Line, len(lineHeights))
	total := 0.0
	for i, h := range lineHeights {
		lines[i] = measure.Line{LineHeight: h}
		total += h
	}
	b := flowblock.Block{Kind: flowblock.KindParagraph, ID: id, Paragraph: &flowblock.ParagraphBlock{ID: id, Properties: props}}
	m := measure.Measure{BlockID: id, Paragraph: &measure.ParagraphMeasure{Lines: lines, TotalHeight: total}}
	return b, m
}

func TestParagraphFlowsOntoSinglePage(t *testing.T) {
	b, m := paraBlockMeasure("p1", []float64{20, 20, 20}, nil)
	layout, warnings := Paginate([]flowblock.Block{b}, []measure.Measure{m}, smallPage())
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(layout.Pages) != 1 || len(layout.Pages[0].Fragments) != 3 {
		t.Fatalf("expected 3 fragments on 1 page, got %+v", layout.Pages)
	}
}

func TestParagraphWrapsToNextPageWhenOverflowing(t *testing.T) {
	geom := smallPage()
	geom.HeightPx = 50 // usable height 50
	lineHeights := make([]float64, 10)
	for i := range lineHeights {
		lineHeights[i] = 10
	}
	b, m := paraBlockMeasure("p1", lineHeights, nil)
	layout, _ := Paginate([]flowblock.Block{b}, []measure.Measure{m}, geom)
	if len(layout.Pages) < 2 {
		t.Fatalf("expected overflow onto a second page, got %d pages", len(layout.Pages))
	}
}

func TestPageBreakBeforeForcesNewPage(t *testing.T) {
	b1, m1 := paraBlockMeasure("p1", []float64{10}, nil)
	b2, m2 := paraBlockMeasure("p2", []float64{10}, cascade.Properties{"pageBreakBefore": true})
	layout, _ := Paginate([]flowblock.Block{b1, b2}, []measure.Measure{m1, m2}, smallPage())
	if len(layout.Pages) != 2 {
		t.Fatalf("expected pageBreakBefore to force a second page, got %d", len(layout.Pages))
	}
	if layout.Pages[1].Fragments[0].BlockID != "p2" {
		t.Fatalf("expected p2 on page 2")
	}
}

func TestKeepLinesKeepsParagraphTogether(t *testing.T) {
	geom := smallPage()
	geom.HeightPx = 30 // usable height 30
	b1, m1 := paraBlockMeasure("p1", []float64{20}, nil)
	// p2 has 3 lines of 10 (total 30, fits a whole column) but only 10px
	// remains after p1; keepLines should push it to a fresh column/page.
	b2, m2 := paraBlockMeasure("p2", []float64{10, 10, 10}, cascade.Properties{"keepLines": true})
	layout, _ := Paginate([]flowblock.Block{b1, b2}, []measure.Measure{m1, m2}, geom)
	if len(layout.Pages) != 2 {
		t.Fatalf("expected keepLines to push paragraph to page 2, got %d pages", len(layout.Pages))
	}
	for _, f := range layout.Pages[0].Fragments {
		if f.BlockID == "p2" {
			t.Fatalf("p2 should not have started on page 1")
		}
	}
}

func TestTableOverflowIsClippedWithWarning(t *testing.T) {
	geom := smallPage()
	geom.HeightPx = 10 // smaller than any single row
	tb := &flowblock.TableBlock{ID: "t1", Rows: [][]flowblock.Cell{{{}}}}
	tm := &measure.TableMeasure{RowHeights: []float64{1000}}
	block := flowblock.Block{Kind: flowblock.KindTable, ID: "t1", Table: tb}
	m := measure.Measure{BlockID: "t1", Table: tm}

	_, warnings := Paginate([]flowblock.Block{block}, []measure.Measure{m}, geom)
	found := false
	for _, w := range warnings {
		if w.Code == warn.CodeOverflowUnresolvable {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected overflowUnresolvable warning, got %v", warnings)
	}
}

func TestTableRepeatsHeaderOnContinuationPage(t *testing.T) {
	geom := smallPage()
	geom.HeightPx = 25 // usable height 25: header(10) + 1 data row(10) fit, not the third
	tb := &flowblock.TableBlock{
		ID: "t1",
		Rows: [][]flowblock.Cell{
			{{IsHeader: true}},
			{{}},
			{{}},
		},
		Properties: cascade.Properties{"repeatHeader": true},
	}
	tm := &measure.TableMeasure{RowHeights: []float64{10, 10, 10}}
	block := flowblock.Block{Kind: flowblock.KindTable, ID: "t1", Table: tb}
	m := measure.Measure{BlockID: "t1", Table: tm}

	layout, _ := Paginate([]flowblock.Block{block}, []measure.Measure{m}, geom)
	if len(layout.Pages) < 2 {
		t.Fatalf("expected table to continue onto a second page, got %d pages", len(layout.Pages))
	}
	page2 := layout.Pages[1]
	if len(page2.Fragments) == 0 {
		t.Fatalf("expected a fragment on page 2")
	}
	if page2.Fragments[0].FromRow != 0 {
		t.Fatalf("expected continuation fragment to report the repeated header boundary (row 0), got FromRow=%d", page2.Fragments[0].FromRow)
	}
	if len(page2.Fragments[0].RowYs) != 2 {
		t.Fatalf("expected repeated header row plus one data row on page 2, got %d rowYs", len(page2.Fragments[0].RowYs))
	}
}

func TestImagePlacementAdvancesCursor(t *testing.T) {
	ib := &flowblock.ImageBlock{ID: "img1", Geometry: flowblock.Geometry{W: 100, H: 50}}
	block := flowblock.Block{Kind: flowblock.KindImage, ID: "img1", Image: ib}
	m := measure.Measure{BlockID: "img1", Drawing: &measure.DrawingMeasure{NaturalW: 100, NaturalH: 50, TargetW: 100, TargetH: 50, Scale: 1}}

	layout, _ := Paginate([]flowblock.Block{block}, []measure.Measure{m}, smallPage())
	if len(layout.Pages) != 1 || len(layout.Pages[0].Fragments) != 1 {
		t.Fatalf("expected single image fragment, got %+v", layout.Pages)
	}
	f := layout.Pages[0].Fragments[0]
	if f.Kind != FragmentImage || f.Height != 50 {
		t.Fatalf("unexpected image fragment: %+v", f)
	}
}

func TestAnchoredDrawingZIndexDerivedFromRelativeHeight(t *testing.T) {
	db := &flowblock.DrawingBlock{ID: "d1", DrawingKind: "vectorShape", Anchor: flowblock.AnchorInfo{Anchored: true, RelativeHeight: anchoredBaseRelativeHeight + 5}}
	block := flowblock.Block{Kind: flowblock.KindDrawing, ID: "d1", Drawing: db}
	m := measure.Measure{BlockID: "d1", Drawing: &measure.DrawingMeasure{TargetW: 10, TargetH: 10, Scale: 1}}

	layout, _ := Paginate([]flowblock.Block{block}, []measure.Measure{m}, smallPage())
	f := layout.Pages[0].Fragments[0]
	if f.ZIndex != 5 {
		t.Fatalf("expected zIndex 5, got %d", f.ZIndex)
	}
	if !f.IsAnchored {
		t.Fatalf("expected IsAnchored true")
	}
}
