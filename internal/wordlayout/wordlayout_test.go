package wordlayout

import "testing"

func TestHangingWinsOverFirstLine(t *testing.T) {
	wl := Compute(Input{Indent: Indent{LeftTwips: 360, FirstLineTwips: 720, HangingTwips: 360}})
	if wl.FirstLinePx != 0 {
		t.Fatalf("expected firstLine cleared when hanging present, got %v", wl.FirstLinePx)
	}
	if wl.HangingPx == 0 {
		t.Fatalf("expected hanging to be set")
	}
}

func TestFirstLineIndentMode(t *testing.T) {
	wl := Compute(Input{Indent: Indent{LeftTwips: 0, FirstLineTwips: 720}})
	if !wl.FirstLineIndentMode {
		t.Fatalf("expected firstLineIndentMode")
	}
	if wl.TextStartPx <= 0 {
		t.Fatalf("expected positive text start, got %v", wl.TextStartPx)
	}
}

func TestMarkerGatingOnInvalidWidth(t *testing.T) {
	for _, w := range []float64{0, -0, nan()} {
		wl := Compute(Input{IsListParagraph: true, MarkerTextWidthPx: w, Suffix: SuffixTab})
		if wl.Suffix != SuffixNothing {
			t.Fatalf("width=%v: expected suffix gated to nothing, got %v", w, wl.Suffix)
		}
	}
}

func TestLeftJustifiedMarkerHasNoFixedWidth(t *testing.T) {
	wl := Compute(Input{IsListParagraph: true, MarkerTextWidthPx: 20, Suffix: SuffixSpace, Justification: JustifyLeft})
	if wl.MarkerBoxWidth != 0 {
		t.Fatalf("expected no fixed marker box width for left justification, got %v", wl.MarkerBoxWidth)
	}
}

func TestRightJustifiedMarkerHasFixedWidth(t *testing.T) {
	wl := Compute(Input{Indent: Indent{HangingTwips: 360}, IsListParagraph: true, MarkerTextWidthPx: 20, Suffix: SuffixSpace, Justification: JustifyRight})
	if wl.MarkerBoxWidth <= 0 {
		t.Fatalf("expected fixed marker box width for right justification")
	}
}

func TestNextTabStopExplicitThenDefault(t *testing.T) {
	if got := NextTabStop(10, []float64{5, 30}, 20); got != 30 {
		t.Fatalf("NextTabStop = %v, want 30", got)
	}
	if got := NextTabStop(10, nil, 20); got != 20 {
		t.Fatalf("NextTabStop default = %v, want 20", got)
	}
}

func nan() float64 {
	var zero float64
	return zero / zero
}
