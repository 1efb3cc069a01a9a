// Package wordlayout computes per-paragraph indent, marker, and tab
// geometry in pixel units from resolved OOXML properties (spec.md §4.D).
//
// Grounded on convert/kfx/kp3_units.go's precision/rounding constant-table
// idiom and convert/kfx/frag_storyline_margins_apply.go's ordered
// indent/margin application.
package wordlayout

import "superdoc/internal/units"

// Suffix enumerates the marker/text spacing policy (spec.md glossary).
// ENUM(tab, space, nothing)
type Suffix string

const (
	SuffixTab     Suffix = "tab"
	SuffixSpace   Suffix = "space"
	SuffixNothing Suffix = "nothing"
)

// Justification enumerates the marker justification used to decide whether
// MarkerBoxWidth is fixed (spec.md §4.D/§4.J).
// ENUM(left, center, right)
type Justification string

const (
	JustifyLeft   Justification = "left"
	JustifyCenter Justification = "center"
	JustifyRight  Justification = "right"
)

// Indent mirrors the resolved OOXML indent object, in twips.
type Indent struct {
	LeftTwips      float64
	FirstLineTwips float64
	HangingTwips   float64
}

// TabStop is one explicit paragraph tab stop, in twips.
type TabStop struct {
	PosTwips float64
}

// Input is everything Compute needs for one paragraph.
type Input struct {
	Indent                  Indent
	Tabs                    []TabStop
	DefaultTabIntervalTwips float64

	// IsListParagraph is false for ordinary paragraphs; when true, Marker
	// fields below apply.
	IsListParagraph   bool
	MarkerText        string
	MarkerTextWidthPx float64 // measured width of the marker glyph(s), or NaN/0/Inf if unmeasurable
	Suffix            Suffix
	Justification     Justification
}

// WordLayout is the pixel-unit geometry spec.md §4.D/§6.3 describes.
type WordLayout struct {
	IndentLeftPx        float64
	FirstLinePx         float64
	HangingPx           float64
	FirstLineIndentMode bool

	TextStartPx          float64
	DefaultTabIntervalPx float64

	MarkerBoxWidth  float64
	MarkerTextWidth float64
	MarkerGutter    float64
	Suffix          Suffix
}

// markerGutterPx is the fixed gap between marker box and text. No ecosystem
// constant governs this; it mirrors the teacher's own small fixed-spacing
// constants (e.g. kp3_units.go's precision tables) in spirit.
const markerGutterPx = 5.0

// Compute converts in to pixel-unit WordLayout (spec.md §4.D).
func Compute(in Input) WordLayout {
	wl := WordLayout{
		IndentLeftPx:         units.TwipsToPx(in.Indent.LeftTwips),
		FirstLinePx:          units.TwipsToPx(in.Indent.FirstLineTwips),
		HangingPx:            units.TwipsToPx(in.Indent.HangingTwips),
		DefaultTabIntervalPx: units.TwipsToPx(in.DefaultTabIntervalTwips),
		Suffix:               in.Suffix,
	}

	switch {
	case in.Indent.HangingTwips > 0:
		// Hanging wins over firstLine (spec.md §4.D).
		wl.FirstLinePx = 0
		wl.FirstLineIndentMode = false
	case in.Indent.FirstLineTwips > 0:
		wl.HangingPx = 0
		wl.FirstLineIndentMode = true
	}

	wl.TextStartPx = wl.IndentLeftPx
	if wl.FirstLineIndentMode {
		wl.TextStartPx = wl.IndentLeftPx + wl.FirstLinePx
	}

	if !in.IsListParagraph {
		return wl
	}

	wl.MarkerTextWidth = in.MarkerTextWidthPx

	markerOriginPx := wl.IndentLeftPx - wl.HangingPx

	switch in.Justification {
	case JustifyRight, JustifyCenter:
		wl.MarkerBoxWidth = wl.HangingPx
		if wl.MarkerBoxWidth <= 0 {
			wl.MarkerBoxWidth = wl.MarkerTextWidth + markerGutterPx
		}
	default:
		// Left-justified markers expose no fixed width; text flows beside
		// the marker glyph (spec.md §4.D/§4.J).
		wl.MarkerBoxWidth = 0
	}
	wl.MarkerGutter = markerGutterPx

	if !markerTextWidthIsFinite(wl.MarkerTextWidth) {
		// Gating rule (spec.md §8 invariant 10): undefined/zero/NaN/Inf
		// marker width means no marker is rendered downstream; geometry
		// here must not snap a tab stop to a meaningless width.
		wl.Suffix = SuffixNothing
		return wl
	}

	switch in.Suffix {
	case SuffixTab:
		afterMarker := markerOriginPx + wl.MarkerTextWidth
		wl.TextStartPx = NextTabStop(afterMarker, tabStopsPx(in.Tabs), wl.DefaultTabIntervalPx)
	case SuffixSpace:
		wl.TextStartPx = markerOriginPx + wl.MarkerTextWidth + markerGutterPx
	default:
		wl.TextStartPx = markerOriginPx + wl.MarkerTextWidth
	}

	return wl
}

func markerTextWidthIsFinite(w float64) bool {
	return w > 0 && w == w && w < 1e18 // excludes 0, NaN, and practical +Inf
}

func tabStopsPx(tabs []TabStop) []float64 {
	out := make([]float64, len(tabs))
	for i, t := range tabs {
		out[i] = units.TwipsToPx(t.PosTwips)
	}
	return out
}

// NextTabStop returns the x position of the next tab stop at or after from,
// preferring an explicit tab (sorted ascending) and falling back to the
// next multiple of defaultIntervalPx (spec.md §4.D/§4.J).
func NextTabStop(from float64, explicitTabsPx []float64, defaultIntervalPx float64) float64 {
	best := -1.0
	for _, t := range explicitTabsPx {
		if t >= from && (best < 0 || t < best) {
			best = t
		}
	}
	if best >= 0 {
		return best
	}
	if defaultIntervalPx <= 0 {
		return from
	}
	n := float64(int(from/defaultIntervalPx)) + 1
	return n * defaultIntervalPx
}
