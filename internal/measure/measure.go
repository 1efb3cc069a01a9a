// Package measure implements the Measurer contract of spec.md §4.G: turn a
// FlowBlock plus a target content width into line/drawing measurements the
// paginator consumes.
//
// Grounded on convert/text/sentences.go's Words/SplitWords whitespace
// tokenizer (the teacher's soft-break detector, reused here verbatim as the
// wrap-opportunity finder instead of its original word-count use) and
// convert/kfx/kp3_units.go's static-ratio-table idiom for the font-metrics
// approximation documented below.
package measure

import (
	"context"
	"strings"
	"unicode"

	"superdoc/internal/cascade"
	"superdoc/internal/flowblock"
)

// SpacingRule enumerates OOXML w:spacing lineRule values.
// ENUM(auto, exact, atLeast, multiple)
type SpacingRule string

const (
	SpacingAuto     SpacingRule = "auto"
	SpacingExact    SpacingRule = "exact"
	SpacingAtLeast  SpacingRule = "atLeast"
	SpacingMultiple SpacingRule = "multiple"
)

// RunPos locates a character within a paragraph's run list.
type RunPos struct {
	RunIndex  int
	CharIndex int
}

// Line is one measured line of a paragraph (spec.md §3 Measure).
type Line struct {
	From, To                           RunPos
	Width, Ascent, Descent, LineHeight float64

	// fontSizeHalfPtField carries the line's dominant font size while the
	// line is being accumulated; not part of the exported Measure shape.
	fontSizeHalfPtField float64
}

// ParagraphMeasure is the Measure variant for paragraph blocks.
type ParagraphMeasure struct {
	Lines       []Line
	TotalHeight float64
}

// DrawingMeasure is the Measure variant for image/drawing blocks.
type DrawingMeasure struct {
	NaturalW, NaturalH float64
	TargetW, TargetH   float64
	Scale              float64
}

// TableMeasure is the Measure variant for table blocks: a row-height table
// derived from recursively measuring each cell's content (spec.md §4.G:
// "a measurer-provided TableMeasure to place rows").
type TableMeasure struct {
	ColumnWidths []float64
	RowHeights   []float64
}

// Measure is the per-block layout input the paginator consumes.
type Measure struct {
	BlockID   string
	Paragraph *ParagraphMeasure
	Drawing   *DrawingMeasure
	Table     *TableMeasure
}

// GlyphWidther measures the pixel width of a text run in a given font; the
// same injected-dependency shape as flowblock.MarkerMeasurer (spec.md §4.G:
// "the measurer is external in most implementations").
type GlyphWidther func(text, fontFamily string, fontSizeHalfPt float64) float64

// Measurer is the spec.md §4.G contract.
type Measurer interface {
	Measure(ctx context.Context, block flowblock.Block, contentWidthPx float64) (Measure, error)
	// WaitForFontsReady blocks until font metrics are ready to use (spec.md
	// §5: "the measurer exposes a waitForFontsReady barrier; the paginator is
	// not run until it completes"). DefaultMeasurer has nothing to wait on.
	WaitForFontsReady(ctx context.Context) error
}

// fontMetrics is a static per-em ratio table, the same shape as
// kp3_units.go's precision tables, standing in for real glyph-shaping
// metrics (no font-rasterizer library is present anywhere in the reference
// corpus; see DESIGN.md for the stdlib-justification this implies).
type fontMetrics struct {
	ascentRatio     float64
	descentRatio    float64
	autoLineRatio   float64 // single-spacing line height as a multiple of font size
}

var defaultMetrics = fontMetrics{ascentRatio: 0.8, descentRatio: 0.2, autoLineRatio: 1.15}

// DefaultMeasurer is a pure-Go approximate line breaker. It is an explicit
// stand-in for a real text shaper: line widths are additive per word using
// widther, not shaped/kerned, and font metrics come from defaultMetrics
// rather than the font's actual hinting tables.
type DefaultMeasurer struct {
	widther GlyphWidther
}

// NewDefaultMeasurer returns a DefaultMeasurer. widther may be nil, in which
// case every line reports zero width (gated off by the caller, mirroring
// the marker-width gating of spec.md §8 invariant 10).
func NewDefaultMeasurer(widther GlyphWidther) *DefaultMeasurer {
	if widther == nil {
		widther = func(string, string, float64) float64 { return 0 }
	}
	return &DefaultMeasurer{widther: widther}
}

func (m *DefaultMeasurer) WaitForFontsReady(ctx context.Context) error {
	return nil
}

// MeasureMarkerWidth exposes the measurer's injected GlyphWidther so the
// flowblock converter can size list markers with the same glyph-width
// source used for line breaking, instead of wiring a second font backend.
func (m *DefaultMeasurer) MeasureMarkerWidth(text, fontFamily string, fontSizeHalfPt float64) float64 {
	return m.widther(text, fontFamily, fontSizeHalfPt)
}

func (m *DefaultMeasurer) Measure(ctx context.Context, block flowblock.Block, contentWidthPx float64) (Measure, error) {
	switch block.Kind {
	case flowblock.KindParagraph:
		return Measure{BlockID: block.ID, Paragraph: m.measureParagraph(block.Paragraph, contentWidthPx)}, nil
	case flowblock.KindImage:
		return Measure{BlockID: block.ID, Drawing: measureGeometry(block.Image.Geometry, contentWidthPx)}, nil
	case flowblock.KindDrawing:
		return Measure{BlockID: block.ID, Drawing: measureGeometry(block.Drawing.Geometry, contentWidthPx)}, nil
	case flowblock.KindTable:
		return Measure{BlockID: block.ID, Table: m.measureTable(block.Table, contentWidthPx)}, nil
	default:
		return Measure{BlockID: block.ID}, nil
	}
}

// measureTable estimates a height per row by recursively measuring each
// cell's nested content at that cell's column width. Nested tables are
// given a single-line placeholder height rather than recursing fully —
// the paginator atomic-clip path (spec.md §4.G "overflow unresolvable")
// covers tables deep enough for this approximation to matter.
func (m *DefaultMeasurer) measureTable(tb *flowblock.TableBlock, contentWidthPx float64) *TableMeasure {
	if tb == nil {
		return &TableMeasure{}
	}
	tm := &TableMeasure{ColumnWidths: tb.Grid, RowHeights: make([]float64, len(tb.Rows))}
	totalUnits := 0.0
	for _, w := range tb.Grid {
		totalUnits += w
	}
	for ri, row := range tb.Rows {
		rowHeight := 0.0
		for _, cell := range row {
			cellUnits := 0.0
			for _, w := range cell.ColWidths {
				cellUnits += w
			}
			cellWidthPx := contentWidthPx
			if totalUnits > 0 && contentWidthPx > 0 {
				cellWidthPx = contentWidthPx * (cellUnits / totalUnits)
			}
			h := 0.0
			for _, content := range cell.Content {
				switch content.Kind {
				case flowblock.KindParagraph:
					pm := m.measureParagraph(content.Paragraph, cellWidthPx)
					h += pm.TotalHeight
				case flowblock.KindTable:
					h += 24 // nested-table placeholder row height
				case flowblock.KindImage:
					h += measureGeometry(content.Image.Geometry, cellWidthPx).TargetH
				case flowblock.KindDrawing:
					h += measureGeometry(content.Drawing.Geometry, cellWidthPx).TargetH
				}
			}
			if h > rowHeight {
				rowHeight = h
			}
		}
		tm.RowHeights[ri] = rowHeight
	}
	return tm
}

func measureGeometry(g flowblock.Geometry, contentWidthPx float64) *DrawingMeasure {
	dm := &DrawingMeasure{NaturalW: g.W, NaturalH: g.H, TargetW: g.W, TargetH: g.H, Scale: 1}
	if contentWidthPx > 0 && g.W > contentWidthPx {
		dm.Scale = contentWidthPx / g.W
		dm.TargetW = contentWidthPx
		dm.TargetH = g.H * dm.Scale
	}
	return dm
}

// measureParagraph breaks pb's runs into lines at word boundaries, wrapping
// when a line would exceed contentWidthPx (spec.md §4.G).
func (m *DefaultMeasurer) measureParagraph(pb *flowblock.ParagraphBlock, contentWidthPx float64) *ParagraphMeasure {
	if pb == nil {
		return &ParagraphMeasure{}
	}

	rule, lineValuePx := spacingFromProperties(pb.Properties)

	var lines []Line
	var cur Line
	curWidth := 0.0
	lineStarted := false

	flush := func(to RunPos) {
		if !lineStarted {
			return
		}
		cur.To = to
		cur.Width = curWidth
		cur.Ascent, cur.Descent, cur.LineHeight = lineMetrics(cur.fontSizeHalfPt(), rule, lineValuePx)
		lines = append(lines, cur)
		cur = Line{}
		curWidth = 0
		lineStarted = false
	}

	for ri, run := range pb.Runs {
		font, size := runFont(run)
		for _, word := range splitSoftBreaks(run.Text) {
			w := m.widther(word, font, size)
			if lineStarted && contentWidthPx > 0 && curWidth+w > contentWidthPx && strings.TrimSpace(word) != "" {
				flush(RunPos{RunIndex: ri, CharIndex: 0})
			}
			if !lineStarted {
				cur = Line{From: RunPos{RunIndex: ri, CharIndex: 0}, fontSizeHalfPtField: size}
				lineStarted = true
			}
			curWidth += w
		}
	}
	flush(RunPos{RunIndex: len(pb.Runs), CharIndex: 0})

	total := 0.0
	for _, l := range lines {
		total += l.LineHeight
	}
	return &ParagraphMeasure{Lines: lines, TotalHeight: total}
}

// Line carries an unexported font-size hint used only while measuring (not
// part of the spec.md §3 Measure shape, so it is not exported).
func (l Line) fontSizeHalfPt() float64 { return l.fontSizeHalfPtField }

func runFont(r flowblock.Run) (family string, sizeHalfPt float64) {
	if r.Resolved == nil {
		return "", 24 // 12pt default
	}
	if v, ok := r.Resolved["fontFamily"]; ok {
		if s, ok := v.(string); ok {
			family = s
		}
	}
	sizeHalfPt = 24
	if v, ok := r.Resolved["fontSize"]; ok {
		if f, ok := v.(float64); ok && f > 0 {
			sizeHalfPt = f
		}
	}
	return family, sizeHalfPt
}

func spacingFromProperties(p cascade.Properties) (SpacingRule, float64) {
	raw, ok := p["spacing"]
	if !ok {
		return SpacingAuto, 0
	}
	props, ok := raw.(cascade.Properties)
	if !ok {
		return SpacingAuto, 0
	}
	rule := SpacingAuto
	if s, ok := props["lineRule"].(string); ok && s != "" {
		rule = SpacingRule(s)
	}
	line := 0.0
	if f, ok := props["line"].(float64); ok {
		line = f
	}
	return rule, line
}

// lineMetrics computes ascent/descent/lineHeight from the spacing rule
// (spec.md §4.G: "computed from spacing rules: exact / at-least / multiple /
// auto"). fontSizeHalfPt is in OOXML half-points.
func lineMetrics(fontSizeHalfPt float64, rule SpacingRule, lineValue float64) (ascent, descent, lineHeight float64) {
	fontSizePx := fontSizeHalfPt * 0.5 * 1.3333333
	ascent = fontSizePx * defaultMetrics.ascentRatio
	descent = fontSizePx * defaultMetrics.descentRatio
	autoHeight := fontSizePx * defaultMetrics.autoLineRatio

	switch rule {
	case SpacingExact:
		lineHeight = lineValue
	case SpacingAtLeast:
		lineHeight = lineValue
		if lineHeight < autoHeight {
			lineHeight = autoHeight
		}
	case SpacingMultiple:
		if lineValue > 0 {
			lineHeight = autoHeight * (lineValue / 240.0)
		} else {
			lineHeight = autoHeight
		}
	default:
		lineHeight = autoHeight
	}
	return ascent, descent, lineHeight
}

// splitSoftBreaks splits text into soft-break units (words plus their
// trailing whitespace kept with them), following the teacher's own
// Words/isSeparator idiom from convert/text/sentences.go.
func splitSoftBreaks(text string) []string {
	var out []string
	var word strings.Builder
	for _, r := range text {
		word.WriteRune(r)
		if unicode.IsSpace(r) {
			out = append(out, word.String())
			word.Reset()
		}
	}
	if word.Len() > 0 {
		out = append(out, word.String())
	}
	return out
}
