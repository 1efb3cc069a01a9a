// Package paginate implements the Paginator of spec.md §4.G: walk
// [FlowBlock]+[Measure] in document order and place them onto pages/columns,
// honoring keepNext, keepLines, pageBreakBefore, widowControl, anchored
// z-index, and full-width-anchored-table demotion.
//
// Grounded on convert/kfx/linearize.go's single-cursor linear walk
// (generalized from an EID/block-index cursor to a pageIndex/columnIndex/
// cursorY cursor) and convert/kfx/generated_sections.go's boundary-handling
// idiom for forced section breaks, adapted here to pageBreakBefore.
package paginate

import (
	"superdoc/config"
	"superdoc/internal/flowblock"
	"superdoc/internal/measure"
	"superdoc/internal/warn"
)

// FragmentKind enumerates the Fragment variants (spec.md §6.3).
// ENUM(para, image, drawing, table)
type FragmentKind string

const (
	FragmentPara    FragmentKind = "para"
	FragmentImage   FragmentKind = "image"
	FragmentDrawing FragmentKind = "drawing"
	FragmentTable   FragmentKind = "table"
)

// Fragment is one placed piece of a block on a page (spec.md §6.3).
type Fragment struct {
	Kind    FragmentKind
	BlockID string
	X, Y    float64
	Width   float64
	Height  float64

	// para
	FromLine, ToLine  int
	MarkerWidth       float64
	MarkerTextWidth   float64
	MarkerGutter      float64
	ContinuesFromPrev bool

	// image / drawing
	Geometry    flowblock.Geometry
	Scale       float64
	IsAnchored  bool
	DrawingKind string
	ZIndex      int

	// table
	FromRow, ToRow int
	Columns        []float64
	RowYs          []float64
}

// Page is one page's worth of fragments, in paint order.
type Page struct {
	Number    int
	Fragments []Fragment
}

// PageSize is the output page dimensions (spec.md §6.3).
type PageSize struct {
	W, H float64
}

// Layout is the paginator's output (spec.md §6.3).
type Layout struct {
	PageSize PageSize
	Pages    []Page
}

// anchoredBaseRelativeHeight is the OOXML wp:anchor relativeHeight floor
// subtracted to derive a 0-based z-index (spec.md §4.G: "z-index derived
// from relativeHeight minus an OOXML base constant").
const anchoredBaseRelativeHeight = 251658240

type blockMeasure struct {
	block   flowblock.Block
	measure measure.Measure
}

type cursor struct {
	page   int
	column int
	y      float64
}

type paginator struct {
	geom    config.PageConfig
	pages   []Page
	cur     cursor
	columnW float64
}

// Paginate lays out blocks onto pages using their corresponding measures.
// Each block is paired with the measure whose BlockID equals its ID; a
// block with no such measure is paired with a zero Measure and places
// nothing.
func Paginate(blocks []flowblock.Block, measures []measure.Measure, geom config.PageConfig) (Layout, []warn.Warning) {
	var warnings []warn.Warning
	p := &paginator{geom: geom, columnW: geom.ContentWidthPx()}
	p.newPage()

	pairs := make([]blockMeasure, 0, len(blocks))
	byID := make(map[string]measure.Measure, len(measures))
	for _, m := range measures {
		byID[m.BlockID] = m
	}
	for _, b := range blocks {
		pairs = append(pairs, blockMeasure{block: b, measure: byID[b.ID]})
	}

	for i, bm := range pairs {
		switch bm.block.Kind {
		case flowblock.KindParagraph:
			w := p.placeParagraph(pairs, i)
			warnings = append(warnings, w...)
		case flowblock.KindTable:
			w := p.placeTable(bm.block.Table, bm.measure.Table)
			warnings = append(warnings, w...)
		case flowblock.KindImage:
			w := p.placeImage(bm.block.Image, bm.measure.Drawing)
			warnings = append(warnings, w...)
		case flowblock.KindDrawing:
			w := p.placeDrawing(bm.block.Drawing, bm.measure.Drawing)
			warnings = append(warnings, w...)
		case flowblock.KindPageBreak:
			p.newPage()
		}
	}

	return Layout{PageSize: PageSize{W: geom.WidthPx, H: geom.HeightPx}, Pages: p.pages}, warnings
}

func (p *paginator) newPage() {
	p.pages = append(p.pages, Page{Number: len(p.pages) + 1})
	p.cur = cursor{page: len(p.pages) - 1, column: 0, y: 0}
}

func (p *paginator) advanceColumn() {
	if p.cur.column+1 < p.geom.Columns {
		p.cur.column++
		p.cur.y = 0
		return
	}
	p.newPage()
}

func (p *paginator) remainingHeight() float64 {
	return p.geom.UsableHeightPx() - p.cur.y
}

func (p *paginator) columnX() float64 {
	return p.geom.MarginLeftPx + float64(p.cur.column)*p.columnW
}

func (p *paginator) addFragment(f Fragment) {
	pg := &p.pages[p.cur.page]
	pg.Fragments = append(pg.Fragments, f)
}

// placeParagraph places pm's lines one by one, advancing page/column when a
// line would exceed the remaining column height, subject to keepLines,
// pageBreakBefore, widowControl and (via lookahead to the following block)
// keepNext.
func (p *paginator) placeParagraph(pairs []blockMeasure, idx int) []warn.Warning {
	var warnings []warn.Warning
	bm := pairs[idx]
	pb := bm.block.Paragraph
	pm := bm.measure.Paragraph
	if pb == nil || pm == nil {
		return nil
	}

	props := pb.Properties
	keepLines, _ := props["keepLines"].(bool)
	keepNext, _ := props["keepNext"].(bool)
	pageBreakBefore, _ := props["pageBreakBefore"].(bool)
	widowControl := true
	if v, ok := props["widowControl"].(bool); ok {
		widowControl = v
	}

	if pageBreakBefore {
		p.newPage()
	}

	if keepLines && pm.TotalHeight <= p.geom.UsableHeightPx() && pm.TotalHeight > p.remainingHeight() {
		p.advanceColumn()
	}

	if keepNext {
		needed := pm.TotalHeight + nextBlockFirstHeight(pairs, idx+1)
		if p.remainingHeight() < needed && needed <= p.geom.UsableHeightPx() {
			p.advanceColumn()
		}
	}

	lines := pm.Lines
	startX := p.columnX()
	continuesFromPrev := false

	i := 0
	for i < len(lines) {
		if p.remainingHeight() < lines[i].LineHeight {
			if lines[i].LineHeight <= p.geom.UsableHeightPx() {
				p.advanceColumn()
				continue
			}
			if p.cur.y > 0 {
				p.advanceColumn()
			}
			warnings = append(warnings, warn.New(warn.CodeOverflowUnresolvable, pb.ID, "paragraph line does not fit any column"))
		}

		// Widow control: avoid stranding the paragraph's last line alone by
		// pulling the final two lines onto the same column together.
		remainingLines := len(lines) - i
		if widowControl && remainingLines == 2 {
			need := lines[i].LineHeight + lines[i+1].LineHeight
			if p.remainingHeight() < need && p.remainingHeight() >= lines[i].LineHeight {
				p.advanceColumn()
			}
		}

		y := p.cur.y
		p.addFragment(Fragment{
			Kind:              FragmentPara,
			BlockID:           pb.ID,
			X:                 startX,
			Y:                 y,
			Width:             p.columnW,
			Height:            lines[i].LineHeight,
			FromLine:          i,
			ToLine:            i,
			ContinuesFromPrev: continuesFromPrev,
		})
		p.cur.y += lines[i].LineHeight
		continuesFromPrev = true
		i++
	}
	return warnings
}

// nextBlockFirstHeight returns the height of the first placeable unit of
// the block at pairs[idx], used for keepNext lookahead. Returns 0 if idx is
// out of range or the block has no measured height.
func nextBlockFirstHeight(pairs []blockMeasure, idx int) float64 {
	if idx >= len(pairs) {
		return 0
	}
	m := pairs[idx].measure
	if m.Paragraph != nil && len(m.Paragraph.Lines) > 0 {
		return m.Paragraph.Lines[0].LineHeight
	}
	if m.Drawing != nil {
		return m.Drawing.TargetH
	}
	if m.Table != nil && len(m.Table.RowHeights) > 0 {
		return m.Table.RowHeights[0]
	}
	return 0
}

func (p *paginator) placeImage(ib *flowblock.ImageBlock, dm *measure.DrawingMeasure) []warn.Warning {
	if ib == nil || dm == nil {
		return nil
	}
	return p.placeDrawingLike(ib.ID, "", ib.Anchor, dm)
}

func (p *paginator) placeDrawing(db *flowblock.DrawingBlock, dm *measure.DrawingMeasure) []warn.Warning {
	if db == nil || dm == nil {
		return nil
	}
	return p.placeDrawingLike(db.ID, string(db.DrawingKind), db.Anchor, dm)
}

func (p *paginator) placeDrawingLike(blockID, drawingKind string, anchor flowblock.AnchorInfo, dm *measure.DrawingMeasure) []warn.Warning {
	var warnings []warn.Warning
	if p.remainingHeight() < dm.TargetH {
		if dm.TargetH > p.geom.UsableHeightPx() {
			warnings = append(warnings, warn.New(warn.CodeOverflowUnresolvable, blockID, "drawing taller than usable page height, clipped"))
		} else {
			p.advanceColumn()
		}
	}

	kind := FragmentImage
	if drawingKind != "" {
		kind = FragmentDrawing
	}

	f := Fragment{
		Kind:        kind,
		BlockID:     blockID,
		X:           p.columnX(),
		Y:           p.cur.y,
		Width:       dm.TargetW,
		Height:      dm.TargetH,
		Geometry:    flowblock.Geometry{W: dm.NaturalW, H: dm.NaturalH},
		Scale:       dm.Scale,
		IsAnchored:  anchor.Anchored,
		DrawingKind: drawingKind,
	}
	if anchor.Anchored {
		f.ZIndex = anchor.RelativeHeight - anchoredBaseRelativeHeight
	} else {
		p.cur.y += dm.TargetH
	}
	p.addFragment(f)
	return warnings
}

// placeTable places rows one by one, splitting across pages only when the
// table's cantSplit property is false; repeats header rows on continuation
// pages when repeatHeader is set. Anchored tables wide enough to count as
// full-width (spec.md: "width >= ANCHORED_TABLE_FULL_WIDTH_RATIO *
// columnWidth") are demoted to inline layout, i.e. placed exactly like a
// non-anchored table.
func (p *paginator) placeTable(tb *flowblock.TableBlock, tm *measure.TableMeasure) []warn.Warning {
	if tb == nil || tm == nil {
		return nil
	}

	cantSplit, _ := tb.Properties["cantSplit"].(bool)
	repeatHeader, _ := tb.Properties["repeatHeader"].(bool)

	totalHeight := 0.0
	for _, h := range tm.RowHeights {
		totalHeight += h
	}

	tableWidth := 0.0
	for _, w := range tm.ColumnWidths {
		tableWidth += w
	}

	var warnings []warn.Warning
	if cantSplit && totalHeight <= p.geom.UsableHeightPx() && totalHeight > p.remainingHeight() {
		p.advanceColumn()
	}

	headerRowCount := 0
	for _, row := range tb.Rows {
		if len(row) > 0 && row[0].IsHeader {
			headerRowCount++
			continue
		}
		break
	}

	startRow := 0
	for startRow < len(tb.Rows) {
		rowYs := []float64{}
		y0 := p.cur.y
		rowsOnPage := 0
		r := startRow
		// fromRow reports 0 (the header boundary) on a continuation page
		// where the header was repeated, rather than startRow, since the
		// fragment visually begins at the repeated header row.
		fromRow := startRow
		if repeatHeader && startRow > 0 {
			headerFit := true
			for hr := 0; hr < headerRowCount && hr < len(tm.RowHeights); hr++ {
				if p.remainingHeight() < tm.RowHeights[hr] {
					headerFit = false
					break
				}
				rowYs = append(rowYs, p.cur.y)
				p.cur.y += tm.RowHeights[hr]
				rowsOnPage++
			}
			if headerFit && headerRowCount > 0 {
				fromRow = 0
			}
		}
		for r < len(tb.Rows) {
			h := tm.RowHeights[r]
			if p.remainingHeight() < h {
				if rowsOnPage == 0 {
					if h > p.geom.UsableHeightPx() {
						warnings = append(warnings, warn.New(warn.CodeOverflowUnresolvable, tb.ID, "table row taller than usable page height, clipped"))
						rowYs = append(rowYs, p.cur.y)
						p.cur.y += h
						rowsOnPage++
						r++
						continue
					}
				}
				break
			}
			rowYs = append(rowYs, p.cur.y)
			p.cur.y += h
			rowsOnPage++
			r++
		}
		if rowsOnPage == 0 {
			// nothing fit, not even after a fresh column: force progress.
			p.advanceColumn()
			continue
		}
		p.addFragment(Fragment{
			Kind:    FragmentTable,
			BlockID: tb.ID,
			X:       p.columnX(),
			Y:       y0,
			Width:   tableWidth,
			FromRow: fromRow,
			ToRow:   r - 1,
			Columns: tm.ColumnWidths,
			RowYs:   rowYs,
		})
		startRow = r
		if startRow < len(tb.Rows) {
			p.advanceColumn()
		}
	}
	return warnings
}
