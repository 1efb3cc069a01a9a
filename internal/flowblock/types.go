// Package flowblock translates the editor-document tree into the
// intermediate, position-stamped FlowBlock stream (spec.md §3, §4.E/§4.F).
//
// Grounded on convert/kfx/frag_block_builder.go's dispatch-by-node-kind
// block emission and convert/kfx/inline_processor.go's inline-mark
// flattening.
package flowblock

import (
	"superdoc/internal/cascade"
	"superdoc/internal/docmodel"
	"superdoc/internal/wordlayout"
)

// Kind enumerates the FlowBlock variants (spec.md §3).
// ENUM(paragraph, table, image, drawing, pageBreak)
type Kind string

const (
	KindParagraph Kind = "paragraph"
	KindTable     Kind = "table"
	KindImage     Kind = "image"
	KindDrawing   Kind = "drawing"
	KindPageBreak Kind = "pageBreak"
)

// Geometry is a natural width/height pair (EMU-equivalent float units,
// consistent with the source attrs; converted to px by the measurer).
type Geometry struct {
	W, H float64
}

// Extent is an OOXML effectExtent margin set (spec.md §3/§8 invariant 11).
type Extent struct {
	Top, Right, Bottom, Left float64
}

// Run is a maximal contiguous piece of inline text sharing identical marks.
type Run struct {
	Text     string
	Marks    []docmodel.Mark
	Resolved cascade.Properties // resolved run properties (fontFamily, fontSize, bold, ...)
	PMStart  int
	PMEnd    int
}

// ListRendering is the computed numbering presentation for a paragraph
// (spec.md §3 FlowBlock.listRendering).
type ListRendering struct {
	MarkerText     string
	Suffix         wordlayout.Suffix
	Justification  wordlayout.Justification
	Path           []int
	NumberingType  string // numFmt of the paragraph's own level
}

// SDT carries structured-document-tag metadata attached to a block (spec.md
// §4.E: "inner under sdt, outer under containerSdt").
type SDT struct {
	ID     string
	Attrs  docmodel.AttrMap
	Locked bool
	Hidden bool
}

// ParagraphBlock is the paragraph FlowBlock variant.
type ParagraphBlock struct {
	ID    string
	Runs  []Run
	Attrs docmodel.AttrMap

	// Properties is the fully resolved paragraph property set (spec.md §4.B),
	// kept alongside WordLayout so downstream measurement/pagination can read
	// spacing, keepNext/keepLines/pageBreakBefore/widowControl without
	// re-resolving the style chain.
	Properties cascade.Properties

	ListRendering *ListRendering
	WordLayout    *wordlayout.WordLayout

	IsTocEntry     bool
	TocInstruction string

	Sdt          *SDT
	ContainerSdt *SDT

	// LeadingCaret marks that a zero-width insertion point widget must be
	// exposed before the first inline child (spec.md §4.E leading-caret
	// policy: paragraph whose first inline child is a fieldAnnotation, either
	// directly or as the content of a single pageReference wrapper).
	LeadingCaret bool
}

// Cell is one table cell (tableCell and tableHeader share this shape per
// spec.md §4.E: "tableHeader is semantically equivalent to tableCell").
type Cell struct {
	Colspan    int
	Rowspan    int
	VMerge     bool
	IsHeader   bool
	ColWidths  []float64
	Properties cascade.Properties
	Content    []Block
}

// TableBlock is the table FlowBlock variant.
type TableBlock struct {
	ID         string
	Grid       []float64
	Rows       [][]Cell
	Properties cascade.Properties
}

// AnchorInfo describes anchored (floating) placement for images/drawings.
type AnchorInfo struct {
	Anchored       bool
	RelativeHeight int // used to derive paint z-index (spec.md §4.G)
	PageRelative   bool
}

// ImageBlock is the image FlowBlock variant.
type ImageBlock struct {
	ID       string
	Src      string
	Geometry Geometry
	Anchor   AnchorInfo
	Attrs    docmodel.AttrMap

	Sdt          *SDT
	ContainerSdt *SDT
}

// DrawingBlock is the drawing FlowBlock variant.
type DrawingBlock struct {
	ID           string
	DrawingKind  docmodel.DrawingKind
	Geometry     Geometry
	EffectExtent Extent
	Anchor       AnchorInfo
	Attrs        docmodel.AttrMap

	Sdt          *SDT
	ContainerSdt *SDT
}

// Block is the FlowBlock tagged union (spec.md §3). Exactly one of the
// pointer fields matching Kind is non-nil.
type Block struct {
	Kind      Kind
	ID        string
	Paragraph *ParagraphBlock
	Table     *TableBlock
	Image     *ImageBlock
	Drawing   *DrawingBlock
}

func paragraphBlock(p *ParagraphBlock) Block {
	return Block{Kind: KindParagraph, ID: p.ID, Paragraph: p}
}

func tableBlock(t *TableBlock) Block {
	return Block{Kind: KindTable, ID: t.ID, Table: t}
}

func imageBlock(i *ImageBlock) Block {
	return Block{Kind: KindImage, ID: i.ID, Image: i}
}

func drawingBlock(d *DrawingBlock) Block {
	return Block{Kind: KindDrawing, ID: d.ID, Drawing: d}
}

func pageBreakBlock(id string) Block {
	return Block{Kind: KindPageBreak, ID: id}
}
