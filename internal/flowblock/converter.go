package flowblock

import (
	"github.com/google/uuid"

	"superdoc/internal/cascade"
	"superdoc/internal/docmodel"
	"superdoc/internal/numbering"
	"superdoc/internal/style"
	"superdoc/internal/warn"
	"superdoc/internal/wordlayout"
)

// MarkerMeasurer measures the pixel width of a marker glyph string in the
// given font (spec.md §4.D: "measured width of the marker glyph(s) in its
// run font"). The core pipeline does not shape text itself (spec.md §4.G
// "the measurer is external"); the converter takes this as an injected
// dependency so it stays pure with respect to any particular font backend.
type MarkerMeasurer func(text, fontFamily string, fontSizeHalfPt float64) float64

// Converter walks an EditorDocument and emits a FlowBlock stream
// (spec.md §4.E).
type Converter struct {
	resolver   *style.Resolver
	numbering  *numbering.Manager
	numTable   numbering.Table
	measureMk  MarkerMeasurer
	defaultTab float64 // document-wide default tab interval, in twips
}

// NewConverter returns a Converter bound to resolver and numbering manager.
// numTable must be the same table the manager was constructed with (it is
// used to look up numFmt/lvlText for marker-text formatting). measureMarker
// may be nil, in which case marker widths are reported as 0 (gated off
// downstream per spec.md §8 invariant 10).
func NewConverter(resolver *style.Resolver, nm *numbering.Manager, numTable numbering.Table, measureMarker MarkerMeasurer, defaultTabTwips float64) *Converter {
	if measureMarker == nil {
		measureMarker = func(string, string, float64) float64 { return 0 }
	}
	return &Converter{resolver: resolver, numbering: nm, numTable: numTable, measureMk: measureMarker, defaultTab: defaultTabTwips}
}

// sdtFrame carries inherited structured-content metadata while walking.
type sdtFrame struct {
	inner *SDT
	outer *SDT
}

// tableFrame carries the ambient table-conditional-region context for
// paragraphs resolved while inside a table cell.
type tableFrame struct {
	cell *style.TableCellContext
}

// Convert translates doc's children into a FlowBlock stream in document
// order (spec.md §4.E: "single-pass, depth-first traversal... dispatches by
// node kind"). Malformed nodes are skipped with a warning, never abort the
// render (spec.md §7).
func (c *Converter) Convert(doc *docmodel.Node) ([]Block, []warn.Warning) {
	return c.walkChildren(doc.Content, 0, sdtFrame{}, tableFrame{})
}

// ConvertNode converts a single top-level node at document position pmPos,
// exactly as Convert would convert it in place. Used by the render
// orchestration to re-convert only the nodes the FlowBlockCache reports as
// a miss, instead of re-walking the whole document (spec.md §4.F).
func (c *Converter) ConvertNode(n *docmodel.Node, pmPos int) ([]Block, []warn.Warning) {
	return c.dispatch(n, pmPos, sdtFrame{}, tableFrame{})
}

// walkChildren dispatches a sibling list in document order, threading PM
// position across them. Shared by the top-level walk and by container
// handlers (table cells, SDT wrappers, TOC bodies) that need the same
// traversal over a nested content list.
func (c *Converter) walkChildren(children []*docmodel.Node, pmPos int, sdt sdtFrame, tf tableFrame) ([]Block, []warn.Warning) {
	var blocks []Block
	var warnings []warn.Warning
	cursor := pmPos

	for _, child := range children {
		bs, ws := c.dispatch(child, cursor, sdt, tf)
		blocks = append(blocks, bs...)
		warnings = append(warnings, ws...)
		cursor += child.Size()
	}
	return blocks, warnings
}

func (c *Converter) dispatch(n *docmodel.Node, pmPos int, sdt sdtFrame, tf tableFrame) ([]Block, []warn.Warning) {
	switch n.Type {
	case docmodel.NodeParagraph:
		return c.convertParagraph(n, pmPos, sdt, tf)
	case docmodel.NodeTable:
		return c.convertTable(n, pmPos, sdt)
	case docmodel.NodeImage:
		return c.convertImage(n, pmPos, sdt)
	case docmodel.NodeDrawing:
		return c.convertDrawing(n, pmPos, sdt)
	case docmodel.NodeStructuredContentBlock, docmodel.NodeDocumentSection, docmodel.NodeDocumentPartObject:
		return c.convertStructuredContent(n, pmPos, sdt, tf)
	case docmodel.NodeTableOfContents:
		return c.convertTOC(n, pmPos, sdt, tf)
	case docmodel.NodeLineBreak:
		// A bare top-level line break has no layout identity of its own;
		// it is only meaningful inside a paragraph's inline walk.
		return nil, nil
	default:
		return nil, []warn.Warning{warn.New(warn.CodeInputMalformed, "", "unknown top-level node type %q", n.Type)}
	}
}

func synthID(n *docmodel.Node, prefix string) string {
	if id, ok := n.SdBlockID(); ok && id != "" {
		return id
	}
	if id, ok := n.Attrs.String("paraId"); ok && id != "" {
		return id
	}
	return prefix + "-" + uuid.NewString()
}

func attrsToProperties(a docmodel.AttrMap) cascade.Properties {
	if a == nil {
		return nil
	}
	out := make(cascade.Properties, len(a))
	for k, v := range a {
		out[k] = valueToAny(v)
	}
	return out
}

func valueToAny(v docmodel.Value) any {
	if m, ok := anyMap(v); ok {
		return m
	}
	if l, ok := anyList(v); ok {
		return l
	}
	if s, ok := asString(v); ok {
		return s
	}
	if n, ok := asNumber(v); ok {
		return n
	}
	if b, ok := asBool(v); ok {
		return b
	}
	return nil
}

// The following small helpers exist because docmodel.Value intentionally
// exposes no generic "kind" accessor (callers are meant to know which
// accessor fits their key) — here we genuinely don't know, since we're
// converting an entire passthrough attrs bag.
func anyMap(v docmodel.Value) (cascade.Properties, bool) {
	wrapped := docmodel.AttrMap{"v": v}
	m, ok := wrapped.Map("v")
	if !ok {
		return nil, false
	}
	return attrsToProperties(m), true
}

func anyList(v docmodel.Value) ([]any, bool) {
	wrapped := docmodel.AttrMap{"v": v}
	l, ok := wrapped.List("v")
	if !ok {
		return nil, false
	}
	out := make([]any, len(l))
	for i, e := range l {
		out[i] = valueToAny(e)
	}
	return out, true
}

func asString(v docmodel.Value) (string, bool) {
	wrapped := docmodel.AttrMap{"v": v}
	return wrapped.String("v")
}

func asNumber(v docmodel.Value) (float64, bool) {
	wrapped := docmodel.AttrMap{"v": v}
	return wrapped.Number("v")
}

func asBool(v docmodel.Value) (bool, bool) {
	wrapped := docmodel.AttrMap{"v": v}
	return wrapped.Bool("v")
}

func indentFromProperties(p cascade.Properties) wordlayout.Indent {
	raw, ok := p["indent"]
	if !ok {
		return wordlayout.Indent{}
	}
	props, ok := raw.(cascade.Properties)
	if !ok {
		return wordlayout.Indent{}
	}
	get := func(key string) float64 {
		if v, ok := props[key]; ok {
			if f, ok := v.(float64); ok {
				return f
			}
		}
		return 0
	}
	return wordlayout.Indent{
		LeftTwips:      get("left"),
		FirstLineTwips: get("firstLine"),
		HangingTwips:   get("hanging"),
	}
}

func tabsFromProperties(p cascade.Properties) []wordlayout.TabStop {
	raw, ok := p["tabs"]
	if !ok {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]wordlayout.TabStop, 0, len(list))
	for _, item := range list {
		if f, ok := item.(float64); ok {
			out = append(out, wordlayout.TabStop{PosTwips: f})
		}
	}
	return out
}

