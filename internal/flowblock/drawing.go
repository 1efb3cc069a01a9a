package flowblock

import (
	"strings"

	"github.com/srwiley/oksvg"

	"superdoc/internal/docmodel"
	"superdoc/internal/warn"
)

// convertDrawing implements the "drawing" handler of spec.md §4.E.
// effectExtent travels with the block so the paginator can later produce a
// fragment geometry that differs from block geometry (spec.md §8 invariant
// 11) — the painter must read the fragment, never this block, for the
// content-box math. A vectorShape whose geometry was not declared falls
// back to its embedded SVG viewBox.
func (c *Converter) convertDrawing(n *docmodel.Node, pmPos int, sdt sdtFrame) ([]Block, []warn.Warning) {
	var warnings []warn.Warning

	id := synthID(n, "drw")
	kindStr, ok := n.Attrs.String("drawingKind")
	if !ok {
		warnings = append(warnings, warn.New(warn.CodeInputMalformed, id, "drawing missing required attr \"drawingKind\""))
	}

	geom := geometryFromAttrs(n.Attrs)
	if geom == (Geometry{}) && docmodel.DrawingKind(kindStr) == docmodel.DrawingVectorShape {
		if svg, ok := n.Attrs.String("svgData"); ok && svg != "" {
			if icon, err := oksvg.ReadIconStream(strings.NewReader(svg)); err == nil {
				geom = Geometry{W: float64(icon.ViewBox.W), H: float64(icon.ViewBox.H)}
			} else {
				warnings = append(warnings, warn.New(warn.CodeInputMalformed, id, "embedded vector shape SVG could not be parsed: %v", err))
			}
		}
	}

	attrs := n.Attrs.Clone()
	if attrs == nil {
		attrs = docmodel.AttrMap{}
	}
	attrs["pmStart"] = docmodel.NumberValue(float64(pmPos))
	attrs["pmEnd"] = docmodel.NumberValue(float64(pmPos + n.Size()))

	db := &DrawingBlock{
		ID:           id,
		DrawingKind:  docmodel.DrawingKind(kindStr),
		Geometry:     geom,
		EffectExtent: extentFromAttrs(n.Attrs),
		Anchor:       anchorFromAttrs(n.Attrs),
		Attrs:        attrs,

		Sdt:          sdt.inner,
		ContainerSdt: sdt.outer,
	}
	return []Block{drawingBlock(db)}, warnings
}
