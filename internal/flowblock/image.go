package flowblock

import (
	"bytes"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"

	"superdoc/internal/docmodel"
	"superdoc/internal/warn"
)

// convertImage implements the "image" handler of spec.md §4.E: emit an
// atomic block carrying geometry and anchor placement. When the document
// supplies embedded raw bytes but no declared geometry, natural size is
// recovered by decoding the image rather than left at zero.
func (c *Converter) convertImage(n *docmodel.Node, pmPos int, sdt sdtFrame) ([]Block, []warn.Warning) {
	var warnings []warn.Warning

	id := synthID(n, "img")
	src, ok := n.Attrs.String("src")
	if !ok {
		warnings = append(warnings, warn.New(warn.CodeInputMalformed, id, "image missing required attr \"src\""))
	}

	geom := geometryFromAttrs(n.Attrs)
	if geom == (Geometry{}) {
		if raw, ok := n.Attrs.Bytes("data"); ok {
			if kind, err := filetype.Match(raw); err != nil || kind == filetype.Unknown {
				warnings = append(warnings, warn.New(warn.CodeInputMalformed, id, "embedded image data has unrecognized format"))
			} else if img, err := imaging.Decode(bytes.NewReader(raw)); err == nil {
				b := img.Bounds()
				geom = Geometry{W: float64(b.Dx()), H: float64(b.Dy())}
			}
		}
	}

	attrs := n.Attrs.Clone()
	if attrs == nil {
		attrs = docmodel.AttrMap{}
	}
	attrs["pmStart"] = docmodel.NumberValue(float64(pmPos))
	attrs["pmEnd"] = docmodel.NumberValue(float64(pmPos + n.Size()))

	ib := &ImageBlock{
		ID:       id,
		Src:      src,
		Geometry: geom,
		Anchor:   anchorFromAttrs(n.Attrs),
		Attrs:    attrs,

		Sdt:          sdt.inner,
		ContainerSdt: sdt.outer,
	}
	return []Block{imageBlock(ib)}, warnings
}

func geometryFromAttrs(a docmodel.AttrMap) Geometry {
	g, ok := a.Map("geometry")
	if !ok {
		return Geometry{}
	}
	w, _ := g.Number("w")
	h, _ := g.Number("h")
	return Geometry{W: w, H: h}
}

func anchorFromAttrs(a docmodel.AttrMap) AnchorInfo {
	ad, ok := a.Map("anchorData")
	if !ok {
		return AnchorInfo{}
	}
	relHeight, _ := ad.Number("relativeHeight")
	pageRel, _ := ad.Bool("pageRelative")
	return AnchorInfo{
		Anchored:       true,
		RelativeHeight: int(relHeight),
		PageRelative:   pageRel,
	}
}

func extentFromAttrs(a docmodel.AttrMap) Extent {
	e, ok := a.Map("effectExtent")
	if !ok {
		return Extent{}
	}
	top, _ := e.Number("top")
	right, _ := e.Number("right")
	bottom, _ := e.Number("bottom")
	left, _ := e.Number("left")
	return Extent{Top: top, Right: right, Bottom: bottom, Left: left}
}
