package flowblock

import (
	"testing"

	"superdoc/internal/docmodel"
)

func imageNodeWithGeometry(src string, w, h float64) *docmodel.Node {
	return &docmodel.Node{
		Type: docmodel.NodeImage,
		Attrs: docmodel.AttrMap{
			"src":      docmodel.StringValue(src),
			"geometry": docmodel.MapValue(docmodel.AttrMap{"w": docmodel.NumberValue(w), "h": docmodel.NumberValue(h)}),
		},
	}
}

func TestConvertImageCarriesDeclaredGeometry(t *testing.T) {
	c := testConverter()
	blocks, warnings := c.convertImage(imageNodeWithGeometry("img.png", 100, 200), 5, sdtFrame{})
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(blocks) != 1 || blocks[0].Kind != KindImage {
		t.Fatalf("expected a single image block, got %+v", blocks)
	}
	ib := blocks[0].Image
	if ib.Src != "img.png" {
		t.Fatalf("expected src %q, got %q", "img.png", ib.Src)
	}
	if ib.Geometry.W != 100 || ib.Geometry.H != 200 {
		t.Fatalf("expected geometry 100x200, got %+v", ib.Geometry)
	}
}

func TestConvertImageMissingSrcWarns(t *testing.T) {
	c := testConverter()
	n := &docmodel.Node{Type: docmodel.NodeImage, Attrs: docmodel.AttrMap{
		"geometry": docmodel.MapValue(docmodel.AttrMap{"w": docmodel.NumberValue(10), "h": docmodel.NumberValue(10)}),
	}}
	_, warnings := c.convertImage(n, 0, sdtFrame{})
	if len(warnings) != 1 || warnings[0].Code != "inputMalformed" {
		t.Fatalf("expected one inputMalformed warning, got %v", warnings)
	}
}

func TestConvertImageAnchorInfo(t *testing.T) {
	c := testConverter()
	n := imageNodeWithGeometry("img.png", 10, 10)
	n.Attrs["anchorData"] = docmodel.MapValue(docmodel.AttrMap{
		"relativeHeight": docmodel.NumberValue(251658241),
		"pageRelative":   docmodel.BoolValue(true),
	})
	blocks, _ := c.convertImage(n, 0, sdtFrame{})
	anchor := blocks[0].Image.Anchor
	if !anchor.Anchored || anchor.RelativeHeight != 251658241 || !anchor.PageRelative {
		t.Fatalf("unexpected anchor info: %+v", anchor)
	}
}

func TestConvertImagePMPositionsRecordedInAttrs(t *testing.T) {
	c := testConverter()
	n := imageNodeWithGeometry("img.png", 10, 10)
	blocks, _ := c.convertImage(n, 7, sdtFrame{})
	got, ok := blocks[0].Image.Attrs.Number("pmStart")
	if !ok || got != 7 {
		t.Fatalf("expected pmStart 7, got %v (ok=%v)", got, ok)
	}
}
