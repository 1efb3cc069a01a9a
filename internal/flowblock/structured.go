package flowblock

import (
	"github.com/gosimple/slug"

	"superdoc/internal/docmodel"
	"superdoc/internal/warn"
)

// convertStructuredContent implements the "structuredContentBlock /
// documentSection / documentPartObject" handler of spec.md §4.E: these are
// pass-through containers that attach sdt metadata to their contained
// blocks, recording both inner and outer metadata when nested.
func (c *Converter) convertStructuredContent(n *docmodel.Node, pmPos int, sdt sdtFrame, tf tableFrame) ([]Block, []warn.Warning) {
	this := &SDT{
		ID:     firstNonEmpty(attrString(n, "sdtId"), attrString(n, "id")),
		Attrs:  n.Attrs.Clone(),
		Locked: n.Attrs.BoolOr("isLocked", false),
		Hidden: n.Attrs.BoolOr("hidden", false),
	}

	nested := sdtFrame{inner: this, outer: sdt.inner}
	return c.walkChildren(n.Content, pmPos+1, nested, tf)
}

// convertTOC implements the "tableOfContents" handler of spec.md §4.E:
// unwrap into child paragraphs, marking each as a TOC entry and propagating
// the TOC instruction unless a nested TOC body overrides it.
func (c *Converter) convertTOC(n *docmodel.Node, pmPos int, sdt sdtFrame, tf tableFrame) ([]Block, []warn.Warning) {
	instruction, _ := n.Attrs.String("tocInstruction")

	blocks, warnings := c.walkChildren(n.Content, pmPos+1, sdt, tf)
	anchorSlug := slug.Make(instruction)
	for i := range blocks {
		if blocks[i].Kind != KindParagraph || blocks[i].Paragraph == nil {
			continue
		}
		blocks[i].Paragraph.IsTocEntry = true
		if blocks[i].Paragraph.TocInstruction == "" {
			blocks[i].Paragraph.TocInstruction = instruction
		}
		if blocks[i].Paragraph.Attrs != nil {
			if _, has := blocks[i].Paragraph.Attrs["tocAnchorSlug"]; !has {
				blocks[i].Paragraph.Attrs["tocAnchorSlug"] = docmodel.StringValue(anchorSlug)
			}
		}
	}
	return blocks, warnings
}

func attrString(n *docmodel.Node, key string) string {
	v, _ := n.Attrs.String(key)
	return v
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v != "" {
			return v
		}
	}
	return ""
}
