package flowblock

import (
	"superdoc/internal/docmodel"
	"superdoc/internal/numbering"
	"superdoc/internal/warn"
	"superdoc/internal/wordlayout"
)

func numberingMarkerText(lvlText string, numFmts []string, path []int) string {
	return numbering.MarkerText(lvlText, numFmts, path)
}

// convertParagraph implements spec.md §4.E's paragraph handler contract:
// resolve properties, compute numbering, compute wordLayout, flatten
// inline content into runs, and emit the paragraph block plus any
// pre-paragraph atomic blocks the inline walk produced.
func (c *Converter) convertParagraph(n *docmodel.Node, pmPos int, sdt sdtFrame, tf tableFrame) ([]Block, []warn.Warning) {
	var warnings []warn.Warning

	id := synthID(n, "para")

	styleID, _ := n.Attrs.String("paragraphStyleId")
	direct, _ := n.Attrs.Map("paragraphProperties")
	resolved := c.resolver.ResolveParagraphProperties(styleID, tf.cell, attrsToProperties(direct))

	runs, pre, leadingCaret, w := c.flattenInline(n, pmPos, sdt, tf, styleID)
	warnings = append(warnings, w...)

	pb := &ParagraphBlock{
		ID:           id,
		Runs:         runs,
		Attrs:        n.Attrs,
		Properties:   resolved,
		Sdt:          sdt.inner,
		ContainerSdt: sdt.outer,
		LeadingCaret: leadingCaret,
	}

	if numAttrs, ok := n.Attrs.Map("numbering"); ok {
		numID, _ := numAttrs.String("numId")
		ilvl, _ := numAttrs.Number("ilvl")
		lr, lw := c.computeListRendering(id, numID, int(ilvl))
		warnings = append(warnings, lw...)
		if lr != nil {
			if s, ok := numAttrs.String("suffix"); ok {
				lr.Suffix = wordlayout.Suffix(s)
			} else {
				lr.Suffix = wordlayout.SuffixTab
			}
			if j, ok := numAttrs.String("justification"); ok {
				lr.Justification = wordlayout.Justification(j)
			} else {
				lr.Justification = wordlayout.JustifyLeft
			}
		}
		pb.ListRendering = lr
	}

	firstRunFont, firstRunSize := "", 0.0
	if len(runs) > 0 {
		if v, ok := runs[0].Resolved["fontFamily"]; ok {
			if s, ok := v.(string); ok {
				firstRunFont = s
			}
		}
		if v, ok := runs[0].Resolved["fontSize"]; ok {
			if f, ok := v.(float64); ok {
				firstRunSize = f
			}
		}
	}

	input := wordlayout.Input{
		Indent:                  indentFromProperties(resolved),
		Tabs:                    tabsFromProperties(resolved),
		DefaultTabIntervalTwips: c.defaultTab,
	}
	if pb.ListRendering != nil {
		input.IsListParagraph = true
		input.MarkerText = pb.ListRendering.MarkerText
		input.MarkerTextWidthPx = c.measureMk(pb.ListRendering.MarkerText, firstRunFont, firstRunSize)
		input.Suffix = pb.ListRendering.Suffix
		input.Justification = pb.ListRendering.Justification
	}
	wl := wordlayout.Compute(input)
	pb.WordLayout = &wl

	if toc, ok := n.Attrs.Bool("isTocEntry"); ok && toc {
		pb.IsTocEntry = true
		pb.TocInstruction, _ = n.Attrs.String("tocInstruction")
	}

	blocks := append(pre, paragraphBlock(pb))
	return blocks, warnings
}

// computeListRendering advances the numbering manager and formats the
// marker text for a paragraph at (numID, ilvl). A numbering gap (spec.md
// §7) is reported as a warning and the block's listRendering is left nil.
func (c *Converter) computeListRendering(blockID, numID string, ilvl int) (*ListRendering, []warn.Warning) {
	path, ok := c.numbering.Next(numID, ilvl)
	if !ok {
		return nil, []warn.Warning{warn.New(warn.CodeNumberingGap, blockID, "no numbering definition for numId=%q ilvl=%d", numID, ilvl)}
	}

	lvlText := ""
	numFmts := make([]string, len(path))
	for i := range path {
		if def, ok := c.numTable.Level(numID, i); ok {
			numFmts[i] = def.NumFmt
			if i == ilvl {
				lvlText = def.LvlText
			}
		}
	}

	return &ListRendering{
		MarkerText:    numberingMarkerText(lvlText, numFmts, path),
		Path:          path,
		NumberingType: numFmts[ilvl],
	}, nil
}
