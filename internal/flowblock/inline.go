package flowblock

import (
	"reflect"

	"superdoc/internal/cascade"
	"superdoc/internal/docmodel"
	"superdoc/internal/warn"
)

// flattenInline implements the inline half of spec.md §4.E's paragraph
// handler: it merges adjacent runs with identical mark sets, emits
// pre-paragraph atomic blocks (page breaks, drawings) produced along the
// way, and detects the leading-caret condition.
func (c *Converter) flattenInline(n *docmodel.Node, pmPos int, sdt sdtFrame, tf tableFrame, paragraphStyleID string) (runs []Run, pre []Block, leadingCaret bool, warnings []warn.Warning) {
	cursor := pmPos + 1 // past the paragraph's own open token

	for i, child := range n.Content {
		switch child.Type {
		case docmodel.NodeRun:
			r, w := c.convertRun(child, cursor, paragraphStyleID, tf)
			warnings = append(warnings, w...)
			runs = appendMergingRun(runs, r)

		case docmodel.NodeText:
			r := Run{Text: child.Text, PMStart: cursor, PMEnd: cursor + child.Size()}
			resolved := c.resolver.ResolveRunProperties(paragraphStyleID, "", tf.cell, nil)
			r.Resolved = resolved
			runs = appendMergingRun(runs, r)

		case docmodel.NodeLineBreak:
			if breakType, _ := child.Attrs.String("breakType"); breakType == "page" {
				pre = append(pre, pageBreakBlock(synthID(child, "brk")))
			} else {
				runs = append(runs, Run{Text: "\n", PMStart: cursor, PMEnd: cursor + child.Size()})
			}

		case docmodel.NodeFieldAnnotation:
			r, w := c.convertFieldAnnotation(child, cursor)
			warnings = append(warnings, w...)
			if i == 0 {
				leadingCaret = true
			}
			runs = append(runs, r)

		case docmodel.NodePageReference:
			innerRuns, innerPre, innerCaret, w := c.flattenInlineChildren(child, cursor, tf, paragraphStyleID)
			warnings = append(warnings, w...)
			if i == 0 && innerCaret && isSingleInlineWrapper(child) {
				leadingCaret = true
			}
			for _, ir := range innerRuns {
				runs = appendMergingRun(runs, ir)
			}
			pre = append(pre, innerPre...)

		case docmodel.NodeImage:
			bs, w := c.convertImage(child, cursor, sdt)
			pre = append(pre, bs...)
			warnings = append(warnings, w...)

		case docmodel.NodeDrawing:
			bs, w := c.convertDrawing(child, cursor, sdt)
			pre = append(pre, bs...)
			warnings = append(warnings, w...)

		default:
			warnings = append(warnings, warn.New(warn.CodeInputMalformed, "", "unsupported inline node type %q", child.Type))
		}

		cursor += child.Size()
	}

	return runs, pre, leadingCaret, warnings
}

// flattenInlineChildren recurses flattenInline's loop body for a wrapper
// node (pageReference) whose own Content should be treated as if it were
// directly inline in the paragraph.
func (c *Converter) flattenInlineChildren(n *docmodel.Node, pmPos int, tf tableFrame, paragraphStyleID string) (runs []Run, pre []Block, leadingCaret bool, warnings []warn.Warning) {
	wrapper := &docmodel.Node{Type: docmodel.NodeParagraph, Content: n.Content}
	return c.flattenInline(wrapper, pmPos-1, sdtFrame{}, tf, paragraphStyleID)
}

func isSingleInlineWrapper(n *docmodel.Node) bool {
	return n.Type == docmodel.NodePageReference && len(n.Content) <= 1
}

func (c *Converter) convertRun(n *docmodel.Node, pmPos int, paragraphStyleID string, tf tableFrame) (Run, []warn.Warning) {
	var warnings []warn.Warning

	runStyleID, _ := n.Attrs.String("styleId")
	direct, _ := n.Attrs.Map("runProperties")

	linked := ""
	if def, ok := c.resolver.StyleDefinition(runStyleID); ok && def.Linked != "" {
		linked = def.Linked
	}

	resolved := c.resolver.ResolveRunProperties(runStyleID, linked, tf.cell, attrsToProperties(direct))

	text := n.Text
	if text == "" {
		for _, gc := range n.Content {
			if gc.Type == docmodel.NodeText {
				text += gc.Text
			}
		}
	}

	return Run{
		Text:     text,
		Marks:    n.Marks,
		Resolved: resolved,
		PMStart:  pmPos,
		PMEnd:    pmPos + n.Size(),
	}, warnings
}

func (c *Converter) convertFieldAnnotation(n *docmodel.Node, pmPos int) (Run, []warn.Warning) {
	var warnings []warn.Warning

	fieldType, ok := n.Attrs.String("type")
	if !ok {
		warnings = append(warnings, warn.New(warn.CodeInputMalformed, "", "fieldAnnotation missing required attr \"type\""))
	}
	fieldID, _ := n.Attrs.String("fieldId")
	if fieldID == "" {
		warnings = append(warnings, warn.New(warn.CodeInputMalformed, "", "fieldAnnotation missing required attr \"fieldId\""))
	}

	display, _ := n.Attrs.String("displayLabel")
	text := display
	if fieldType == string(docmodel.FieldText) && text == "" {
		text = "​" // zero-width placeholder; real shaping/measuring happens downstream
	}

	// highlighted defaults to true when absent; a boolean false, or a string
	// that strconv.ParseBool reads as false ("false", "0", "f", ...), gives
	// false (spec.md §9 Open Question, canonicalized here).
	highlighted := n.Attrs.BoolOr("highlighted", true)

	props := attrsToProperties(n.Attrs)
	if props == nil {
		props = cascade.Properties{}
	}
	props["fieldAnnotation"] = cascade.Properties{
		"type":        fieldType,
		"fieldId":     fieldID,
		"highlighted": highlighted,
	}

	return Run{
		Text:     text,
		Resolved: props,
		PMStart:  pmPos,
		PMEnd:    pmPos + n.Size(),
	}, warnings
}

// appendMergingRun merges r into the last run of runs when both carry an
// identical resolved-property set and mark list (spec.md §4.E: "merging
// adjacent runs with identical mark sets").
func appendMergingRun(runs []Run, r Run) []Run {
	if len(runs) == 0 {
		return append(runs, r)
	}
	last := &runs[len(runs)-1]
	if sameFormatting(*last, r) {
		last.Text += r.Text
		last.PMEnd = r.PMEnd
		return runs
	}
	return append(runs, r)
}

func sameFormatting(a, b Run) bool {
	return reflect.DeepEqual(a.Resolved, b.Resolved) && reflect.DeepEqual(a.Marks, b.Marks)
}
