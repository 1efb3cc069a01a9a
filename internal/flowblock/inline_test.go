package flowblock

import (
	"testing"

	"superdoc/internal/cascade"
	"superdoc/internal/docmodel"
)

func TestFlattenInlineMergesAdjacentRunsWithSameMarks(t *testing.T) {
	c := testConverter()
	run1 := &docmodel.Node{Type: docmodel.NodeRun, Content: []*docmodel.Node{{Type: docmodel.NodeText, Text: "hello "}}}
	run2 := &docmodel.Node{Type: docmodel.NodeRun, Content: []*docmodel.Node{{Type: docmodel.NodeText, Text: "world"}}}
	para := &docmodel.Node{Type: docmodel.NodeParagraph, Content: []*docmodel.Node{run1, run2}}

	runs, _, _, warnings := c.flattenInline(para, 0, sdtFrame{}, tableFrame{}, "")
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(runs) != 1 {
		t.Fatalf("expected identically-formatted runs to merge into one, got %d: %+v", len(runs), runs)
	}
	if runs[0].Text != "hello world" {
		t.Fatalf("expected merged text %q, got %q", "hello world", runs[0].Text)
	}
}

func TestFlattenInlinePageBreakIsPreBlock(t *testing.T) {
	c := testConverter()
	brk := &docmodel.Node{Type: docmodel.NodeLineBreak, Attrs: docmodel.AttrMap{"breakType": docmodel.StringValue("page")}}
	para := &docmodel.Node{Type: docmodel.NodeParagraph, Content: []*docmodel.Node{brk}}

	runs, pre, _, warnings := c.flattenInline(para, 0, sdtFrame{}, tableFrame{}, "")
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(runs) != 0 {
		t.Fatalf("expected no inline runs from a page break, got %+v", runs)
	}
	if len(pre) != 1 || pre[0].Kind != KindPageBreak {
		t.Fatalf("expected one pre-paragraph pageBreak block, got %+v", pre)
	}
}

func TestFlattenInlineSoftLineBreakStaysInline(t *testing.T) {
	c := testConverter()
	brk := &docmodel.Node{Type: docmodel.NodeLineBreak}
	para := &docmodel.Node{Type: docmodel.NodeParagraph, Content: []*docmodel.Node{brk}}

	runs, pre, _, _ := c.flattenInline(para, 0, sdtFrame{}, tableFrame{}, "")
	if len(pre) != 0 {
		t.Fatalf("expected no pre-blocks from a soft line break, got %+v", pre)
	}
	if len(runs) != 1 || runs[0].Text != "\n" {
		t.Fatalf("expected a single newline run, got %+v", runs)
	}
}

func TestConvertFieldAnnotationMissingAttrsWarn(t *testing.T) {
	c := testConverter()
	n := &docmodel.Node{Type: docmodel.NodeFieldAnnotation}
	_, warnings := c.convertFieldAnnotation(n, 0)
	if len(warnings) != 2 {
		t.Fatalf("expected warnings for both missing type and fieldId, got %v", warnings)
	}
}

func TestConvertFieldAnnotationTextPlaceholder(t *testing.T) {
	c := testConverter()
	n := &docmodel.Node{Type: docmodel.NodeFieldAnnotation, Attrs: docmodel.AttrMap{
		"type":    docmodel.StringValue(string(docmodel.FieldText)),
		"fieldId": docmodel.StringValue("f1"),
	}}
	run, warnings := c.convertFieldAnnotation(n, 0)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if run.Text == "" {
		t.Fatalf("expected a non-empty placeholder for a display-less text field")
	}
}

func TestConvertFieldAnnotationHighlightedDefaultsTrue(t *testing.T) {
	c := testConverter()
	n := &docmodel.Node{Type: docmodel.NodeFieldAnnotation, Attrs: docmodel.AttrMap{
		"type":    docmodel.StringValue(string(docmodel.FieldCheckbox)),
		"fieldId": docmodel.StringValue("f1"),
	}}
	run, _ := c.convertFieldAnnotation(n, 0)
	fa, ok := run.Resolved["fieldAnnotation"].(cascade.Properties)
	if !ok {
		t.Fatalf("expected fieldAnnotation properties to be present, got %+v", run.Resolved)
	}
	if highlighted, _ := fa["highlighted"].(bool); !highlighted {
		t.Fatalf("expected highlighted to default true, got %+v", fa)
	}
}
