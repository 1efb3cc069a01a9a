// Package docmodel defines the editor-document tree the core pipeline reads.
//
// Node types are a closed, enumerated set (never an open interface
// hierarchy) per the "deep inheritance" redesign note: a flat dispatch table
// keyed by NodeType replaces the extension-fluent Node.create() pattern a
// ProseMirror-style host would otherwise expose.
package docmodel

// NodeType enumerates the fixed set of editor-document node kinds.
// ENUM(paragraph, run, text, table, tableRow, tableCell, tableHeader, image, drawing, fieldAnnotation, structuredContentBlock, documentSection, documentPartObject, tableOfContents, lineBreak, pageReference)
type NodeType string

const (
	NodeParagraph              NodeType = "paragraph"
	NodeRun                    NodeType = "run"
	NodeText                   NodeType = "text"
	NodeTable                  NodeType = "table"
	NodeTableRow               NodeType = "tableRow"
	NodeTableCell              NodeType = "tableCell"
	NodeTableHeader            NodeType = "tableHeader"
	NodeImage                  NodeType = "image"
	NodeDrawing                NodeType = "drawing"
	NodeFieldAnnotation        NodeType = "fieldAnnotation"
	NodeStructuredContentBlock NodeType = "structuredContentBlock"
	NodeDocumentSection        NodeType = "documentSection"
	NodeDocumentPartObject     NodeType = "documentPartObject"
	NodeTableOfContents        NodeType = "tableOfContents"
	NodeLineBreak              NodeType = "lineBreak"
	NodePageReference          NodeType = "pageReference"
)

// DrawingKind enumerates the drawing block variants (spec.md §3 FlowBlock).
// ENUM(picture, vectorShape, textbox, group)
type DrawingKind string

const (
	DrawingPicture     DrawingKind = "picture"
	DrawingVectorShape DrawingKind = "vectorShape"
	DrawingTextbox     DrawingKind = "textbox"
	DrawingGroup       DrawingKind = "group"
)

// FieldAnnotationType enumerates the six field-annotation variants (spec.md §4.E).
// ENUM(text, image, signature, checkbox, html, link)
type FieldAnnotationType string

const (
	FieldText      FieldAnnotationType = "text"
	FieldImage     FieldAnnotationType = "image"
	FieldSignature FieldAnnotationType = "signature"
	FieldCheckbox  FieldAnnotationType = "checkbox"
	FieldHTML      FieldAnnotationType = "html"
	FieldLink      FieldAnnotationType = "link"
)

// Mark is an inline formatting mark attached to a run or text node
// (e.g. bold, italic, underline, a style reference).
type Mark struct {
	Type  string
	Attrs AttrMap
}

// Node is a single node in the editor-document tree. It carries a fixed set
// of fields rather than a polymorphic interface: callers dispatch on Type.
type Node struct {
	Type    NodeType
	Attrs   AttrMap
	Content []*Node
	Text    string
	Marks   []Mark

	// pmStart/pmEnd are not assigned by any code in this module; the
	// converter tracks positions with its own cursor (see Size) and they
	// stay zero unless the caller sets them.
	PMStart int
	PMEnd   int
}

// Size returns this node's ProseMirror-style size contribution (own open/
// close tokens plus descendants), used while walking to track pmStart/pmEnd.
func (n *Node) Size() int {
	if n == nil {
		return 0
	}
	if n.Type == NodeText {
		return len([]rune(n.Text))
	}
	size := 2 // open + close token for container nodes
	for _, c := range n.Content {
		size += c.Size()
	}
	return size
}

// SdBlockID returns the paragraph's stable id, if any.
func (n *Node) SdBlockID() (string, bool) {
	v, ok := n.Attrs.String("sdBlockId")
	return v, ok
}

// SdBlockRev returns the paragraph's monotonic revision counter, if any.
func (n *Node) SdBlockRev() (int64, bool) {
	v, ok := n.Attrs.Number("sdBlockRev")
	if !ok {
		return 0, false
	}
	return int64(v), true
}
