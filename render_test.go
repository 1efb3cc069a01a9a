package superdoc

import (
	"context"
	"testing"

	"superdoc/config"
	"superdoc/internal/docmodel"
	"superdoc/internal/flowcache"
	"superdoc/internal/style"
)

func plainText(s string) *docmodel.Node {
	return &docmodel.Node{Type: docmodel.NodeText, Text: s}
}

func simpleParagraph(id, text string) *docmodel.Node {
	run := &docmodel.Node{Type: docmodel.NodeRun, Content: []*docmodel.Node{plainText(text)}}
	return &docmodel.Node{
		Type:    docmodel.NodeParagraph,
		Attrs:   docmodel.AttrMap{"sdBlockId": docmodel.StringValue(id), "sdBlockRev": docmodel.NumberValue(1)},
		Content: []*docmodel.Node{run},
	}
}

func testStyleContext() *style.Context {
	return style.New(style.DocDefaults{}, map[string]*style.Definition{}, style.NumberingTable{
		Abstract: map[string]*style.AbstractNumbering{},
		Concrete: map[string]*style.ConcreteNumbering{},
	}, nil, nil)
}

func testPage() config.PageConfig {
	return config.PageConfig{WidthPx: 600, HeightPx: 800, Columns: 1}
}

func TestRenderProducesLayoutWithOnePageAndFragment(t *testing.T) {
	doc := &docmodel.Node{Type: docmodel.NodeDocumentSection, Content: []*docmodel.Node{
		simpleParagraph("p1", "hello world"),
	}}

	r := NewRenderer(testStyleContext(), nil, nil, testPage(), nil, nil)
	result, err := r.Render(context.Background(), doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Layout.Pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(result.Layout.Pages))
	}
	if len(result.Layout.Pages[0].Fragments) == 0 {
		t.Fatalf("expected at least one fragment on page 1")
	}
}

func TestRenderSecondPassReusesCacheForUnchangedParagraph(t *testing.T) {
	doc := &docmodel.Node{Type: docmodel.NodeDocumentSection, Content: []*docmodel.Node{
		simpleParagraph("p1", "hello world"),
	}}

	sctx := testStyleContext()
	page := testPage()
	cache := flowcache.NewCache()
	r := NewRenderer(sctx, cache, nil, page, nil, nil)

	if _, err := r.Render(context.Background(), doc); err != nil {
		t.Fatalf("first render: unexpected error: %v", err)
	}
	if _, status := cache.Lookup("p1", doc.Content[0], 0); status != flowcache.Hit {
		t.Fatalf("expected p1 to be cached after the first render, got status %v", status)
	}
	result, err := r.Render(context.Background(), doc)
	if err != nil {
		t.Fatalf("second render: unexpected error: %v", err)
	}
	if len(result.Layout.Pages) != 1 {
		t.Fatalf("expected 1 page on second render, got %d", len(result.Layout.Pages))
	}
	if _, status := cache.Lookup("p1", doc.Content[0], 0); status != flowcache.Hit {
		t.Fatalf("expected p1 reused by the second render to stay cached, got status %v", status)
	}
}

func TestRenderHonorsContextCancellationBeforeWalk(t *testing.T) {
	doc := &docmodel.Node{Type: docmodel.NodeDocumentSection, Content: []*docmodel.Node{
		simpleParagraph("p1", "hello world"),
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRenderer(testStyleContext(), nil, nil, testPage(), nil, nil)
	_, err := r.Render(ctx, doc)
	if err == nil {
		t.Fatalf("expected cancellation error, got nil")
	}
}

func TestRenderEmptyDocumentProducesSingleEmptyPage(t *testing.T) {
	doc := &docmodel.Node{Type: docmodel.NodeDocumentSection}
	r := NewRenderer(testStyleContext(), nil, nil, testPage(), nil, nil)
	result, err := r.Render(context.Background(), doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Layout.Pages) != 1 {
		t.Fatalf("expected the paginator's initial page for an empty document, got %d", len(result.Layout.Pages))
	}
	if len(result.Layout.Pages[0].Fragments) != 0 {
		t.Fatalf("expected no fragments on the empty page, got %d", len(result.Layout.Pages[0].Fragments))
	}
}
