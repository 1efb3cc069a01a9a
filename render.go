// Package superdoc wires the cascade/style/numbering/flowblock/flowcache/
// measure/paginate/paint components (A-J) into the single entrypoint spec.md
// §2 describes as the render pipeline:
// EditorDocument -> FlowBlockConverter -> [FlowBlock] -> Measurer ->
// [Measure] -> Paginator -> Layout -> Painter.
//
// Grounded on convert/kfx/generate.go's top-level orchestration function,
// which wires a style registry, block builder and storyline builder in
// sequence behind a single ctx.Err()-checked entrypoint with start/elapsed
// zap logging; this package keeps that shape but returns a RenderResult
// instead of writing a container to disk (spec.md §7: "the core never
// throws across the render boundary").
package superdoc

import (
	"context"
	"time"

	"go.uber.org/zap"

	"superdoc/config"
	"superdoc/internal/docmodel"
	"superdoc/internal/flowblock"
	"superdoc/internal/flowcache"
	"superdoc/internal/measure"
	"superdoc/internal/numbering"
	"superdoc/internal/paginate"
	"superdoc/internal/paint"
	"superdoc/internal/style"
	"superdoc/internal/warn"
)

// RenderResult is the outcome of a single Render call (spec.md §7: warnings
// are returned as values, never thrown).
type RenderResult struct {
	Layout   paginate.Layout
	Warnings []warn.Warning
}

// Renderer wires the immutable, freely-shared parts of the pipeline
// (StyleContext) together with the per-render parts (NumberingManager,
// FlowBlockCache) per spec.md §5's shared-resource rules: StyleContext is
// immutable after import and freely shared; NumberingManager is per-render;
// FlowBlockCache is single-owner and must be serialized by the caller.
type Renderer struct {
	styleCtx *style.Context
	cache    *flowcache.Cache
	measurer measure.Measurer
	page     config.PageConfig
	painter  paint.Painter
	log      *zap.Logger
}

// NewRenderer builds a Renderer. cache and measurer may be nil, in which
// case a fresh in-memory Cache and a DefaultMeasurer with no glyph widther
// are substituted. painter may be nil (Render does not require a painter;
// callers needing paint output call Paint themselves against the result).
func NewRenderer(styleCtx *style.Context, cache *flowcache.Cache, measurer measure.Measurer, page config.PageConfig, painter paint.Painter, log *zap.Logger) *Renderer {
	if cache == nil {
		cache = flowcache.NewCache()
	}
	if measurer == nil {
		measurer = measure.NewDefaultMeasurer(nil)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{styleCtx: styleCtx, cache: cache, measurer: measurer, page: page, painter: painter, log: log}
}

// Render converts doc, measures its blocks, and paginates them into a
// Layout. A cancelled context aborts before cache.Commit (spec.md §5: "a
// cancelled render must not call commit()"); entries already Put into the
// cache's next generation are discarded by the following Begin.
func (r *Renderer) Render(ctx context.Context, doc *docmodel.Node) (RenderResult, error) {
	if err := ctx.Err(); err != nil {
		return RenderResult{}, err
	}

	start := time.Now()
	r.log.Debug("render starting", zap.Int("topLevelNodes", len(doc.Content)))

	resolver := style.NewResolver(r.styleCtx)
	nm := numbering.NewManager(style.NumberingTableFor(r.styleCtx))
	nm.Begin()
	converter := flowblock.NewConverter(resolver, nm, style.NumberingTableFor(r.styleCtx), glyphWidtherAdapter(r.measurer), 720)

	r.cache.Begin()

	var blocks []flowblock.Block
	var warnings []warn.Warning

	cursor := 0
	for _, n := range doc.Content {
		if err := ctx.Err(); err != nil {
			return RenderResult{}, err
		}

		bs, ws := r.convertWithCache(converter, n, cursor)
		blocks = append(blocks, bs...)
		warnings = append(warnings, ws...)
		cursor += n.Size()
	}

	if err := ctx.Err(); err != nil {
		return RenderResult{}, err
	}
	r.cache.Commit()

	if err := r.measurer.WaitForFontsReady(ctx); err != nil {
		warnings = append(warnings, warn.New(warn.CodeMeasurerFailure, "", "waitForFontsReady: %v", err))
	}

	measures := make([]measure.Measure, 0, len(blocks))
	for _, b := range blocks {
		m, err := r.measurer.Measure(ctx, b, r.page.ContentWidthPx())
		if err != nil {
			warnings = append(warnings, warn.New(warn.CodeMeasurerFailure, b.ID, "%v", err))
			continue
		}
		measures = append(measures, m)
	}

	layout, pagWarnings := paginate.Paginate(blocks, measures, r.page)
	warnings = append(warnings, pagWarnings...)

	r.log.Debug("render completed", zap.Duration("elapsed", time.Since(start)), zap.Int("warnings", len(warnings)))
	return RenderResult{Layout: layout, Warnings: warnings}, nil
}

// convertWithCache consults the FlowBlockCache for a top-level node with a
// stable id before falling back to a fresh conversion (spec.md §4.F). Nodes
// without a stable sdBlockId (tables, images not carrying one, etc.) always
// convert fresh; they are not cacheable entries.
func (r *Renderer) convertWithCache(converter *flowblock.Converter, n *docmodel.Node, pmStart int) ([]flowblock.Block, []warn.Warning) {
	id, ok := n.SdBlockID()
	if !ok {
		return converter.ConvertNode(n, pmStart)
	}

	if hit, status := r.cache.Lookup(id, n, pmStart); status == flowcache.Hit {
		r.cache.Put(id, n, hit, pmStart)
		return hit, nil
	} else if status == flowcache.Inconsistent {
		blocks, warnings := converter.ConvertNode(n, pmStart)
		warnings = append(warnings, warn.New(warn.CodeCacheInconsistent, id, "cached shift produced a negative position; recomputed from scratch"))
		r.cache.Put(id, n, blocks, pmStart)
		return blocks, warnings
	}

	blocks, warnings := converter.ConvertNode(n, pmStart)
	r.cache.Put(id, n, blocks, pmStart)
	return blocks, warnings
}

// glyphWidtherAdapter exposes a Measurer's glyph-width capability to the
// flowblock converter's MarkerMeasurer seam, keeping the two packages from
// depending on each other directly.
func glyphWidtherAdapter(m measure.Measurer) flowblock.MarkerMeasurer {
	dm, ok := m.(*measure.DefaultMeasurer)
	if !ok {
		return nil
	}
	return flowblock.MarkerMeasurer(dm.MeasureMarkerWidth)
}
