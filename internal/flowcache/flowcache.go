// Package flowcache implements the per-paragraph FlowBlock cache (spec.md
// §4.F): content-addressed reuse of previously converted blocks across
// renders, with PM-position shifting on hit.
//
// Grounded on convert/kfx/content_accumulator.go's accumulate-then-finish
// idiom (generalized here from byte-size chunking to a keyed cache) and
// convert/kfx/resource_usage.go's scan-and-filter-by-reference pattern
// (generalized from "used resource names" to "paragraphs referenced by this
// render", which is what drives the two-generation protocol below).
package flowcache

import (
	"encoding/json"

	"superdoc/internal/docmodel"
	"superdoc/internal/flowblock"
)

// entry is one cached paragraph conversion.
type entry struct {
	hasRev  bool
	nodeRev int64
	nodeRaw []byte // serialized node, only computed when hasRev is false
	node    *docmodel.Node
	blocks  []flowblock.Block
	pmStart int
}

// Cache is the externally-owned, single-owner FlowBlock cache (spec.md §5:
// "not thread-safe; callers must serialize renders").
type Cache struct {
	previous map[string]entry
	next     map[string]entry
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{previous: map[string]entry{}, next: map[string]entry{}}
}

// Begin starts a new render generation: next is emptied while previous (the
// prior render's generation) remains available for lookups.
func (c *Cache) Begin() {
	c.next = map[string]entry{}
}

// Commit replaces previous with next, dropping any paragraph id not
// referenced during this render (spec.md §4.F: "paragraphs not referenced in
// the render are dropped"). Callers must not call Commit for a cancelled
// render (spec.md §5).
func (c *Cache) Commit() {
	c.previous = c.next
	c.next = map[string]entry{}
}

// Status reports the outcome of a Lookup.
// ENUM(miss, hit, inconsistent)
type Status int

const (
	Miss Status = iota
	Hit
	Inconsistent
)

// Lookup looks for id in the previous generation and returns its blocks
// shifted to newPMStart if node is unchanged from the cached one (spec.md
// §4.F steps 1-3). Miss means no usable cache entry was found (not present,
// or content changed); Inconsistent means the content matched but shifting
// would produce negative positions (spec.md §7 "cache inconsistency") — the
// caller should discard the entry and re-convert in both cases.
func (c *Cache) Lookup(id string, node *docmodel.Node, newPMStart int) (blocks []flowblock.Block, status Status) {
	cached, found := c.previous[id]
	if !found {
		return nil, Miss
	}

	if !c.sameContent(cached, node) {
		return nil, Miss
	}

	delta := newPMStart - cached.pmStart
	if minPMStart(cached.blocks)+delta < 0 {
		return nil, Inconsistent
	}
	return shiftBlocks(cached.blocks, delta), Hit
}

func minPMStart(blocks []flowblock.Block) int {
	min := 0
	seen := false
	for _, b := range blocks {
		if b.Kind != flowblock.KindParagraph || b.Paragraph == nil {
			continue
		}
		for _, r := range b.Paragraph.Runs {
			if !seen || r.PMStart < min {
				min = r.PMStart
				seen = true
			}
		}
	}
	return min
}

// Put inserts a freshly converted paragraph's blocks into the next
// generation, to be read back by a later render's Lookup.
func (c *Cache) Put(id string, node *docmodel.Node, blocks []flowblock.Block, pmStart int) {
	e := entry{node: node, blocks: blocks, pmStart: pmStart}
	if rev, ok := node.SdBlockRev(); ok {
		e.hasRev = true
		e.nodeRev = rev
	}
	c.next[id] = e
}

// sameContent implements the two-step comparison of spec.md §4.F: compare
// nodeRev integers when both sides carry one, falling back to serialized
// JSON comparison otherwise.
func (c *Cache) sameContent(cached entry, current *docmodel.Node) bool {
	if cached.hasRev {
		if rev, ok := current.SdBlockRev(); ok {
			return rev == cached.nodeRev
		}
	}

	if cached.nodeRaw == nil {
		raw, err := json.Marshal(cached.node)
		if err != nil {
			return false
		}
		cached.nodeRaw = raw
	}
	currentRaw, err := json.Marshal(current)
	if err != nil {
		return false
	}
	return string(cached.nodeRaw) == string(currentRaw)
}

// shiftBlocks returns shallow copies of blocks with PM positions shifted by
// delta (spec.md §4.F: "never mutate cached blocks... always return shallow
// copies, even with Δ=0").
func shiftBlocks(blocks []flowblock.Block, delta int) []flowblock.Block {
	out := make([]flowblock.Block, len(blocks))
	for i, b := range blocks {
		out[i] = shiftBlock(b, delta)
	}
	return out
}

func shiftBlock(b flowblock.Block, delta int) flowblock.Block {
	switch b.Kind {
	case flowblock.KindParagraph:
		if b.Paragraph == nil {
			return b
		}
		pb := *b.Paragraph
		pb.Runs = make([]flowblock.Run, len(b.Paragraph.Runs))
		for i, r := range b.Paragraph.Runs {
			r.PMStart += delta
			r.PMEnd += delta
			pb.Runs[i] = r
		}
		b.Paragraph = &pb
		return b

	case flowblock.KindImage:
		if b.Image == nil {
			return b
		}
		ib := *b.Image
		ib.Attrs = shiftAttrPositions(b.Image.Attrs, delta)
		b.Image = &ib
		return b

	case flowblock.KindDrawing:
		if b.Drawing == nil {
			return b
		}
		db := *b.Drawing
		db.Attrs = shiftAttrPositions(b.Drawing.Attrs, delta)
		b.Drawing = &db
		return b

	default:
		// Other block kinds (table, pageBreak) carry no embedded PM range of
		// their own; return an unmodified shallow copy (spec.md §4.F: "return
		// a shallow copy unchanged").
		return b
	}
}

// shiftAttrPositions shifts the pmStart/pmEnd passthrough keys image/drawing
// blocks carry under attrs (spec.md §4.F: "positions live under
// attrs.pmStart/pmEnd; shift those").
func shiftAttrPositions(a docmodel.AttrMap, delta int) docmodel.AttrMap {
	if a == nil {
		return nil
	}
	out := a.Clone()
	if start, ok := out.Number("pmStart"); ok {
		out["pmStart"] = docmodel.NumberValue(start + float64(delta))
	}
	if end, ok := out.Number("pmEnd"); ok {
		out["pmEnd"] = docmodel.NumberValue(end + float64(delta))
	}
	return out
}
