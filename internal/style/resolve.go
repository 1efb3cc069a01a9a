package style

import (
	"go.uber.org/zap"

	"superdoc/internal/cascade"
)

// defaultOptions are the cascade Options shared by every resolve call in
// this package (spec.md §4.B: indent exclusivity, font-family theme
// override, and the atomic objects that must never be deep-merged).
func defaultOptions() cascade.Options {
	return cascade.Options{
		FullOverrideKeys: map[string]bool{
			"color":   true,
			"shading": true,
			"border":  true,
		},
		SpecialHandlers: map[string]cascade.SpecialHandler{
			"indent":     cascade.IndentExclusive,
			"fontFamily": cascade.FontFamilyThemeOverride,
		},
	}
}

// TableCellContext describes the table-conditional contribution for a
// paragraph/run that lives inside a table cell (spec.md §4.B: "wholeTable
// then row/column-band then cell corner, in that order").
type TableCellContext struct {
	TableStyleID string
	// Regions lists which conditional regions apply to this cell, in the
	// resolver's fixed priority order: wholeTable, then band, then corner.
	// See DESIGN.md Open Questions for the policy on multi-region corners.
	Regions []TableRegion
}

// regionPriority orders the regions per the resolved Open Question in
// DESIGN.md: band before corner, corner applied last (wins).
var regionPriority = []TableRegion{
	RegionWholeTable,
	RegionBand1Horz, RegionBand2Horz, RegionBand1Vert, RegionBand2Vert,
	RegionFirstRow, RegionLastRow, RegionFirstCol, RegionLastCol,
	RegionNWCell, RegionNECell, RegionSWCell, RegionSECell,
}

// Resolver builds property chains against an immutable Context.
type Resolver struct {
	ctx *Context
}

// NewResolver returns a Resolver bound to ctx.
func NewResolver(ctx *Context) *Resolver {
	return &Resolver{ctx: ctx}
}

// StyleDefinition looks up a style by id directly, without walking its
// basedOn chain. Used by callers that need a single definition's own fields
// (e.g. Linked) rather than a resolved property chain.
func (r *Resolver) StyleDefinition(styleID string) (*Definition, bool) {
	if styleID == "" {
		return nil, false
	}
	def, ok := r.ctx.Styles[styleID]
	return def, ok
}

// styleChain walks the basedOn graph from styleID to its root, returning the
// chain root-first (so the caller can fold low→high priority). Cyclic
// chains are broken by stopping at the first revisited styleId; resolution
// proceeds with the partial chain and the degraded result is logged at
// debug, never surfaced as an error (spec.md §4.B failure policy).
func (r *Resolver) styleChain(styleID string) []*Definition {
	var chain []*Definition
	visited := map[string]bool{}

	id := styleID
	for id != "" {
		if visited[id] {
			r.ctx.logger.Debug("basedOn cycle detected; resolution degraded",
				zap.String("styleId", styleID), zap.String("revisited", id))
			break
		}
		visited[id] = true

		def, ok := r.ctx.Styles[id]
		if !ok {
			r.ctx.logger.Debug("referenced style not found; resolution degraded",
				zap.String("styleId", id))
			break
		}
		chain = append(chain, def)
		id = def.BasedOn
	}

	// reverse in place: chain was collected leaf-first, we want root-first.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// tableContributions returns the ordered conditional-region Properties for
// tc, reading runProperties or paragraphProperties depending on forRun.
func (r *Resolver) tableContributions(tc *TableCellContext, forRun bool) []cascade.Properties {
	if tc == nil {
		return nil
	}
	def, ok := r.ctx.Styles[tc.TableStyleID]
	if !ok || def.ConditionalTableStyleProperties == nil {
		return nil
	}
	applies := make(map[TableRegion]bool, len(tc.Regions))
	for _, reg := range tc.Regions {
		applies[reg] = true
	}

	var out []cascade.Properties
	for _, reg := range regionPriority {
		if !applies[reg] && reg != RegionWholeTable {
			continue
		}
		props, ok := def.ConditionalTableStyleProperties[reg]
		if !ok {
			continue
		}
		out = append(out, props)
	}
	_ = forRun // conditional table properties are stored undifferentiated; forRun reserved for future split
	return out
}

// ResolveParagraphProperties builds the merged paragraph properties chain:
// docDefaults → basedOn chain (root-first) → current style → table
// conditional contributions → direct formatting (spec.md §4.B).
func (r *Resolver) ResolveParagraphProperties(styleID string, tableCtx *TableCellContext, direct cascade.Properties) cascade.Properties {
	chain := []cascade.Properties{r.ctx.DocDefaults.ParagraphProperties}

	for _, def := range r.styleChain(styleID) {
		chain = append(chain, def.ParagraphProperties)
	}
	chain = append(chain, r.tableContributions(tableCtx, false)...)
	chain = append(chain, direct)

	return cascade.Combine(chain, defaultOptions())
}

// ResolveRunProperties builds the merged run properties chain: docDefaults
// → basedOn chain (root-first) → current character style → linked
// character style (if referenced) → table conditional contributions →
// direct formatting. Inline properties always win because they are last in
// the chain — no special-cased key, including fontSize, is needed (spec.md
// §4.B / §8 invariant 2).
func (r *Resolver) ResolveRunProperties(styleID, linkedCharStyleID string, tableCtx *TableCellContext, direct cascade.Properties) cascade.Properties {
	chain := []cascade.Properties{r.ctx.DocDefaults.RunProperties}

	for _, def := range r.styleChain(styleID) {
		chain = append(chain, def.RunProperties)
	}
	if linkedCharStyleID != "" {
		if def, ok := r.ctx.Styles[linkedCharStyleID]; ok {
			chain = append(chain, def.RunProperties)
		}
	}
	chain = append(chain, r.tableContributions(tableCtx, true)...)
	chain = append(chain, direct)

	return cascade.Combine(chain, defaultOptions())
}

// ResolveTableProperties builds the merged table properties chain for a
// table node: docDefaults has no table-level entry, so this starts directly
// from the style's basedOn chain.
func (r *Resolver) ResolveTableProperties(styleID string, direct cascade.Properties) cascade.Properties {
	var chain []cascade.Properties
	for _, def := range r.styleChain(styleID) {
		chain = append(chain, def.TableProperties)
	}
	chain = append(chain, direct)
	return cascade.Combine(chain, defaultOptions())
}

// ResolveTableCellProperties builds the merged cell properties chain: style
// chain's tableCellProperties → conditional region contributions → direct
// cell formatting (spec.md §4.B table-conditional ordering applies here too).
func (r *Resolver) ResolveTableCellProperties(styleID string, tc *TableCellContext, direct cascade.Properties) cascade.Properties {
	var chain []cascade.Properties
	for _, def := range r.styleChain(styleID) {
		chain = append(chain, def.TableCellProperties)
	}
	chain = append(chain, r.tableContributions(tc, false)...)
	chain = append(chain, direct)
	return cascade.Combine(chain, defaultOptions())
}
