package style

import "superdoc/internal/numbering"

// NumberingTableFor adapts a Context's NumberingTable into the narrow
// numbering.Table interface the numbering manager depends on, folding a
// concrete numId's lvlOverrides onto its abstract level definition (spec.md
// §4.C: "lvlOverrides[ilvl].startOverride ?? abstract.levels[ilvl].start ??
// 1"). This keeps internal/numbering free of any internal/style dependency
// while still letting the renderer wire the two together.
func NumberingTableFor(ctx *Context) numbering.Table {
	return numbering.Table{
		Level: func(numID string, ilvl int) (numbering.LevelDef, bool) {
			_, abstract, ok := ctx.Numbering.Resolve(numID)
			if !ok || ilvl < 0 || ilvl >= len(abstract.Levels) {
				return numbering.LevelDef{}, false
			}
			lvl := abstract.Levels[ilvl]
			start := lvl.Start
			if concrete, ok := ctx.Numbering.Concrete[numID]; ok {
				if override, ok := concrete.LvlOverrides[ilvl]; ok && override.StartOverride != nil {
					start = *override.StartOverride
				}
			}
			return numbering.LevelDef{
				Start:   start,
				NumFmt:  lvl.NumFmt,
				LvlText: lvl.LvlText,
				Restart: lvl.Restart,
			}, true
		},
	}
}
