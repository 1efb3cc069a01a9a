package flowblock

import (
	"superdoc/internal/numbering"
	"superdoc/internal/style"
)

func testConverter() *Converter {
	sctx := style.New(style.DocDefaults{}, map[string]*style.Definition{}, style.NumberingTable{
		Abstract: map[string]*style.AbstractNumbering{},
		Concrete: map[string]*style.ConcreteNumbering{},
	}, nil, nil)
	resolver := style.NewResolver(sctx)
	table := numbering.Table{Level: func(string, int) (numbering.LevelDef, bool) { return numbering.LevelDef{}, false }}
	nm := numbering.NewManager(table)
	nm.Begin()
	return NewConverter(resolver, nm, table, nil, 720)
}
