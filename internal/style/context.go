// Package style builds and resolves OOXML paragraph/run/table/numbering
// property chains through the cascade engine (spec.md §3 StyleContext,
// §4.B Style resolver).
//
// Grounded on convert/kfx/style_context_resolve.go (ordered resolveProperties
// application) and convert/kfx/style_registry_resolve.go (cycle-safe basedOn
// walk).
package style

import (
	"go.uber.org/zap"

	"superdoc/internal/cascade"
)

// Type enumerates the OOXML style kinds.
// ENUM(paragraph, character, table, numbering)
type Type string

const (
	TypeParagraph Type = "paragraph"
	TypeCharacter Type = "character"
	TypeTable     Type = "table"
	TypeNumbering Type = "numbering"
)

// TableRegion enumerates the conditional tblStylePr regions (spec.md §3).
// ENUM(wholeTable, firstRow, lastRow, firstCol, lastCol, band1Horz, band2Horz, band1Vert, band2Vert, nwCell, neCell, swCell, seCell)
type TableRegion string

const (
	RegionWholeTable TableRegion = "wholeTable"
	RegionFirstRow   TableRegion = "firstRow"
	RegionLastRow    TableRegion = "lastRow"
	RegionFirstCol   TableRegion = "firstCol"
	RegionLastCol    TableRegion = "lastCol"
	RegionBand1Horz  TableRegion = "band1Horz"
	RegionBand2Horz  TableRegion = "band2Horz"
	RegionBand1Vert  TableRegion = "band1Vert"
	RegionBand2Vert  TableRegion = "band2Vert"
	RegionNWCell     TableRegion = "nwCell"
	RegionNECell     TableRegion = "neCell"
	RegionSWCell     TableRegion = "swCell"
	RegionSECell     TableRegion = "seCell"
)

// Definition is one entry of StyleContext.Styles.
type Definition struct {
	ID       string
	Type     Type
	BasedOn  string
	Linked   string
	Default  bool
	RunProperties       cascade.Properties
	ParagraphProperties cascade.Properties
	TableProperties     cascade.Properties
	TableRowProperties  cascade.Properties
	TableCellProperties cascade.Properties

	// ConditionalTableStyleProperties holds tblStylePr contributions keyed by
	// region, applied in the order documented in DESIGN.md (Open Questions).
	ConditionalTableStyleProperties map[TableRegion]cascade.Properties
}

// DocDefaults holds docDefaults.
type DocDefaults struct {
	ParagraphProperties cascade.Properties
	RunProperties       cascade.Properties
}

// AbstractLevel is one of the up-to-9 levels of an abstract numbering
// definition (spec.md §3 invariants: level indices in [0,8]).
type AbstractLevel struct {
	Start  int
	NumFmt string // decimal, lowerLetter, upperLetter, lowerRoman, upperRoman, bullet, ...
	LvlText string
	Restart int // level at which this counter resets; -1 if none declared
}

// AbstractNumbering is keyed by abstractNumId in Numbering.Abstract.
type AbstractNumbering struct {
	AbstractNumID string
	Levels        [9]AbstractLevel
}

// LevelOverride is a per-level override on a concrete numbering definition.
type LevelOverride struct {
	StartOverride *int
}

// ConcreteNumbering is keyed by numId in Numbering.Concrete.
type ConcreteNumbering struct {
	NumID         string
	AbstractNumID string
	LvlOverrides  map[int]LevelOverride
}

// NumberingTable is StyleContext.Numbering (spec.md §3).
type NumberingTable struct {
	Abstract map[string]*AbstractNumbering
	Concrete map[string]*ConcreteNumbering
}

// Resolve looks up the AbstractNumbering backing a given numId, following
// the concrete→abstract reference. Returns ok=false if either side is
// missing (spec.md §3 invariant: concrete numId must resolve — violations
// are a §7 "numbering gap", handled by the caller, not panicked here).
func (t NumberingTable) Resolve(numID string) (*ConcreteNumbering, *AbstractNumbering, bool) {
	c, ok := t.Concrete[numID]
	if !ok {
		return nil, nil, false
	}
	a, ok := t.Abstract[c.AbstractNumID]
	if !ok {
		return c, nil, false
	}
	return c, a, true
}

// Context is the immutable per-document style context (spec.md §3).
type Context struct {
	DocDefaults DocDefaults
	Styles      map[string]*Definition
	Numbering   NumberingTable
	ThemeColors map[string]string

	logger *zap.Logger
}

// New builds a Context. logger may be nil (a no-op logger is substituted).
func New(docDefaults DocDefaults, styles map[string]*Definition, numbering NumberingTable, themeColors map[string]string, logger *zap.Logger) *Context {
	if logger == nil {
		logger = zap.NewNop()
	}
	if styles == nil {
		styles = map[string]*Definition{}
	}
	return &Context{
		DocDefaults: docDefaults,
		Styles:      styles,
		Numbering:   numbering,
		ThemeColors: themeColors,
		logger:      logger,
	}
}
