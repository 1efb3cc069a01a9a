// Package numbering implements the stateful list-numbering state machine
// (spec.md §4.C): per-(numId,ilvl) counters, restart semantics, and marker
// text generation.
//
// Grounded on convert/kfx/content_accumulator.go's per-traversal-scoped
// counter/cache idiom and convert/kfx/frag_storyline_margins_tree.go's
// ancestor-path bookkeeping, generalized here from margin ancestors to
// numbering-counter ancestors.
package numbering

import "fmt"

const maxLevels = 9

// levelState tracks one (numId, level) counter across a traversal.
type levelState struct {
	value   int
	touched bool
}

// numState tracks all 9 levels of one numId plus the last emitted level.
type numState struct {
	levels    [maxLevels]levelState
	lastLevel int // -1 until the first paragraph at this numId is seen
}

// Manager is a per-render numbering state machine (spec.md §3 NumberingState:
// "scoped to a single document traversal").
type Manager struct {
	numbering Table
	state     map[string]*numState

	cacheEnabled bool
	lookupCache  map[lookupKey]lookupResult
}

// Table is the subset of style.NumberingTable the manager needs; kept as a
// narrow interface-free struct so this package has no dependency on
// internal/style (numbering state is a leaf component per spec.md §2).
type Table struct {
	// Level returns the definition of (numId, ilvl): its start value, following
	// lvlOverrides[ilvl].startOverride ?? abstract.levels[ilvl].start ?? 1,
	// and the level's numFmt/lvlText/restart declaration. ok=false means the
	// (numId, ilvl) pair has no definition at all (spec.md §7 "numbering
	// gap").
	Level func(numID string, ilvl int) (LevelDef, bool)
}

// LevelDef is the resolved per-level numbering definition used by the
// manager (already folded from abstract + concrete overrides by the
// caller/style layer).
type LevelDef struct {
	Start   int
	NumFmt  string
	LvlText string
	Restart int // level whose change resets this counter; -1 if none
}

type lookupKey struct {
	numID string
	ilvl  int
}

type lookupResult struct {
	path []int
}

// NewManager returns a Manager bound to table. Begin must be called before
// the first Next of a render.
func NewManager(table Table) *Manager {
	return &Manager{numbering: table, state: map[string]*numState{}}
}

// Begin resets all counters to their starts for a fresh document traversal.
func (m *Manager) Begin() {
	m.state = map[string]*numState{}
	m.lookupCache = nil
}

// EnableCache turns on O(1) reuse of repeated lookups at the same document
// position within this render (spec.md §4.C).
func (m *Manager) EnableCache() {
	m.cacheEnabled = true
	m.lookupCache = map[lookupKey]lookupResult{}
}

// DisableCache turns the lookup cache back off and discards it.
func (m *Manager) DisableCache() {
	m.cacheEnabled = false
	m.lookupCache = nil
}

func (m *Manager) stateFor(numID string) *numState {
	s, ok := m.state[numID]
	if !ok {
		s = &numState{lastLevel: -1}
		for i := range s.levels {
			s.levels[i] = levelState{}
		}
		m.state[numID] = s
	}
	return s
}

// Next advances the counter state for one paragraph encountered at
// (numId, ilvl) and returns the ancestor path (spec.md §4.C, §8 invariants
// 4/5). ok=false means the pair has no numbering definition (a "numbering
// gap" per spec.md §7 — the caller should treat the paragraph as ordinary).
func (m *Manager) Next(numID string, ilvl int) (path []int, ok bool) {
	if ilvl < 0 || ilvl >= maxLevels {
		return nil, false
	}
	def, ok := m.numbering.Level(numID, ilvl)
	if !ok {
		return nil, false
	}
	start := def.Start
	if start == 0 {
		start = 1
	}

	s := m.stateFor(numID)

	switch {
	case s.lastLevel > ilvl:
		// Coming back to an outer level: increment it, reset deeper levels.
		s.levels[ilvl].value++
		s.levels[ilvl].touched = true
		for l := ilvl + 1; l < maxLevels; l++ {
			s.levels[l] = levelState{}
		}
	case s.lastLevel < ilvl:
		// Descending into a deeper level: reset it to start, do not increment.
		s.levels[ilvl] = levelState{value: start, touched: true}
	default:
		// Same level again: increment.
		s.levels[ilvl].value++
		s.levels[ilvl].touched = true
	}
	s.lastLevel = ilvl

	path = m.pathLocked(numID, ilvl)

	if m.cacheEnabled {
		m.lookupCache[lookupKey{numID, ilvl}] = lookupResult{path: path}
	}
	return path, true
}

// Path returns [c_0, ..., c_ilvl] — the ancestors' current counters plus
// this level's — without advancing any counter. Levels never touched report
// their configured start value (spec.md §4.C: "lvlText referencing a level
// not yet seen uses that level's start").
func (m *Manager) Path(numID string, ilvl int) []int {
	if m.cacheEnabled {
		if r, ok := m.lookupCache[lookupKey{numID, ilvl}]; ok {
			return r.path
		}
	}
	return m.pathLocked(numID, ilvl)
}

func (m *Manager) pathLocked(numID string, ilvl int) []int {
	s := m.stateFor(numID)
	path := make([]int, ilvl+1)
	for i := 0; i <= ilvl; i++ {
		if s.levels[i].touched {
			path[i] = s.levels[i].value
		} else if def, ok := m.numbering.Level(numID, i); ok && def.Start != 0 {
			path[i] = def.Start
		} else {
			path[i] = 1
		}
	}
	return path
}

// MarkerText expands lvlText ("%1.%2)") against path, formatting each
// substituted counter per that level's numFmt (spec.md §4.C). Bullet
// formats use lvlText literally (normalized for legacy Symbol-font
// bullets).
func MarkerText(lvlText string, numFmts []string, path []int) string {
	var out []rune
	runes := []rune(lvlText)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '%' && i+1 < len(runes) && runes[i+1] >= '1' && runes[i+1] <= '9' {
			level := int(runes[i+1]-'0') - 1
			if level >= 0 && level < len(path) {
				fmtName := ""
				if level < len(numFmts) {
					fmtName = numFmts[level]
				}
				out = append(out, []rune(FormatCounter(path[level], fmtName))...)
			}
			i++
			continue
		}
		out = append(out, runes[i])
	}
	return NormalizeLegacyBullets(string(out))
}

// FormatCounter renders value in the given OOXML numFmt.
func FormatCounter(value int, numFmt string) string {
	switch numFmt {
	case "lowerLetter":
		return letterSequence(value, false)
	case "upperLetter":
		return letterSequence(value, true)
	case "lowerRoman":
		return romanNumeral(value, false)
	case "upperRoman":
		return romanNumeral(value, true)
	case "bullet", "none":
		return ""
	case "decimal", "":
		fallthrough
	default:
		return fmt.Sprintf("%d", value)
	}
}

func letterSequence(value int, upper bool) string {
	if value <= 0 {
		value = 1
	}
	var out []byte
	for value > 0 {
		value--
		out = append([]byte{byte('a' + value%26)}, out...)
		value /= 26
	}
	if upper {
		for i, c := range out {
			out[i] = c - 'a' + 'A'
		}
	}
	return string(out)
}

var romanTable = []struct {
	value  int
	symbol string
}{
	{1000, "m"}, {900, "cm"}, {500, "d"}, {400, "cd"},
	{100, "c"}, {90, "xc"}, {50, "l"}, {40, "xl"},
	{10, "x"}, {9, "ix"}, {5, "v"}, {4, "iv"}, {1, "i"},
}

func romanNumeral(value int, upper bool) string {
	if value <= 0 {
		return ""
	}
	var out string
	for _, r := range romanTable {
		for value >= r.value {
			out += r.symbol
			value -= r.value
		}
	}
	if upper {
		result := make([]byte, len(out))
		for i := 0; i < len(out); i++ {
			c := out[i]
			if c >= 'a' && c <= 'z' {
				c = c - 'a' + 'A'
			}
			result[i] = c
		}
		return string(result)
	}
	return out
}

// legacySymbolBullets maps legacy Symbol/Wingdings-font code points to
// common Unicode bullet glyphs. This is data, not a spec decision (see
// DESIGN.md Open Questions); the table covers the common cases observed in
// OOXML documents carrying pre-Unicode bullet fonts.
var legacySymbolBullets = map[rune]rune{
	'\uF0B7': '•', // Symbol bullet
	'\uF0A7': '▪', // Wingdings small square
	'\uF0D8': '➢', // Wingdings arrowhead
	'\uF0A8': '◆', // Wingdings diamond
	'\uF0FC': '✓', // Wingdings checkmark
}

// NormalizeLegacyBullets rewrites private-use-area legacy bullet glyphs to
// their common Unicode equivalents.
func NormalizeLegacyBullets(s string) string {
	runes := []rune(s)
	changed := false
	for i, r := range runes {
		if rep, ok := legacySymbolBullets[r]; ok {
			runes[i] = rep
			changed = true
		}
	}
	if !changed {
		return s
	}
	return string(runes)
}
