package main

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"superdoc/config"
	"superdoc/internal/cascade"
	"superdoc/internal/docmodel"
	"superdoc/internal/style"
)

// fixture is the renderdoc JSON input shape. It is a simplified debug
// format, not a serialization of the host editor's own document wire
// format (DOCX zip/XML import/export is explicitly out of scope); styles
// and numbering are optional and default to an empty context, in which
// case every paragraph resolves to document defaults only.
type fixture struct {
	Page      config.PageConfig `json:"page"`
	Document  *docmodel.Node    `json:"document"`
	Styles    []styleFixture    `json:"styles,omitempty"`
	Numbering numberingFixture  `json:"numbering,omitempty"`
}

type styleFixture struct {
	ID                  string         `json:"id"`
	Type                string         `json:"type"`
	BasedOn             string         `json:"basedOn,omitempty"`
	Linked              string         `json:"linked,omitempty"`
	Default             bool           `json:"default,omitempty"`
	ParagraphProperties map[string]any `json:"paragraphProperties,omitempty"`
	RunProperties       map[string]any `json:"runProperties,omitempty"`
	TableProperties     map[string]any `json:"tableProperties,omitempty"`
}

type numberingFixture struct {
	Abstract map[string]abstractNumFixture `json:"abstract,omitempty"`
	Concrete map[string]concreteNumFixture `json:"concrete,omitempty"`
}

type abstractNumFixture struct {
	Levels [9]levelFixture `json:"levels"`
}

type levelFixture struct {
	Start   int    `json:"start"`
	NumFmt  string `json:"numFmt"`
	LvlText string `json:"lvlText"`
	Restart int    `json:"restart"`
}

type concreteNumFixture struct {
	AbstractNumID string      `json:"abstractNumId"`
	LvlOverrides  map[int]int `json:"lvlOverrides,omitempty"` // ilvl -> startOverride
}

func parseFixture(data []byte) (*fixture, error) {
	var fx fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return nil, err
	}
	if fx.Document == nil {
		return nil, fmt.Errorf("fixture is missing a \"document\" field")
	}
	return &fx, nil
}

// styleContext builds a *style.Context from the fixture's optional style
// and numbering definitions.
func (fx *fixture) styleContext(log *zap.Logger) (*style.Context, error) {
	styles := make(map[string]*style.Definition, len(fx.Styles))
	for _, s := range fx.Styles {
		styles[s.ID] = &style.Definition{
			ID:                  s.ID,
			Type:                style.Type(s.Type),
			BasedOn:             s.BasedOn,
			Linked:              s.Linked,
			Default:             s.Default,
			ParagraphProperties: normalizeProperties(s.ParagraphProperties),
			RunProperties:       normalizeProperties(s.RunProperties),
			TableProperties:     normalizeProperties(s.TableProperties),
		}
	}

	abstract := make(map[string]*style.AbstractNumbering, len(fx.Numbering.Abstract))
	for id, a := range fx.Numbering.Abstract {
		var levels [9]style.AbstractLevel
		for i, l := range a.Levels {
			levels[i] = style.AbstractLevel{Start: l.Start, NumFmt: l.NumFmt, LvlText: l.LvlText, Restart: l.Restart}
		}
		abstract[id] = &style.AbstractNumbering{AbstractNumID: id, Levels: levels}
	}
	concrete := make(map[string]*style.ConcreteNumbering, len(fx.Numbering.Concrete))
	for id, c := range fx.Numbering.Concrete {
		overrides := make(map[int]style.LevelOverride, len(c.LvlOverrides))
		for ilvl, start := range c.LvlOverrides {
			v := start
			overrides[ilvl] = style.LevelOverride{StartOverride: &v}
		}
		concrete[id] = &style.ConcreteNumbering{NumID: id, AbstractNumID: c.AbstractNumID, LvlOverrides: overrides}
	}

	return style.New(style.DocDefaults{}, styles, style.NumberingTable{Abstract: abstract, Concrete: concrete}, nil, log), nil
}

// normalizeProperties recursively rewraps a plain JSON-decoded
// map[string]any tree into cascade.Properties, so nested objects (indent,
// spacing, shading, ...) satisfy the same `raw.(cascade.Properties)` type
// assertions the resolver and measurer use elsewhere — a bare
// json.Unmarshal into cascade.Properties would leave nested objects typed
// as plain map[string]any instead.
func normalizeProperties(m map[string]any) cascade.Properties {
	if m == nil {
		return nil
	}
	out := make(cascade.Properties, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return normalizeProperties(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeValue(e)
		}
		return out
	default:
		return v
	}
}
