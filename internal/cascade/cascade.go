// Package cascade implements the generic ordered property-merge engine
// shared by paragraph, run, table, and numbering property resolution
// (spec.md §4.A).
//
// Grounded on convert/kfx/style_merger.go's mergeStyleProperty/
// selectMergeRule dispatch: special handlers first, then a full-override
// set, then a default deep merge — never the other way around, so a
// property with both a registered special handler and a full-override
// entry always uses the handler.
package cascade

import "maps"

// Properties is an ordered bag of OOXML-equivalent property values. Nested
// objects (indent, font, shading, ...) are themselves Properties or scalar
// values; arrays use []any and are always replaced wholesale by the merge,
// never element-merged (spec.md §4.A invariant).
type Properties map[string]any

// SpecialHandler resolves one property key pairwise across two layers of
// the chain. It returns the merged value; ok=false removes the key from the
// result entirely (used by the indent firstLine/hanging exclusivity rule).
type SpecialHandler func(target, source any) (value any, ok bool)

// Options configures a single Combine call.
type Options struct {
	// FullOverrideKeys lists keys whose value must be replaced wholesale by
	// the higher-priority source rather than deep-merged (e.g. "color",
	// "shading" — atomic, semantically indivisible objects).
	FullOverrideKeys map[string]bool

	// SpecialHandlers maps a key to a pairwise reducer used instead of the
	// default deep merge or full override.
	SpecialHandlers map[string]SpecialHandler
}

// Combine folds chain (low to high priority) into a single Properties value.
// It never mutates any input and treats nil/empty layers as no-op
// contributions (spec.md §4.A invariants).
func Combine(chain []Properties, opts Options) Properties {
	result := Properties{}
	for _, layer := range chain {
		if len(layer) == 0 {
			continue
		}
		result = mergeLayer(result, layer, opts)
	}
	return result
}

func mergeLayer(target, source Properties, opts Options) Properties {
	out := make(Properties, len(target)+len(source))
	maps.Copy(out, target)

	for key, incoming := range source {
		existing, has := out[key]

		if handler, ok := opts.SpecialHandlers[key]; ok {
			if merged, keep := handler(existing, incoming); keep {
				out[key] = merged
			} else {
				delete(out, key)
			}
			continue
		}

		if !has {
			out[key] = incoming
			continue
		}

		if opts.FullOverrideKeys[key] {
			out[key] = incoming
			continue
		}

		out[key] = mergeValue(existing, incoming, opts)
	}
	return out
}

// mergeValue deep-merges two values of the same conceptual property: nested
// Properties recurse, arrays are replaced wholesale, anything else is
// overridden by the higher-priority (incoming) value.
func mergeValue(existing, incoming any, opts Options) any {
	existingMap, eok := asProperties(existing)
	incomingMap, iok := asProperties(incoming)
	if eok && iok {
		return mergeLayer(existingMap, incomingMap, opts)
	}
	// Arrays (and anything else, including type mismatches) are replaced
	// wholesale by the later/higher-priority source.
	return incoming
}

func asProperties(v any) (Properties, bool) {
	switch t := v.(type) {
	case Properties:
		return t, true
	case map[string]any:
		return Properties(t), true
	default:
		return nil, false
	}
}

// IndentExclusive is the SpecialHandler used for the "indent" key: the
// higher-priority source's firstLine, if present, drops any hanging
// inherited from target, and vice versa (spec.md §4.B).
func IndentExclusive(target, source any) (any, bool) {
	t, _ := asProperties(target)
	s, _ := asProperties(source)
	if t == nil && s == nil {
		return nil, false
	}

	merged := make(Properties, len(t)+len(s))
	maps.Copy(merged, t)
	maps.Copy(merged, s)

	if _, ok := s["firstLine"]; ok {
		delete(merged, "hanging")
	}
	if _, ok := s["hanging"]; ok {
		delete(merged, "firstLine")
	}
	return merged, true
}

// FontFamilyThemeOverride is the SpecialHandler for "fontFamily": a
// theme-font reference ("themeFont") in the higher-priority source removes
// any non-theme "family" counterpart from the merged result, and vice
// versa, matching the teacher's font-family special-case merge in
// style_merger.go.
func FontFamilyThemeOverride(target, source any) (any, bool) {
	t, _ := asProperties(target)
	s, _ := asProperties(source)
	if t == nil && s == nil {
		return nil, false
	}

	merged := make(Properties, len(t)+len(s))
	maps.Copy(merged, t)
	maps.Copy(merged, s)

	if _, ok := s["themeFont"]; ok {
		delete(merged, "family")
	} else if _, ok := s["family"]; ok {
		delete(merged, "themeFont")
	}
	return merged, true
}
