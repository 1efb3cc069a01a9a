package docmodel

import (
	"encoding/base64"
	"encoding/json"
	"strconv"
)

// Value is the single dynamic-value type used for free-form passthrough
// attribute keys (spec.md §9 design note: "keep a union of typed attribute
// bundles per node variant; use a single dynamic-value type only for
// free-form passthrough keys").
type Value struct {
	kind valueKind
	s    string
	n    float64
	b    bool
	by   []byte
	m    AttrMap
	l    []Value
}

type valueKind int

const (
	valueNone valueKind = iota
	valueString
	valueNumber
	valueBool
	valueBytes
	valueMap
	valueList
)

func StringValue(s string) Value   { return Value{kind: valueString, s: s} }
func NumberValue(n float64) Value  { return Value{kind: valueNumber, n: n} }
func BoolValue(b bool) Value       { return Value{kind: valueBool, b: b} }
func BytesValue(b []byte) Value    { return Value{kind: valueBytes, by: b} }
func MapValue(m AttrMap) Value     { return Value{kind: valueMap, m: m} }
func ListValue(l []Value) Value    { return Value{kind: valueList, l: l} }

// AttrMap is the attribute bag carried by every Node.
type AttrMap map[string]Value

// String returns the string form of key, if present and string-kinded.
func (a AttrMap) String(key string) (string, bool) {
	v, ok := a[key]
	if !ok || v.kind != valueString {
		return "", false
	}
	return v.s, true
}

// Number returns the numeric form of key, if present and number-kinded.
func (a AttrMap) Number(key string) (float64, bool) {
	v, ok := a[key]
	if !ok || v.kind != valueNumber {
		return 0, false
	}
	return v.n, true
}

// Bool returns the boolean form of key following the canonicalization rule
// decided in DESIGN.md for fieldAnnotation.highlighted and friends: absent
// key has no opinion (caller supplies the default); a present string value
// is parsed with strconv.ParseBool so that both native booleans and the
// source's mixed string/bool forms behave identically after ingestion.
func (a AttrMap) Bool(key string) (bool, bool) {
	v, ok := a[key]
	if !ok {
		return false, false
	}
	switch v.kind {
	case valueBool:
		return v.b, true
	case valueString:
		b, err := strconv.ParseBool(v.s)
		if err != nil {
			return false, false
		}
		return b, true
	default:
		return false, false
	}
}

// Bytes returns the raw byte form of key, if present and bytes-kinded.
func (a AttrMap) Bytes(key string) ([]byte, bool) {
	v, ok := a[key]
	if !ok || v.kind != valueBytes {
		return nil, false
	}
	return v.by, true
}

// Map returns the nested AttrMap form of key, if present.
func (a AttrMap) Map(key string) (AttrMap, bool) {
	v, ok := a[key]
	if !ok || v.kind != valueMap {
		return nil, false
	}
	return v.m, true
}

// List returns the list form of key, if present.
func (a AttrMap) List(key string) ([]Value, bool) {
	v, ok := a[key]
	if !ok || v.kind != valueList {
		return nil, false
	}
	return v.l, true
}

// BoolOr returns Bool(key) or def when absent/unparseable.
func (a AttrMap) BoolOr(key string, def bool) bool {
	if v, ok := a.Bool(key); ok {
		return v
	}
	return def
}

// Clone returns a deep-enough copy of a for safe independent mutation
// (shallow for scalar kinds, recursive for map/list).
func (a AttrMap) Clone() AttrMap {
	if a == nil {
		return nil
	}
	out := make(AttrMap, len(a))
	for k, v := range a {
		out[k] = v.clone()
	}
	return out
}

// MarshalJSON renders v by kind. Used by the flowblock cache's JSON-fallback
// comparison path (spec.md §4.F step 2: "compare serialized JSON of the node
// (cached vs. current)"), not for any external wire format.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case valueString:
		return json.Marshal(v.s)
	case valueNumber:
		return json.Marshal(v.n)
	case valueBool:
		return json.Marshal(v.b)
	case valueBytes:
		return json.Marshal(base64.StdEncoding.EncodeToString(v.by))
	case valueMap:
		return json.Marshal(v.m)
	case valueList:
		return json.Marshal(v.l)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON sniffs data's leading byte to pick a Value kind. Used by
// cmd/renderdoc's fixture loader to turn a plain JSON document into a
// Node tree; bytes-kind values have no wire representation here (a base64
// string decodes as valueString, not valueBytes) since no fixture format
// needs to round-trip raw embedded binary.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := trimJSONSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*v = Value{}
		return nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringValue(s)
	case '{':
		var m AttrMap
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		*v = MapValue(m)
	case '[':
		var l []Value
		if err := json.Unmarshal(data, &l); err != nil {
			return err
		}
		*v = ListValue(l)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = BoolValue(b)
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*v = NumberValue(n)
	}
	return nil
}

func trimJSONSpace(data []byte) []byte {
	start := 0
	for start < len(data) {
		switch data[start] {
		case ' ', '\t', '\n', '\r':
			start++
			continue
		}
		break
	}
	return data[start:]
}

func (v Value) clone() Value {
	switch v.kind {
	case valueMap:
		return MapValue(v.m.Clone())
	case valueList:
		l := make([]Value, len(v.l))
		for i, e := range v.l {
			l[i] = e.clone()
		}
		return ListValue(l)
	default:
		return v
	}
}
