package admin

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Shape identifies which response dialect a list payload uses.
type Shape int

const (
	// ShapeUnknown is any payload the normalizer does not recognise.
	ShapeUnknown Shape = iota
	// ShapeArray is a bare JSON array.
	ShapeArray
	// ShapeKeyed is an object carrying the list under a known key.
	ShapeKeyed
	// ShapeEnvelope is {success, data} where data holds one of the other shapes.
	ShapeEnvelope
)

func (s Shape) String() string {
	switch s {
	case ShapeArray:
		return "array"
	case ShapeKeyed:
		return "keyed"
	case ShapeEnvelope:
		return "envelope"
	default:
		return "unknown"
	}
}

// listKeys are probed in this order on object payloads.
var listKeys = []string{
	"data",
	"items",
	"products",
	"services",
	"clients",
	"images",
	"enquiries",
	"gallery",
	"files",
	"categories",
}

// Mapper converts one raw record into its canonical form, filling defaults
// for missing fields. It reports false when the record cannot be used.
type Mapper[T any] func(raw map[string]any) (T, bool)

// DetectShape reports which dialect raw is written in.
func DetectShape(raw []byte) Shape {
	v, ok := decodeJSON(raw)
	if !ok {
		return ShapeUnknown
	}
	shape, _ := resolveList(v, false)
	return shape
}

// Normalize maps any known list payload to canonical records. Unrecognised
// or malformed payloads produce an empty list. Records without an id are
// dropped and duplicate ids keep their first occurrence.
func Normalize[T Identified](raw []byte, mapper Mapper[T]) []T {
	out := []T{}
	v, ok := decodeJSON(raw)
	if !ok {
		return out
	}

	_, items := resolveList(v, false)
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		rec, ok := mapper(obj)
		if !ok {
			continue
		}
		id := rec.RecordID()
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, rec)
	}
	return out
}

// NormalizeOne extracts a single record from a create or update response.
// It accepts a bare record, {data: record}, {<key>: record} for any of keys,
// and the {success, data} envelope. It reports false when no well-formed
// record with an id is present.
func NormalizeOne[T Identified](raw []byte, mapper Mapper[T], keys ...string) (T, bool) {
	var zero T
	v, ok := decodeJSON(raw)
	if !ok {
		return zero, false
	}
	obj := findRecord(v, keys, false)
	if obj == nil {
		return zero, false
	}
	rec, ok := mapper(obj)
	if !ok || rec.RecordID() == "" {
		return zero, false
	}
	return rec, true
}

// ExtractCount reads a total from a list or stats payload. It looks at
// count/total fields (top level, pagination, meta and data) before falling
// back to the length of the normalised list.
func ExtractCount(raw []byte) (int, bool) {
	v, ok := decodeJSON(raw)
	if !ok {
		return 0, false
	}
	if obj, ok := v.(map[string]any); ok {
		if n, ok := countField(obj); ok {
			return n, true
		}
		for _, key := range []string{"pagination", "meta", "data"} {
			switch inner := obj[key].(type) {
			case map[string]any:
				if n, ok := countField(inner); ok {
					return n, true
				}
			case json.Number:
				if n, err := inner.Int64(); err == nil {
					return int(n), true
				}
			}
		}
	}
	shape, items := resolveList(v, false)
	if shape == ShapeUnknown {
		return 0, false
	}
	return len(items), true
}

func countField(obj map[string]any) (int, bool) {
	for _, key := range []string{"count", "total"} {
		if n, ok := obj[key].(json.Number); ok {
			if i, err := n.Int64(); err == nil {
				return int(i), true
			}
		}
	}
	return 0, false
}

// resolveList applies the fixed resolution order: array, known keys, then
// a single envelope unwrap.
func resolveList(v any, unwrapped bool) (Shape, []any) {
	switch t := v.(type) {
	case []any:
		return ShapeArray, t
	case map[string]any:
		for _, key := range listKeys {
			if arr, ok := t[key].([]any); ok {
				return ShapeKeyed, arr
			}
		}
		if !unwrapped && truthy(t["success"]) {
			if data, ok := t["data"]; ok && data != nil {
				if shape, items := resolveList(data, true); shape != ShapeUnknown {
					return ShapeEnvelope, items
				}
			}
		}
	}
	return ShapeUnknown, nil
}

func findRecord(v any, keys []string, unwrapped bool) map[string]any {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	if hasID(obj) {
		return obj
	}
	for _, key := range append([]string{"data"}, keys...) {
		if inner, ok := obj[key].(map[string]any); ok && hasID(inner) {
			return inner
		}
	}
	if !unwrapped && truthy(obj["success"]) {
		if data, ok := obj["data"]; ok {
			return findRecord(data, keys, true)
		}
	}
	return nil
}

func hasID(obj map[string]any) bool {
	return IDOf(obj) != ""
}

func decodeJSON(raw []byte) (any, bool) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	return v, true
}

// truthy follows the loose truthiness the upstream API relies on.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	default:
		return true
	}
}

// IDOf returns the record id as text, accepting id, _id or ID keys and
// numeric or string values.
func IDOf(raw map[string]any) string {
	for _, key := range []string{"id", "_id", "ID"} {
		if s := scalarString(raw[key]); s != "" {
			return s
		}
	}
	return ""
}

// StringField returns the first non-empty string among keys.
func StringField(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := strings.TrimSpace(scalarString(raw[key])); s != "" {
			return s
		}
	}
	return ""
}

// NumberField returns the first numeric value among keys, parsing numeric
// strings. Missing or unparsable values yield 0.
func NumberField(raw map[string]any, keys ...string) float64 {
	for _, key := range keys {
		switch t := raw[key].(type) {
		case json.Number:
			if f, err := t.Float64(); err == nil {
				return f
			}
		case float64:
			return t
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
				return f
			}
		}
	}
	return 0
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}
