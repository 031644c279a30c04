// Package overlay produces per-locale translated snapshots of game entities.
package overlay

import (
	"bytes"
	"fmt"
	"sort"

	json "github.com/goccy/go-json"

	"github.com/lawnchairsociety/gowdata/internal/i18n"
)

// ToDocument deep-copies v into a generic JSON tree.
func ToDocument(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode source: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode source tree: %w", err)
	}
	return doc, nil
}

// TranslateDocument returns a translated copy of doc. Keys are visited in
// sorted order; a key whose translation differs is renamed, and when two keys
// translate to the same name the later one wins. String values that are still
// text keys are translated, and nested objects and arrays are walked.
//
// When the top-level name is left untranslated the reference name stands in.
func TranslateDocument(doc map[string]any, table i18n.Table, locale string) map[string]any {
	out := translateMap(doc, table, locale)
	if name, ok := out["name"].(string); ok && i18n.IsUntranslated(name) {
		if ref, ok := out["reference_name"].(string); ok {
			out["name"] = ref
		}
	}
	return out
}

func translateMap(m map[string]any, table i18n.Table, locale string) map[string]any {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]any, len(m))
	for _, k := range keys {
		out[table.Translate(k, locale)] = translateValue(m[k], table, locale)
	}
	return out
}

func translateValue(v any, table i18n.Table, locale string) any {
	switch val := v.(type) {
	case string:
		if val != "" && i18n.IsUntranslated(val) {
			return table.Translate(val, locale)
		}
		return val
	case map[string]any:
		return translateMap(val, table, locale)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = translateValue(item, table, locale)
		}
		return out
	default:
		return v
	}
}

// Canonical encodes a document with sorted keys.
func Canonical(doc map[string]any) ([]byte, error) {
	return json.Marshal(doc)
}

// Decode converts a document back into a typed value.
func Decode[T any](doc map[string]any) (*T, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode translated tree: %w", err)
	}
	v := new(T)
	if err := json.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("decode translated tree: %w", err)
	}
	return v, nil
}
