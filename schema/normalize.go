// Package schema normalizes loosely structured slide documents into typed SlideItems.
package schema

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// listKeys are the wrapper keys searched, in priority order, for the item list of a root object.
var listKeys = []string{"slides", "Slides", "items", "Items", "content", "Content"}

// nestedKeys are the keys under which an element may carry nested items.
var nestedKeys = []string{"items", "Items"}

// ParseFile parses a JSON or YAML document depending on the file extension.
func ParseFile(f string) (Items, error) {
	b, err := os.ReadFile(f)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(f)) {
	case ".yml", ".yaml":
		return ParseYAML(b)
	default:
		return Parse(b)
	}
}

// Parse parses a JSON document and normalizes it.
// It returns a *FatalInputError when b is not valid JSON.
func Parse(b []byte) (Items, error) {
	if !json.Valid(b) {
		return nil, &FatalInputError{Err: errors.New("invalid JSON")}
	}
	v, err := decodeJSON(b)
	if err != nil {
		return nil, &FatalInputError{Err: err}
	}
	return Normalize(v), nil
}

// ParseYAML parses a YAML document and normalizes it.
func ParseYAML(b []byte) (Items, error) {
	v, err := decodeYAML(b)
	if err != nil {
		return nil, &FatalInputError{Err: err}
	}
	return Normalize(v), nil
}

// Normalize maps a decoded document onto SlideItems.
// It never fails: elements that cannot be coerced become diagnostic placeholders.
func Normalize(v any) Items {
	list := locateItems(canonical(v))
	items := Items{}
	for _, e := range list {
		items = append(items, normalizeElement(e)...)
	}
	for i, item := range items {
		item.Ordinal = i
	}
	return items
}

func locateItems(v any) []any {
	switch vv := v.(type) {
	case []any:
		return vv
	case Map:
		for _, k := range listKeys {
			if l, ok := vv.Get(k); ok {
				if list, ok := l.([]any); ok {
					return list
				}
			}
		}
	}
	return []any{v}
}

func normalizeElement(e any) Items {
	m, isMap := e.(Map)
	if isMap {
		if info, ok := m.String("Info"); ok && strings.Contains(info, CircularReferenceMarker) {
			return Items{newPlaceholder(info)}
		}
		if nested, ok := nestedItems(m); ok {
			items := Items{}
			for _, ne := range nested {
				item, err := coerceItem(ne)
				if err != nil {
					item = newPlaceholder(infoErrorParsingNested + err.Error())
				}
				items = append(items, item)
			}
			return items
		}
	}
	item, err := coerceItem(e)
	if err != nil {
		return Items{newPlaceholder(infoErrorParsing + err.Error())}
	}
	return Items{item}
}

// nestedItems returns the first non-empty nested list under items/Items.
func nestedItems(m Map) ([]any, bool) {
	var (
		found bool
		list  []any
	)
	for _, k := range nestedKeys {
		v, ok := m.Get(k)
		if !ok {
			continue
		}
		l, ok := v.([]any)
		if !ok {
			continue
		}
		found = true
		if len(l) > 0 {
			list = l
			break
		}
	}
	return list, found
}
