package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/goccy/go-yaml"
)

// MapItem is one key/value pair of a Map.
type MapItem struct {
	Key   string
	Value any
}

// Map is an object decoded from the source document with its key order preserved.
type Map []MapItem

// Get returns the value of key.
func (m Map) Get(key string) (any, bool) {
	for _, kv := range m {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return nil, false
}

// Has reports whether key is present, even with a null value.
func (m Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// String returns the value of key if it is a string.
func (m Map) String(key string) (string, bool) {
	v, ok := m.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// set replaces the value of key in place, or appends it.
func (m Map) set(key string, v any) Map {
	for i := range m {
		if m[i].Key == key {
			m[i].Value = v
			return m
		}
	}
	return append(m, MapItem{Key: key, Value: v})
}

// MarshalJSON encodes the map as a JSON object in key order.
func (m Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	switch vv := v.(type) {
	case Map:
		buf.WriteByte('{')
		for i, kv := range vv {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(kv.Key)
			if err != nil {
				return err
			}
			buf.Write(k)
			buf.WriteByte(':')
			if err := writeJSON(buf, kv.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case OpaqueFill:
		return writeJSON(buf, Map(vv))
	case OpaqueLine:
		return writeJSON(buf, Map(vv))
	case []any:
		buf.WriteByte('[')
		for i, e := range vv {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		b, err := json.Marshal(vv)
		if err != nil {
			return err
		}
		buf.Write(b)
	}
	return nil
}

// decodeJSON decodes b keeping the key order of every object.
func decodeJSON(b []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	v, err := decodeJSONValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}
	return v, nil
}

func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	d, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch d {
	case '{':
		m := Map{}
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			k, ok := kt.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected object key %v", kt)
			}
			v, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			m = m.set(k, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return m, nil
	case '[':
		a := []any{}
		for dec.More() {
			v, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			a = append(a, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return a, nil
	}
	return nil, fmt.Errorf("unexpected delimiter %v", d)
}

// decodeYAML decodes b as YAML with ordered mappings.
func decodeYAML(b []byte) (any, error) {
	var v any
	if err := yaml.UnmarshalWithOptions(b, &v, yaml.UseOrderedMap()); err != nil {
		return nil, err
	}
	return canonical(v), nil
}

// canonical converts decoded values of any origin into Map / []any trees.
func canonical(v any) any {
	switch vv := v.(type) {
	case Map:
		m := make(Map, 0, len(vv))
		for _, kv := range vv {
			m = m.set(kv.Key, canonical(kv.Value))
		}
		return m
	case OpaqueFill:
		return canonical(Map(vv))
	case OpaqueLine:
		return canonical(Map(vv))
	case yaml.MapSlice:
		m := make(Map, 0, len(vv))
		for _, kv := range vv {
			m = m.set(fmt.Sprint(kv.Key), canonical(kv.Value))
		}
		return m
	case map[string]any:
		keys := make([]string, 0, len(vv))
		for k := range vv {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := make(Map, 0, len(vv))
		for _, k := range keys {
			m = append(m, MapItem{Key: k, Value: canonical(vv[k])})
		}
		return m
	case []any:
		a := make([]any, len(vv))
		for i, e := range vv {
			a[i] = canonical(e)
		}
		return a
	case []Map:
		a := make([]any, len(vv))
		for i, e := range vv {
			a[i] = canonical(e)
		}
		return a
	default:
		return v
	}
}
