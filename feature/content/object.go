package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"cms-sync/core/utils"
)

// Field is one key/value pair of a raw CMS object.
type Field struct {
	Key   string
	Value any
}

// Object is a raw CMS object with its keys in wire order.
// Values are string, json.Number, bool, nil, Object or []any.
type Object []Field

// Entity is a cleaned record. Nested objects are map[string]any and arrays are []any.
type Entity map[string]any

// ID returns the entity id as a string, or "" when absent.
func (e Entity) ID() string {
	return utils.ToString(e["id"])
}

// ErrNotObject is returned when a record in a listing is not a JSON object.
var ErrNotObject = errors.New("record is not a JSON object")

// Decode reads one JSON document preserving object key order.
func Decode(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	v, err := readValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after JSON document")
	}
	return v, nil
}

// Records turns a decoded listing into objects. A bare object is treated as a
// one-element listing.
func Records(v any) ([]Object, error) {
	switch t := v.(type) {
	case Object:
		return []Object{t}, nil
	case []any:
		out := make([]Object, 0, len(t))
		for i, item := range t {
			obj, ok := item.(Object)
			if !ok {
				return nil, fmt.Errorf("item %d: %w", i, ErrNotObject)
			}
			out = append(out, obj)
		}
		return out, nil
	case nil:
		return nil, nil
	default:
		return nil, ErrNotObject
	}
}

func readValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		return readObject(dec)
	case '[':
		return readArray(dec)
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", delim)
	}
}

func readObject(dec *json.Decoder) (Object, error) {
	obj := Object{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", tok)
		}
		val, err := readValue(dec)
		if err != nil {
			return nil, err
		}
		obj = append(obj, Field{Key: key, Value: val})
	}
	// closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func readArray(dec *json.Decoder) ([]any, error) {
	arr := []any{}
	for dec.More() {
		val, err := readValue(dec)
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)
	}
	// closing ']'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return arr, nil
}

// ToObject converts a map back to an Object with keys in sorted order.
// Nested maps become Objects; arrays are kept as they are.
func ToObject(m map[string]any) Object {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	obj := make(Object, 0, len(keys))
	for _, k := range keys {
		v := m[k]
		switch t := v.(type) {
		case map[string]any:
			v = ToObject(t)
		case Entity:
			v = ToObject(t)
		}
		obj = append(obj, Field{Key: k, Value: v})
	}
	return obj
}

// plain converts raw values to map/slice form without touching keys.
func plain(v any) any {
	switch t := v.(type) {
	case Object:
		m := make(map[string]any, len(t))
		for _, f := range t {
			m[f.Key] = plain(f.Value)
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = plain(item)
		}
		return out
	default:
		return v
	}
}
