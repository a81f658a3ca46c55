package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"slices"
	"sort"
)

// Object is a string-keyed map that remembers insertion order. Entity data,
// baselines, change sets and projections are all Objects so that key order
// survives serialization.
//
// Object is not safe for concurrent mutation.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// ObjectOf builds an Object from alternating keys and values:
//
//	model.ObjectOf("id", 1, "name", "foo")
//
// It panics when a key is not a string or a value is missing.
func ObjectOf(pairs ...any) *Object {
	if len(pairs)%2 != 0 {
		panic("model: ObjectOf needs key/value pairs")
	}
	o := NewObject()
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("model: ObjectOf key %v is not a string", pairs[i]))
		}
		o.Set(key, pairs[i+1])
	}
	return o
}

// ObjectFromMap copies m into a new Object with keys in sorted order.
func ObjectFromMap(m map[string]any) *Object {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	o := &Object{keys: keys, values: make(map[string]any, len(m))}
	for _, k := range keys {
		o.values[k] = m[k]
	}
	return o
}

func (o *Object) init() {
	if o.values == nil {
		o.values = make(map[string]any)
	}
}

// Get returns the value for key, or nil when absent.
func (o *Object) Get(key string) any {
	if o == nil {
		return nil
	}
	return o.values[key]
}

// Lookup returns the value for key and whether it is present.
func (o *Object) Lookup(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Has reports whether key is present, even with a nil value.
func (o *Object) Has(key string) bool {
	_, ok := o.Lookup(key)
	return ok
}

// Set stores value under key. New keys are appended to the key order.
func (o *Object) Set(key string, value any) {
	o.init()
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Delete removes key and reports whether it was present.
func (o *Object) Delete(key string) bool {
	if o == nil {
		return false
	}
	if _, ok := o.values[key]; !ok {
		return false
	}
	delete(o.values, key)
	if idx := slices.Index(o.keys, key); idx >= 0 {
		o.keys = slices.Delete(o.keys, idx, idx+1)
	}
	return true
}

// Keys returns a copy of the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return []string{}
	}
	return slices.Clone(o.keys)
}

func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// All iterates over key/value pairs in insertion order.
func (o *Object) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if o == nil {
			return
		}
		for _, k := range slices.Clone(o.keys) {
			if !yield(k, o.values[k]) {
				return
			}
		}
	}
}

// Clone returns a shallow copy.
func (o *Object) Clone() *Object {
	c := NewObject()
	if o == nil {
		return c
	}
	c.keys = slices.Clone(o.keys)
	for k, v := range o.values {
		c.values[k] = v
	}
	return c
}

// Clear removes every key.
func (o *Object) Clear() {
	o.keys = nil
	o.values = make(map[string]any)
}

// ToMap returns a plain map copy. Order is lost.
func (o *Object) ToMap() map[string]any {
	m := make(map[string]any, o.Len())
	for k, v := range o.All() {
		m[k] = v
	}
	return m
}

// Project filters the object down to the selected keys. The wildcard (or no
// selector) keeps every key; missing keys come back as nil.
func (o *Object) Project(selector ...any) (any, error) {
	keys, all, err := selectorKeys(selector)
	if err != nil {
		return nil, err
	}
	if all {
		return o.Clone(), nil
	}
	out := NewObject()
	for _, k := range keys {
		out.Set(k, o.Get(k))
	}
	return out, nil
}

func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, fmt.Errorf("marshal %q: %w", k, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keeping key order. Nested objects
// become *Object, arrays []any and numbers float64.
func (o *Object) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%w: expected JSON object", ErrShape)
	}
	decoded, err := decodeObject(dec)
	if err != nil {
		return err
	}
	*o = *decoded
	return nil
}

func decodeObject(dec *json.Decoder) (*Object, error) {
	o := NewObject()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: object key %v", ErrShape, tok)
		}
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		o.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return o, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
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
		return decodeObject(dec)
	case '[':
		arr := make([]any, 0)
		for dec.More() {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("%w: unexpected %v", ErrShape, delim)
	}
}
