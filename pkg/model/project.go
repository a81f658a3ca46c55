package model

import (
	"fmt"
	"reflect"
)

// Wildcard selects every key of a store.
const Wildcard = "*"

// Projector is implemented by values that build a structured copy of
// themselves from a selector: *Entity, *Collection and *Object.
type Projector interface {
	Project(selector ...any) (any, error)
}

// Nested is a selector entry that projects the value under Key with Sub.
// Sub is the Wildcard, a key, a []string or []any of keys, or a function
// (func(Model) any or func(*Entity) any) whose result is used as is.
//
// A single-key map[string]any entry is read as a Nested entry too:
//
//	e.ToObject("name", map[string]any{"owner": []string{"id", "name"}})
type Nested struct {
	Key string
	Sub any
}

// ToObject builds a structured copy of the entity. Without a selector it
// returns the live store, not a copy. Otherwise every selector entry adds
// keys in selector order:
//
//   - the Wildcard adds every key of the store;
//   - a key adds its value, nil when absent;
//   - a Nested entry (or a single-key map) adds its key projected with Sub.
//
// A single []string or []any argument is taken as the selector list.
func (e *Entity) ToObject(selector ...any) (*Object, error) {
	if len(selector) == 0 {
		return e.Data(), nil
	}

	out := NewObject()
	for _, entry := range normalizeSelector(selector) {
		switch s := entry.(type) {
		case string:
			if s == Wildcard {
				for key, value := range e.Data().All() {
					out.Set(key, value)
				}
				continue
			}
			out.Set(s, e.GetProperty(s))
		case Nested:
			value, err := e.projectNested(s)
			if err != nil {
				return nil, err
			}
			out.Set(s.Key, value)
		case map[string]any:
			if len(s) != 1 {
				return nil, fmt.Errorf("%w: nested selector must have exactly one key, got %d", ErrShape, len(s))
			}
			for key, sub := range s {
				value, err := e.projectNested(Nested{Key: key, Sub: sub})
				if err != nil {
					return nil, err
				}
				out.Set(key, value)
			}
		default:
			return nil, fmt.Errorf("%w: selector entry %T", ErrShape, entry)
		}
	}
	return out, nil
}

// Project is ToObject behind the Projector interface.
func (e *Entity) Project(selector ...any) (any, error) {
	return e.ToObject(selector...)
}

func (e *Entity) projectNested(n Nested) (any, error) {
	switch fn := n.Sub.(type) {
	case func(Model) any:
		return fn(e.Self()), nil
	case func(*Entity) any:
		return fn(e), nil
	}

	value, err := projectValue(e.GetProperty(n.Key), []any{n.Sub})
	if err != nil {
		return nil, fmt.Errorf("project %s.%s: %w", e.Type(), n.Key, err)
	}
	return value, nil
}

// projectValue applies selector to a nested value: projectors recurse,
// sequences are projected element by element and plain maps are filtered.
func projectValue(value any, selector []any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case Projector:
		return v.Project(selector...)
	case map[string]any:
		return ObjectFromMap(v).Project(selector...)
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]any, rv.Len())
		for i := range out {
			projected, err := projectValue(rv.Index(i).Interface(), selector)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = projected
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %T cannot be projected", ErrShape, value)
}

// normalizeSelector unwraps a selector passed as a single list.
func normalizeSelector(selector []any) []any {
	if len(selector) != 1 {
		return selector
	}
	switch list := selector[0].(type) {
	case []any:
		return list
	case []string:
		out := make([]any, len(list))
		for i, key := range list {
			out[i] = key
		}
		return out
	}
	return selector
}

// selectorKeys reduces a flat selector to plain keys. all is set when the
// selector is empty or holds the Wildcard.
func selectorKeys(selector []any) (keys []string, all bool, err error) {
	selector = normalizeSelector(selector)
	if len(selector) == 0 {
		return nil, true, nil
	}
	for _, entry := range selector {
		key, ok := entry.(string)
		if !ok {
			return nil, false, fmt.Errorf("%w: selector entry %T is not a key", ErrShape, entry)
		}
		if key == Wildcard {
			all = true
			continue
		}
		keys = append(keys, key)
	}
	return keys, all, nil
}
