package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func projectJSON(t *testing.T, e *Entity, selector ...any) string {
	t.Helper()
	out, err := e.ToObject(selector...)
	require.NoError(t, err)
	data, err := json.Marshal(out)
	require.NoError(t, err)
	return string(data)
}

func TestToObjectWithoutSelectorIsLiveStore(t *testing.T) {
	empty := MustNew(nil)
	assert.JSONEq(t, `{}`, projectJSON(t, empty))

	e := MustNew(ObjectOf("name", "foo"))
	out, err := e.ToObject()
	require.NoError(t, err)
	assert.Same(t, e.Data(), out)
}

func TestToObjectKeys(t *testing.T) {
	e := MustNew(ObjectOf("name", "foo", "value", 10))

	assert.Equal(t, `{"name":"foo","value":10}`, projectJSON(t, e, Wildcard))
	assert.Equal(t, `{"name":"foo"}`, projectJSON(t, e, "name"))
	assert.Equal(t, `{"name":"foo","value":10}`, projectJSON(t, e, []string{"name", "value"}))
	assert.Equal(t, `{"value":10,"name":"foo"}`, projectJSON(t, e, "value", "name"))
	assert.Equal(t, `{"missing":null}`, projectJSON(t, e, "missing"))
}

func TestToObjectNestedEntity(t *testing.T) {
	foo := MustNew(ObjectOf("name", "foo"))
	bar := MustNew(ObjectOf("name", "bar"))
	require.NoError(t, foo.Assign("bar", bar))

	assert.Equal(t, `{"name":"foo","bar":{"name":"bar"}}`,
		projectJSON(t, foo, []any{"name", map[string]any{"bar": Wildcard}}))
	assert.Equal(t, `{"name":"foo","bar":{"name":"bar"}}`,
		projectJSON(t, foo, "name", Nested{Key: "bar", Sub: "name"}))
}

func TestToObjectNestedCollection(t *testing.T) {
	foo := MustNew(ObjectOf("name", "foo"))
	bar := MustNew(ObjectOf("name", "bar", "value", 1))
	baz := MustNew(ObjectOf("name", "baz", "value", 2))
	require.NoError(t, foo.Assign("nested", Entities.Collection(bar, baz)))

	assert.Equal(t, `{"name":"foo","nested":[{"name":"bar","value":1},{"name":"baz","value":2}]}`,
		projectJSON(t, foo, []any{"name", "nested"}))
	assert.Equal(t, `{"name":"foo","nested":[{"name":"bar","value":1},{"name":"baz","value":2}]}`,
		projectJSON(t, foo, []any{"name", map[string]any{"nested": Wildcard}}))
	assert.Equal(t, `{"name":"foo","nested":[{"name":"bar"},{"name":"baz"}]}`,
		projectJSON(t, foo, []any{"name", map[string]any{"nested": "name"}}))
}

func TestToObjectNestedMaps(t *testing.T) {
	foo := MustNew(ObjectOf(
		"name", "foo",
		"bar", map[string]any{"name": "bar", "value": 10},
	))

	assert.Equal(t, `{"name":"foo","bar":{"name":"bar"}}`,
		projectJSON(t, foo, []any{"name", map[string]any{"bar": "name"}}))
	assert.Equal(t, `{"name":"foo","bar":{"name":"bar","value":10}}`,
		projectJSON(t, foo, []any{"name", map[string]any{"bar": []string{"name", "value"}}}))
}

func TestToObjectNestedSequences(t *testing.T) {
	foo := MustNew(ObjectOf(
		"name", "foo",
		"nested", []any{
			map[string]any{"name": "bar", "value": 10},
			map[string]any{"name": "baz", "value": 10},
		},
	))

	assert.JSONEq(t, `{"name":"foo","nested":[{"name":"bar","value":10},{"name":"baz","value":10}]}`,
		projectJSON(t, foo, []any{"name", "nested"}))
	assert.Equal(t, `{"name":"foo","nested":[{"name":"bar","value":10},{"name":"baz","value":10}]}`,
		projectJSON(t, foo, []any{"name", map[string]any{"nested": []any{"name", "value"}}}))
	assert.Equal(t, `{"name":"foo","nested":[{"name":"bar"},{"name":"baz"}]}`,
		projectJSON(t, foo, []any{"name", map[string]any{"nested": "name"}}))
}

func TestToObjectCallback(t *testing.T) {
	foo := MustNew(ObjectOf("name", "foo"))
	bar := MustNew(ObjectOf("name", "bar", "foo", foo))

	out := projectJSON(t, bar, []any{"name", map[string]any{
		"foo": func(m Model) any {
			return m.Base().Get("foo").(*Entity).Get("name")
		},
	}})
	assert.Equal(t, `{"name":"bar","foo":"foo"}`, out)

	out = projectJSON(t, bar, "name", Nested{Key: "label", Sub: func(e *Entity) any {
		return "entity " + e.Get("name").(string)
	}})
	assert.Equal(t, `{"name":"bar","label":"entity bar"}`, out)
}

func TestToObjectDoesNotTouchStore(t *testing.T) {
	nested := map[string]any{"name": "bar", "value": 10}
	foo := MustNew(ObjectOf("name", "foo", "bar", nested))

	out, err := foo.ToObject("name", map[string]any{"bar": "name"})
	require.NoError(t, err)
	out.Set("extra", true)

	assert.False(t, foo.Has("extra"))
	assert.Equal(t, map[string]any{"name": "bar", "value": 10}, foo.Get("bar"))
	assert.False(t, foo.Dirty())
}

func TestToObjectShapeErrors(t *testing.T) {
	foo := MustNew(ObjectOf("name", "foo", "count", 3))

	_, err := foo.ToObject(42)
	assert.ErrorIs(t, err, ErrShape)

	_, err = foo.ToObject(map[string]any{"a": "*", "b": "*"})
	assert.ErrorIs(t, err, ErrShape)

	_, err = foo.ToObject(map[string]any{"count": "*"})
	assert.ErrorIs(t, err, ErrShape)

	assert.Equal(t, ObjectOf("name", "foo", "count", 3), foo.Data())
}
