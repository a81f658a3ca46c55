package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKeepsInsertionOrder(t *testing.T) {
	o := NewObject()
	o.Set("b", 1)
	o.Set("a", 2)
	o.Set("b", 3)

	assert.Equal(t, []string{"b", "a"}, o.Keys())
	assert.Equal(t, 3, o.Get("b"))

	require.True(t, o.Delete("b"))
	assert.False(t, o.Delete("b"))
	o.Set("b", 4)
	assert.Equal(t, []string{"a", "b"}, o.Keys())
}

func TestObjectNilValuesArePresent(t *testing.T) {
	o := ObjectOf("a", nil)
	v, ok := o.Lookup("a")
	assert.True(t, ok)
	assert.Nil(t, v)
	assert.True(t, o.Has("a"))
	assert.False(t, o.Has("b"))
}

func TestNilObjectReads(t *testing.T) {
	var o *Object
	assert.Nil(t, o.Get("a"))
	assert.False(t, o.Has("a"))
	assert.Equal(t, 0, o.Len())
	assert.Empty(t, o.Keys())
	assert.Equal(t, 0, o.Clone().Len())

	data, err := json.Marshal(o)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestObjectCloneIsShallow(t *testing.T) {
	inner := map[string]any{"x": 1}
	o := ObjectOf("inner", inner, "n", 1)
	c := o.Clone()

	c.Set("n", 2)
	assert.Equal(t, 1, o.Get("n"))
	assert.True(t, same(o.Get("inner"), c.Get("inner")))
}

func TestObjectFromMapSortsKeys(t *testing.T) {
	o := ObjectFromMap(map[string]any{"c": 3, "a": 1, "b": 2})
	assert.Equal(t, []string{"a", "b", "c"}, o.Keys())
	assert.Equal(t, map[string]any{"a": 1, "b": 2, "c": 3}, o.ToMap())
}

func TestObjectOfPanicsOnBadPairs(t *testing.T) {
	assert.Panics(t, func() { ObjectOf("a") })
	assert.Panics(t, func() { ObjectOf(1, "a") })
}

func TestObjectJSON(t *testing.T) {
	o := ObjectOf("z", 1, "a", ObjectOf("y", true, "b", []any{"x"}))

	data, err := json.Marshal(o)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":{"y":true,"b":["x"]}}`, string(data))

	var decoded Object
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []string{"z", "a"}, decoded.Keys())
	assert.Equal(t, float64(1), decoded.Get("z"))

	nested, ok := decoded.Get("a").(*Object)
	require.True(t, ok)
	assert.Equal(t, []string{"y", "b"}, nested.Keys())
	assert.Equal(t, []any{"x"}, nested.Get("b"))

	again, err := json.Marshal(&decoded)
	require.NoError(t, err)
	assert.Equal(t, data, again)

	assert.ErrorIs(t, json.Unmarshal([]byte(`[1]`), &decoded), ErrShape)
}

func TestObjectProject(t *testing.T) {
	o := ObjectOf("name", "foo", "value", 10)

	all, err := o.Project(Wildcard)
	require.NoError(t, err)
	assert.Equal(t, o, all)

	some, err := o.Project("value", "missing")
	require.NoError(t, err)
	assert.Equal(t, ObjectOf("value", 10, "missing", nil), some)

	_, err = o.Project(1)
	assert.ErrorIs(t, err, ErrShape)
}

func TestObjectAllStopsEarly(t *testing.T) {
	o := ObjectOf("a", 1, "b", 2, "c", 3)
	var seen []string
	for k := range o.All() {
		seen = append(seen, k)
		if k == "b" {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, seen)

	o.Clear()
	assert.Equal(t, 0, o.Len())
}
