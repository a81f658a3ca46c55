package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeOf(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{nil, TypeUndefined},
		{"s", TypeString},
		{true, TypeBoolean},
		{1, TypeNumber},
		{uint8(1), TypeNumber},
		{1.5, TypeNumber},
		{json.Number("2"), TypeNumber},
		{func() {}, TypeFunction},
		{[]any{}, TypeObject},
		{map[string]any{}, TypeObject},
		{NewObject(), TypeObject},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TypeOf(tt.value), "%#v", tt.value)
	}
}

func TestTypeAliases(t *testing.T) {
	for alias, want := range map[string]string{
		"int": TypeNumber, "Float": TypeNumber, "bool": TypeBoolean, "func": TypeFunction, " array ": TypeArray,
	} {
		got, ok := normalizeType(alias)
		assert.True(t, ok, alias)
		assert.Equal(t, want, got, alias)
	}
	_, ok := normalizeType("date")
	assert.False(t, ok)
}

func TestSame(t *testing.T) {
	m := map[string]any{}
	s := []int{1}
	assert.True(t, same(nil, nil))
	assert.False(t, same(nil, 0))
	assert.True(t, same(1, 1))
	assert.False(t, same(1, 1.0))
	assert.True(t, same(m, m))
	assert.False(t, same(m, map[string]any{}))
	assert.True(t, same(s, s))
	assert.False(t, same(s, []int{1}))
}

func TestTruthy(t *testing.T) {
	assert.False(t, truthy(nil))
	assert.False(t, truthy(""))
	assert.False(t, truthy(0))
	assert.False(t, truthy(false))
	assert.False(t, truthy((*Object)(nil)))
	assert.True(t, truthy("x"))
	assert.True(t, truthy(1.5))
	assert.True(t, truthy(NewObject()))
}

func TestMemberName(t *testing.T) {
	for goName, want := range map[string]string{
		"GetProperty": "getProperty",
		"ID":          "id",
		"URLPath":     "urlPath",
		"ToJSON":      "toJSON",
		"X":           "x",
		"already":     "already",
	} {
		assert.Equal(t, want, memberName(goName), goName)
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, nameMeta, classify("$type"))
	assert.Equal(t, namePrivate, classify("_secret"))
	assert.Equal(t, nameDynamic, classify("name"))
	assert.Equal(t, nameDynamic, classify(""))
}
