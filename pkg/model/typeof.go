package model

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Type tags reported by TypeOf and accepted by schema rules.
const (
	TypeString    = "string"
	TypeNumber    = "number"
	TypeBoolean   = "boolean"
	TypeObject    = "object"
	TypeFunction  = "function"
	TypeUndefined = "undefined"
	TypeArray     = "array"
)

var typeAliases = map[string]string{
	"string":    TypeString,
	"number":    TypeNumber,
	"int":       TypeNumber,
	"float":     TypeNumber,
	"boolean":   TypeBoolean,
	"bool":      TypeBoolean,
	"object":    TypeObject,
	"function":  TypeFunction,
	"func":      TypeFunction,
	"undefined": TypeUndefined,
	"array":     TypeArray,
}

// TypeOf returns the run-time type tag of value. Nil is "undefined"; maps,
// structs, pointers and sequences are all "object".
func TypeOf(value any) string {
	switch value.(type) {
	case nil:
		return TypeUndefined
	case string:
		return TypeString
	case bool:
		return TypeBoolean
	case json.Number:
		return TypeNumber
	}

	switch reflect.TypeOf(value).Kind() {
	case reflect.String:
		return TypeString
	case reflect.Bool:
		return TypeBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return TypeNumber
	case reflect.Func:
		return TypeFunction
	default:
		return TypeObject
	}
}

// normalizeType resolves a rule type name to its canonical tag.
func normalizeType(name string) (string, bool) {
	tag, ok := typeAliases[strings.ToLower(strings.TrimSpace(name))]
	return tag, ok
}

func matchesType(value any, tag string) bool {
	if tag == TypeArray {
		return isSequence(value)
	}
	return TypeOf(value) == tag
}

func isSequence(value any) bool {
	if value == nil {
		return false
	}
	if _, ok := value.(sequenced); ok {
		return true
	}
	kind := reflect.TypeOf(value).Kind()
	return kind == reflect.Slice || kind == reflect.Array
}

// same is strict identity: primitives compare by value, maps, slices,
// functions and pointers by reference.
func same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Map, reflect.Func, reflect.Pointer, reflect.UnsafePointer, reflect.Chan:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}
	if va.Comparable() && vb.Comparable() {
		return va.Equal(vb)
	}
	return false
}

// truthy mirrors the loose truthiness used by the Set overload.
func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && f == f
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return !rv.IsNil()
	}
	return true
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return TypeUndefined
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprintf("%v", value)
}
