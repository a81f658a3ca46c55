package model

import (
	"strings"
	"unicode"
)

const (
	// MetaSigil prefixes names that address entity metadata ($type, $data, ...)
	// instead of the store.
	MetaSigil = "$"
	// PrivatePrefix prefixes internal names. They never reach the store and
	// are hidden from HasMember.
	PrivatePrefix = "_"
)

// Reserved metadata names served by the Entity itself.
const (
	MetaData     = "$data"
	MetaType     = "$type"
	MetaDirty    = "$dirty"
	MetaChanged  = "$changed"
	MetaPrevious = "$previous"
	MetaErrors   = "$errors"
	MetaID       = "$id"
)

type nameClass uint8

const (
	nameDynamic nameClass = iota
	nameMeta
	namePrivate
)

func classify(name string) nameClass {
	switch {
	case strings.HasPrefix(name, MetaSigil):
		return nameMeta
	case strings.HasPrefix(name, PrivatePrefix):
		return namePrivate
	default:
		return nameDynamic
	}
}

// entityStateMethods are Entity methods reachable only through their
// metadata names, so that common data keys like "type" or "data" stay
// available to the store.
var entityStateMethods = map[string]struct{}{
	"Base":     {},
	"Self":     {},
	"Type":     {},
	"Data":     {},
	"Dirty":    {},
	"Changed":  {},
	"Previous": {},
	"Errors":   {},
	"Meta":     {},
}

// memberName maps an exported Go identifier to its dynamic member name:
// GetProperty -> getProperty, ID -> id, URLPath -> urlPath.
func memberName(goName string) string {
	runes := []rune(goName)
	upper := 0
	for upper < len(runes) && unicode.IsUpper(runes[upper]) {
		upper++
	}
	switch {
	case upper == 0:
		return goName
	case upper == 1 || upper == len(runes):
	default:
		upper--
	}
	for i := 0; i < upper; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}
