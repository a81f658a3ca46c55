package model

import (
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/zeusync/modelkit/internal/core/observability/log"
)

// Entity is a record with a change-tracked key/value store. Embed it in a
// struct and declare the struct with Define to add typed fields, accessors
// and methods that take priority over the store:
//
//	type Article struct {
//		model.Entity
//		Slug string
//	}
//
// The zero value is a usable plain entity without a baseline.
//
// Entity is not safe for concurrent mutation.
type Entity struct {
	kind     *Kind
	self     Model
	store    *Object
	previous *Object
	changed  *Object
	errors   []string
	meta     *Metadata
	private  map[string]any
}

// Metadata is the companion of an entity that holds everything that must
// stay out of the store: the instance identifier and $-prefixed annotations.
type Metadata struct {
	ID          uuid.UUID
	annotations *Object
}

func (m *Metadata) Get(name string) (any, bool) { return m.annotations.Lookup(name) }

func (m *Metadata) Set(name string, value any) { m.annotations.Set(name, value) }

func (m *Metadata) Delete(name string) bool { return m.annotations.Delete(name) }

// Names lists annotation names in insertion order.
func (m *Metadata) Names() []string { return m.annotations.Keys() }

// Base returns the entity itself; it is how embedding structs satisfy Model.
func (e *Entity) Base() *Entity { return e }

func (e *Entity) bind(kind *Kind, self Model) {
	e.kind = kind
	e.self = self
	e.ensure()
}

func (e *Entity) ensure() {
	if e.store == nil {
		e.store = NewObject()
	}
	if e.changed == nil {
		e.changed = NewObject()
	}
	if e.kind == nil {
		e.kind = Entities.kind
	}
	if e.self == nil {
		e.self = e
	}
}

func (e *Entity) kindOf() *Kind {
	e.ensure()
	return e.kind
}

// Self returns the outermost value bound to the entity (e.g. *Article).
func (e *Entity) Self() Model {
	e.ensure()
	return e.self
}

// Type returns the declared kind name.
func (e *Entity) Type() string { return e.kindOf().name }

// Data returns the live store. Writes made through it bypass change tracking
// and schema checks.
func (e *Entity) Data() *Object {
	e.ensure()
	return e.store
}

// Dirty reports whether any key differs from the baseline.
func (e *Entity) Dirty() bool {
	e.ensure()
	return e.changed.Len() > 0
}

// Changed returns the keys that differ from the baseline with their current
// values. A deleted key is present with a nil value.
func (e *Entity) Changed() *Object {
	e.ensure()
	return e.changed
}

// Previous returns the baseline, or nil before the first Reset.
func (e *Entity) Previous() *Object { return e.previous }

// Errors returns the messages collected by the last Validate call.
func (e *Entity) Errors() []string {
	out := make([]string, len(e.errors))
	copy(out, e.errors)
	return out
}

// Meta returns the metadata companion, creating it on first use.
func (e *Entity) Meta() *Metadata {
	if e.meta == nil {
		e.meta = &Metadata{ID: uuid.New(), annotations: NewObject()}
	}
	return e.meta
}

// Get is GetProperty.
func (e *Entity) Get(key string) any { return e.GetProperty(key) }

// GetProperty returns the stored value, or nil when absent.
func (e *Entity) GetProperty(key string) any {
	e.ensure()
	return e.store.Get(key)
}

// GetProperties returns the live store.
func (e *Entity) GetProperties() *Object { return e.Data() }

// ToJSON returns the live store; it is what MarshalJSON encodes.
func (e *Entity) ToJSON() *Object { return e.Data() }

func (e *Entity) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Data())
}

// Set writes a single key, or every key of an object:
//
//	e.Set("id", 1)
//	e.Set(model.ObjectOf("id", 1, "name", "foo"))
//
// A non-string first argument with a missing or falsy value is applied with
// SetProperties.
func (e *Entity) Set(keyOrObject any, value ...any) error {
	if len(value) > 1 {
		return fmt.Errorf("%w: Set takes at most one value, got %d", ErrShape, len(value))
	}
	var v any
	if len(value) == 1 {
		v = value[0]
	}
	if key, ok := keyOrObject.(string); ok {
		return e.SetProperty(key, v)
	}
	if !truthy(v) {
		return e.SetProperties(keyOrObject)
	}
	return fmt.Errorf("%w: key %v is not a string", ErrShape, keyOrObject)
}

// SetProperties applies SetProperty to every key of obj in order. Keys
// written before a rejected key stay written. obj may be an *Object, a
// map[string]any (applied in sorted key order) or another Model (its data).
func (e *Entity) SetProperties(obj any) error {
	var source *Object
	switch o := obj.(type) {
	case nil:
		return nil
	case *Object:
		source = o
	case map[string]any:
		source = ObjectFromMap(o)
	case Model:
		source = o.Base().Data()
	default:
		return fmt.Errorf("%w: cannot set properties from %T", ErrShape, obj)
	}
	for key, value := range source.All() {
		if err := e.SetProperty(key, value); err != nil {
			return err
		}
	}
	return nil
}

// SetProperty writes key. A declared field or accessor of the same name
// receives the value instead of the store; otherwise the kind's schema or
// definition must admit the key.
func (e *Entity) SetProperty(key string, value any) error {
	kind := e.kindOf()

	if class := classify(key); class != nameDynamic {
		return e.assignReserved(class, key, value)
	}

	if m, ok := kind.member(key); ok {
		if m.kind != memberMethod {
			return e.writeMember(key, m, value)
		}
		if kind.methodWrites == MethodWritesRejected {
			return fmt.Errorf("%w: %s.%s is a method", ErrReadOnly, kind.name, key)
		}
	}

	if err := kind.admit(key); err != nil {
		kind.log().Debug("write rejected", log.String("key", key), log.Any("value", value), log.Error(err))
		return err
	}

	e.setChanged(key, value)
	e.store.Set(key, value)
	return nil
}

// Has is HasProperty.
func (e *Entity) Has(key string) bool { return e.HasProperty(key) }

// HasProperty reports whether the store holds key.
func (e *Entity) HasProperty(key string) bool {
	e.ensure()
	return e.store.Has(key)
}

// DeleteProperty removes key from the store and reports whether it was
// there. A key the baseline holds with a non-nil value stays marked as
// changed with a nil value.
func (e *Entity) DeleteProperty(key string) bool {
	e.ensure()
	if !e.store.Delete(key) {
		return false
	}
	if e.previous.Has(key) {
		e.setChanged(key, nil)
	} else {
		e.changed.Delete(key)
	}
	return true
}

// setChanged updates the change set for key against the baseline. It does
// nothing before the first Reset.
func (e *Entity) setChanged(key string, value any) {
	if e.previous == nil {
		return
	}
	if !same(e.previous.Get(key), value) {
		e.changed.Set(key, value)
	} else {
		e.changed.Delete(key)
	}
}

// Reset makes the current store the new baseline.
func (e *Entity) Reset() {
	e.ensure()
	e.previous = e.store.Clone()
	e.changed = NewObject()
}

// Revert restores the store to the baseline, discarding uncommitted edits.
func (e *Entity) Revert() {
	e.ensure()
	if e.changed.Len() > 0 {
		e.kindOf().log().Debug("reverting entity", log.Strings("changed", e.changed.Keys()))
	}
	e.store = e.previous.Clone()
	e.changed = NewObject()
}

// Fingerprint hashes the JSON encoding of the store. Equal data yields equal
// fingerprints, so a persistence layer can skip unchanged entities.
func (e *Entity) Fingerprint() (uint64, error) {
	data, err := json.Marshal(e.Data())
	if err != nil {
		return 0, err
	}
	sum := xxhash.Sum64(data)
	e.kindOf().log().Debug("fingerprint", log.Uint64("fingerprint", sum), log.Int("bytes", len(data)))
	return sum, nil
}
