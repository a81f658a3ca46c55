package model

import (
	"fmt"
	"math"
	"reflect"
)

// Member reads name the way a property access would. Resolution order:
//
//  1. $-names resolve to entity state ($data, $type, $dirty, $changed,
//     $previous, $errors, $id) or to metadata annotations;
//  2. _-names resolve to internal values kept outside the store, or to a
//     declared accessor of that name;
//  3. declared members of the kind: accessors, fields, then methods, which
//     are returned as bound method values;
//  4. everything else reads the store and is nil when absent.
func (e *Entity) Member(name string) any {
	switch classify(name) {
	case nameMeta:
		v, _ := e.metaGet(name)
		return v
	case namePrivate:
		if v, ok := e.private[name]; ok {
			return v
		}
	}
	if m, ok := e.kindOf().member(name); ok {
		return e.readMember(m)
	}
	return e.GetProperty(name)
}

// Assign writes name the way a property assignment would. Declared fields
// and accessors receive the value directly; a method name falls through to
// a store write (see MethodWritePolicy); everything else goes through Set.
func (e *Entity) Assign(name string, value any) error {
	if class := classify(name); class != nameDynamic {
		return e.assignReserved(class, name, value)
	}
	if m, ok := e.kindOf().member(name); ok && m.kind != memberMethod {
		return e.writeMember(name, m, value)
	}
	return e.Set(name, value)
}

// HasMember reports whether name resolves to anything. Internal _-names are
// always reported absent.
func (e *Entity) HasMember(name string) bool {
	switch classify(name) {
	case namePrivate:
		return false
	case nameMeta:
		if _, ok := e.metaGet(name); ok {
			return true
		}
	}
	if _, ok := e.kindOf().member(name); ok {
		return true
	}
	return e.HasProperty(name)
}

// Delete removes name. Declared members and entity state cannot be deleted;
// neither can a store key that is not there.
func (e *Entity) Delete(name string) error {
	kind := e.kindOf()
	switch classify(name) {
	case nameMeta:
		if isReservedMeta(name) || !e.Meta().Delete(name) {
			return fmt.Errorf("%w: %s", ErrNotDeletable, name)
		}
		return nil
	case namePrivate:
		if _, ok := e.private[name]; !ok {
			return fmt.Errorf("%w: %s", ErrNotDeletable, name)
		}
		delete(e.private, name)
		return nil
	}
	if _, ok := kind.member(name); ok {
		return fmt.Errorf("%w: %s.%s is declared", ErrNotDeletable, kind.name, name)
	}
	if !e.DeleteProperty(name) {
		return fmt.Errorf("%w: %s has no property %s", ErrNotDeletable, kind.name, name)
	}
	return nil
}

func isReservedMeta(name string) bool {
	switch name {
	case MetaData, MetaType, MetaDirty, MetaChanged, MetaPrevious, MetaErrors, MetaID:
		return true
	}
	return false
}

func (e *Entity) metaGet(name string) (any, bool) {
	switch name {
	case MetaData:
		return e.Data(), true
	case MetaType:
		return e.Type(), true
	case MetaDirty:
		return e.Dirty(), true
	case MetaChanged:
		return e.Changed(), true
	case MetaPrevious:
		return e.Previous(), true
	case MetaErrors:
		return e.Errors(), true
	case MetaID:
		return e.Meta().ID, true
	}
	return e.Meta().Get(name)
}

func (e *Entity) assignReserved(class nameClass, name string, value any) error {
	if class == namePrivate {
		if e.private == nil {
			e.private = make(map[string]any)
		}
		e.private[name] = value
		return nil
	}
	if isReservedMeta(name) {
		return fmt.Errorf("%w: %s", ErrReadOnly, name)
	}
	e.Meta().Set(name, value)
	return nil
}

func (e *Entity) readMember(m member) any {
	self := e.Self()
	switch m.kind {
	case memberAccessor:
		if m.accessor.Get == nil {
			return nil
		}
		return m.accessor.Get(self)
	case memberField:
		return reflect.ValueOf(self).Elem().FieldByIndex(m.index).Interface()
	default:
		return reflect.ValueOf(self).MethodByName(m.goName).Interface()
	}
}

func (e *Entity) writeMember(name string, m member, value any) error {
	self := e.Self()
	switch m.kind {
	case memberAccessor:
		if m.accessor.Set == nil {
			return fmt.Errorf("%w: %s.%s has no setter", ErrReadOnly, e.Type(), name)
		}
		return m.accessor.Set(self, value)
	case memberField:
		field := reflect.ValueOf(self).Elem().FieldByIndex(m.index)
		v, err := coerce(value, field.Type())
		if err != nil {
			return fmt.Errorf("%s.%s: %w", e.Type(), name, err)
		}
		field.Set(v)
		return nil
	default:
		return fmt.Errorf("%w: %s.%s is a method", ErrReadOnly, e.Type(), name)
	}
}

// coerce converts value to typ for field writes and method arguments.
// Numeric kinds convert into each other when the value survives the
// conversion unchanged; everything else must be assignable.
func coerce(value any, typ reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(typ), nil
	}
	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(typ) {
		return v, nil
	}
	if isNumericKind(v.Kind()) && isNumericKind(typ.Kind()) {
		if converted, ok := convertNumber(v, typ); ok {
			return converted, nil
		}
		return reflect.Value{}, fmt.Errorf("%w: %v does not fit %s", ErrFieldType, value, typ)
	}
	if v.Kind() == typ.Kind() && v.Type().ConvertibleTo(typ) {
		return v.Convert(typ), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: cannot use %T as %s", ErrFieldType, value, typ)
}

// convertNumber converts v to typ, failing on overflow, truncated fractions
// and sign changes.
func convertNumber(v reflect.Value, typ reflect.Type) (reflect.Value, bool) {
	target := reflect.New(typ).Elem()
	switch {
	case v.CanInt():
		n := v.Int()
		switch {
		case target.CanInt():
			if target.OverflowInt(n) {
				return reflect.Value{}, false
			}
		case target.CanUint():
			if n < 0 || target.OverflowUint(uint64(n)) {
				return reflect.Value{}, false
			}
		}
	case v.CanUint():
		n := v.Uint()
		switch {
		case target.CanInt():
			if n > math.MaxInt64 || target.OverflowInt(int64(n)) {
				return reflect.Value{}, false
			}
		case target.CanUint():
			if target.OverflowUint(n) {
				return reflect.Value{}, false
			}
		}
	case v.CanFloat():
		f := v.Float()
		switch {
		case target.CanFloat():
			if target.OverflowFloat(f) {
				return reflect.Value{}, false
			}
		case f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f):
			return reflect.Value{}, false
		case target.CanInt():
			if f < math.MinInt64 || f >= math.MaxInt64 || target.OverflowInt(int64(f)) {
				return reflect.Value{}, false
			}
		case target.CanUint():
			if f < 0 || f >= math.MaxUint64 || target.OverflowUint(uint64(f)) {
				return reflect.Value{}, false
			}
		}
	}

	converted := v.Convert(typ)
	// float to float only loses precision, which is accepted
	if !target.CanFloat() && !converted.Convert(v.Type()).Equal(v) {
		return reflect.Value{}, false
	}
	return converted, true
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
