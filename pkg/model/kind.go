package model

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/zeusync/modelkit/internal/core/observability/log"
	"go.uber.org/zap"
)

// Model is implemented by *Entity and by every struct that embeds Entity.
type Model interface {
	Base() *Entity
}

// Accessor is a computed member. Get may be nil (reads yield nil); a nil Set
// makes the member read-only.
type Accessor struct {
	Get func(m Model) any
	Set func(m Model, value any) error
}

// MethodWritePolicy decides what happens when a write targets a name that
// resolves to a declared method.
type MethodWritePolicy uint8

const (
	// MethodWritesStore treats the write as a dynamic property write.
	MethodWritesStore MethodWritePolicy = iota
	// MethodWritesRejected fails the write with ErrReadOnly.
	MethodWritesRejected
)

type memberKind uint8

const (
	memberMethod memberKind = iota
	memberField
	memberAccessor
)

type member struct {
	kind     memberKind
	goName   string
	index    []int
	accessor Accessor
}

// Kind describes a declared entity type: its name, schema and the members
// that take priority over dynamic store access.
type Kind struct {
	name         string
	typ          reflect.Type
	schema       *Schema
	definition   map[string]struct{}
	members      map[string]member
	methodWrites MethodWritePolicy
	logger       log.Log
	logOnce      sync.Once
}

// Option configures a Kind.
type Option func(*Kind)

// WithSchema attaches a validation schema. A strict schema (the default)
// also rejects writes of undeclared keys.
func WithSchema(schema *Schema) Option {
	return func(k *Kind) {
		k.schema = schema
	}
}

// WithDefinition restricts writable keys without rule-based validation.
func WithDefinition(keys ...string) Option {
	return func(k *Kind) {
		k.definition = make(map[string]struct{}, len(keys))
		for _, key := range keys {
			k.definition[key] = struct{}{}
		}
	}
}

// WithAccessor declares a computed member. Accessors win over fields and
// methods of the same name.
func WithAccessor(name string, accessor Accessor) Option {
	return func(k *Kind) {
		k.members[name] = member{kind: memberAccessor, goName: name, accessor: accessor}
	}
}

// WithMethodWrites sets the policy for writes to method names.
func WithMethodWrites(policy MethodWritePolicy) Option {
	return func(k *Kind) {
		k.methodWrites = policy
	}
}

// WithZap routes the kind's debug logging to logger.
func WithZap(logger *zap.Logger) Option {
	return func(k *Kind) {
		k.logger = log.FromZap(logger)
	}
}

func newKind(name string, typ reflect.Type, opts ...Option) *Kind {
	if typ.Kind() != reflect.Pointer || typ.Elem().Kind() != reflect.Struct {
		panic(fmt.Sprintf("model: kind %q must be a pointer to a struct, got %s", name, typ))
	}
	if name == "" {
		name = typ.Elem().Name()
	}

	k := &Kind{
		name:    name,
		typ:     typ,
		members: make(map[string]member),
	}
	k.discover()

	for _, opt := range opts {
		opt(k)
	}
	return k
}

// discover records the exported methods and fields of the kind's type.
func (k *Kind) discover() {
	for i := 0; i < k.typ.NumMethod(); i++ {
		m := k.typ.Method(i)
		if _, hidden := entityStateMethods[m.Name]; hidden {
			continue
		}
		k.members[memberName(m.Name)] = member{kind: memberMethod, goName: m.Name}
	}

	elem := k.typ.Elem()
	for i := 0; i < elem.NumField(); i++ {
		field := elem.Field(i)
		if field.Anonymous || !field.IsExported() {
			continue
		}
		name := memberName(field.Name)
		if tag, ok := field.Tag.Lookup("model"); ok {
			tag = strings.TrimSpace(strings.Split(tag, ",")[0])
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		k.members[name] = member{kind: memberField, goName: field.Name, index: field.Index}
	}
}

func (k *Kind) Name() string { return k.name }

func (k *Kind) Schema() *Schema { return k.schema }

// Type returns the Go type bound to the kind.
func (k *Kind) Type() reflect.Type { return k.typ }

// Members lists the declared member names.
func (k *Kind) Members() []string {
	names := make([]string, 0, len(k.members))
	for name := range k.members {
		names = append(names, name)
	}
	return names
}

func (k *Kind) member(name string) (member, bool) {
	if k == nil {
		return member{}, false
	}
	m, ok := k.members[name]
	return m, ok
}

// HasMethod reports whether name resolves to a declared method.
func (k *Kind) HasMethod(name string) bool {
	m, ok := k.member(name)
	return ok && m.kind == memberMethod
}

// admit checks whether key may be written into the store.
func (k *Kind) admit(key string) *SchemaError {
	if k.definition != nil {
		if _, ok := k.definition[key]; !ok {
			return definitionError(k.name, key)
		}
	}
	if k.schema != nil && !k.schema.Lenient {
		if _, ok := k.schema.Rules[key]; !ok {
			return strictSchemaError(k.name, key)
		}
	}
	return nil
}

// log is shared by every entity of the kind, possibly across goroutines.
func (k *Kind) log() log.Log {
	k.logOnce.Do(func() {
		if k.logger == nil {
			k.logger = log.Provide().With(log.String("kind", k.name))
		}
	})
	return k.logger
}

// Class is the typed handle of a Kind: it constructs entities of T and
// collections bound to the kind.
type Class[T Model] struct {
	kind *Kind
}

// Define declares an entity kind for T, a pointer to a struct embedding
// Entity. An empty name uses the struct's type name.
//
//	type Article struct{ model.Entity }
//
//	var Articles = model.Define[*Article]("Article", model.WithSchema(schema))
func Define[T Model](name string, opts ...Option) *Class[T] {
	typ := reflect.TypeFor[T]()
	return &Class[T]{kind: newKind(name, typ, opts...)}
}

func (c *Class[T]) Kind() *Kind { return c.kind }

func (c *Class[T]) Name() string { return c.kind.name }

// New builds an entity of the kind, routes every key of data through
// SetProperty and captures the baseline.
func (c *Class[T]) New(data any) (T, error) {
	instance := reflect.New(c.kind.typ.Elem()).Interface().(T)
	e := instance.Base()
	e.bind(c.kind, instance)

	if data != nil {
		if err := e.SetProperties(data); err != nil {
			var zero T
			return zero, err
		}
	}
	e.Reset()
	return instance, nil
}

// MustNew is New for data known to be valid. It panics on error.
func (c *Class[T]) MustNew(data any) T {
	instance, err := c.New(data)
	if err != nil {
		panic(err)
	}
	return instance
}

// Collection builds a collection bound to the kind.
func (c *Class[T]) Collection(items ...T) *Collection[T] {
	return NewCollection(c.kind, items...)
}

// Entities is the kind of plain entities.
var Entities = Define[*Entity]("Model")

// New builds a plain entity from data.
func New(data any) (*Entity, error) {
	return Entities.New(data)
}

// MustNew is New that panics on error.
func MustNew(data any) *Entity {
	return Entities.MustNew(data)
}
