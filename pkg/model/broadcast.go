package model

import (
	"context"
	"fmt"
	"reflect"

	"github.com/zeusync/modelkit/internal/core/observability/log"
	"github.com/zeusync/modelkit/pkg/concurrent"
)

// Dispatcher calls a kind method on every item of a collection. See Invoke.
type Dispatcher func(args ...any) (any, error)

var errorType = reflect.TypeFor[error]()

// Resolve looks name up the way a member access on the collection would:
//
//  1. a method of the collection itself (len, filter, ...) is returned as a
//     bound method value;
//  2. a method declared by the kind is returned as a Dispatcher;
//  3. a field or accessor declared by the kind is read from every item and
//     returned as []any;
//  4. anything else is nil.
//
// Only declared members fan out. A key that lives in the items' stores
// without a declaration resolves to nil; read it with Pluck.
func (c *Collection[T]) Resolve(name string) any {
	if fn, ok := c.ownMethod(name); ok {
		return fn.Interface()
	}

	m, ok := c.kind.member(name)
	if !ok {
		return nil
	}
	if m.kind == memberMethod {
		return Dispatcher(func(args ...any) (any, error) {
			return c.Invoke(name, args...)
		})
	}
	return c.Pluck(name)
}

func (c *Collection[T]) ownMethod(name string) (reflect.Value, bool) {
	rv := reflect.ValueOf(c)
	typ := rv.Type()
	for i := 0; i < typ.NumMethod(); i++ {
		if memberName(typ.Method(i).Name) == name {
			return rv.Method(i), true
		}
	}
	return reflect.Value{}, false
}

// Invoke calls the kind method name on every item, in index order, with
// args. It returns the results as []any. When any result is Awaitable the
// return value is a *Promise of that slice instead, settled once every
// result has settled.
//
// A method returning (R, error) contributes R; its error stops the
// broadcast and is returned.
func (c *Collection[T]) Invoke(name string, args ...any) (any, error) {
	m, ok := c.kind.member(name)
	if !ok || m.kind != memberMethod {
		return nil, fmt.Errorf("%w: %s has no method %s", ErrNotCallable, c.kindName(), name)
	}

	results := make([]any, len(c.items))
	async := false
	for i, item := range c.items {
		rv := reflect.ValueOf(item)
		if isNil(rv) {
			return nil, fmt.Errorf("%w: item %d is nil", ErrNotCallable, i)
		}
		fn := rv.MethodByName(m.goName)
		if !fn.IsValid() {
			return nil, fmt.Errorf("%w: item %d (%T) has no method %s", ErrNotCallable, i, item, m.goName)
		}
		result, err := call(fn, args)
		if err != nil {
			return nil, fmt.Errorf("%s.%s on item %d: %w", c.kindName(), name, i, err)
		}
		if _, ok := result.(Awaitable); ok {
			async = true
		}
		results[i] = result
	}

	c.log().Debug("broadcast",
		log.String("method", name),
		log.Int("items", len(results)),
		log.Bool("async", async),
	)

	if async {
		return All(results), nil
	}
	return results, nil
}

// Pluck reads name from every item. Models resolve it with Member, Objects
// with Get; nil and other items yield nil.
func (c *Collection[T]) Pluck(name string) []any {
	out := make([]any, len(c.items))
	for i, item := range c.items {
		if isNil(reflect.ValueOf(item)) {
			continue
		}
		switch v := any(item).(type) {
		case Model:
			out[i] = v.Base().Member(name)
		case *Object:
			out[i] = v.Get(name)
		}
	}
	return out
}

func isNil(rv reflect.Value) bool {
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func (c *Collection[T]) kindName() string {
	if c.kind == nil {
		return "Collection"
	}
	return c.kind.name
}

func (c *Collection[T]) log() log.Log {
	if c.kind == nil {
		return log.Provide()
	}
	return c.kind.log()
}

// MapAsync runs fn for every item concurrently and returns the results in
// order. Every call runs to completion; the first error is returned.
func MapAsync[T, R any](ctx context.Context, c *Collection[T], fn func(context.Context, T) (R, error)) ([]R, error) {
	return concurrent.MapAsync(ctx, c.items, func(ctx context.Context, _ int, item T) (R, error) {
		return fn(ctx, item)
	})
}

// call invokes fn with args converted to its parameter types.
func call(fn reflect.Value, args []any) (any, error) {
	typ := fn.Type()
	fixed := typ.NumIn()
	if typ.IsVariadic() {
		fixed--
		if len(args) < fixed {
			return nil, fmt.Errorf("%w: want at least %d arguments, got %d", ErrShape, fixed, len(args))
		}
	} else if len(args) != fixed {
		return nil, fmt.Errorf("%w: want %d arguments, got %d", ErrShape, fixed, len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		param := typ.In(min(i, typ.NumIn()-1))
		if typ.IsVariadic() && i >= fixed {
			param = typ.In(fixed).Elem()
		}
		v, err := coerce(arg, param)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		in[i] = v
	}
	return returnValues(fn.Call(in))
}

// returnValues folds a call's return values: a trailing error is split off, a
// single value is returned as is and several values become []any.
func returnValues(out []reflect.Value) (any, error) {
	if n := len(out); n > 0 && out[n-1].Type() == errorType {
		if !out[n-1].IsNil() {
			return nil, out[n-1].Interface().(error)
		}
		out = out[:n-1]
	}
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return out[0].Interface(), nil
	}
	values := make([]any, len(out))
	for i, v := range out {
		values[i] = v.Interface()
	}
	return values, nil
}
