package model

import (
	"context"
	"fmt"

	"github.com/zeusync/modelkit/pkg/concurrent"
)

// Awaitable is a result that becomes available later. Entity methods may
// return one; collections broadcasting such methods aggregate them.
type Awaitable interface {
	Await(ctx context.Context) (any, error)
}

// Promise is an Awaitable settled exactly once by a background function.
type Promise struct {
	done  chan struct{}
	value any
	err   error
}

var _ Awaitable = (*Promise)(nil)

// Async runs fn in its own goroutine. A panic in fn rejects the promise.
func Async(fn func() (any, error)) *Promise {
	p := &Promise{done: make(chan struct{})}
	go func() {
		defer close(p.done)
		defer func() {
			if r := recover(); r != nil {
				p.value, p.err = nil, fmt.Errorf("async call panicked: %v", r)
			}
		}()
		p.value, p.err = fn()
	}()
	return p
}

// Resolved returns a promise already settled with value.
func Resolved(value any) *Promise {
	p := &Promise{done: make(chan struct{}), value: value}
	close(p.done)
	return p
}

// Rejected returns a promise already settled with err.
func Rejected(err error) *Promise {
	p := &Promise{done: make(chan struct{}), err: err}
	close(p.done)
	return p
}

// All settles with the values of every element in order once all of them
// have settled. Elements that are not Awaitable are taken as they are. The
// first rejection is reported, but every element still runs to completion.
func All(values []any) *Promise {
	return Async(func() (any, error) {
		return concurrent.MapAsync(context.Background(), values, func(ctx context.Context, _ int, v any) (any, error) {
			return Await(ctx, v)
		})
	})
}

// Await blocks until the promise settles or ctx is done. Giving up on ctx
// does not stop the background function.
func (p *Promise) Await(ctx context.Context) (any, error) {
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Done is closed once the promise has settled.
func (p *Promise) Done() <-chan struct{} { return p.done }

// Await resolves value when it is Awaitable and returns it unchanged
// otherwise.
func Await(ctx context.Context, value any) (any, error) {
	if a, ok := value.(Awaitable); ok {
		return a.Await(ctx)
	}
	return value, nil
}
