// Package async provides a single-assignment future used to hand pending
// validation results and props to a field. Resolution callbacks run on the
// resolving goroutine; fields re-post them onto their form's loop.
package async

import (
	"context"
	"sync"
)

// Future is a value that becomes available once. The zero value is not
// usable; create futures with New, Resolved or Go.
type Future[T any] struct {
	mu        sync.Mutex
	done      chan struct{}
	value     T
	resolved  bool
	callbacks []func(T)
}

// New returns a pending future and the function that resolves it. Only the
// first call to resolve has an effect.
func New[T any]() (*Future[T], func(T)) {
	f := &Future[T]{done: make(chan struct{})}
	return f, f.resolve
}

// Resolved returns a future that already holds v.
func Resolved[T any](v T) *Future[T] {
	f, resolve := New[T]()
	resolve(v)
	return f
}

// Go runs fn on a new goroutine and resolves the future with its result.
func Go[T any](ctx context.Context, fn func(context.Context) T) *Future[T] {
	f, resolve := New[T]()
	go func() {
		resolve(fn(ctx))
	}()
	return f
}

func (f *Future[T]) resolve(v T) {
	f.mu.Lock()
	if f.resolved {
		f.mu.Unlock()
		return
	}
	f.value = v
	f.resolved = true
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.mu.Unlock()

	for _, cb := range callbacks {
		cb(v)
	}
}

// Then registers cb to receive the value. When the future is already resolved
// cb runs immediately on the caller's goroutine.
func (f *Future[T]) Then(cb func(T)) {
	if cb == nil {
		return
	}
	f.mu.Lock()
	if !f.resolved {
		f.callbacks = append(f.callbacks, cb)
		f.mu.Unlock()
		return
	}
	v := f.value
	f.mu.Unlock()
	cb(v)
}

// Done returns a channel closed on resolution.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Resolved reports whether the value is available.
func (f *Future[T]) Resolved() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resolved
}

// Await blocks until the value is available or ctx is done.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.value, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
