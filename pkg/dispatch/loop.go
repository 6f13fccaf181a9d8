// Package dispatch serialises form work onto a single logical thread. Field
// continuations (resolved futures, debounce fires) are posted here instead of
// running on the goroutine that produced them, which keeps the form's
// cooperative single-threaded contract intact.
package dispatch

import (
	"context"
	"errors"
	"sync"
)

// Dispatcher accepts tasks for later serial execution.
type Dispatcher interface {
	Post(fn func())
}

// Inline runs tasks immediately on the posting goroutine. It only suits hosts
// whose continuations are already produced on their own thread.
type Inline struct{}

// Post runs fn.
func (Inline) Post(fn func()) {
	if fn != nil {
		fn()
	}
}

// Loop is a FIFO task queue. It can be pumped manually with Drain (hosts that
// own their event loop, tests) or by a goroutine running Run.
type Loop struct {
	mu      sync.Mutex
	tasks   []func()
	notify  chan struct{}
	running bool
}

// New returns an empty loop.
func New() *Loop {
	return &Loop{notify: make(chan struct{}, 1)}
}

// Post enqueues fn. Safe for concurrent use.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()

	select {
	case l.notify <- struct{}{}:
	default:
	}
}

// Pending returns the number of queued tasks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks)
}

// Drain runs queued tasks, including tasks posted while draining, until the
// queue is empty. It returns how many tasks ran. Drain must not be called
// concurrently with Run.
func (l *Loop) Drain() int {
	ran := 0
	for {
		fn, ok := l.next()
		if !ok {
			return ran
		}
		fn()
		ran++
	}
}

// Wait blocks until at least one task is queued or ctx is done.
func (l *Loop) Wait(ctx context.Context) error {
	for {
		if l.Pending() > 0 {
			return nil
		}
		select {
		case <-l.notify:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Run drains the queue as tasks arrive until ctx is done. Only one Run may be
// active at a time.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return errors.New("dispatch: loop already running")
	}
	l.running = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.running = false
		l.mu.Unlock()
	}()

	for {
		l.Drain()
		select {
		case <-ctx.Done():
			return nil
		case <-l.notify:
		}
	}
}

// Do posts fn and waits for it to complete. It requires an active Run.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	l.Post(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.tasks) == 0 {
		return nil, false
	}
	fn := l.tasks[0]
	l.tasks[0] = nil
	l.tasks = l.tasks[1:]
	return fn, true
}
