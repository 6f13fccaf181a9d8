// Package debounce implements a cancellable delayed task: at most one call is
// pending at a time and scheduling a new one replaces the previous call.
package debounce

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/goliatone/go-formstate/pkg/dispatch"
)

// Task holds at most one scheduled call. Fired calls are posted to the
// dispatcher so they run on the owner's loop.
type Task struct {
	clock      clockwork.Clock
	dispatcher dispatch.Dispatcher

	mu      sync.Mutex
	timer   clockwork.Timer
	gen     uint64
	pending bool
}

// New returns a task using clock for timing and dispatcher for delivery. A nil
// clock falls back to the real clock.
func New(clock clockwork.Clock, dispatcher dispatch.Dispatcher) *Task {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Task{clock: clock, dispatcher: dispatcher}
}

// Schedule arms fn to run after delay, cancelling any call still pending.
func (t *Task) Schedule(delay time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	gen := t.gen
	t.pending = true
	t.timer = t.clock.AfterFunc(delay, func() {
		t.dispatcher.Post(func() {
			if !t.claim(gen) {
				return
			}
			fn()
		})
	})
}

// Cancel drops the pending call, if any, and reports whether one was pending.
// A call whose timer already fired but has not reached the loop yet is also
// dropped.
func (t *Task) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
	was := t.pending
	t.pending = false
	return was
}

// Pending reports whether a call is scheduled and not yet run or cancelled.
func (t *Task) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

func (t *Task) claim(gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen || !t.pending {
		return false
	}
	t.pending = false
	t.timer = nil
	return true
}
