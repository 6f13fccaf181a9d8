package field

import (
	"github.com/go-kit/log"
	"github.com/jonboulle/clockwork"

	"github.com/goliatone/go-formstate/pkg/counter"
	"github.com/goliatone/go-formstate/pkg/dispatch"
	"github.com/goliatone/go-formstate/pkg/tracer"
)

// Counters aggregate field flags across a form.
type Counters struct {
	Touched *counter.Counter
	Changed *counter.Counter
	Errors  *counter.Counter
}

// NewCounters returns zeroed counters.
func NewCounters() Counters {
	return Counters{
		Touched: counter.New(0),
		Changed: counter.New(0),
		Errors:  counter.New(0),
	}
}

// Reset returns every counter to its default.
func (c Counters) Reset() {
	for _, ctr := range []*counter.Counter{c.Touched, c.Changed, c.Errors} {
		if ctr != nil {
			ctr.Reset()
		}
	}
}

// Guard suppresses renders while active. It has a single writer, the form's
// loop, and is not a counting lock: Run restores the value it found.
type Guard struct {
	active bool
}

// Active reports whether renders are suppressed.
func (g *Guard) Active() bool {
	return g != nil && g.active
}

// Run calls fn with renders suppressed.
func (g *Guard) Run(fn func()) {
	if g == nil {
		fn()
		return
	}
	prev := g.active
	g.active = true
	defer func() { g.active = prev }()
	fn()
}

// Handler is the state shared by every field of one form.
type Handler struct {
	Counters Counters
	Tracer   *tracer.Tracer
	Guard    *Guard

	// Interceptor runs before every render with renders suppressed. It may
	// mutate any field.
	Interceptor func(changed Controller, fields Fields)
	Render      func()

	Dispatcher dispatch.Dispatcher
	Clock      clockwork.Clock
	Logger     log.Logger
}

// NewHandler returns a handler with fresh counters, tracer and guard. Async
// continuations and debounce fires queue on a private dispatch.Loop that the
// owner drains from its own goroutine; use Loop to reach it.
func NewHandler() *Handler {
	return &Handler{
		Counters:   NewCounters(),
		Tracer:     tracer.New(),
		Guard:      &Guard{},
		Dispatcher: dispatch.New(),
		Clock:      clockwork.NewRealClock(),
		Logger:     log.NewNopLogger(),
	}
}

// Loop returns the dispatcher when it is a dispatch.Loop.
func (h *Handler) Loop() (*dispatch.Loop, bool) {
	l, ok := h.Dispatcher.(*dispatch.Loop)
	return l, ok
}

// Dispose resets the counters and forgets every tracer token, so results of
// requests issued before the call are dropped.
func (h *Handler) Dispose() {
	h.Counters.Reset()
	if h.Tracer != nil {
		h.Tracer.Dispose()
	}
}

// RenderFor runs the interceptor once per changed field with renders
// suppressed, then the host render. It does nothing while renders are
// suppressed.
func (h *Handler) RenderFor(fields Fields, changed ...Controller) {
	if h.Guard.Active() {
		return
	}
	if h.Interceptor != nil && len(changed) > 0 {
		h.Guard.Run(func() {
			for _, c := range changed {
				h.Interceptor(c, fields)
			}
		})
	}
	if h.Render != nil {
		h.Render()
	}
}

func (h *Handler) post(fn func()) {
	if h.Dispatcher == nil {
		fn()
		return
	}
	h.Dispatcher.Post(fn)
}

func (h *Handler) logger() log.Logger {
	if h.Logger == nil {
		return log.NewNopLogger()
	}
	return h.Logger
}

func (h *Handler) fill() {
	if h.Counters.Touched == nil || h.Counters.Changed == nil || h.Counters.Errors == nil {
		h.Counters = NewCounters()
	}
	if h.Tracer == nil {
		h.Tracer = tracer.New()
	}
	if h.Guard == nil {
		h.Guard = &Guard{}
	}
	if h.Dispatcher == nil {
		h.Dispatcher = dispatch.New()
	}
	if h.Clock == nil {
		h.Clock = clockwork.NewRealClock()
	}
	if h.Logger == nil {
		h.Logger = log.NewNopLogger()
	}
}
