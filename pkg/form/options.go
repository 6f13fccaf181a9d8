package form

import (
	"github.com/go-kit/log"
	"github.com/jonboulle/clockwork"

	"github.com/goliatone/go-formstate/pkg/dispatch"
	"github.com/goliatone/go-formstate/pkg/field"
)

// Option configures a Form.
type Option func(*Form)

// WithRender sets the host render trigger. It may be called many times per
// user action; batching is the host's concern.
func WithRender(fn func()) Option {
	return func(f *Form) {
		f.handler.Render = fn
	}
}

// WithInterceptor installs a hook that runs before every render with renders
// suppressed, so it can adjust other fields freely.
func WithInterceptor(fn func(changed field.Controller, fields field.Fields)) Option {
	return func(f *Form) {
		f.handler.Interceptor = fn
	}
}

// WithDispatcher routes async continuations to d instead of the form's own
// loop.
func WithDispatcher(d dispatch.Dispatcher) Option {
	return func(f *Form) {
		if d != nil {
			f.handler.Dispatcher = d
		}
	}
}

// WithClock overrides the clock used for debounced validation.
func WithClock(clock clockwork.Clock) Option {
	return func(f *Form) {
		if clock != nil {
			f.handler.Clock = clock
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger log.Logger) Option {
	return func(f *Form) {
		if logger != nil {
			f.handler.Logger = logger
		}
	}
}
