package field

import (
	"fmt"
	"maps"
	"reflect"

	"github.com/go-kit/log/level"

	"github.com/goliatone/go-formstate/pkg/async"
	"github.com/goliatone/go-formstate/pkg/debounce"
	"github.com/goliatone/go-formstate/pkg/tracer"
)

// Field tracks the state of one form input. Methods must be called from the
// form's loop.
type Field[T any] struct {
	key     string
	handler *Handler
	fields  Fields

	defaultValue T
	initialProps Props
	props        Props
	equal        func(a, b T) bool

	validate        Validate[T]
	validateEnabled bool
	validator       validator[T]
	mask            Mask[T]
	maskEnabled     bool

	value         T
	touched       bool
	changed       bool
	valid         bool
	errors        error
	lastValidated T
	hasValidated  bool
	loading       Loading
	phase         Phase
	prev          *State[T]

	debounce        *debounce.Task
	pendingValidate *tracer.Token
}

// New builds a field. The mask is applied to the default value, so a masked
// field starts unchanged. A nil handler gets a private one, see NewHandler,
// and a nil fields view is treated as empty.
func New[T any](key string, def Def[T], mutators Mutators[T], h *Handler, fields Fields) *Field[T] {
	if h == nil {
		h = NewHandler()
	}
	h.fill()
	if fields == nil {
		fields = NewRegistry()
	}

	f := &Field[T]{
		key:          key,
		handler:      h,
		fields:       fields,
		defaultValue: def.Default,
		initialProps: maps.Clone(def.Props),
		props:        maps.Clone(def.Props),
		value:        def.Default,
		valid:        true,
		phase:        PhaseReady,
		debounce:     debounce.New(h.Clock, h.Dispatcher),
	}
	if f.props == nil {
		f.props = Props{}
	}
	f.SetEqual(mutators.Equal)
	f.setValidate(mutators.Validate)
	f.mask = mutators.Mask
	f.maskEnabled = mutators.Mask.Enabled()

	if f.maskEnabled {
		f.value = f.mask.Apply(f.value, f.fields)
		f.defaultValue = f.value
	}
	return f
}

func (f *Field[T]) Key() string { return f.key }

func (f *Field[T]) Value() T { return f.value }

func (f *Field[T]) DefaultValue() T { return f.defaultValue }

func (f *Field[T]) Phase() Phase { return f.phase }

func (f *Field[T]) Touched() bool { return f.touched }

func (f *Field[T]) Changed() bool { return f.changed }

func (f *Field[T]) Valid() bool { return f.valid }

// Errors returns the validation payload, nil when valid.
func (f *Field[T]) Errors() error { return f.errors }

func (f *Field[T]) Loading() Loading { return f.loading }

func (f *Field[T]) Props() Props { return f.props }

// LastValidated returns the value of the last committed validation. The bool
// is false until a validation has been committed.
func (f *Field[T]) LastValidated() (T, bool) {
	return f.lastValidated, f.hasValidated
}

// State returns a snapshot of the current state.
func (f *Field[T]) State() State[T] {
	return State[T]{
		Phase:         f.phase,
		Value:         f.value,
		Touched:       f.touched,
		Changed:       f.changed,
		Valid:         f.valid,
		Errors:        f.errors,
		LastValidated: f.lastValidated,
		HasValidated:  f.hasValidated,
		Loading:       f.loading,
	}
}

// PrevState returns the snapshot taken before the last effective Set or
// Reset.
func (f *Field[T]) PrevState() (State[T], bool) {
	if f.prev == nil {
		return State[T]{}, false
	}
	return *f.prev, true
}

// Any returns the value as an interface.
func (f *Field[T]) Any() any { return f.value }

// DefaultAny returns the default value as an interface.
func (f *Field[T]) DefaultAny() any { return f.defaultValue }

// SetAny stores value when it holds a T. A nil value stores the zero T.
func (f *Field[T]) SetAny(value any) error {
	if value == nil {
		var zero T
		f.Set(zero)
		return nil
	}
	typed, ok := value.(T)
	if !ok {
		return fmt.Errorf("%w: field %q holds %s, got %T",
			ErrValueType, f.key, reflect.TypeFor[T](), value)
	}
	f.Set(typed)
	return nil
}

// Set stores value. Equal values are ignored.
func (f *Field[T]) Set(value T) {
	if f.equal(f.value, value) {
		return
	}
	f.snapshot()

	if !f.touched {
		f.handler.Counters.Touched.Increment()
		f.touched = true
	}
	f.value = value
	f.syncChanged()
	f.afterChange()
}

// Reset restores the default value and clears the touched and changed flags.
func (f *Field[T]) Reset() {
	if f.equal(f.defaultValue, f.value) {
		return
	}
	f.snapshot()

	if f.touched {
		f.handler.Counters.Touched.Decrement()
		f.touched = false
	}
	if f.changed {
		f.handler.Counters.Changed.Decrement()
		f.changed = false
	}
	f.value = f.defaultValue
	f.afterChange()
}

func (f *Field[T]) afterChange() {
	if f.validate.OnChange {
		f.ValidateDebounced()
	}
	f.Mask()
	f.Render()
}

func (f *Field[T]) snapshot() {
	s := f.State()
	f.prev = &s
}

func (f *Field[T]) syncChanged() {
	changed := !f.equal(f.defaultValue, f.value)
	if changed == f.changed {
		return
	}
	f.handler.Counters.Changed.FromBool(changed)
	f.changed = changed
}

func (f *Field[T]) syncPhase() {
	f.phase = phaseOf(f.loading)
}

// SetProps replaces the props and renders, even when nothing changed.
func (f *Field[T]) SetProps(props Props) {
	f.props = props
	f.Render()
}

// UpdateProps replaces the props with fn(current). Returning the current map
// itself cancels the update without rendering.
func (f *Field[T]) UpdateProps(fn func(Props) Props) {
	if fn == nil {
		return
	}
	next := fn(f.props)
	if sameProps(next, f.props) {
		return
	}
	f.props = next
	f.Render()
}

// ResetProps restores the props the field was defined with.
func (f *Field[T]) ResetProps() {
	props := maps.Clone(f.initialProps)
	if props == nil {
		props = Props{}
	}
	f.SetProps(props)
}

// SetPropsAsync resolves props from fut. The field is loading until the most
// recent request resolves; superseded results are dropped. A result equal to
// the current props clears the loading flag without rendering.
func (f *Field[T]) SetPropsAsync(fut *async.Future[Props]) {
	if fut == nil {
		return
	}
	if !f.loading.Props {
		f.loading.Props = true
		f.syncPhase()
		f.Render()
	}

	traceKey := f.key + ":props"
	tok := f.handler.Tracer.Set(traceKey)

	fut.Then(func(props Props) {
		f.handler.post(func() {
			if !f.handler.Tracer.Is(traceKey, tok) {
				level.Debug(f.handler.logger()).Log("msg", "dropping stale props", "field", f.key, "token", tok.ID())
				return
			}
			if sameProps(props, f.props) {
				f.loading.Props = false
				f.syncPhase()
				return
			}
			f.props = props
			f.loading.Props = false
			f.syncPhase()
			f.Render()
		})
	})
}

// SetValidate replaces the validate descriptor. OnInit only applies to the
// call itself: when set, a forced validation runs right away.
func (f *Field[T]) SetValidate(v Validate[T]) {
	runNow := v.OnInit
	v.OnInit = false
	f.setValidate(v)
	if runNow {
		f.Validate(true)
	}
}

func (f *Field[T]) setValidate(v Validate[T]) {
	f.validate = v
	f.validateEnabled = v.Enabled()
	f.validator = newValidator(v)
}

// SetMask replaces the mask descriptor and applies it to the current value.
func (f *Field[T]) SetMask(m Mask[T]) {
	f.mask = m
	f.maskEnabled = m.Enabled()
	f.Mask()
}

// SetEqual replaces the comparer. Nil restores Identity.
func (f *Field[T]) SetEqual(fn func(a, b T) bool) {
	if fn == nil {
		fn = Identity[T]
	}
	f.equal = fn
}

// ValidateEnabled reports whether validation runs without being forced.
func (f *Field[T]) ValidateEnabled() bool { return f.validateEnabled }

// ValidateOnInit reports whether the form should validate this field once
// it is built.
func (f *Field[T]) ValidateOnInit() bool { return f.validate.OnInit }

// SetErrors commits a validation result. Empty payloads count as valid.
func (f *Field[T]) SetErrors(err error) {
	err = normalizeErr(err)
	if err == nil && f.valid && !f.loading.Validate {
		return
	}

	prevValid := f.valid
	f.errors = err
	f.valid = err == nil
	f.lastValidated = f.value
	f.hasValidated = true
	f.loading.Validate = false
	f.syncPhase()

	if prevValid != f.valid {
		f.handler.Counters.Errors.FromBool(!f.valid)
	}
	f.Render()
}

// Validate runs the configured validator. Without force it is skipped when
// validation is disabled or the value was already validated. With no
// validator configured it never runs.
func (f *Field[T]) Validate(force bool) {
	if f.validator == nil {
		return
	}
	if !force && (!f.validateEnabled || (f.hasValidated && f.equal(f.lastValidated, f.value))) {
		return
	}

	out := f.validator.validate(f)
	if out.pending == nil {
		f.SetErrors(out.err)
		return
	}
	f.awaitValidation(out.pending)
}

func (f *Field[T]) awaitValidation(fut *async.Future[error]) {
	if !f.loading.Validate {
		f.loading.Validate = true
		f.syncPhase()
		f.Render()
	}

	traceKey := f.key + ":validate"
	tok := f.handler.Tracer.Set(traceKey)
	f.pendingValidate = tok

	fut.Then(func(err error) {
		f.handler.post(func() {
			if !f.handler.Tracer.Is(traceKey, tok) {
				level.Debug(f.handler.logger()).Log("msg", "dropping stale validation", "field", f.key, "token", tok.ID())
				return
			}
			f.pendingValidate = nil
			f.SetErrors(err)
		})
	})
}

// ValidateDebounced validates after the configured debounce, replacing any
// call still pending. Without a debounce it validates immediately. The fire
// is posted to the handler's dispatcher, so the validation runs when the
// owner drains it; an Inline dispatcher would run it on the timer goroutine.
func (f *Field[T]) ValidateDebounced() {
	delay := f.validate.Debounce
	if delay <= 0 {
		f.Validate(false)
		return
	}
	if f.validate.DebounceLoading && !f.loading.Validate {
		f.loading.Validate = true
		f.syncPhase()
		f.Render()
	}
	f.debounce.Schedule(delay, f.fireDebounced)
}

func (f *Field[T]) fireDebounced() {
	level.Debug(f.handler.logger()).Log("msg", "debounced validation fired", "field", f.key)
	f.Validate(false)

	// A skipped validation would otherwise leave the debounce loading flag set.
	if f.loading.Validate && f.pendingValidate == nil {
		f.loading.Validate = false
		f.syncPhase()
		f.Render()
	}
}

// Mask applies the mask to the current value. It does not render.
func (f *Field[T]) Mask() {
	if !f.maskEnabled {
		return
	}
	f.value = f.mask.Apply(f.value, f.fields)
	f.syncChanged()
}

// Render runs the interceptor with renders suppressed and then the host
// render. It does nothing while renders are suppressed.
func (f *Field[T]) Render() {
	f.handler.RenderFor(f.fields, f)
}

// Close cancels the pending debounced validation. Results of in-flight
// requests are dropped once the form disposes its tracer.
func (f *Field[T]) Close() {
	if f.debounce.Cancel() {
		level.Debug(f.handler.logger()).Log("msg", "cancelled debounced validation", "field", f.key)
	}
}

type emptier interface {
	Empty() bool
}

func normalizeErr(err error) error {
	if err == nil {
		return nil
	}
	rv := reflect.ValueOf(err)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
	}
	if e, ok := err.(emptier); ok && e.Empty() {
		return nil
	}
	return err
}

func sameProps(a, b Props) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.ValueOf(a).UnsafePointer() == reflect.ValueOf(b).UnsafePointer()
}
