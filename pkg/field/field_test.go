package field

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"go.uber.org/goleak"

	"github.com/goliatone/go-formstate/pkg/async"
	"github.com/goliatone/go-formstate/pkg/dispatch"
	"github.com/goliatone/go-formstate/pkg/validation"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type harness struct {
	handler  *Handler
	loop     *dispatch.Loop
	clock    *clockwork.FakeClock
	registry *Registry
	renders  int
}

func newHarness() *harness {
	h := &harness{
		handler:  NewHandler(),
		loop:     dispatch.New(),
		clock:    clockwork.NewFakeClock(),
		registry: NewRegistry(),
	}
	h.handler.Dispatcher = h.loop
	h.handler.Clock = h.clock
	h.handler.Render = func() { h.renders++ }
	return h
}

func addField[T any](t *testing.T, h *harness, key string, def Def[T], muts Mutators[T]) *Field[T] {
	t.Helper()
	f := New(key, def, muts, h.handler, h.registry)
	if err := h.registry.Add(f); err != nil {
		t.Fatalf("add %s: %v", key, err)
	}
	return f
}

func (h *harness) waitAndDrain(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := h.loop.Wait(ctx); err != nil {
		t.Fatalf("wait for loop task: %v", err)
	}
	h.loop.Drain()
}

func failWhen[T comparable](bad T) ValidateFunc[T] {
	return func(f *Field[T], _ Fields) Outcome {
		if f.Value() == bad {
			return Fail(validation.Message("invalid value"))
		}
		return Pass()
	}
}

func TestSet_TouchedAndChangedCounters(t *testing.T) {
	h := newHarness()
	f := addField(t, h, "name", Def[string]{}, Mutators[string]{})

	f.Set("x")
	if !f.Touched() || !f.Changed() {
		t.Fatalf("expected touched and changed after set, got %+v", f.State())
	}
	if got := h.handler.Counters.Touched.Count(); got != 1 {
		t.Fatalf("touched counter: want 1, got %d", got)
	}
	if got := h.handler.Counters.Changed.Count(); got != 1 {
		t.Fatalf("changed counter: want 1, got %d", got)
	}

	f.Set("")
	if f.Changed() {
		t.Fatalf("expected changed=false after returning to default")
	}
	if !f.Touched() {
		t.Fatalf("touched must stay true")
	}
	if got := h.handler.Counters.Changed.Count(); got != 0 {
		t.Fatalf("changed counter: want 0, got %d", got)
	}
	if got := h.handler.Counters.Touched.Count(); got != 1 {
		t.Fatalf("touched counter: want 1, got %d", got)
	}
	if h.renders != 2 {
		t.Fatalf("want 2 renders, got %d", h.renders)
	}
}

func TestSet_EqualValueIsNoop(t *testing.T) {
	h := newHarness()
	f := addField(t, h, "name", Def[string]{Default: "a"}, Mutators[string]{})

	f.Set("a")
	if h.renders != 0 || f.Touched() {
		t.Fatalf("equal set must not render or touch, renders=%d", h.renders)
	}
	if _, ok := f.PrevState(); ok {
		t.Fatalf("equal set must not snapshot")
	}
}

func TestSet_SnapshotsPreviousState(t *testing.T) {
	h := newHarness()
	f := addField(t, h, "name", Def[string]{}, Mutators[string]{})

	f.Set("first")
	f.Set("second")
	prev, ok := f.PrevState()
	if !ok {
		t.Fatalf("expected previous state")
	}
	if prev.Value != "first" || !prev.Touched {
		t.Fatalf("unexpected previous state %+v", prev)
	}
}

func TestReset_ClearsFlagsAndCounters(t *testing.T) {
	h := newHarness()
	f := addField(t, h, "name", Def[string]{Default: "d"}, Mutators[string]{})

	f.Set("x")
	f.Reset()

	if f.Value() != "d" {
		t.Fatalf("want default value, got %q", f.Value())
	}
	if f.Touched() || f.Changed() {
		t.Fatalf("reset must clear flags, got %+v", f.State())
	}
	if h.handler.Counters.Touched.Count() != 0 || h.handler.Counters.Changed.Count() != 0 {
		t.Fatalf("reset must release counters")
	}

	// A second touch counts again.
	f.Set("y")
	if got := h.handler.Counters.Touched.Count(); got != 1 {
		t.Fatalf("touched counter after re-touch: want 1, got %d", got)
	}

	f.Reset()
	renders := h.renders
	f.Reset()
	if h.renders != renders {
		t.Fatalf("reset at default must be a no-op")
	}
}

func TestValidate_ErrorCounterAcrossFields(t *testing.T) {
	h := newHarness()
	muts := Mutators[string]{Validate: Validate[string]{Apply: failWhen("bad"), OnChange: true}}
	a := addField(t, h, "a", Def[string]{}, muts)
	addField(t, h, "b", Def[string]{}, muts)

	if !h.handler.Counters.Errors.IsZero() {
		t.Fatalf("errors counter should start at zero")
	}

	a.Set("bad")
	if a.Valid() || a.Errors() == nil {
		t.Fatalf("expected a to be invalid")
	}
	if got := h.handler.Counters.Errors.Count(); got != 1 {
		t.Fatalf("errors counter: want 1, got %d", got)
	}

	a.Set("good")
	if !a.Valid() || a.Errors() != nil {
		t.Fatalf("expected a to be valid, errors=%v", a.Errors())
	}
	if got := h.handler.Counters.Errors.Count(); got != 0 {
		t.Fatalf("errors counter: want 0, got %d", got)
	}
}

func TestValidate_ForceBypassesDisabledOnly(t *testing.T) {
	h := newHarness()

	bare := addField(t, h, "bare", Def[string]{}, Mutators[string]{Validate: Validate[string]{Disabled: true}})
	bare.Validate(true)
	if _, ok := bare.LastValidated(); ok || h.renders != 0 {
		t.Fatalf("validation without a validator must never run")
	}

	calls := 0
	apply := func(*Field[string], Fields) Outcome {
		calls++
		return Fail(errors.New("nope"))
	}
	disabled := addField(t, h, "disabled", Def[string]{}, Mutators[string]{
		Validate: Validate[string]{Apply: apply, Disabled: true},
	})
	if disabled.ValidateEnabled() {
		t.Fatalf("expected validation to be disabled")
	}

	disabled.Validate(false)
	if calls != 0 {
		t.Fatalf("unforced validation must skip disabled validators")
	}
	disabled.Validate(true)
	if calls != 1 || disabled.Valid() {
		t.Fatalf("forced validation must run, calls=%d valid=%v", calls, disabled.Valid())
	}
}

func TestValidate_SkipsAlreadyValidatedValue(t *testing.T) {
	h := newHarness()
	calls := 0
	f := addField(t, h, "name", Def[string]{}, Mutators[string]{
		Validate: Validate[string]{Apply: func(*Field[string], Fields) Outcome {
			calls++
			return Fail(errors.New("always"))
		}},
	})

	f.Validate(false)
	f.Validate(false)
	if calls != 1 {
		t.Fatalf("want 1 call, got %d", calls)
	}
	last, ok := f.LastValidated()
	if !ok || last != "" {
		t.Fatalf("unexpected last validated %q %v", last, ok)
	}

	f.Validate(true)
	if calls != 2 {
		t.Fatalf("forced validation must run, got %d calls", calls)
	}
}

func TestValidate_SchemaErrorBecomesPayload(t *testing.T) {
	h := newHarness()
	schema := validation.SchemaFunc(func(value any) error {
		if s, _ := value.(string); len(s) < 3 {
			return validation.Message("too short")
		}
		return nil
	})
	f := addField(t, h, "name", Def[string]{}, Mutators[string]{
		Validate: Validate[string]{Schema: schema, OnChange: true},
	})

	f.Set("ab")
	if f.Valid() {
		t.Fatalf("expected invalid")
	}
	if diff := cmp.Diff([]validation.Issue{{Message: "too short"}}, validation.IssuesOf(f.Errors())); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}

	f.Set("abc")
	if !f.Valid() {
		t.Fatalf("expected valid, got %v", f.Errors())
	}
}

func TestValidate_SchemaWinsOverApply(t *testing.T) {
	h := newHarness()
	applied := false
	f := addField(t, h, "name", Def[string]{}, Mutators[string]{
		Validate: Validate[string]{
			Schema: validation.SchemaFunc(func(any) error { return errors.New("schema") }),
			Apply: func(*Field[string], Fields) Outcome {
				applied = true
				return Pass()
			},
		},
	})
	f.Validate(true)
	if applied || f.Valid() {
		t.Fatalf("schema must take precedence, applied=%v valid=%v", applied, f.Valid())
	}
}

func TestSetErrors_EmptyPayloadIsValid(t *testing.T) {
	h := newHarness()
	f := addField(t, h, "name", Def[string]{}, Mutators[string]{})

	f.SetErrors(&validation.Errors{})
	var typedNil *validation.Errors
	f.SetErrors(typedNil)
	if h.renders != 0 || !f.Valid() {
		t.Fatalf("empty payloads on a valid field must be no-ops")
	}

	f.SetErrors(validation.Message("bad"))
	if f.Valid() || h.handler.Counters.Errors.Count() != 1 {
		t.Fatalf("expected invalid with errors counter 1")
	}
	f.SetErrors(validation.Message("still bad"))
	if got := h.handler.Counters.Errors.Count(); got != 1 {
		t.Fatalf("errors counter must only move on a validity flip, got %d", got)
	}
	f.SetErrors(nil)
	if !f.Valid() || f.Errors() != nil || h.handler.Counters.Errors.Count() != 0 {
		t.Fatalf("expected valid after clearing errors")
	}
}

func TestValidate_AsyncStaleResultDropped(t *testing.T) {
	h := newHarness()
	var resolvers []func(error)
	f := addField(t, h, "name", Def[string]{}, Mutators[string]{
		Validate: Validate[string]{Apply: func(*Field[string], Fields) Outcome {
			fut, resolve := async.New[error]()
			resolvers = append(resolvers, resolve)
			return Pending(fut)
		}},
	})

	f.Validate(true)
	if f.Phase() != PhaseLoading || !f.Loading().Validate {
		t.Fatalf("expected loading phase, got %s", f.Phase())
	}
	f.Validate(true)
	if h.renders != 1 {
		t.Fatalf("second request must not re-render the busy state, renders=%d", h.renders)
	}

	resolvers[1](nil)
	resolvers[0](errors.New("stale"))
	h.loop.Drain()

	if !f.Valid() || f.Errors() != nil {
		t.Fatalf("stale result applied: %v", f.Errors())
	}
	if f.Phase() != PhaseReady {
		t.Fatalf("expected ready, got %s", f.Phase())
	}
}

func TestValidate_AsyncDroppedAfterDispose(t *testing.T) {
	h := newHarness()
	fut, resolve := async.New[error]()
	f := addField(t, h, "name", Def[string]{}, Mutators[string]{
		Validate: Validate[string]{Apply: func(*Field[string], Fields) Outcome { return Pending(fut) }},
	})

	f.Validate(true)
	h.handler.Dispose()
	resolve(errors.New("late"))
	h.loop.Drain()

	if !f.Valid() {
		t.Fatalf("result delivered after dispose must be dropped")
	}
}

func TestValidateDebounced_OnlyLastValueValidated(t *testing.T) {
	h := newHarness()
	var seen []string
	f := addField(t, h, "name", Def[string]{}, Mutators[string]{
		Validate: Validate[string]{
			Apply: func(f *Field[string], _ Fields) Outcome {
				seen = append(seen, f.Value())
				return Pass()
			},
			OnChange: true,
			Debounce: 100 * time.Millisecond,
		},
	})

	for _, v := range []string{"a", "ab", "abc"} {
		f.Set(v)
		h.clock.Advance(50 * time.Millisecond)
	}
	if len(seen) != 0 {
		t.Fatalf("nothing should validate inside the window, got %v", seen)
	}

	h.clock.Advance(100 * time.Millisecond)
	h.waitAndDrain(t)

	if diff := cmp.Diff([]string{"abc"}, seen); diff != "" {
		t.Fatalf("validated values mismatch (-want +got):\n%s", diff)
	}
}

func TestNewHandler_DebounceFiresOnOwnLoop(t *testing.T) {
	h := NewHandler()
	clock := clockwork.NewFakeClock()
	h.Clock = clock
	loop, ok := h.Loop()
	if !ok {
		t.Fatalf("default dispatcher must be a loop, got %T", h.Dispatcher)
	}

	validated := 0
	f := New("name", Def[string]{}, Mutators[string]{
		Validate: Validate[string]{
			Apply: func(*Field[string], Fields) Outcome {
				validated++
				return Pass()
			},
			OnChange: true,
			Debounce: 20 * time.Millisecond,
		},
	}, h, nil)
	defer f.Close()

	f.Set("x")
	clock.Advance(20 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := loop.Wait(ctx); err != nil {
		t.Fatalf("wait for debounce fire: %v", err)
	}
	if validated != 0 {
		t.Fatalf("validation must wait for the loop, ran %d times", validated)
	}
	loop.Drain()
	if validated != 1 {
		t.Fatalf("want one validation after drain, got %d", validated)
	}
}

func TestValidateDebounced_LoadingClearedWhenSkipped(t *testing.T) {
	h := newHarness()
	f := addField(t, h, "name", Def[string]{}, Mutators[string]{
		Validate: Validate[string]{
			Apply:           func(*Field[string], Fields) Outcome { return Fail(errors.New("bad")) },
			OnChange:        true,
			Debounce:        10 * time.Millisecond,
			DebounceLoading: true,
		},
	})

	f.Set("x")
	if f.Phase() != PhaseLoading {
		t.Fatalf("expected loading while debounce is armed")
	}
	h.clock.Advance(10 * time.Millisecond)
	h.waitAndDrain(t)
	if f.Phase() != PhaseReady || f.Valid() {
		t.Fatalf("expected ready and invalid, got %+v", f.State())
	}

	// Same value again: validation is skipped, loading must not stick.
	f.Set("y")
	f.Set("x")
	h.clock.Advance(10 * time.Millisecond)
	h.waitAndDrain(t)
	if f.Phase() != PhaseReady {
		t.Fatalf("skipped validation left the field loading")
	}
}

func TestClose_CancelsDebouncedValidation(t *testing.T) {
	h := newHarness()
	calls := 0
	f := addField(t, h, "name", Def[string]{}, Mutators[string]{
		Validate: Validate[string]{
			Apply: func(*Field[string], Fields) Outcome {
				calls++
				return Pass()
			},
			OnChange: true,
			Debounce: 10 * time.Millisecond,
		},
	})

	f.Set("x")
	f.Close()
	h.clock.Advance(time.Second)
	h.loop.Drain()
	if calls != 0 {
		t.Fatalf("closed field must not validate, calls=%d", calls)
	}
}

func TestSetPropsAsync_LatestWins(t *testing.T) {
	h := newHarness()
	f := addField(t, h, "city", Def[string]{}, Mutators[string]{})

	futA, resolveA := async.New[Props]()
	futB, resolveB := async.New[Props]()
	f.SetPropsAsync(futA)
	f.SetPropsAsync(futB)
	if f.Phase() != PhaseLoading {
		t.Fatalf("expected loading phase")
	}

	resolveB(Props{"options": "B"})
	resolveA(Props{"options": "A"})
	h.loop.Drain()

	if diff := cmp.Diff(Props{"options": "B"}, f.Props()); diff != "" {
		t.Fatalf("props mismatch (-want +got):\n%s", diff)
	}
	if f.Phase() != PhaseReady || f.Loading().Props {
		t.Fatalf("expected ready after accepted props")
	}
}

func TestSet_NaNStructIsNoOp(t *testing.T) {
	type reading struct {
		Label string
		Value float64
	}
	h := newHarness()
	f := addField(t, h, "reading", Def[reading]{Default: reading{"t", math.NaN()}}, Mutators[reading]{})

	f.Set(reading{"t", math.NaN()})
	if f.Touched() || h.renders != 0 {
		t.Fatalf("setting an identical value must be a no-op, touched=%v renders=%d", f.Touched(), h.renders)
	}
}

func TestSetPropsAsync_ResultMatchingCurrentPropsSkipsRender(t *testing.T) {
	h := newHarness()
	f := addField(t, h, "city", Def[string]{}, Mutators[string]{})

	fut, resolve := async.New[Props]()
	f.SetPropsAsync(fut)
	synced := Props{"options": "sync"}
	f.SetProps(synced)

	before := h.renders
	resolve(synced)
	h.loop.Drain()

	if h.renders != before {
		t.Fatalf("resolving to the current props must not render, got %d extra", h.renders-before)
	}
	if f.Phase() != PhaseReady || f.Loading().Props {
		t.Fatalf("expected ready once the request resolved")
	}
}

func TestPhase_UnionOfLoadingFlags(t *testing.T) {
	h := newHarness()
	validated, resolveValidate := async.New[error]()
	f := addField(t, h, "name", Def[string]{}, Mutators[string]{
		Validate: Validate[string]{Apply: func(*Field[string], Fields) Outcome { return Pending(validated) }},
	})
	props, resolveProps := async.New[Props]()

	f.SetPropsAsync(props)
	f.Validate(true)

	resolveProps(Props{"ready": true})
	h.loop.Drain()
	if f.Phase() != PhaseLoading {
		t.Fatalf("validation still pending, phase must stay loading")
	}

	resolveValidate(nil)
	h.loop.Drain()
	if f.Phase() != PhaseReady {
		t.Fatalf("expected ready once both requests resolved")
	}
}

func TestUpdateProps(t *testing.T) {
	h := newHarness()
	f := addField(t, h, "name", Def[string]{Props: Props{"label": "Name"}}, Mutators[string]{})

	f.UpdateProps(func(p Props) Props { return p })
	if h.renders != 0 {
		t.Fatalf("returning the same map must cancel the update")
	}

	f.UpdateProps(func(p Props) Props {
		next := Props{}
		for k, v := range p {
			next[k] = v
		}
		next["hint"] = "Full name"
		return next
	})
	if h.renders != 1 || f.Props()["hint"] != "Full name" {
		t.Fatalf("expected props update and one render, renders=%d", h.renders)
	}

	f.SetProps(f.Props())
	if h.renders != 2 {
		t.Fatalf("SetProps always renders")
	}

	f.ResetProps()
	if diff := cmp.Diff(Props{"label": "Name"}, f.Props()); diff != "" {
		t.Fatalf("props mismatch (-want +got):\n%s", diff)
	}
}

func TestMask_KeepsChangedInSync(t *testing.T) {
	h := newHarness()
	trim := Mask[string]{Apply: func(v string, _ Fields) string { return strings.TrimSpace(v) }}
	f := addField(t, h, "name", Def[string]{Default: " d "}, Mutators[string]{Mask: trim})

	if f.DefaultValue() != "d" || f.Value() != "d" || f.Changed() {
		t.Fatalf("default must be masked at construction, got %+v", f.State())
	}

	f.Set(" d  ")
	if f.Value() != "d" || f.Changed() {
		t.Fatalf("masked back to default must be unchanged, got %+v", f.State())
	}
	if got := h.handler.Counters.Changed.Count(); got != 0 {
		t.Fatalf("changed counter: want 0, got %d", got)
	}

	f.SetMask(Mask[string]{Apply: func(v string, _ Fields) string { return v + "!" }})
	if f.Value() != "d!" || !f.Changed() {
		t.Fatalf("new mask must apply immediately, got %+v", f.State())
	}

	renders := h.renders
	f.SetMask(Mask[string]{
		Apply:    func(v string, _ Fields) string { return strings.ToUpper(v) },
		Disabled: true,
	})
	if f.Value() != "d!" || h.renders != renders {
		t.Fatalf("disabled mask must not apply or render")
	}
}

func TestRender_InterceptorSuppressesNestedRenders(t *testing.T) {
	h := newHarness()
	a := addField(t, h, "a", Def[string]{}, Mutators[string]{})
	b := addField(t, h, "b", Def[string]{}, Mutators[string]{})

	intercepted := 0
	h.handler.Interceptor = func(changed Controller, fields Fields) {
		intercepted++
		if changed.Key() != "a" {
			return
		}
		if mirror, ok := Lookup[string](fields, "b"); ok {
			mirror.Set(a.Value())
		}
	}

	a.Set("x")
	if b.Value() != "x" {
		t.Fatalf("interceptor should mirror a into b")
	}
	if h.renders != 1 || intercepted != 1 {
		t.Fatalf("want one render and one interception, got renders=%d intercepted=%d", h.renders, intercepted)
	}
	if h.handler.Guard.Active() {
		t.Fatalf("guard must be released")
	}
}

func TestValidate_CustomValidatorRunsSuppressed(t *testing.T) {
	h := newHarness()
	sibling := addField(t, h, "confirm", Def[string]{}, Mutators[string]{})
	f := addField(t, h, "password", Def[string]{}, Mutators[string]{
		Validate: Validate[string]{
			OnChange: true,
			Apply: func(f *Field[string], fields Fields) Outcome {
				if confirm, ok := Lookup[string](fields, "confirm"); ok {
					confirm.Reset()
					confirm.Set("touched by validator")
				}
				return Pass()
			},
		},
	})

	f.Set("secret")
	if sibling.Value() != "touched by validator" {
		t.Fatalf("validator side effect missing")
	}
	if h.renders != 1 {
		t.Fatalf("only the outer set should render, got %d", h.renders)
	}
}

func TestSetValidate_OnInitRunsOnce(t *testing.T) {
	h := newHarness()
	f := addField(t, h, "name", Def[string]{}, Mutators[string]{})

	f.SetValidate(Validate[string]{Apply: failWhen(""), OnInit: true})
	if f.Valid() {
		t.Fatalf("OnInit in SetValidate must validate right away")
	}
	if f.ValidateOnInit() {
		t.Fatalf("stored OnInit must be cleared")
	}
	if !f.ValidateEnabled() {
		t.Fatalf("expected validation enabled")
	}

	f.SetValidate(Validate[string]{})
	if f.ValidateEnabled() {
		t.Fatalf("empty descriptor must disable validation")
	}
}

func TestSetEqual_CustomComparer(t *testing.T) {
	h := newHarness()
	f := addField(t, h, "name", Def[string]{Default: "abc"}, Mutators[string]{
		Equal: strings.EqualFold,
	})

	f.Set("ABC")
	if f.Touched() {
		t.Fatalf("case-insensitive comparer should treat the value as equal")
	}
	f.SetEqual(nil)
	f.Set("ABC")
	if !f.Touched() || !f.Changed() {
		t.Fatalf("identity comparer restored, expected a change")
	}
}

func TestController_SetAny(t *testing.T) {
	h := newHarness()
	addField(t, h, "age", Def[int]{Default: 1}, Mutators[int]{})

	c, ok := h.registry.Get("age")
	if !ok {
		t.Fatalf("missing field")
	}
	if err := c.SetAny(42); err != nil {
		t.Fatalf("set any: %v", err)
	}
	if c.Any() != 42 || c.DefaultAny() != 1 {
		t.Fatalf("unexpected values %v %v", c.Any(), c.DefaultAny())
	}
	if err := c.SetAny("42"); !errors.Is(err, ErrValueType) {
		t.Fatalf("want ErrValueType, got %v", err)
	}
	if err := c.SetAny(nil); err != nil || c.Any() != 0 {
		t.Fatalf("nil must store the zero value, got %v %v", c.Any(), err)
	}

	if _, ok := Lookup[string](h.registry, "age"); ok {
		t.Fatalf("typed lookup with the wrong type must fail")
	}
	if f, ok := Lookup[int](h.registry, "age"); !ok || f.Value() != 0 {
		t.Fatalf("typed lookup failed")
	}
}

func TestDef_BuildRejectsMismatchedMutators(t *testing.T) {
	h := newHarness()
	_, err := Def[string]{}.Build("name", Mutators[int]{}, h.handler, h.registry)
	if !errors.Is(err, ErrMutatorType) {
		t.Fatalf("want ErrMutatorType, got %v", err)
	}

	c, err := Def[string]{Default: "x"}.Build("name", &Mutators[string]{}, h.handler, h.registry)
	if err != nil || c.Any() != "x" {
		t.Fatalf("build with pointer mutators: %v", err)
	}
	if _, err := (Def[int]{}).Build("n", nil, h.handler, h.registry); err != nil {
		t.Fatalf("nil mutators must be accepted: %v", err)
	}
}

func TestRegistry(t *testing.T) {
	h := newHarness()
	addField(t, h, "b", Def[string]{}, Mutators[string]{})
	addField(t, h, "a", Def[string]{}, Mutators[string]{})

	if diff := cmp.Diff([]string{"b", "a"}, h.registry.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	dup := New("a", Def[string]{}, Mutators[string]{}, h.handler, h.registry)
	if err := h.registry.Add(dup); !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("want ErrDuplicateKey, got %v", err)
	}

	visited := 0
	h.registry.Each(func(Controller) bool {
		visited++
		return false
	})
	if visited != 1 {
		t.Fatalf("Each must stop when fn returns false")
	}
}
