package startup

import (
	"reflect"
	"sort"
	"time"
)

// Runner runs startup extensions of one capability across modules.
// A Runner holds no state between runs.
type Runner struct {
	observer Observer
	now      func() time.Time
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithObserver sets the observer notified at every step. Without one all
// observations are skipped.
func WithObserver(o Observer) RunnerOption {
	return func(r *Runner) { r.observer = o }
}

func withClock(now func() time.Time) RunnerOption {
	return func(r *Runner) { r.now = now }
}

// NewRunner returns a Runner with no observer.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{now: time.Now}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Observer returns the runner's observer, nil if none.
func (r *Runner) Observer() Observer { return r.observer }

// result is the outcome of one extension in one run.
type result struct {
	implementer string
	err         error
}

type instance[T Startup] struct {
	name  string
	order int
	value T
}

// Run discovers every extension of capability T in modules and calls action
// on each, module by module in the given order (duplicates removed) and by
// ascending Order within a module. Failures are reported to the observer and
// never stop the remaining extensions or modules.
func Run[T Startup](r *Runner, modules []*Module, action func(T) error) {
	if r == nil {
		r = NewRunner()
	}
	capability := capabilityName[T]()
	obs := r.observer

	for _, m := range Modules(modules...) {
		if obs != nil {
			obs.Started(m.ShortName(), capability)
		}
		start := r.now()

		for _, inst := range discover[T](m, capability, obs) {
			if obs != nil {
				obs.Running(capability, inst.name)
			}
			res := invoke(inst, action)
			if res.err != nil && obs != nil {
				obs.Failed(&Error{
					Stage:       StageInvoke,
					Capability:  capability,
					Implementer: res.implementer,
					Err:         res.err,
				}, capability, res.implementer)
			}
		}

		if obs != nil {
			obs.Completed(m.ShortName(), capability, r.now().Sub(start))
		}
	}
}

func invoke[T Startup](inst instance[T], action func(T) error) result {
	err := guard(func() error { return action(inst.value) })
	return result{implementer: inst.name, err: err}
}

// discover constructs the module's concrete implementers of T and sorts them
// by Order, keeping registration order on ties.
func discover[T Startup](m *Module, capability string, obs Observer) []instance[T] {
	want := reflect.TypeFor[T]()
	var out []instance[T]

	for _, reg := range m.registrations() {
		if !provides(reg.typ, want) {
			continue
		}
		name := typeName(reg.typ)

		var (
			value T
			order int
		)
		err := guard(func() error {
			v, err := reg.factory()
			if err != nil {
				return err
			}
			if isNil(v) {
				return errNilExtension
			}
			value = v.(T)
			order = value.Order()
			return nil
		})
		if err != nil {
			if obs != nil {
				obs.Failed(&Error{
					Stage:       StageConstruct,
					Capability:  capability,
					Implementer: name,
					Err:         err,
				}, capability, name)
			}
			continue
		}
		out = append(out, instance[T]{name: name, order: order, value: value})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].order < out[j].order })
	return out
}

// provides reports whether registered type typ serves capability want. A
// concrete capability type only matches registrations of that exact type.
func provides(typ, want reflect.Type) bool {
	if typ.Kind() == reflect.Interface {
		return false
	}
	if want.Kind() != reflect.Interface {
		return typ == want
	}
	return typ.Implements(want)
}

func capabilityName[T Startup]() string {
	return typeName(reflect.TypeFor[T]())
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	return t.Name()
}

func isNil(v Startup) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
