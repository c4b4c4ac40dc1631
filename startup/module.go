package startup

import (
	"fmt"
	"path"
	"reflect"
	"sync"
)

// Startup is implemented by every startup extension. Order controls the
// sequence in which extensions of one module run (ascending).
type Startup interface {
	Order() int
}

// Factory constructs a fresh implementer.
type Factory func() (Startup, error)

type registration struct {
	typ     reflect.Type
	factory Factory
}

// Module is a named set of startup extensions, the unit of discovery.
// Extension packages usually register into their module from init.
type Module struct {
	name string

	mu   sync.RWMutex
	regs []registration
}

// NewModule creates an empty, uncatalogued module.
func NewModule(name string) *Module {
	return &Module{name: name}
}

// Name returns the full module identifier.
func (m *Module) Name() string { return m.name }

// ShortName returns the last element of the module identifier.
func (m *Module) ShortName() string {
	if m.name == "" {
		return m.name
	}
	return path.Base(m.name)
}

// Len reports the number of registered extension types.
func (m *Module) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.regs)
}

// Types returns the names of the registered extension types in registration
// order.
func (m *Module) Types() []string {
	regs := m.registrations()
	names := make([]string, len(regs))
	for i, r := range regs {
		names[i] = typeName(r.typ)
	}
	return names
}

func (m *Module) add(typ reflect.Type, f Factory) {
	if f == nil {
		panic(fmt.Sprintf("startup: nil factory for %s in module %q", typ, m.name))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.regs = append(m.regs, registration{typ: typ, factory: f})
}

func (m *Module) registrations() []registration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]registration(nil), m.regs...)
}

// Provide registers the extension type T into m. The factory runs once per
// discovery, so every run gets a new instance.
//
//	func init() {
//	    startup.Provide(startup.ModuleOf[marker](), func() *seedOrders { return &seedOrders{} })
//	}
func Provide[T Startup](m *Module, factory func() T) {
	ProvideFunc(m, func() (T, error) { return factory(), nil })
}

// ProvideFunc registers the extension type T with a factory that may fail.
func ProvideFunc[T Startup](m *Module, factory func() (T, error)) {
	if factory == nil {
		m.add(reflect.TypeFor[T](), nil)
		return
	}
	m.add(reflect.TypeFor[T](), func() (Startup, error) {
		v, err := factory()
		if err != nil {
			return nil, err
		}
		return v, nil
	})
}

// Modules returns mods without duplicates and nils, keeping first occurrences.
func Modules(mods ...*Module) []*Module {
	out := make([]*Module, 0, len(mods))
	seen := make(map[*Module]struct{}, len(mods))
	for _, m := range mods {
		if m == nil {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}
