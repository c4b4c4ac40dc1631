package startup

import (
	"log/slog"
	"reflect"
	"sort"
	"sync"
)

// Catalog indexes modules by name. Extension packages register into the
// Default catalog; hosts pick modules from it by name or by marker.
type Catalog struct {
	mu      sync.RWMutex
	modules map[string]*Module
}

// Default is the process-wide catalog used by ModuleFor, ModuleOf and
// ModulesContaining.
var Default = NewCatalog()

// NewCatalog returns an empty catalog, independent of Default.
func NewCatalog() *Catalog {
	return &Catalog{modules: make(map[string]*Module)}
}

// Module returns the module called name, creating it on first use.
func (c *Catalog) Module(name string) *Module {
	c.mu.RLock()
	m, ok := c.modules[name]
	c.mu.RUnlock()
	if ok {
		return m
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.modules[name]; ok {
		return m
	}
	slog.Debug("Registering startup module.", "module", name)
	m = NewModule(name)
	c.modules[name] = m
	return m
}

// Lookup returns the module called name if it was ever registered.
func (c *Catalog) Lookup(name string) (*Module, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.modules[name]
	return m, ok
}

// Names returns the registered module names, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.modules))
	for n := range c.modules {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Containing returns the modules defined by the packages of the given marker
// values, deduplicated. Markers whose package has no module are skipped.
func (c *Catalog) Containing(markers ...any) []*Module {
	mods := make([]*Module, 0, len(markers))
	for _, mk := range markers {
		name := packageOf(reflect.TypeOf(mk))
		if name == "" {
			continue
		}
		if m, ok := c.Lookup(name); ok {
			mods = append(mods, m)
		}
	}
	return Modules(mods...)
}

// ModuleFor returns the Default catalog module called name.
func ModuleFor(name string) *Module { return Default.Module(name) }

// ModuleOf returns the Default catalog module of marker type M's package.
func ModuleOf[M any]() *Module {
	return Default.Module(packageOf(reflect.TypeFor[M]()))
}

// ModulesContaining is Default.Containing.
func ModulesContaining(markers ...any) []*Module {
	return Default.Containing(markers...)
}

func packageOf(t reflect.Type) string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.PkgPath()
}
