package startup

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

type catalogMarker struct{}

func TestCatalog_ModuleIsCreatedOnce(t *testing.T) {
	c := NewCatalog()
	a := c.Module("example.com/a")
	assert.Same(t, a, c.Module("example.com/a"))

	got, ok := c.Lookup("example.com/a")
	assert.True(t, ok)
	assert.Same(t, a, got)

	_, ok = c.Lookup("example.com/missing")
	assert.False(t, ok)
}

func TestCatalog_Names(t *testing.T) {
	c := NewCatalog()
	c.Module("b")
	c.Module("a")
	c.Module("b")
	assert.Equal(t, []string{"a", "b"}, c.Names())
}

func TestCatalog_Containing(t *testing.T) {
	c := NewCatalog()
	own := c.Module(packageOf(reflect.TypeOf(catalogMarker{})))

	mods := c.Containing(catalogMarker{}, &catalogMarker{}, nil, 42)
	// int has no package and nil has no type
	assert.Equal(t, []*Module{own}, mods)
}

func TestModuleOf_UsesPackagePath(t *testing.T) {
	m := ModuleOf[catalogMarker]()
	assert.Equal(t, "github.com/skekre98/startuphost/startup", m.Name())
	assert.Equal(t, "startup", m.ShortName())
	assert.Same(t, m, ModuleFor("github.com/skekre98/startuphost/startup"))
	assert.Equal(t, []*Module{m}, ModulesContaining(catalogMarker{}))
}

func TestModules_Dedupes(t *testing.T) {
	a, b := NewModule("a"), NewModule("b")
	assert.Equal(t, []*Module{a, b}, Modules(a, nil, b, a))
	assert.Empty(t, Modules())
}

func TestProvide_NilFactoryPanics(t *testing.T) {
	m := NewModule("nil")
	assert.Panics(t, func() { ProvideFunc[*xGreeter](m, nil) })
	assert.Equal(t, 0, m.Len())
}

func TestModule_Types(t *testing.T) {
	m := NewModule("types")
	Provide(m, func() *xGreeter { return &xGreeter{} })
	Provide(m, func() notAGreeter { return notAGreeter{} })
	assert.Equal(t, []string{"xGreeter", "notAGreeter"}, m.Types())
	assert.Equal(t, 2, m.Len())
}
