package core

import (
	"fmt"
	"reflect"
	"sync"
)

// Container is the service registry shared by modules and startup extensions.
type Container interface {
	Set(key any, val any)
	Get(key any) (any, bool)
	MustGet(key any) any
}

type container struct {
	mu  sync.RWMutex
	reg map[any]any
}

func NewContainer() Container {
	return newContainer()
}

func newContainer() *container {
	return &container{reg: make(map[any]any)}
}

func (c *container) Set(key, val any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reg[key] = val
}

func (c *container) Get(key any) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.reg[key]
	return v, ok
}

func (c *container) MustGet(key any) any {
	if v, ok := c.Get(key); ok {
		return v
	}
	panic(fmt.Errorf("container: missing dependency %v (%T)", key, key))
}

// TypeKey is the key Put and Get use for values of type T.
type TypeKey[T any] struct{}

// Put stores v under the key of its static type T, replacing any earlier
// value of that type. An interface T and its concrete types are distinct keys.
func Put[T any](c Container, v T) { c.Set(TypeKey[T]{}, v) }

// Get returns the value stored under T's key. It panics when the value is
// missing, like MustGet; use Lookup for optional services.
func Get[T any](c Container) T {
	raw := c.MustGet(TypeKey[T]{})
	v, ok := raw.(T)
	if !ok {
		panic(fmt.Errorf("container: wrong type. have=%T want=%v", raw, reflect.TypeFor[T]()))
	}
	return v
}

// Lookup is Get without the panic on a missing key.
func Lookup[T any](c Container) (T, bool) {
	var zero T
	raw, ok := c.Get(TypeKey[T]{})
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	return v, ok
}
