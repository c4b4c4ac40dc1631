package core

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// Scope is a child container whose own values are released together.
// Lookups fall through to the parent; values set on the scope shadow the
// parent and any io.Closer among them is closed by Close, last set first.
type Scope struct {
	parent Container
	local  *container

	mu      sync.Mutex
	closers []io.Closer
	closed  bool
	once    sync.Once
	err     error
}

func NewScope(parent Container) *Scope {
	return &Scope{parent: parent, local: newContainer()}
}

// Set stores val on the scope. It panics once the scope is closed.
func (s *Scope) Set(key, val any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		panic(fmt.Errorf("scope: set %v after close", key))
	}
	if c, ok := val.(io.Closer); ok {
		s.closers = append(s.closers, c)
	}
	s.local.Set(key, val)
}

func (s *Scope) Get(key any) (any, bool) {
	if v, ok := s.local.Get(key); ok {
		return v, true
	}
	if s.parent == nil {
		return nil, false
	}
	return s.parent.Get(key)
}

func (s *Scope) MustGet(key any) any {
	if v, ok := s.Get(key); ok {
		return v
	}
	panic(fmt.Errorf("scope: missing dependency %v (%T)", key, key))
}

// Close releases the scope's closers. Only the first call does any work;
// later calls return the same error.
func (s *Scope) Close() error {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		closers := s.closers
		s.closers = nil
		s.mu.Unlock()

		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i].Close(); err != nil {
				errs = append(errs, err)
			}
		}
		s.err = errors.Join(errs...)
	})
	return s.err
}

func (s *Scope) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
