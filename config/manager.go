package config

import (
	"context"
	"fmt"
	"reflect"
	"sync"
)

// Manager loads configuration from layered sources into a struct, validates
// it and notifies subscribers of changes. Updates are all-or-nothing: a
// failed load, bind or validation leaves the current values untouched.
// All methods are safe for concurrent use.
type Manager struct {
	config any
	binder *Binder

	mu      sync.RWMutex
	sources []ConfigSource
	subs    []chan Event

	autoWatch bool
	ctx       context.Context
	cancel    context.CancelFunc
}

type Options struct {
	// AutoReload starts a watcher per source and reloads on every change.
	AutoReload bool
}

// NewManager binds cfg, a pointer to a struct, from sources. Later sources
// override earlier ones:
//
//	var cfg AppConfig
//	mgr, err := config.NewManager(&cfg, config.Options{},
//	    &source.FileSource{BasePath: "configs"},
//	    &source.EnvSource{},
//	    &source.CLISource{},
//	)
func NewManager(cfg any, opts Options, sources ...ConfigSource) (*Manager, error) {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		sources:   append([]ConfigSource(nil), sources...),
		config:    cfg,
		binder:    NewBinder(),
		autoWatch: opts.AutoReload,
		ctx:       ctx,
		cancel:    cancel,
	}

	if err := m.Reload(context.Background()); err != nil {
		cancel()
		return nil, err
	}

	if m.autoWatch {
		for _, src := range m.sources {
			m.watch(src)
		}
	}
	return m, nil
}

// Sources returns the names of the sources in precedence order.
func (m *Manager) Sources() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, len(m.sources))
	for i, s := range m.sources {
		names[i] = s.Name()
	}
	return names
}

// AddSource appends src as the highest-precedence layer and reloads. If the
// reload fails the source is dropped again and the error returned.
func (m *Manager) AddSource(ctx context.Context, src ConfigSource) error {
	m.mu.Lock()
	m.sources = append(m.sources, src)
	m.mu.Unlock()

	if err := m.Reload(ctx); err != nil {
		m.mu.Lock()
		for i := len(m.sources) - 1; i >= 0; i-- {
			if m.sources[i] == src {
				m.sources = append(m.sources[:i], m.sources[i+1:]...)
				break
			}
		}
		m.mu.Unlock()
		return err
	}

	if m.autoWatch {
		m.watch(src)
	}
	return nil
}

// Reload merges all sources, binds and validates the result into a fresh
// value and, on success, copies it into the managed struct. Subscribers are
// notified when anything changed.
func (m *Manager) Reload(ctx context.Context) error {
	m.mu.RLock()
	sources := append([]ConfigSource(nil), m.sources...)
	m.mu.RUnlock()

	merged := map[string]any{}
	for _, src := range sources {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		vals, err := src.Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to load config from %s: %w", src.Name(), err)
		}
		mergeMaps(merged, vals)
	}

	typ := reflect.TypeOf(m.config).Elem()
	newCfg := reflect.New(typ).Interface()
	if err := m.binder.Bind(merged, newCfg); err != nil {
		return fmt.Errorf("failed to bind config: %w", err)
	}

	m.mu.Lock()
	oldCfg := reflect.New(typ).Interface()
	reflect.ValueOf(oldCfg).Elem().Set(reflect.ValueOf(m.config).Elem())
	reflect.ValueOf(m.config).Elem().Set(reflect.ValueOf(newCfg).Elem())
	m.mu.Unlock()

	if !reflect.DeepEqual(oldCfg, newCfg) {
		m.notify(diffEvent(oldCfg, newCfg))
	}
	return nil
}

// Subscribe registers ch for change events. Sends never block: a full
// channel misses the event. The channel is never closed by the Manager.
func (m *Manager) Subscribe(ch chan Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, ch)
}

// Close stops the source watchers.
func (m *Manager) Close() error {
	m.cancel()
	return nil
}

func (m *Manager) notify(evt Event) {
	m.mu.RLock()
	subs := append([]chan Event(nil), m.subs...)
	m.mu.RUnlock()
	for _, ch := range subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

func (m *Manager) watch(src ConfigSource) {
	ch := make(chan Event)
	go func() { _ = src.Watch(m.ctx, ch) }()
	go func() {
		for {
			select {
			case <-m.ctx.Done():
				return
			case <-ch:
				// A failed reload keeps the previous values.
				_ = m.Reload(m.ctx)
			}
		}
	}()
}
