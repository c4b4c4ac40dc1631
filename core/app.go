package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"
)

// ShutdownTimeout bounds how long modules get to stop.
var ShutdownTimeout = 15 * time.Second

var (
	ErrDuplicateModule   = errors.New("duplicate module")
	ErrMissingDependency = errors.New("missing dependency")
	ErrDependencyCycle   = errors.New("dependency cycle")
)

type App struct {
	Modules   []Module
	Container Container
	Logger    *slog.Logger

	mu      sync.Mutex
	started []Module
}

func NewApp(logger *slog.Logger, c Container, mods ...Module) *App {
	if c == nil {
		c = NewContainer()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		Modules:   mods,
		Container: c,
		Logger:    logger,
	}
}

// Start configures and starts every module in dependency order. If a module
// fails to start, the ones already started are stopped again.
func (a *App) Start(ctx context.Context) error {
	order, err := resolve(a.Modules)
	if err != nil {
		return err
	}

	for _, m := range order {
		if err := m.Configure(a.Container); err != nil {
			return fmt.Errorf("configure module %s: %w", m.Name(), err)
		}
	}

	for _, m := range order {
		start := time.Now()
		if err := m.Start(ctx, a.Container); err != nil {
			_ = a.Stop(ctx)
			return fmt.Errorf("start module %s: %w", m.Name(), err)
		}
		a.Logger.Info("module started", "module", m.Name(), "elapsed_ms", time.Since(start).Milliseconds())

		a.mu.Lock()
		a.started = append(a.started, m)
		a.mu.Unlock()
	}
	return nil
}

// Stop stops started modules in reverse order. Every module is attempted;
// the first error is returned.
func (a *App) Stop(ctx context.Context) error {
	a.mu.Lock()
	started := a.started
	a.started = nil
	a.mu.Unlock()

	var firstErr error
	for i := len(started) - 1; i >= 0; i-- {
		m := started[i]
		a.Logger.Info("stopping module", "module", m.Name())
		if err := m.Stop(ctx, a.Container); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("stop module %s: %w", m.Name(), err)
		}
	}
	return firstErr
}

// Run starts the app, blocks until ctx is done or SIGINT/SIGTERM arrives,
// then stops the modules.
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return a.Stop(shutdownCtx)
}

// resolve orders mods so that every module comes after its dependencies.
// Otherwise the declared order is kept.
func resolve(mods []Module) ([]Module, error) {
	byName := make(map[string]Module, len(mods))
	for _, m := range mods {
		if _, dup := byName[m.Name()]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateModule, m.Name())
		}
		byName[m.Name()] = m
	}
	for _, m := range mods {
		for _, d := range m.DependsOn() {
			if _, ok := byName[d]; !ok {
				return nil, fmt.Errorf("%w: %s depends on %s", ErrMissingDependency, m.Name(), d)
			}
		}
	}

	placed := make(map[string]bool, len(mods))
	out := make([]Module, 0, len(mods))
	for len(out) < len(mods) {
		progressed := false
		for _, m := range mods {
			if placed[m.Name()] || !ready(m, placed) {
				continue
			}
			placed[m.Name()] = true
			out = append(out, m)
			progressed = true
			break
		}
		if !progressed {
			var rest []string
			for _, m := range mods {
				if !placed[m.Name()] {
					rest = append(rest, m.Name())
				}
			}
			return nil, fmt.Errorf("%w among %s", ErrDependencyCycle, strings.Join(rest, ", "))
		}
	}
	return out, nil
}

func ready(m Module, placed map[string]bool) bool {
	for _, d := range m.DependsOn() {
		if !placed[d] {
			return false
		}
	}
	return true
}
