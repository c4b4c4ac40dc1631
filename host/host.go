package host

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/skekre98/startuphost/config"
	"github.com/skekre98/startuphost/core"
	"github.com/skekre98/startuphost/startup"
)

// Host is a built application whose modules have not started yet.
type Host struct {
	app        *core.App
	config     *config.Manager
	env        config.Environment
	logger     *slog.Logger
	runner     *startup.Runner
	extensions []*startup.Module
	recorder   *startup.Recorder
	logs       io.Closer

	postBuild sync.Once
}

func (h *Host) App() *core.App                  { return h.app }
func (h *Host) Container() core.Container       { return h.app.Container }
func (h *Host) Config() *config.Manager         { return h.config }
func (h *Host) Environment() config.Environment { return h.env }
func (h *Host) Logger() *slog.Logger            { return h.logger }

// Report returns what the startup phases did so far.
func (h *Host) Report() startup.Report { return h.recorder.Report() }

// WithScope calls fn with a scope over the host container and closes the
// scope when fn returns or panics.
func (h *Host) WithScope(fn func(h *Host, scope *core.Scope) error) (err error) {
	scope := core.NewScope(h.Container())
	defer func() {
		err = errors.Join(err, scope.Close())
	}()
	return fn(h, scope)
}

// PostBuild runs the PostBuildConfigure phase. It runs at most once; Start
// and Run call it.
func (h *Host) PostBuild() {
	h.postBuild.Do(func() {
		if err := RunPostBuildConfigure(h.runner, h, h.extensions); err != nil {
			h.logger.Warn("closing post-build scope", "error", err)
		}
	})
}

// Start runs the post-build phase and starts the modules.
func (h *Host) Start(ctx context.Context) error {
	h.PostBuild()
	return h.app.Start(ctx)
}

// Stop stops the modules and releases the configuration watchers and the
// log file.
func (h *Host) Stop(ctx context.Context) error {
	defer h.release()
	return h.app.Stop(ctx)
}

// Run runs the post-build phase, then the application until ctx is done or
// the process is signalled.
func (h *Host) Run(ctx context.Context) error {
	defer h.release()
	h.PostBuild()
	return h.app.Run(ctx)
}

func (h *Host) release() {
	if h.config != nil {
		_ = h.config.Close()
	}
	if h.logs != nil {
		_ = h.logs.Close()
	}
}
