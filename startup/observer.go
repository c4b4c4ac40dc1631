package startup

import (
	"context"
	"log/slog"
	"time"
)

// Observer is notified as a Runner works through modules. Module names are
// short names; capability names are the capability interface's type name.
type Observer interface {
	// Started is called before a module's extensions are discovered.
	Started(module, capability string)
	// Running is called right before an extension's action.
	Running(capability, implementer string)
	// Failed is called when an extension could not be constructed or its
	// action failed. err is an *Error.
	Failed(err error, capability, implementer string)
	// Completed is called after every extension of the module was attempted.
	Completed(module, capability string, elapsed time.Duration)
}

type multiObserver []Observer

// Observers fans observations out to every non-nil observer, in order.
// It returns nil when there is nothing to notify.
func Observers(obs ...Observer) Observer {
	var m multiObserver
	for _, o := range obs {
		if o != nil {
			m = append(m, o)
		}
	}
	switch len(m) {
	case 0:
		return nil
	case 1:
		return m[0]
	}
	return m
}

func (m multiObserver) Started(module, capability string) {
	for _, o := range m {
		o.Started(module, capability)
	}
}

func (m multiObserver) Running(capability, implementer string) {
	for _, o := range m {
		o.Running(capability, implementer)
	}
}

func (m multiObserver) Failed(err error, capability, implementer string) {
	for _, o := range m {
		o.Failed(err, capability, implementer)
	}
}

func (m multiObserver) Completed(module, capability string, elapsed time.Duration) {
	for _, o := range m {
		o.Completed(module, capability, elapsed)
	}
}

// LogObserver writes observations to a slog.Logger. Attributes are only
// built when the level is enabled.
type LogObserver struct {
	l *slog.Logger
}

// NewLogObserver returns nil for a nil logger so callers can pass the result
// straight to WithObserver.
func NewLogObserver(l *slog.Logger) Observer {
	if l == nil {
		return nil
	}
	return &LogObserver{l: l}
}

func (o *LogObserver) enabled(level slog.Level) bool {
	return o.l.Enabled(context.Background(), level)
}

func (o *LogObserver) Started(module, capability string) {
	if !o.enabled(slog.LevelInfo) {
		return
	}
	o.l.Info("startup phase started", "capability", capability, "module", module)
}

func (o *LogObserver) Running(capability, implementer string) {
	if !o.enabled(slog.LevelInfo) {
		return
	}
	o.l.Info("running startup action", "capability", capability, "implementer", implementer)
}

func (o *LogObserver) Failed(err error, capability, implementer string) {
	if !o.enabled(slog.LevelError) {
		return
	}
	o.l.Error("startup action failed", "capability", capability, "implementer", implementer, "error", err)
}

func (o *LogObserver) Completed(module, capability string, elapsed time.Duration) {
	if !o.enabled(slog.LevelInfo) {
		return
	}
	o.l.Info("startup phase completed",
		"capability", capability,
		"module", module,
		"elapsed_ms", elapsed.Milliseconds(),
	)
}
