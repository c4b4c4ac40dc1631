package host

import (
	"github.com/skekre98/startuphost/config"
	"github.com/skekre98/startuphost/core"
	"github.com/skekre98/startuphost/startup"
)

// HostConfigure runs first, before configuration is loaded. Extensions add
// core modules and configuration sources to the builder.
type HostConfigure interface {
	startup.Startup
	Configure(b *Builder) error
}

// ConfigurationConfigure runs once configuration is loaded. Extensions may
// add sources to the manager, which reloads on each addition.
type ConfigurationConfigure interface {
	startup.Startup
	ConfigureConfiguration(env config.Environment, m *config.Manager) error
}

// ServicesConfigure registers services into the host container.
type ServicesConfigure interface {
	startup.Startup
	ConfigureServices(c core.Container, cfg config.Root) error
}

// PostBuildConfigure runs after the host is built and before its modules
// start. The scope is shared by all extensions of the phase and closed when
// the phase ends.
type PostBuildConfigure interface {
	startup.Startup
	PostBuildConfigure(h *Host, scope *core.Scope) error
}
