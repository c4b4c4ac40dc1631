package host

import (
	"github.com/skekre98/startuphost/config"
	"github.com/skekre98/startuphost/core"
	"github.com/skekre98/startuphost/startup"
)

func RunHostConfigure(r *startup.Runner, b *Builder, modules []*startup.Module) {
	startup.Run(r, modules, func(s HostConfigure) error {
		return s.Configure(b)
	})
}

func RunConfigurationConfigure(r *startup.Runner, env config.Environment, m *config.Manager, modules []*startup.Module) {
	startup.Run(r, modules, func(s ConfigurationConfigure) error {
		return s.ConfigureConfiguration(env, m)
	})
}

func RunServicesConfigure(r *startup.Runner, c core.Container, cfg config.Root, modules []*startup.Module) {
	startup.Run(r, modules, func(s ServicesConfigure) error {
		return s.ConfigureServices(c, cfg)
	})
}

// RunPostBuildConfigure runs the post-build extensions with one scope over the
// host container. The scope is closed after every extension was attempted;
// the returned error comes from closing it.
func RunPostBuildConfigure(r *startup.Runner, h *Host, modules []*startup.Module) (err error) {
	scope := core.NewScope(h.Container())
	defer func() { err = scope.Close() }()

	startup.Run(r, modules, func(s PostBuildConfigure) error {
		return s.PostBuildConfigure(h, scope)
	})
	return nil
}
