package core

import "context"

// Module is a unit of capability that participates in the app lifecycle.
// Startup extensions add modules to the host before it is built.
type Module interface {
	Name() string
	// DependsOn declares hard dependencies by module name.
	DependsOn() []string
	// Configure registers objects into the container.
	Configure(c Container) error
	// Start begins any long-running work or servers.
	Start(ctx context.Context, c Container) error
	// Stop gracefully stops the module.
	Stop(ctx context.Context, c Container) error
}

// BaseModule implements Module with no dependencies and no-op lifecycle
// methods. Embed it and override what is needed.
type BaseModule struct {
	ModuleName string
}

func (b BaseModule) Name() string                         { return b.ModuleName }
func (BaseModule) DependsOn() []string                    { return nil }
func (BaseModule) Configure(Container) error              { return nil }
func (BaseModule) Start(context.Context, Container) error { return nil }
func (BaseModule) Stop(context.Context, Container) error  { return nil }
