package host

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/skekre98/startuphost/config"
	"github.com/skekre98/startuphost/config/source"
	"github.com/skekre98/startuphost/core"
	"github.com/skekre98/startuphost/logging"
	"github.com/skekre98/startuphost/startup"
)

// Builder collects what a Host is made of. HostConfigure extensions receive
// it and may add modules and configuration sources.
type Builder struct {
	Environment config.Environment

	sources    []config.ConfigSource
	configOpts config.Options
	modules    []core.Module
	extensions []*startup.Module
	logger     *slog.Logger
	observers  []startup.Observer
	registry   prometheus.Registerer
	container  core.Container
}

type Option func(*Builder)

func WithEnvironment(env config.Environment) Option {
	return func(b *Builder) { b.Environment = env }
}

// WithLogger fixes the host logger. Without it the logger is built from the
// logging section of the loaded configuration.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// WithConfigSources appends configuration layers above the built-in defaults.
func WithConfigSources(srcs ...config.ConfigSource) Option {
	return func(b *Builder) { b.sources = append(b.sources, srcs...) }
}

func WithConfigOptions(opts config.Options) Option {
	return func(b *Builder) { b.configOpts = opts }
}

func WithModules(mods ...core.Module) Option {
	return func(b *Builder) { b.modules = append(b.modules, mods...) }
}

// WithExtensions selects the startup modules scanned in every phase.
func WithExtensions(mods ...*startup.Module) Option {
	return func(b *Builder) { b.extensions = append(b.extensions, mods...) }
}

// WithExtensionsContaining selects the startup modules of the markers'
// packages.
func WithExtensionsContaining(markers ...any) Option {
	return func(b *Builder) { b.extensions = append(b.extensions, startup.ModulesContaining(markers...)...) }
}

// WithExtensionsOf selects the startup module of marker type M's package.
func WithExtensionsOf[M any]() Option {
	return func(b *Builder) { b.extensions = append(b.extensions, startup.ModuleOf[M]()) }
}

// WithObservers adds observers next to the host's logger and recorder.
func WithObservers(obs ...startup.Observer) Option {
	return func(b *Builder) { b.observers = append(b.observers, obs...) }
}

// WithMetrics exports startup metrics to reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(b *Builder) { b.registry = reg }
}

func WithContainer(c core.Container) Option {
	return func(b *Builder) { b.container = c }
}

func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		sources: []config.ConfigSource{source.NewMapSource("defaults", config.Defaults())},
	}
	for _, o := range opts {
		o(b)
	}
	if b.container == nil {
		b.container = core.NewContainer()
	}
	if b.Environment.Name == "" {
		b.Environment = config.LoadEnvironment(b.Environment.AppName)
	}
	return b
}

// AddModule adds core modules to the host.
func (b *Builder) AddModule(mods ...core.Module) *Builder {
	b.modules = append(b.modules, mods...)
	return b
}

// AddConfigSource adds a configuration layer above the existing ones.
func (b *Builder) AddConfigSource(srcs ...config.ConfigSource) *Builder {
	b.sources = append(b.sources, srcs...)
	return b
}

// Container is the container the host will be built with.
func (b *Builder) Container() core.Container { return b.container }

func (b *Builder) runner(logger *slog.Logger, recorder *startup.Recorder, metrics startup.Observer) *startup.Runner {
	obs := append([]startup.Observer{startup.NewLogObserver(logger), recorder, metrics}, b.observers...)
	return startup.NewRunner(startup.WithObserver(startup.Observers(obs...)))
}

// Build runs the pre-build phases and assembles the host:
//
//  1. HostConfigure extensions adjust the builder
//  2. configuration is loaded from all sources
//  3. ConfigurationConfigure extensions see the loaded configuration
//  4. the container is seeded and ServicesConfigure extensions register services
//
// Extension failures are logged and skipped; only configuration errors fail
// the build.
func (b *Builder) Build(ctx context.Context) (*Host, error) {
	recorder := startup.NewRecorder()
	var metrics startup.Observer
	if b.registry != nil {
		mo, err := startup.NewMetricsObserver(b.registry)
		if err != nil {
			return nil, fmt.Errorf("register startup metrics: %w", err)
		}
		metrics = mo
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}
	extensions := startup.Modules(b.extensions...)

	RunHostConfigure(b.runner(logger, recorder, metrics), b, extensions)

	var root config.Root
	mgr, err := config.NewManager(&root, b.configOpts, b.sources...)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	var logs io.Closer
	if b.logger == nil {
		logger, logs = logging.New(root.Logging)
	}
	logger = logger.With(slog.String("app", root.App.Name), slog.String("env", b.Environment.Name))
	runner := b.runner(logger, recorder, metrics)

	RunConfigurationConfigure(runner, b.Environment, mgr, extensions)

	if err := ctx.Err(); err != nil {
		_ = mgr.Close()
		if logs != nil {
			_ = logs.Close()
		}
		return nil, err
	}

	c := b.container
	core.Put(c, root)
	core.Put(c, mgr)
	core.Put(c, b.Environment)
	core.Put(c, logger)
	core.Put(c, recorder)

	RunServicesConfigure(runner, c, root, extensions)

	return &Host{
		app:        core.NewApp(logger, c, b.modules...),
		config:     mgr,
		env:        b.Environment,
		logger:     logger,
		runner:     runner,
		extensions: extensions,
		recorder:   recorder,
		logs:       logs,
	}, nil
}
