package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skekre98/startuphost/config"
	"github.com/skekre98/startuphost/core"
)

const Name = "web"

// Engine returns the gin engine the web module put into c.
func Engine(c core.Container) *gin.Engine {
	return core.Get[*gin.Engine](c)
}

// Module serves HTTP on server.addr. Routes come from options and from
// AddRoutes calls made before the module is configured.
func Module(opts ...Option) core.Module {
	m := &webModule{BaseModule: core.BaseModule{ModuleName: Name}}
	for _, o := range opts {
		o(&m.opts)
	}
	return m
}

type webModule struct {
	core.BaseModule
	opts Options

	server *http.Server
	logger *slog.Logger
	done   chan struct{}
}

func (m *webModule) Configure(c core.Container) error {
	cfg := core.Get[config.Root](c)
	m.logger = core.Get[*slog.Logger](c).With(slog.String("module", Name))

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(RequestID(), RecoveryProblem(m.logger), AccessLog(m.logger))
	engine.Use(m.opts.Middlewares...)

	for _, register := range m.opts.Routes {
		register(engine)
	}
	if rs, ok := core.Lookup[*Routes](c); ok {
		rs.apply(engine)
	}

	m.server = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	core.Put(c, engine)
	core.Put(c, m.server)
	return nil
}

// Start binds the listener before returning so address errors fail the
// module start.
func (m *webModule) Start(ctx context.Context, _ core.Container) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", m.server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", m.server.Addr, err)
	}

	m.done = make(chan struct{})
	m.logger.Info("http server listening", "addr", ln.Addr().String())
	go func() {
		defer close(m.done)
		if err := m.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.Error("http server stopped", "error", err)
		}
	}()
	return nil
}

func (m *webModule) Stop(ctx context.Context, _ core.Container) error {
	if m.done == nil {
		return nil
	}
	if err := m.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	<-m.done
	return nil
}
