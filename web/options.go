package web

import (
	"sync"

	"github.com/skekre98/startuphost/core"
)

type Options struct {
	// Called during Configure to register routes.
	Routes []func(r Router)
	// Optional additional middlewares.
	Middlewares []Handler
}

type Option func(*Options)

func WithRoutes(f func(r Router)) Option {
	return func(o *Options) { o.Routes = append(o.Routes, f) }
}

func WithMiddlewares(m ...Handler) Option {
	return func(o *Options) { o.Middlewares = append(o.Middlewares, m...) }
}

// Routes collects route registrations contributed through the container,
// typically by ServicesConfigure extensions, before the web module is
// configured.
type Routes struct {
	mu  sync.Mutex
	fns []func(r Router)
}

// AddRoutes queues route registrations on the container's Routes.
func AddRoutes(c core.Container, fns ...func(r Router)) {
	rs, ok := core.Lookup[*Routes](c)
	if !ok {
		rs = &Routes{}
		core.Put(c, rs)
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.fns = append(rs.fns, fns...)
}

func (rs *Routes) apply(r Router) {
	rs.mu.Lock()
	fns := append([]func(Router){}, rs.fns...)
	rs.mu.Unlock()
	for _, f := range fns {
		f(r)
	}
}
