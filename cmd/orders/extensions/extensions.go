// Package extensions holds the orders service's startup extensions. They
// register themselves into this package's startup module; the host selects
// the module with Marker.
package extensions

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skekre98/startuphost/actuator"
	"github.com/skekre98/startuphost/config"
	"github.com/skekre98/startuphost/config/source"
	"github.com/skekre98/startuphost/core"
	"github.com/skekre98/startuphost/host"
	"github.com/skekre98/startuphost/startup"
	"github.com/skekre98/startuphost/web"
)

type Marker struct{}

func init() {
	m := startup.ModuleOf[Marker]()
	startup.Provide(m, func() *webHost { return &webHost{} })
	startup.Provide(m, func() *devConfiguration { return &devConfiguration{} })
	startup.Provide(m, func() *orderRoutes { return &orderRoutes{} })
	startup.Provide(m, func() *orderStore { return &orderStore{} })
	startup.Provide(m, func() *seedOrders { return &seedOrders{} })
}

type webHost struct{}

func (webHost) Order() int { return 0 }

func (webHost) Configure(b *host.Builder) error {
	b.AddModule(web.Module(), actuator.Module())
	return nil
}

// devConfiguration turns on debug logging and metrics outside production.
type devConfiguration struct{}

func (devConfiguration) Order() int { return 0 }

func (devConfiguration) ConfigureConfiguration(env config.Environment, m *config.Manager) error {
	if env.IsProduction() {
		return nil
	}
	return m.AddSource(context.Background(), source.NewMapSource("orders-dev", map[string]any{
		"observability": map[string]any{"metrics": map[string]any{"enabled": true}},
	}))
}

type orderStore struct{}

func (orderStore) Order() int { return 0 }

func (orderStore) ConfigureServices(c core.Container, _ config.Root) error {
	core.Put(c, NewStore())
	return nil
}

// orderRoutes needs the store, so it runs after orderStore.
type orderRoutes struct{}

func (orderRoutes) Order() int { return 10 }

func (orderRoutes) ConfigureServices(c core.Container, _ config.Root) error {
	store, ok := core.Lookup[*Store](c)
	if !ok {
		return errors.New("orders: store not registered")
	}
	web.AddRoutes(c, func(r web.Router) {
		g := r.Group("/orders")
		g.GET("", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, store.List())
		})
		g.GET("/:id", func(ctx *gin.Context) {
			o, err := store.Get(ctx.Param("id"))
			if err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, o)
		})
		g.POST("", func(ctx *gin.Context) {
			var req struct {
				Item     string `json:"item" binding:"required"`
				Quantity int    `json:"quantity" binding:"required,min=1"`
			}
			if err := ctx.ShouldBindJSON(&req); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, store.Create(req.Item, req.Quantity))
		})
	})
	return nil
}

// seedOrders fills an empty store with sample orders in development.
type seedOrders struct{}

func (seedOrders) Order() int { return 0 }

func (seedOrders) PostBuildConfigure(h *host.Host, scope *core.Scope) error {
	if !h.Environment().IsDevelopment() {
		return nil
	}
	store := core.Get[*Store](scope)
	if len(store.List()) > 0 {
		return nil
	}
	batch := &seedBatch{logger: h.Logger()}
	core.Put(scope, batch)
	for _, item := range []string{"espresso", "croissant"} {
		store.Create(item, 1)
		batch.n++
	}
	return nil
}

type seedBatch struct {
	logger *slog.Logger
	n      int
}

func (b *seedBatch) Close() error {
	b.logger.Info("seeded orders", "count", b.n)
	return nil
}
