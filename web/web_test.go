package web

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skekre98/startuphost/config"
	"github.com/skekre98/startuphost/core"
)

func newContainer(logs io.Writer) core.Container {
	c := core.NewContainer()
	core.Put(c, config.Root{Server: config.ServerConfig{Addr: "127.0.0.1:0"}})
	core.Put(c, slog.New(slog.NewTextHandler(logs, nil)))
	return c
}

func TestModule_RoutesFromOptionsAndContainer(t *testing.T) {
	c := newContainer(io.Discard)
	AddRoutes(c, func(r Router) {
		r.GET("/from-container", func(ctx *gin.Context) { ctx.String(http.StatusOK, "container") })
	})

	m := Module(WithRoutes(func(r Router) {
		r.GET("/from-option", func(ctx *gin.Context) { ctx.String(http.StatusOK, "option") })
	}))
	require.NoError(t, m.Configure(c))
	engine := Engine(c)

	for path, want := range map[string]string{"/from-option": "option", "/from-container": "container"} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, want, w.Body.String(), path)
	}
	assert.NotNil(t, core.Get[*http.Server](c))
}

func TestRequestID(t *testing.T) {
	c := newContainer(io.Discard)
	require.NoError(t, Module(WithRoutes(func(r Router) {
		r.GET("/", func(ctx *gin.Context) { ctx.Status(http.StatusNoContent) })
	})).Configure(c))
	engine := Engine(c)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))
}

func TestRecoveryProblem(t *testing.T) {
	var logs bytes.Buffer
	c := newContainer(&logs)
	require.NoError(t, Module(WithRoutes(func(r Router) {
		r.GET("/panic", func(*gin.Context) { panic("oops") })
	})).Configure(c))

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	w := httptest.NewRecorder()
	Engine(c).ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `"instance":"req-1"`)
	assert.Contains(t, logs.String(), "oops")
}

func TestModule_StartStop(t *testing.T) {
	c := newContainer(io.Discard)
	m := Module()
	require.NoError(t, m.Configure(c))
	require.NoError(t, m.Start(context.Background(), c))
	require.NoError(t, m.Stop(context.Background(), c))
}

func TestModule_StartFailsOnBusyAddress(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	c := newContainer(io.Discard)
	core.Put(c, config.Root{Server: config.ServerConfig{Addr: ln.Addr().String()}})
	m := Module()
	require.NoError(t, m.Configure(c))

	err = m.Start(context.Background(), c)
	assert.ErrorContains(t, err, "listen "+ln.Addr().String())
	assert.NoError(t, m.Stop(context.Background(), c))
}

func TestAddRoutes_AccumulatesAcrossCalls(t *testing.T) {
	c := newContainer(io.Discard)
	var applied []string
	AddRoutes(c, func(Router) { applied = append(applied, "store") })
	AddRoutes(c, func(Router) { applied = append(applied, "orders") }, func(Router) { applied = append(applied, "admin") })

	require.NoError(t, Module().Configure(c))
	assert.Equal(t, []string{"store", "orders", "admin"}, applied)
}
