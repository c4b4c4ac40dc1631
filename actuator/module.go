// Package actuator exposes operational endpoints under actuator.basePath:
// health, build info, Prometheus metrics and the startup report.
package actuator

import (
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skekre98/startuphost/config"
	"github.com/skekre98/startuphost/core"
	"github.com/skekre98/startuphost/startup"
	"github.com/skekre98/startuphost/web"
)

const Name = "actuator"

func Module() core.Module {
	return &module{BaseModule: core.BaseModule{ModuleName: Name}}
}

type module struct {
	core.BaseModule
}

func (m *module) DependsOn() []string { return []string{web.Name} }

func (m *module) Configure(c core.Container) error {
	engine := web.Engine(c)
	cfg := core.Get[config.Root](c)
	group := engine.Group(cfg.Actuator.BasePath)

	group.GET("/health", health)
	group.GET("/info", info(cfg.App))

	if metrics := cfg.Observability.Metrics; metrics.Enabled {
		handler := gin.WrapH(promhttp.Handler())
		if strings.HasPrefix(metrics.Path, "/") {
			engine.GET(metrics.Path, handler)
		} else {
			group.GET("/metrics", handler)
		}
	}

	if rec, ok := core.Lookup[*startup.Recorder](c); ok {
		group.GET("/startup", startupReport(rec))
	}
	return nil
}

func health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "UP", "checks": []gin.H{}})
}

func info(app config.AppInfo) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"app": gin.H{"name": app.Name, "version": app.Version},
			"runtime": gin.H{
				"go":           runtime.Version(),
				"numGoroutine": runtime.NumGoroutine(),
				"time":         time.Now().UTC().Format(time.RFC3339),
				"pid":          os.Getpid(),
			},
		})
	}
}

func startupReport(rec *startup.Recorder) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		report := rec.Report()
		ctx.JSON(http.StatusOK, gin.H{
			"id":       report.ID,
			"failures": report.Failures(),
			"phases":   report.Phases,
		})
	}
}
