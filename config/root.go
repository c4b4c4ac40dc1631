package config

import "time"

type AppInfo struct {
	Name    string `config:"name" validate:"required"`
	Version string `config:"version" validate:"required"`
}

type MetricsConfig struct {
	Enabled bool   `config:"enabled"`
	Path    string `config:"path"`
}

type ObservabilityConfig struct {
	Metrics MetricsConfig `config:"metrics"`
}

type ActuatorConfig struct {
	BasePath string `config:"basePath"`
}

type ServerConfig struct {
	Addr         string        `config:"addr" validate:"required"`
	ReadTimeout  time.Duration `config:"readTimeout"`
	WriteTimeout time.Duration `config:"writeTimeout"`
	IdleTimeout  time.Duration `config:"idleTimeout"`
}

type LoggingConfig struct {
	Level  string `config:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `config:"format" validate:"omitempty,oneof=text json"`
	// File, when set, sends logs to a size-rotated file instead of stdout.
	File LogFileConfig `config:"file"`
}

type LogFileConfig struct {
	Path       string `config:"path"`
	MaxSizeMB  int    `config:"maxSizeMB" validate:"min=0"`
	MaxBackups int    `config:"maxBackups" validate:"min=0"`
	MaxAgeDays int    `config:"maxAgeDays" validate:"min=0"`
	Compress   bool   `config:"compress"`
}

type Root struct {
	App           AppInfo             `config:"app"`
	Server        ServerConfig        `config:"server"`
	Logging       LoggingConfig       `config:"logging"`
	Observability ObservabilityConfig `config:"observability"`
	Actuator      ActuatorConfig      `config:"actuator"`
}

// Defaults is the lowest configuration layer of a host.
func Defaults() map[string]any {
	return map[string]any{
		"server":   map[string]any{"addr": ":8080"},
		"logging":  map[string]any{"level": "info", "format": "text"},
		"actuator": map[string]any{"basePath": "/actuator"},
		"observability": map[string]any{
			"metrics": map[string]any{"path": "/actuator/metrics"},
		},
	}
}
