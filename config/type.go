package config

import "context"

// ConfigSource is one layer of configuration. Later sources override earlier
// ones when a Manager merges them.
type ConfigSource interface {
	// Load returns the source's values as a nested string-keyed map. The map
	// must be a copy the Manager may modify.
	Load(ctx context.Context) (map[string]any, error)

	// Watch sends on ch whenever the source changes, until ctx is done.
	// Sources that cannot change return nil immediately.
	Watch(ctx context.Context, ch chan<- Event) error

	// Name identifies the source in errors and logs ("file", "env", ...).
	Name() string
}

// Event is sent to subscribers after a reload changed the configuration.
type Event struct {
	// ChangedKeys lists the top-level struct fields that differ.
	ChangedKeys []string
	OldConfig   any
	NewConfig   any
}
