package source

import (
	"context"
	"os"
	"strings"

	"github.com/skekre98/startuphost/config"
)

// DefaultEnvPrefix is used when EnvSource.Prefix is empty.
const DefaultEnvPrefix = "APP_"

// EnvSource loads prefixed environment variables, splitting the rest of the
// name on underscores into nested lowercase keys:
//
//	APP_SERVER_ADDR=:9090  ->  {server: {addr: ":9090"}}
//
// Values stay strings; the Binder converts them. When a leaf and a nested
// key collide (APP_DB=x and APP_DB_HOST=y) whichever comes first wins.
type EnvSource struct {
	Prefix string
	// Environ replaces os.Environ, mainly for tests.
	Environ func() []string
}

func (e *EnvSource) Name() string { return "env" }

func (e *EnvSource) Load(ctx context.Context) (map[string]any, error) {
	prefix := e.Prefix
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}
	environ := e.Environ
	if environ == nil {
		environ = os.Environ
	}
	return loadEnvVars(prefix, environ()), nil
}

// Watch is a no-op; the environment is fixed for the process lifetime.
func (e *EnvSource) Watch(ctx context.Context, ch chan<- config.Event) error {
	return nil
}

func loadEnvVars(prefix string, environ []string) map[string]any {
	result := make(map[string]any)
	for _, env := range environ {
		key, value, found := strings.Cut(env, "=")
		if !found || !strings.HasPrefix(key, prefix) {
			continue
		}
		key = strings.ToLower(strings.TrimPrefix(key, prefix))
		setNestedValue(result, strings.Split(key, "_"), value)
	}
	return result
}

func setNestedValue(m map[string]any, segments []string, value string) {
	current := m
	for i, segment := range segments {
		if segment == "" {
			continue
		}
		if i == len(segments)-1 {
			current[segment] = value
			return
		}
		existing, exists := current[segment]
		if !exists {
			nested := make(map[string]any)
			current[segment] = nested
			current = nested
			continue
		}
		nested, ok := existing.(map[string]any)
		if !ok {
			// a leaf already owns this path
			return
		}
		current = nested
	}
}
