package source

import (
	"context"

	"github.com/skekre98/startuphost/config"
)

// MapSource serves fixed in-memory values. Hosts use it for defaults and
// startup extensions use it to contribute configuration.
type MapSource struct {
	SourceName string
	Values     map[string]any
}

func NewMapSource(name string, values map[string]any) *MapSource {
	return &MapSource{SourceName: name, Values: values}
}

func (s *MapSource) Name() string {
	if s.SourceName == "" {
		return "map"
	}
	return s.SourceName
}

func (s *MapSource) Load(ctx context.Context) (map[string]any, error) {
	if s.Values == nil {
		return map[string]any{}, nil
	}
	return config.CopyMap(s.Values), nil
}

// Watch is a no-op.
func (s *MapSource) Watch(ctx context.Context, ch chan<- config.Event) error { return nil }
