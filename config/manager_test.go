package config_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skekre98/startuphost/config"
)

type mockSource struct {
	name   string
	mu     sync.RWMutex
	data   map[string]any
	errVal error
}

func (m *mockSource) Name() string { return m.name }

func (m *mockSource) Load(ctx context.Context) (map[string]any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.errVal != nil {
		return nil, m.errVal
	}
	return config.CopyMap(m.data), nil
}

func (m *mockSource) Watch(ctx context.Context, ch chan<- config.Event) error { return nil }

func (m *mockSource) set(data map[string]any, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data, m.errVal = data, err
}

type appConfig struct {
	Name    string        `config:"name" validate:"required"`
	Port    int           `config:"port" validate:"required,min=1,max=65535"`
	Timeout time.Duration `config:"timeout"`
	DB      struct {
		Host string `config:"host"`
	} `config:"db"`
}

func TestNewManager_MergesSourcesInOrder(t *testing.T) {
	base := &mockSource{name: "base", data: map[string]any{
		"name": "orders", "port": 8080, "db": map[string]any{"host": "localhost"},
	}}
	override := &mockSource{name: "env", data: map[string]any{
		"port": "9090", "timeout": "5s",
	}}

	var cfg appConfig
	mgr, err := config.NewManager(&cfg, config.Options{}, base, override)
	require.NoError(t, err)
	defer mgr.Close()

	assert.Equal(t, "orders", cfg.Name)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, []string{"base", "env"}, mgr.Sources())
}

func TestNewManager_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     *mockSource
		wantErr string
	}{
		{
			name:    "load error",
			src:     &mockSource{name: "broken", errVal: errors.New("unreachable")},
			wantErr: "failed to load config from broken: unreachable",
		},
		{
			name:    "validation error",
			src:     &mockSource{name: "partial", data: map[string]any{"port": 8080}},
			wantErr: "config validate: ",
		},
		{
			name:    "decode error",
			src:     &mockSource{name: "bad", data: map[string]any{"name": "x", "port": "not-a-number"}},
			wantErr: "config decode: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg appConfig
			mgr, err := config.NewManager(&cfg, config.Options{}, tt.src)
			assert.Nil(t, mgr)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestManager_ReloadKeepsValuesOnFailure(t *testing.T) {
	src := &mockSource{name: "s", data: map[string]any{"name": "a", "port": 1}}
	var cfg appConfig
	mgr, err := config.NewManager(&cfg, config.Options{}, src)
	require.NoError(t, err)

	src.set(map[string]any{"name": "b", "port": 70000}, nil)
	err = mgr.Reload(context.Background())

	var bindErr *config.BindError
	require.ErrorAs(t, err, &bindErr)
	assert.Equal(t, config.StageValidate, bindErr.Stage)
	assert.Equal(t, "a", cfg.Name)
	assert.Equal(t, 1, cfg.Port)
}

func TestManager_ReloadHonoursCancellation(t *testing.T) {
	src := &mockSource{name: "s", data: map[string]any{"name": "a", "port": 1}}
	var cfg appConfig
	mgr, err := config.NewManager(&cfg, config.Options{}, src)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, mgr.Reload(ctx), context.Canceled)
}

func TestManager_SubscribeReceivesChangedKeys(t *testing.T) {
	src := &mockSource{name: "s", data: map[string]any{"name": "a", "port": 1}}
	var cfg appConfig
	mgr, err := config.NewManager(&cfg, config.Options{}, src)
	require.NoError(t, err)

	ch := make(chan config.Event, 1)
	mgr.Subscribe(ch)

	// unchanged values do not notify
	require.NoError(t, mgr.Reload(context.Background()))
	assert.Empty(t, ch)

	src.set(map[string]any{"name": "a", "port": 2}, nil)
	require.NoError(t, mgr.Reload(context.Background()))

	select {
	case evt := <-ch:
		assert.Equal(t, []string{"Port"}, evt.ChangedKeys)
		assert.Equal(t, 1, evt.OldConfig.(*appConfig).Port)
		assert.Equal(t, 2, evt.NewConfig.(*appConfig).Port)
	default:
		t.Fatal("expected a change event")
	}
}

func TestManager_AddSource(t *testing.T) {
	base := &mockSource{name: "base", data: map[string]any{"name": "a", "port": 1}}
	var cfg appConfig
	mgr, err := config.NewManager(&cfg, config.Options{}, base)
	require.NoError(t, err)

	extra := &mockSource{name: "extra", data: map[string]any{"port": 2}}
	require.NoError(t, mgr.AddSource(context.Background(), extra))
	assert.Equal(t, 2, cfg.Port)
	assert.Equal(t, []string{"base", "extra"}, mgr.Sources())

	broken := &mockSource{name: "broken", errVal: errors.New("nope")}
	assert.ErrorContains(t, mgr.AddSource(context.Background(), broken), "nope")
	assert.Equal(t, []string{"base", "extra"}, mgr.Sources())
	assert.Equal(t, 2, cfg.Port)
}
