package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeMaps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		dst  map[string]any
		src  map[string]any
		want map[string]any
	}{
		{
			name: "src overrides leaf",
			dst:  map[string]any{"a": 1, "b": 2},
			src:  map[string]any{"b": 3},
			want: map[string]any{"a": 1, "b": 3},
		},
		{
			name: "nested maps merge",
			dst:  map[string]any{"server": map[string]any{"addr": ":8080", "tls": false}},
			src:  map[string]any{"server": map[string]any{"addr": ":9090"}},
			want: map[string]any{"server": map[string]any{"addr": ":9090", "tls": false}},
		},
		{
			name: "map replaces leaf",
			dst:  map[string]any{"db": "sqlite"},
			src:  map[string]any{"db": map[string]any{"host": "x"}},
			want: map[string]any{"db": map[string]any{"host": "x"}},
		},
		{
			name: "leaf replaces map",
			dst:  map[string]any{"db": map[string]any{"host": "x"}},
			src:  map[string]any{"db": "sqlite"},
			want: map[string]any{"db": "sqlite"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mergeMaps(tt.dst, tt.src)
			assert.Equal(t, tt.want, tt.dst)
		})
	}
}

func TestMergeMaps_DoesNotAliasSource(t *testing.T) {
	src := map[string]any{"server": map[string]any{"addr": ":1"}}
	dst := map[string]any{}
	MergeMaps(dst, src)

	dst["server"].(map[string]any)["addr"] = ":2"
	assert.Equal(t, ":1", src["server"].(map[string]any)["addr"])
}

func TestCopyMap(t *testing.T) {
	assert.Nil(t, CopyMap(nil))

	orig := map[string]any{"a": map[string]any{"b": 1}}
	cp := CopyMap(orig)
	cp["a"].(map[string]any)["b"] = 2
	assert.Equal(t, 1, orig["a"].(map[string]any)["b"])
}

func TestDiffEvent(t *testing.T) {
	type cfg struct {
		Name   string
		Port   int
		Tags   []string
		hidden int
	}

	old := &cfg{Name: "a", Port: 1, Tags: []string{"x"}, hidden: 1}
	updated := &cfg{Name: "a", Port: 2, Tags: []string{"y"}, hidden: 2}

	evt := diffEvent(old, updated)
	assert.Equal(t, []string{"Port", "Tags"}, evt.ChangedKeys)
	assert.Same(t, old, evt.OldConfig)

	assert.Empty(t, diffEvent(nil, updated).ChangedKeys)
	assert.Empty(t, diffEvent(1, 2).ChangedKeys)
}

func TestBinder_Bind(t *testing.T) {
	type server struct {
		Addr    string        `config:"addr" validate:"required"`
		Timeout time.Duration `config:"timeout"`
		Hosts   []string      `config:"hosts"`
		Port    int           `config:"port" validate:"min=0,max=65535"`
	}

	var got server
	err := NewBinder().Bind(map[string]any{
		"addr":    ":8080",
		"timeout": "2s",
		"hosts":   "a,b",
		"port":    "443",
	}, &got)
	require.NoError(t, err)
	assert.Equal(t, server{Addr: ":8080", Timeout: 2 * time.Second, Hosts: []string{"a", "b"}, Port: 443}, got)

	err = NewBinder().Bind(map[string]any{"port": 1}, &server{})
	var bindErr *BindError
	require.ErrorAs(t, err, &bindErr)
	assert.Equal(t, StageValidate, bindErr.Stage)
}

func TestBind_RootDefaults(t *testing.T) {
	src := Defaults()
	MergeMaps(src, map[string]any{"app": map[string]any{"name": "orders", "version": "1.0.0"}})

	var root Root
	require.NoError(t, NewBinder().Bind(src, &root))
	assert.Equal(t, ":8080", root.Server.Addr)
	assert.Equal(t, "info", root.Logging.Level)
	assert.Equal(t, "/actuator", root.Actuator.BasePath)

	MergeMaps(src, map[string]any{"logging": map[string]any{"level": "verbose"}})
	assert.Error(t, NewBinder().Bind(src, &Root{}))
}

func TestEnvironment(t *testing.T) {
	t.Setenv(ProfileEnv, "Development")
	env := LoadEnvironment("orders")
	assert.Equal(t, "orders", env.AppName)
	assert.True(t, env.IsDevelopment())
	assert.False(t, env.IsProduction())
	assert.NotEmpty(t, env.ContentRoot)

	t.Setenv(ProfileEnv, "")
	assert.True(t, LoadEnvironment("orders").IsProduction())
}
