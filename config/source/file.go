package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/skekre98/startuphost/config"
)

// FileSource loads <BasePath>/<BaseName>.yaml (or .yml) and deep-merges the
// optional profile overlay <BaseName>.<Profile>.yaml over it:
//
//	configs/
//	  application.yaml
//	  application.development.yaml
type FileSource struct {
	BasePath string
	// BaseName defaults to "application".
	BaseName string
	// Profile selects the overlay; a missing overlay file is ignored.
	Profile string
	// Optional makes a missing base file load as empty instead of failing.
	Optional bool
}

func (f *FileSource) Name() string { return "file" }

// Load returns os.ErrNotExist (wrapped) when the base file is missing and the
// source is not optional.
func (f *FileSource) Load(ctx context.Context) (map[string]any, error) {
	base := f.BaseName
	if base == "" {
		base = "application"
	}

	data := map[string]any{}
	baseFile := findYAMLFile(f.BasePath, base)
	if baseFile == "" {
		if f.Optional {
			return data, nil
		}
		return nil, fmt.Errorf("%s config in %s: %w", base, f.BasePath, os.ErrNotExist)
	}
	if err := readYAML(baseFile, data); err != nil {
		return nil, err
	}

	if f.Profile != "" {
		if profileFile := findYAMLFile(f.BasePath, base+"."+f.Profile); profileFile != "" {
			overlay := map[string]any{}
			if err := readYAML(profileFile, overlay); err != nil {
				return nil, err
			}
			config.MergeMaps(data, overlay)
		}
	}
	return data, nil
}

// Watch is a no-op.
// TODO: reload on change with fsnotify once hosts run with AutoReload.
func (f *FileSource) Watch(ctx context.Context, ch chan<- config.Event) error { return nil }

func findYAMLFile(dir, basename string) string {
	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(dir, basename+ext)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func readYAML(path string, out map[string]any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, &out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
