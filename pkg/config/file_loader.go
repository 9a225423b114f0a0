package config

import (
	"encoding/json"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/shuldan/ioc/pkg/errors"
)

type decodeFunc func(data []byte, out *map[string]any) error

// FileLoader decodes the first readable file among its candidates.
type FileLoader struct {
	paths  []string
	decode decodeFunc
	failed *errors.Error
}

func NewYAMLLoader(paths ...string) *FileLoader {
	return &FileLoader{
		paths: paths,
		decode: func(data []byte, out *map[string]any) error {
			return yaml.UnmarshalWithOptions(data, out, yaml.UseJSONUnmarshaler())
		},
		failed: ErrParseYAML,
	}
}

func NewJSONLoader(paths ...string) *FileLoader {
	return &FileLoader{
		paths: paths,
		decode: func(data []byte, out *map[string]any) error {
			return json.Unmarshal(data, out)
		},
		failed: ErrParseJSON,
	}
}

func (l *FileLoader) Load() (map[string]any, error) {
	for _, path := range l.paths {
		if !fileExists(path) {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		values := map[string]any{}
		if err := l.decode(data, &values); err != nil {
			return nil, l.failed.
				WithDetail("path", path).
				WithDetail("reason", err.Error()).
				WithCause(err)
		}
		return values, nil
	}
	return nil, noSource(l.paths)
}
