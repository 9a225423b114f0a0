package config

import (
	"strings"

	"github.com/joho/godotenv"
)

// DotenvConfigLoader reads KEY=value files without touching the process
// environment. Keys follow the same rules as EnvConfigLoader; keys without
// the prefix are ignored unless the prefix is empty.
type DotenvConfigLoader struct {
	prefix string
	paths  []string
}

func NewDotenvConfigLoader(prefix string, paths ...string) *DotenvConfigLoader {
	return &DotenvConfigLoader{prefix: prefix, paths: paths}
}

func (l *DotenvConfigLoader) Load() (map[string]any, error) {
	var existing []string
	for _, p := range l.paths {
		if fileExists(p) {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil, noSource(l.paths)
	}

	config := make(map[string]any)
	for _, path := range existing {
		values, err := godotenv.Read(path)
		if err != nil {
			return nil, ErrParseDotenv.
				WithDetail("path", path).
				WithDetail("reason", err.Error()).
				WithCause(err)
		}
		for key, value := range values {
			if !strings.HasPrefix(key, l.prefix) {
				continue
			}
			setEnvStyle(config, strings.TrimPrefix(key, l.prefix), value)
		}
	}
	return config, nil
}
