package config

import (
	"os"
	"strings"
)

// DefaultFiles are probed when no file is configured explicitly.
var DefaultFiles = []string{"app.yaml", "app.yml", "app.json", ".env"}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func withSuffix(paths []string, suffixes ...string) []string {
	var result []string
	for _, p := range paths {
		for _, s := range suffixes {
			if strings.HasSuffix(strings.ToLower(p), s) {
				result = append(result, p)
				break
			}
		}
	}
	return result
}

func noSource(paths []string) error {
	return ErrNoConfigSource.WithDetail("paths", strings.Join(paths, ", "))
}
