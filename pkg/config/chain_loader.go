package config

import "github.com/shuldan/ioc/pkg/errors"

type chainLoader []Loader

// NewChainLoader merges the output of loaders in order; later loaders
// override earlier ones key by key. Loaders reporting ErrNoConfigSource are
// skipped, any other failure aborts.
func NewChainLoader(loaders ...Loader) Loader {
	return chainLoader(loaders)
}

func (c chainLoader) Load() (map[string]any, error) {
	merged := map[string]any{}
	for _, loader := range c {
		layer, err := loader.Load()
		if errors.Is(err, ErrNoConfigSource) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if err := overlay(merged, layer, ""); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// overlay copies src into dst. Sections are merged recursively and copied,
// so dst never aliases a loader's maps.
func overlay(dst, src map[string]any, prefix string) error {
	for key, value := range src {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		section, isSection := asStringMap(value)
		if !isSection {
			if _, raw := value.(map[any]any); raw {
				return ErrMergeFailed.WithDetail("key", path)
			}
			dst[key] = value
			continue
		}

		target, ok := dst[key].(map[string]any)
		if !ok {
			target = make(map[string]any, len(section))
			dst[key] = target
		}
		if err := overlay(target, section, path); err != nil {
			return err
		}
	}
	return nil
}

func asStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			key, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[key] = val
		}
		return out, true
	}
	return nil, false
}
