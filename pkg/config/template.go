package config

import (
	"strconv"
	"strings"
)

type templatedLoader struct {
	loader Loader
}

// maxReferenceDepth bounds chains like a -> b -> c, and self references.
const maxReferenceDepth = 16

// NewTemplatedLoader expands ${key} placeholders found in string values of
// the wrapped loader's output. Keys refer to other entries of that output,
// which are expanded in turn.
func NewTemplatedLoader(loader Loader) Loader {
	return &templatedLoader{loader: loader}
}

func (t *templatedLoader) Load() (map[string]any, error) {
	raw, err := t.loader.Load()
	if err != nil {
		return nil, err
	}

	source := NewMapConfig(raw)
	processed := make(map[string]any, len(raw))
	for k, v := range raw {
		pv, err := t.processValue(source, k, v)
		if err != nil {
			return nil, err
		}
		processed[k] = pv
	}
	return processed, nil
}

func (t *templatedLoader) processValue(source *MapConfig, path string, v any) (any, error) {
	switch val := v.(type) {
	case string:
		if !strings.Contains(val, "${") {
			return val, nil
		}
		refs := &references{source: source}
		expanded, err := Expand(val, refs.lookup(1))
		if err == nil {
			err = refs.err
		}
		if err != nil {
			return nil, ErrTemplatedValue.WithDetail("key", path).WithCause(err)
		}
		return expanded, nil
	case map[string]any:
		mapped := make(map[string]any, len(val))
		for k, item := range val {
			pv, err := t.processValue(source, path+"."+k, item)
			if err != nil {
				return nil, err
			}
			mapped[k] = pv
		}
		return mapped, nil
	case []any:
		result := make([]any, len(val))
		for i, item := range val {
			pv, err := t.processValue(source, path+"["+strconv.Itoa(i)+"]", item)
			if err != nil {
				return nil, err
			}
			result[i] = pv
		}
		return result, nil
	default:
		return val, nil
	}
}

// references resolves placeholder keys, expanding referenced values that
// contain placeholders themselves. The first failure is kept in err.
type references struct {
	source *MapConfig
	err    error
}

func (r *references) lookup(depth int) func(key string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := r.source.Lookup(key)
		if !ok || r.err != nil || !strings.Contains(v, "${") {
			return v, ok
		}
		if depth >= maxReferenceDepth {
			r.err = ErrReferenceDepth.
				WithDetail("key", key).
				WithDetail("depth", maxReferenceDepth)
			return "", true
		}
		expanded, err := Expand(v, r.lookup(depth+1))
		if err != nil {
			r.err = err
			return "", true
		}
		return expanded, true
	}
}
