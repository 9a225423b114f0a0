package config

import (
	"strings"

	"github.com/shuldan/ioc/pkg/contracts"
)

// MapConfig is a read-only view over nested maps addressed by dot paths.
// Typed getters convert between the scalar kinds the loaders produce and
// fall back to the first default when the value is missing or does not
// convert.
type MapConfig struct {
	values map[string]any
}

var (
	_ contracts.Config           = (*MapConfig)(nil)
	_ contracts.PropertyResolver = (*MapConfig)(nil)
)

func NewMapConfig(values map[string]any) *MapConfig {
	if values == nil {
		values = make(map[string]any)
	}
	return &MapConfig{values: values}
}

func (c *MapConfig) Has(key string) bool {
	_, ok := c.find(key)
	return ok
}

func (c *MapConfig) Get(key string) any {
	value, _ := c.find(key)
	return value
}

func (c *MapConfig) GetString(key string, fallback ...string) string {
	v, ok := c.find(key)
	if !ok {
		return first(fallback)
	}
	return toString(v)
}

func (c *MapConfig) GetInt(key string, fallback ...int) int {
	return typed(c, key, toInt, fallback)
}

func (c *MapConfig) GetInt64(key string, fallback ...int64) int64 {
	return typed(c, key, toInt64, fallback)
}

func (c *MapConfig) GetUint64(key string, fallback ...uint64) uint64 {
	return typed(c, key, toUint64, fallback)
}

func (c *MapConfig) GetFloat64(key string, fallback ...float64) float64 {
	return typed(c, key, toFloat64, fallback)
}

func (c *MapConfig) GetBool(key string, fallback ...bool) bool {
	return typed(c, key, toBool, fallback)
}

// GetStringSlice accepts lists or a separated string (comma by default).
func (c *MapConfig) GetStringSlice(key string, separator ...string) []string {
	v, ok := c.find(key)
	if !ok {
		return nil
	}
	sep := ","
	if len(separator) > 0 {
		sep = separator[0]
	}
	return toStringSlice(v, sep)
}

func (c *MapConfig) GetSub(key string) (contracts.Config, bool) {
	sub, ok := c.find(key)
	if !ok {
		return nil, false
	}
	if subMap, ok := asStringMap(sub); ok {
		return NewMapConfig(subMap), true
	}
	return nil, false
}

// Lookup returns the scalar at key as a string. Sections and missing or nil
// values are reported as absent.
func (c *MapConfig) Lookup(key string) (string, bool) {
	v, ok := c.find(key)
	if !ok || v == nil {
		return "", false
	}
	if _, isMap := asStringMap(v); isMap {
		return "", false
	}
	return toString(v), true
}

func (c *MapConfig) ComputeTemplateValue(template string) (string, error) {
	return Expand(template, c.Lookup)
}

// All returns a shallow copy of the top level.
func (c *MapConfig) All() map[string]any {
	cp := make(map[string]any, len(c.values))
	for k, v := range c.values {
		cp[k] = v
	}
	return cp
}

func (c *MapConfig) find(path string) (any, bool) {
	var current any = c.values
	for _, k := range strings.Split(path, ".") {
		section, ok := asStringMap(current)
		if !ok {
			return nil, false
		}
		if current, ok = section[k]; !ok {
			return nil, false
		}
	}
	return current, true
}

func typed[T any](c *MapConfig, key string, convert func(any) (T, bool), defaults []T) T {
	v, ok := c.find(key)
	if !ok {
		return first(defaults)
	}
	if out, ok := convert(v); ok {
		return out
	}
	return first(defaults)
}

func first[T any](values []T) T {
	var zero T
	if len(values) > 0 {
		return values[0]
	}
	return zero
}
