package contracts

// Config is a read-only tree of settings addressed by dot-separated keys.
// Typed getters return the first fallback, or the zero value, when the key
// is absent or cannot be converted.
type Config interface {
	Has(key string) bool
	Get(key string) any
	All() map[string]any
	GetSub(key string) (Config, bool)

	GetString(key string, fallback ...string) string
	GetStringSlice(key string, separator ...string) []string
	GetBool(key string, fallback ...bool) bool
	GetInt(key string, fallback ...int) int
	GetInt64(key string, fallback ...int64) int64
	GetUint64(key string, fallback ...uint64) uint64
	GetFloat64(key string, fallback ...float64) float64
}

// PropertyResolver expands "${key}" and "${key:default}" placeholders.
type PropertyResolver interface {
	Lookup(key string) (string, bool)
	ComputeTemplateValue(template string) (string, error)
}
