package config

import (
	"os"
	"strconv"
	"strings"
)

// EnvConfigLoader maps PREFIX_SECTION__KEY=value to section.key. Values
// that parse as bool, int or float are stored typed.
type EnvConfigLoader struct {
	prefix string
}

func NewEnvConfigLoader(prefix string) *EnvConfigLoader {
	return &EnvConfigLoader{prefix: prefix}
}

func (l *EnvConfigLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(key, l.prefix) {
			continue
		}
		setEnvStyle(config, strings.TrimPrefix(key, l.prefix), value)
	}

	return config, nil
}

func setEnvStyle(config map[string]any, name, value string) {
	configKey := strings.ToLower(name)
	configKey = strings.ReplaceAll(configKey, "__", ".")
	if configKey == "" {
		return
	}
	setNested(config, configKey, typedValue(value))
}

// typedValue prefers numbers so that "1" stays an int. Digits with a
// leading zero, like "007", are identifiers and stay strings.
func typedValue(value string) any {
	if hasLeadingZero(value) {
		return value
	}
	if i, err := strconv.Atoi(value); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return value
}

func hasLeadingZero(value string) bool {
	digits := strings.TrimLeft(value, "+-")
	return len(digits) > 1 && digits[0] == '0' && digits[1] >= '0' && digits[1] <= '9'
}

func setNested(m map[string]any, key string, value any) {
	keys := strings.Split(key, ".")
	last := len(keys) - 1

	current := m
	for i, k := range keys {
		if i == last {
			current[k] = value
			return
		}
		next, ok := current[k].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[k] = next
		}
		current = next
	}
}
