package config

import "strings"

// ArgsConfigLoader turns --section.key=value arguments into overrides. A bare
// --flag sets flag to true; anything not starting with -- is ignored.
type ArgsConfigLoader struct {
	args []string
}

func NewArgsConfigLoader(args []string) *ArgsConfigLoader {
	return &ArgsConfigLoader{args: args}
}

func (l *ArgsConfigLoader) Load() (map[string]any, error) {
	config := make(map[string]any)
	for _, arg := range l.args {
		body, ok := strings.CutPrefix(arg, "--")
		if !ok || body == "" {
			continue
		}
		key, value, hasValue := strings.Cut(body, "=")
		if key == "" {
			continue
		}
		if !hasValue {
			setNested(config, key, true)
			continue
		}
		setNested(config, key, typedValue(value))
	}
	return config, nil
}
