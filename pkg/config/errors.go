package config

import "github.com/shuldan/ioc/pkg/errors"

var newConfigCode = errors.WithPrefix("CONFIG")

var (
	ErrNoConfigSource    = newConfigCode().New("no configuration source found in {{.paths}}")
	ErrParseYAML         = newConfigCode().New("failed to parse YAML file {{.path}}: {{.reason}}")
	ErrParseJSON         = newConfigCode().New("failed to parse JSON file {{.path}}: {{.reason}}")
	ErrParseDotenv       = newConfigCode().New("failed to parse dotenv file {{.path}}: {{.reason}}")
	ErrMergeFailed       = newConfigCode().New("cannot merge section {{.key}}: it has non-string keys")
	ErrPropertyNotFound  = newConfigCode().New("property {{.key}} has no value and no default")
	ErrMalformedTemplate = newConfigCode().New("malformed template {{.template}} at offset {{.offset}}")
	ErrInvalidValue      = newConfigCode().New("value {{.value}} of {{.template}} is not a valid {{.kind}}")
	ErrTemplatedValue    = newConfigCode().New("failed to expand configuration key {{.key}}")
	ErrReferenceDepth    = newConfigCode().New("reference through {{.key}} nests deeper than {{.depth}} levels")
)
