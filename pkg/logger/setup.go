package logger

import (
	"log/slog"
	"strings"

	"github.com/shuldan/ioc/pkg/contracts"
)

// FromConfig translates the "logging" section into options:
//
//	logging:
//	  level: debug
//	  format: json
//	  include_caller: true
//	  enable_colors: true
//	  redact: [password, dsn]
func FromConfig(cfg contracts.Config) ([]Option, error) {
	var opts []Option
	if cfg == nil {
		return opts, nil
	}

	section, ok := cfg.GetSub("logging")
	if !ok {
		return opts, nil
	}

	level, err := ParseLevel(section.GetString("level", "info"))
	if err != nil {
		return nil, err
	}
	opts = append(opts, WithLevel(level))

	switch format := strings.ToLower(section.GetString("format", "text")); format {
	case "json":
		opts = append(opts, WithJSON())
	case "text", "":
		opts = append(opts, WithText())
	default:
		return nil, ErrUnknownFormat.WithDetail("format", format)
	}

	if section.GetBool("include_caller", false) {
		opts = append(opts, WithSource())
	}
	if section.GetBool("enable_colors", false) {
		opts = append(opts, WithColor())
	}
	if keys := section.GetStringSlice("redact"); len(keys) > 0 {
		opts = append(opts, WithRedaction(keys...))
	}

	return opts, nil
}

// Init builds the process logger from configuration and installs it as the
// slog default. Options in extra are applied after the configured ones.
func Init(cfg contracts.Config, extra ...Option) (contracts.Logger, error) {
	opts, err := FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	opts = append(opts, extra...)

	l, err := NewLogger(opts...)
	if err != nil {
		return nil, err
	}
	if s, ok := l.(*sLogger); ok {
		slog.SetDefault(s.Logger)
	}
	return l, nil
}
