package logger

import (
	"io"
	"log/slog"
	"strings"
)

type Option func(*settings)

type replaceFunc func(groups []string, a slog.Attr) slog.Attr

type settings struct {
	level       slog.Level
	json        bool
	addSource   bool
	wantColor   bool
	writer      io.Writer
	replaceAttr replaceFunc
	attrs       []any
}

// chain runs next on the result of prev. A dropped attribute stays dropped.
func chain(prev, next replaceFunc) replaceFunc {
	if prev == nil {
		return next
	}
	return func(groups []string, a slog.Attr) slog.Attr {
		a = prev(groups, a)
		if a.Equal(slog.Attr{}) {
			return a
		}
		return next(groups, a)
	}
}

// WithReplaceAttr appends f to the attribute rewriting chain.
func WithReplaceAttr(f func(groups []string, a slog.Attr) slog.Attr) Option {
	return func(s *settings) {
		s.replaceAttr = chain(s.replaceAttr, f)
	}
}

func WithLevel(level slog.Level) Option {
	return func(s *settings) {
		s.level = level
	}
}

func WithJSON() Option {
	return func(s *settings) {
		s.json = true
	}
}

func WithText() Option {
	return func(s *settings) {
		s.json = false
	}
}

func WithSource() Option {
	return func(s *settings) {
		s.addSource = true
	}
}

func WithColor() Option {
	return func(s *settings) {
		s.wantColor = true
	}
}

func WithWriter(w io.Writer) Option {
	return func(s *settings) {
		if w == nil {
			w = io.Discard
		}
		s.writer = w
	}
}

// WithAttrs adds key/value pairs to every record, e.g. the application name.
func WithAttrs(args ...any) Option {
	return func(s *settings) {
		s.attrs = append(s.attrs, args...)
	}
}

// WithRedaction masks the values of the given keys, compared
// case-insensitively and regardless of group.
func WithRedaction(keys ...string) Option {
	masked := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		masked[strings.ToLower(k)] = struct{}{}
	}
	return func(s *settings) {
		s.replaceAttr = chain(s.replaceAttr, func(_ []string, a slog.Attr) slog.Attr {
			if _, ok := masked[strings.ToLower(a.Key)]; ok {
				return slog.String(a.Key, "***")
			}
			return a
		})
	}
}

func WithLevelNames(names map[slog.Leveler]string) Option {
	return func(s *settings) {
		s.replaceAttr = chain(s.replaceAttr, func(_ []string, a slog.Attr) slog.Attr {
			if a.Key != slog.LevelKey {
				return a
			}
			level, ok := a.Value.Any().(slog.Level)
			if !ok {
				return a
			}
			if label, exists := names[level]; exists {
				return slog.String(slog.LevelKey, label)
			}
			return slog.String(slog.LevelKey, getLevelName(level))
		})
	}
}

// WithDefaultReplaceAttr prints TRACE and CRITICAL by name.
func WithDefaultReplaceAttr() Option {
	return WithLevelNames(nil)
}
