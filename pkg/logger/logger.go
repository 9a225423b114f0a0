package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/shuldan/ioc/pkg/contracts"
)

var oddArgsWarning sync.Once

type sLogger struct {
	*slog.Logger
}

var _ contracts.Logger = (*sLogger)(nil)

func NewLogger(opts ...Option) (contracts.Logger, error) {
	s := &settings{
		level:  slog.LevelInfo,
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}
	WithDefaultReplaceAttr()(s)

	l := slog.New(s.handler())
	if len(s.attrs) > 0 {
		l = l.With(s.attrs...)
	}
	return &sLogger{Logger: l}, nil
}

func (s *settings) handler() slog.Handler {
	if s.json {
		return slog.NewJSONHandler(s.writer, &slog.HandlerOptions{
			Level:       s.level,
			AddSource:   s.addSource,
			ReplaceAttr: s.replaceAttr,
		})
	}
	return newTextHandler(s.writer, s.wantColor && isTerminal(s.writer), s.replaceAttr, s.level)
}

// Nop returns a logger that drops every record.
func Nop() contracts.Logger {
	return &sLogger{Logger: slog.New(slog.DiscardHandler)}
}

func (l *sLogger) log(level slog.Level, msg string, args []any) {
	ctx := context.Background()
	if !l.Enabled(ctx, level) {
		return
	}
	l.LogAttrs(ctx, level, msg, convertArgs(args)...)
}

func (l *sLogger) Trace(msg string, args ...any)    { l.log(levelTrace, msg, args) }
func (l *sLogger) Debug(msg string, args ...any)    { l.log(slog.LevelDebug, msg, args) }
func (l *sLogger) Info(msg string, args ...any)     { l.log(slog.LevelInfo, msg, args) }
func (l *sLogger) Warn(msg string, args ...any)     { l.log(slog.LevelWarn, msg, args) }
func (l *sLogger) Error(msg string, args ...any)    { l.log(slog.LevelError, msg, args) }
func (l *sLogger) Critical(msg string, args ...any) { l.log(levelCritical, msg, args) }

func (l *sLogger) With(args ...any) contracts.Logger {
	return &sLogger{Logger: l.Logger.With(args...)}
}

// convertArgs pairs args into attributes. A trailing key without a value is
// kept under MISSING_KEY.
func convertArgs(args []any) []slog.Attr {
	if len(args)%2 != 0 {
		oddArgsWarning.Do(func() {
			slog.Warn("logger called with odd number of args", slog.Any("args", args))
		})
	}

	attrs := make([]slog.Attr, 0, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			attrs = append(attrs, slog.Any("MISSING_KEY", args[i]))
			break
		}
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprintf("NON_STRING_KEY_%T", args[i])
		}
		attrs = append(attrs, slog.Any(key, args[i+1]))
	}
	return attrs
}
