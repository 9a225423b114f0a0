package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/term"
)

// textHandler writes one logfmt-like line per record:
//
//	LEVEL message key=value group.key="quoted value"
type textHandler struct {
	mu          *sync.Mutex
	writer      io.Writer
	isColored   bool
	replaceAttr replaceFunc
	level       slog.Level
	preformat   string
	groups      []string
}

func newTextHandler(writer io.Writer, isColored bool, replaceAttr replaceFunc, level slog.Level) slog.Handler {
	return &textHandler{
		mu:          &sync.Mutex{},
		writer:      writer,
		isColored:   isColored,
		replaceAttr: replaceAttr,
		level:       level,
	}
}

func (h *textHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *textHandler) Handle(_ context.Context, r slog.Record) error {
	levelStr := getLevelName(r.Level)
	if h.replaceAttr != nil {
		levelStr = h.replaceAttr(h.groups, slog.String(slog.LevelKey, levelStr)).Value.String()
	}
	if h.isColored {
		levelStr = colorize(levelStr, r.Level)
	}

	var sb strings.Builder
	sb.WriteString(levelStr)
	sb.WriteByte(' ')
	sb.WriteString(r.Message)
	sb.WriteString(h.preformat)
	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&sb, h.groups, a)
		return true
	})
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.writer, sb.String())
	return err
}

func (h *textHandler) appendAttr(sb *strings.Builder, groups []string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() != slog.KindGroup && h.replaceAttr != nil {
		a = h.replaceAttr(groups, a)
		a.Value = a.Value.Resolve()
	}
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		inner := groups
		if a.Key != "" {
			inner = append(append([]string(nil), groups...), a.Key)
		}
		for _, ga := range a.Value.Group() {
			h.appendAttr(sb, inner, ga)
		}
		return
	}
	if a.Key == "" {
		return
	}

	sb.WriteByte(' ')
	for _, g := range groups {
		sb.WriteString(g)
		sb.WriteByte('.')
	}
	sb.WriteString(a.Key)
	sb.WriteByte('=')
	sb.WriteString(formatValue(a.Value.String()))
}

// formatValue quotes values that would not survive a whitespace split.
func formatValue(s string) string {
	if s == "" {
		return `""`
	}
	if strings.IndexFunc(s, func(r rune) bool {
		return r <= ' ' || r == '"' || r == '=' || !unicode.IsPrint(r)
	}) >= 0 {
		return strconv.Quote(s)
	}
	return s
}

// WithAttrs renders attrs once, scoped to the groups opened so far.
func (h *textHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var sb strings.Builder
	sb.WriteString(h.preformat)
	for _, a := range attrs {
		h.appendAttr(&sb, h.groups, a)
	}
	c := *h
	c.preformat = sb.String()
	return &c
}

func (h *textHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	c.groups = append(append([]string(nil), h.groups...), name)
	return &c
}

func colorize(levelStr string, level slog.Level) string {
	const (
		reset  = "\033[0m"
		blue   = "\033[34m"
		cyan   = "\033[36m"
		green  = "\033[32m"
		yellow = "\033[33m"
		red    = "\033[31m"
		white  = "\033[37m"
		redBg  = "\033[41m"
	)

	switch {
	case level == levelCritical:
		return redBg + white + levelStr + reset
	case level < slog.LevelDebug:
		return cyan + levelStr + reset
	case level < slog.LevelInfo:
		return blue + levelStr + reset
	case level < slog.LevelWarn:
		return green + levelStr + reset
	case level < slog.LevelError:
		return yellow + levelStr + reset
	default:
		return red + levelStr + reset
	}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
