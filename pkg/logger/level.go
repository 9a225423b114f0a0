package logger

import (
	"log/slog"
	"strings"
)

const (
	levelTrace    = slog.LevelDebug - 4
	levelCritical = slog.LevelError + 4
)

func getLevelName(level slog.Leveler) string {
	var levelNames = map[slog.Leveler]string{
		levelTrace:    "TRACE",
		levelCritical: "CRITICAL",
	}

	if name, ok := levelNames[level]; ok {
		return name
	}
	return level.Level().String()
}

// ParseLevel accepts the names printed by this package, case-insensitively.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return levelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "critical", "fatal":
		return levelCritical, nil
	}
	return slog.LevelInfo, ErrUnknownLevel.WithDetail("level", name)
}
