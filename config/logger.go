package config

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

func InitLogging(lvl string) {
	slog.SetDefault(NewLogger(os.Stdout, lvl))
}

// NewLogger builds the text logger used by the service, unknown levels fall back to info.
func NewLogger(w io.Writer, lvl string) *slog.Logger {
	textHandler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: toLevel(lvl)})
	return slog.New(textHandler)
}

func toLevel(lvl string) slog.Level {
	levels := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	if level, ok := levels[strings.ToLower(strings.TrimSpace(lvl))]; ok {
		return level
	}
	return slog.LevelInfo
}
