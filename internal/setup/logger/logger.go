package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New builds the logger for long-running services. Logs go to stderr as
// structured JSON so stdout stays clean for command output. An unknown
// level falls back to info.
func New(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(os.Stderr).
		Level(lvl).
		With().
		Timestamp().
		Caller().
		Logger()
}
