// Package logging configures the service-wide zerolog logger.
package logging

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/khalilou88/vaultbridge"
)

// New builds the root logger from config. Unknown level names fall back to
// info rather than failing startup.
func New(cfg vaultbridge.Config) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.LogPretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Logger()
}
