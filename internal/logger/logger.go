// internal/logger/logger.go
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Init() {
	// Use ConsoleWriter for human-readable, colorized output in development
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Set a global log level
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	// Add a hook to include the caller's file and line number
	log.Logger = log.With().Caller().Logger()
}

// Access returns the log stream that receives one record per HTTP request.
func Access() zerolog.Logger {
	return log.With().Str("log", "access").Logger()
}

// Audit returns the log stream that receives one record per task mutation.
func Audit() zerolog.Logger {
	return log.With().Str("log", "audit").Logger()
}
