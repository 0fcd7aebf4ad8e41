package internal

import (
	"os"

	"github.com/rs/zerolog"
)

// NewLogger builds the process-wide structured logger. Components take a
// zerolog.Logger value so each invocation can attach its own context fields.
func NewLogger() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
