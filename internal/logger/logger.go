package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New builds a JSON logger writing to w (stdout when nil). Unknown levels
// fall back to info.
func New(level string, w io.Writer) zerolog.Logger {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil || logLevel == zerolog.NoLevel {
		logLevel = zerolog.InfoLevel
	}

	if w == nil {
		w = os.Stdout
	}

	return zerolog.New(w).Level(logLevel).With().Timestamp().Logger()
}

// Init configures the global logger used outside request scope.
func Init(level string, w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	l := New(level, w)
	log.Logger = l
	zerolog.DefaultContextLogger = &l
	return l
}
