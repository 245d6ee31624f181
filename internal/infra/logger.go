package infra

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger constructs a zerolog.Logger with sane defaults for the service.
func NewLogger(appEnv string) zerolog.Logger {
	return newLogger(appEnv, os.Stdout)
}

// NewCLILogger writes to stderr so command output on stdout stays clean.
func NewCLILogger(appEnv string, verbose bool) zerolog.Logger {
	logger := newLogger(appEnv, os.Stderr)
	if !verbose {
		logger = logger.Level(zerolog.WarnLevel)
	}
	return logger
}

func newLogger(appEnv string, out io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	if appEnv == "development" {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Logger()

	if appEnv == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
	}

	return logger
}

// Logger aliases the zerolog.Logger so callers outside the infra package can
// depend on the logging contract without importing the third-party module
// directly.
type Logger = zerolog.Logger

// LoggerOrNop dereferences l, falling back to a discarding logger.
func LoggerOrNop(l *Logger) Logger {
	if l == nil {
		return zerolog.Nop()
	}
	return *l
}
