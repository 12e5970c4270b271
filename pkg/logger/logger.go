package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Log starts as a no-op so packages can log before Init (tests, CLI).
var Log = zerolog.Nop()

// Init installs the process logger: console output in development, JSON
// lines elsewhere. level is a zerolog level name; unknown or empty means info.
func Init(env, level string) {
	Log = New(os.Stdout, env, level)
}

func New(w io.Writer, env, level string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if env == "development" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
		return zerolog.New(w).Level(lvl).With().Timestamp().Caller().Logger()
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("service", "realestatepro-api").Logger()
}

func Info() *zerolog.Event  { return Log.Info() }
func Error() *zerolog.Event { return Log.Error() }
func Warn() *zerolog.Event  { return Log.Warn() }
func Debug() *zerolog.Event { return Log.Debug() }
func Fatal() *zerolog.Event { return Log.Fatal() }
