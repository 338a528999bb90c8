// Package logger holds the process-wide zerolog instance. Packages log
// through the event helpers below instead of carrying a logger around.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var root zerolog.Logger

// Config selects the log level and output format.
type Config struct {
	Level  string    // debug, info, warn, error; unknown values fall back to info
	Pretty bool      // console writer instead of JSON
	Output io.Writer // defaults to os.Stdout
}

// Configure rebuilds the process logger. Safe to call again, e.g. once the
// configured level is known after config load.
func Configure(cfg Config) {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	writer := cfg.Output
	if cfg.Pretty {
		writer = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: time.RFC3339}
	}

	root = zerolog.New(writer).With().Timestamp().Logger()
	log.Logger = root
}

func Debug() *zerolog.Event { return root.Debug() }

func Info() *zerolog.Event { return root.Info() }

func Warn() *zerolog.Event { return root.Warn() }

func Error() *zerolog.Event { return root.Error() }

func init() {
	Configure(Config{Pretty: true})
}
