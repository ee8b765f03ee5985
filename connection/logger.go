package connection

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"helpexchange/config"
)

// NewLogger builds the application logger. Local runs get a human readable
// console writer, everything else logs JSON to stdout.
func NewLogger(cfg *config.Config) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("parse log level: %w", err)
	}
	zerolog.TimestampFieldName = "timestamp"

	w := io.Writer(os.Stdout)
	if cfg.Env == config.EnvLocal {
		consoleWriter := zerolog.NewConsoleWriter()
		consoleWriter.TimeFormat = time.DateTime
		consoleWriter.Out = os.Stdout
		w = consoleWriter
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("env", cfg.Env).
		Int("pid", os.Getpid()).
		Logger(), nil
}
