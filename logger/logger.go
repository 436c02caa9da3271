package logger

import (
	"io"
	"os"
	"time"

	"short-url-client/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Initialize sets up the global logger.
// When toFile is set the console belongs to the terminal UI, so output goes to cfg.File instead.
// The returned closer releases the log file, if any.
func Initialize(cfg config.LogConfig, toFile bool) (io.Closer, error) {
	var out io.Writer = os.Stdout
	var closer io.Closer = io.NopCloser(nil)

	if toFile {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		out = f
		closer = f
	}

	output := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: toFile}
	log.Logger = zerolog.New(output).With().Timestamp().Caller().Logger()

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	return closer, nil
}
