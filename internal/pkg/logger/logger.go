// Package logger sets up the process-wide zerolog logger: pretty
// console output while developing, JSON with a service stamp
// everywhere else.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config selects level and output format for the process.
type Config struct {
	Level       string // debug, info, warn, error
	Environment string // development, production, test
	Service     string // stamped on every line outside development
}

// Init configures the global logger. Unknown levels fall back to
// info instead of failing startup.
func Init(cfg Config) error {
	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Environment == "development" || cfg.Environment == "dev" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		}).With().Caller().Logger()
		return nil
	}

	ctx := zerolog.New(os.Stdout).With().Timestamp().Caller()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	log.Logger = ctx.Logger()

	return nil
}
