// Package logging configures Sentra's global zerolog logger and hands out
// named component sub-loggers, in the same style as
// streamspace's internal/logger package: one JSON-structured global
// instance, pretty console output for local development, and
// `.With().Str("component", ...)` children per subsystem.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Log is the process-wide logger instance.
var Log zerolog.Logger

// Init configures the global logger. pretty=true renders a human-friendly
// console format (local dev); otherwise JSON lines are emitted (production).
func Init(level string, pretty bool) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	} else {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	}

	Log = log.With().Str("service", "sentra").Logger()
	Log.Info().Str("level", logLevel.String()).Bool("pretty", pretty).Msg("logger initialized")
}

// Component returns a child logger tagged with the given subsystem name.
func Component(name string) zerolog.Logger {
	return Log.With().Str("component", name).Logger()
}

// Pipeline is the logger used by the plugin pipeline driver.
func Pipeline() zerolog.Logger { return Component("pipeline") }

// Telemetry is the logger used by the telemetry/audit sink.
func Telemetry() zerolog.Logger { return Component("telemetry") }

// ExternalHTTP is the logger used by the external-HTTP plugin.
func ExternalHTTP() zerolog.Logger { return Component("external_http") }

// HTTPAPI is the logger used by the HTTP handlers and middleware.
func HTTPAPI() zerolog.Logger { return Component("httpapi") }
