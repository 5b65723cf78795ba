// Package telemetry configures the process-wide zerolog logger, following
// the teacher's pattern of relying on the global github.com/rs/zerolog/log
// logger at call sites rather than threading a *zerolog.Logger everywhere.
package telemetry

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global logger from a level string (debug, info,
// warn, error). Unknown levels fall back to info.
func Setup(level string) {
	zerolog.SetGlobalLevel(parseLevel(level))

	if isatty.IsTerminal(os.Stderr.Fd()) {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NodeStateChange logs a scheduler node-state transition.
func NodeStateChange(nodeID, op, from, to string) {
	log.Debug().Str("node_id", nodeID).Str("op", op).Str("from", from).Str("to", to).Msg("node state transition")
}

// SchedulerFailure logs the first observed node failure that triggers
// fail-fast cancellation.
func SchedulerFailure(nodeID string, err error) {
	log.Error().Str("node_id", nodeID).Err(err).Msg("node failed, cancelling peers")
}
