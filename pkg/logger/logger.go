// Package logger provides the allocator's structured logging, a thin
// wrapper around zerolog configured from environment variables so the
// library has no config-file dependency of its own.
package logger

import (
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	once   sync.Once
	logger zerolog.Logger
)

// Config controls the package-level logger.
type Config struct {
	Level  string // debug|info|warn|error
	Format string // json|console
}

// DefaultConfig returns the configuration used when Init is never called
// explicitly, reading overrides from SHIFTALLOC_LOG_LEVEL and
// SHIFTALLOC_LOG_FORMAT.
func DefaultConfig() Config {
	cfg := Config{Level: "info", Format: "console"}
	if v := os.Getenv("SHIFTALLOC_LOG_LEVEL"); v != "" {
		cfg.Level = v
	}
	if v := os.Getenv("SHIFTALLOC_LOG_FORMAT"); v != "" {
		cfg.Format = v
	}
	return cfg
}

// Init configures the package-level logger. Safe to call once; subsequent
// calls are no-ops, matching the lazy single-initialization the rest of the
// package relies on.
func Init(cfg Config) {
	once.Do(func() {
		zerolog.SetGlobalLevel(parseLevel(cfg.Level))

		var output = os.Stdout
		var writer zerolog.ConsoleWriter
		if cfg.Format == "console" {
			writer = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
			logger = zerolog.New(writer).With().Timestamp().Logger()
			return
		}
		logger = zerolog.New(output).With().Timestamp().Logger()
	})
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Get returns the package-level logger, initializing it with
// DefaultConfig on first use. Init is idempotent, so calling it on every
// Get is cheap once the package is warmed up.
func Get() *zerolog.Logger {
	Init(DefaultConfig())
	return &logger
}

// AllocationLogger scopes a handful of allocation-lifecycle log lines to a
// single request, tagging every line with a correlation id.
type AllocationLogger struct {
	base zerolog.Logger
}

// NewAllocationLogger creates an AllocationLogger tagged with requestID.
func NewAllocationLogger(requestID string) *AllocationLogger {
	l := Get().With().Str("component", "allocator").Str("request_id", requestID).Logger()
	return &AllocationLogger{base: l}
}

// Start logs the beginning of an allocation request.
func (l *AllocationLogger) Start(shiftCount, employeeCount, restPriority int) {
	l.base.Info().
		Int("shifts", shiftCount).
		Int("employees", employeeCount).
		Int("rest_priority", restPriority).
		Msg("allocation started")
}

// MIPStage logs the outcome of the MIP solve stage.
func (l *AllocationLogger) MIPStage(status string, duration time.Duration, uncovered int) {
	l.base.Info().
		Str("status", status).
		Dur("duration", duration).
		Int("uncovered_shifts", uncovered).
		Msg("mip stage complete")
}

// RepairFallback logs a single shift that the greedy repair stage could not
// place.
func (l *AllocationLogger) RepairFallback(shiftID string, day int) {
	l.base.Warn().
		Str("shift_id", shiftID).
		Int("day", day).
		Msg("repair could not place shift; left unassigned")
}

// Done logs the completion of an allocation request.
func (l *AllocationLogger) Done(duration time.Duration, stillUnassigned int) {
	l.base.Info().
		Dur("duration", duration).
		Int("still_unassigned", stillUnassigned).
		Msg("allocation complete")
}
