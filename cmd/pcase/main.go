// Command pcase manages power-system test case bundles from the command
// line.
//
// Configuration is loaded from environment variables:
//   - POWERFULCASES_DATA_DIR: Directory containing bundled cases (required)
//   - POWERFULCASES_CACHE_DIR: Override for the download cache (optional)
//   - PCASE_VERBOSE: Enable debug logging when set to a non-empty value
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	powerfulcases "github.com/cuihantao/PowerfulCases"
)

// CLI exit codes for standardized error reporting.
const (
	// ExitSuccess indicates the operation completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitInvalidArgs indicates invalid command line arguments.
	ExitInvalidArgs = 2

	// ExitCaseNotFound indicates the case name matched nothing.
	ExitCaseNotFound = 3

	// ExitAmbiguous indicates the case name matched multiple cases.
	ExitAmbiguous = 4

	// ExitNetworkError indicates a network or connection failure.
	ExitNetworkError = 5

	// ExitStorageError indicates a filesystem operation failed.
	ExitStorageError = 7
)

func main() {
	casesDir := os.Getenv("POWERFULCASES_DATA_DIR")
	if casesDir == "" {
		fmt.Fprintln(os.Stderr, "Error: POWERFULCASES_DATA_DIR environment variable is required")
		os.Exit(ExitInvalidArgs)
	}

	cfg := powerfulcases.Config{
		CasesDir: casesDir,
		// CacheDir can be set via POWERFULCASES_CACHE_DIR (handled by the
		// storage layer).
	}

	level := zerolog.WarnLevel
	if os.Getenv("PCASE_VERBOSE") != "" {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).Level(level).With().Timestamp().Logger()

	cmd := powerfulcases.NewCommand(cfg, powerfulcases.WithLogger(&zerologAdapter{log}))
	if err := cmd.Execute(); err != nil {
		os.Exit(exitCodeFromError(err))
	}
}

// exitCodeFromError maps error types to exit codes.
func exitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, powerfulcases.ErrUnknownCase):
		return ExitCaseNotFound
	case errors.Is(err, powerfulcases.ErrUnknownRemoteCase):
		return ExitCaseNotFound
	case errors.Is(err, powerfulcases.ErrFileNotFound):
		return ExitCaseNotFound
	case errors.Is(err, powerfulcases.ErrAmbiguousCase):
		return ExitAmbiguous
	case errors.Is(err, powerfulcases.ErrNetworkError):
		return ExitNetworkError
	case errors.Is(err, powerfulcases.ErrStorageError):
		return ExitStorageError
	case errors.Is(err, powerfulcases.ErrInvalidPath):
		return ExitInvalidArgs
	default:
		return ExitGeneralError
	}
}

// zerologAdapter bridges a zerolog.Logger to the powerfulcases.Logger
// interface. Key-value pairs are attached as string fields.
type zerologAdapter struct {
	log zerolog.Logger
}

func (a *zerologAdapter) Debug(msg string, keysAndValues ...any) {
	withFields(a.log.Debug(), keysAndValues).Msg(msg)
}

func (a *zerologAdapter) Info(msg string, keysAndValues ...any) {
	withFields(a.log.Info(), keysAndValues).Msg(msg)
}

func (a *zerologAdapter) Warn(msg string, keysAndValues ...any) {
	withFields(a.log.Warn(), keysAndValues).Msg(msg)
}

func (a *zerologAdapter) Error(msg string, keysAndValues ...any) {
	withFields(a.log.Error(), keysAndValues).Msg(msg)
}

func withFields(ev *zerolog.Event, keysAndValues []any) *zerolog.Event {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		ev = ev.Interface(key, keysAndValues[i+1])
	}
	return ev
}
