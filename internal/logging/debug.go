package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// DebugEnvVar enables debug output when set to any non-empty value
const DebugEnvVar = "SUNDIAL_DEBUG"

// DebugEnabled returns true if debug mode is enabled via SUNDIAL_DEBUG
func DebugEnabled() bool {
	return os.Getenv(DebugEnvVar) != ""
}

// Debugf prints a formatted debug message to stderr only if debug mode is enabled
func Debugf(format string, args ...interface{}) {
	if DebugEnabled() {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// New builds a text logger on w. Debug records are kept when verbose is set
// or SUNDIAL_DEBUG is present.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose || DebugEnabled() {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Setup builds a stderr logger and installs it as the slog default
func Setup(verbose bool) *slog.Logger {
	logger := New(os.Stderr, verbose)
	slog.SetDefault(logger)
	return logger
}

// Discard returns a logger that drops every record
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
