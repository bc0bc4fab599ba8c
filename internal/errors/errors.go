// Package errors renders user-facing CLI failures. Command handlers return
// plain errors; the top level turns them into an "Error: ..." line on stderr
// and a structured log entry, exiting non-zero when the failure is terminal.
package errors

import (
	"fmt"
	"os"

	"github.com/lockinhq/lockin/internal/logger"
)

// Format renders err for the terminal. A nil error renders as the empty
// string so callers can print unconditionally.
func Format(err error) string {
	if err == nil {
		return ""
	}
	return "Error: " + err.Error()
}

// Formatf is Format for ad hoc messages built from a format string.
func Formatf(format string, args ...any) string {
	return "Error: " + fmt.Sprintf(format, args...)
}

// Fatal prints err to stderr and exits with code 1. Nil is a no-op, so a
// command can end with Fatal(run()) regardless of outcome.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("Command failed", "error", err)
	fmt.Fprintln(os.Stderr, Format(err))
	os.Exit(1)
}

// Fatalf is Fatal for ad hoc messages built from a format string.
func Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command failed", "error", msg)
	fmt.Fprintln(os.Stderr, "Error: "+msg)
	os.Exit(1)
}
