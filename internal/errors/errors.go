package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/questhacker/questhacker-cli/internal/logger"
)

// Sentinel errors for the progress and notification core. Every failure is
// terminal for its invocation; callers must repeat the action explicitly.
var (
	// ErrAlreadyCompletedToday is returned when a completion already exists
	// for the habit on the current calendar day.
	ErrAlreadyCompletedToday = errors.New("habit already completed today")

	// ErrInsufficientXP is returned when a shield purchase costs more XP
	// than the user holds.
	ErrInsufficientXP = errors.New("not enough XP")

	// ErrPermissionDenied is returned when platform notification permission
	// is refused during push opt-in.
	ErrPermissionDenied = errors.New("platform notification permission denied")

	// ErrTokenRetrieval is returned when the push relay fails to issue a
	// device token.
	ErrTokenRetrieval = errors.New("failed to retrieve device token")

	// ErrNotLinked is returned when disabling push while no device endpoint
	// is registered.
	ErrNotLinked = errors.New("push notifications are not enabled")

	// ErrNotAuthenticated is returned when no auth token is available for a
	// backend call.
	ErrNotAuthenticated = errors.New("not logged in")
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
