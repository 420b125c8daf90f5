package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/plantops/ot/internal/api"
	"github.com/plantops/ot/internal/dialog"
	"github.com/plantops/ot/internal/validation"
)

// FatalError writes an error message to stderr and exits with code 1.
// Use this for fatal errors that prevent the command from completing.
func FatalError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// FatalErrorWithHint writes an error message with a hint to stderr and exits.
//
// Example:
//
//	FatalErrorWithHint("backend unreachable", "Check api.url with 'ot config show'")
func FatalErrorWithHint(message, hint string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
	os.Exit(1)
}

// WarnError writes a warning message to stderr and returns.
// Use this for optional steps (token claims, telemetry) the command can do
// without.
func WarnError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}

// reportedError marks an error the user has already seen as a toast.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// reported wraps err, if any, so it is not printed a second time.
func reported(err error) error {
	if err == nil || errors.Is(err, dialog.ErrCanceled) {
		return err
	}
	return &reportedError{err: err}
}

// handleCommandError prints err unless it was already shown and returns
// the process exit code. A dismissed prompt is a quiet, successful exit.
func handleCommandError(err error) int {
	if errors.Is(err, dialog.ErrCanceled) {
		return 0
	}
	if jsonOutput {
		outputJSONError(err, errorCode(err))
		return 1
	}
	var shown *reportedError
	if errors.As(err, &shown) {
		return 1
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 1
}

// errorCode classifies err for JSON consumers.
func errorCode(err error) string {
	var apiErr *api.Error
	switch {
	case validation.IsInvalid(err):
		return "invalid"
	case errors.As(err, &apiErr) && apiErr.IsNotFound():
		return "not_found"
	case errors.As(err, &apiErr):
		return "api"
	}
	return ""
}
