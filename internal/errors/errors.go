// Package errors defines the error kinds shared by storage, the habit
// service and the CLI, and the terminal exit path.
package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/trackmy/internal/logger"
)

// Format renders err for the terminal with an "Error: " prefix.
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Kind names the category of err for structured logs.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case stderrors.Is(err, ErrNotFound):
		return "not_found"
	case stderrors.Is(err, ErrFormat):
		return "format"
	case stderrors.Is(err, ErrStorage):
		return "storage"
	default:
		return "other"
	}
}

// Fatal logs err and exits with status 1. A nil err returns normally.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("Command execution failed", "kind", Kind(err), "error", err)
	fmt.Fprintln(os.Stderr, Format(err))
	os.Exit(1)
}
