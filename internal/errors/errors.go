// Package errors formats command failures for the terminal.
package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/wellmeing/internal/assistant"
	"github.com/julianstephens/wellmeing/internal/logger"
	"github.com/julianstephens/wellmeing/internal/storage"
	"github.com/julianstephens/wellmeing/internal/tracker"
)

var hints = []struct {
	target error
	hint   string
}{
	{tracker.ErrHabitNotFound, "run 'wellmeing habit list' to see your habits"},
	{tracker.ErrSubmissionNotFound, "run 'wellmeing history' to see submission ids"},
	{tracker.ErrReportNotFound, "run 'wellmeing report list' to see report dates"},
	{tracker.ErrTooManyHabits, "delete a habit with 'wellmeing habit delete' first"},
	{tracker.ErrDailyLimit, "the limit resets tomorrow"},
	{assistant.ErrNoAPIKey, "set OPENAI_API_KEY or run 'wellmeing key set'"},
	{storage.ErrNotInitialized, "run 'wellmeing init' first"},
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if hint := Hint(err); hint != "" {
		msg += "\nHint: " + hint
	}
	return msg
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Hint suggests a next step for errors the user can act on.
func Hint(err error) string {
	for _, h := range hints {
		if stderrors.Is(err, h.target) {
			return h.hint
		}
	}
	return ""
}

// Print writes the formatted error to w.
func Print(w io.Writer, err error) {
	if err != nil {
		fmt.Fprintln(w, Format(err))
	}
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		Print(os.Stderr, err)
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
