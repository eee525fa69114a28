package errors

import (
	"fmt"
	"os"
	"strings"

	"kestrel/pkg/source"
)

// KestrelError is the interface implemented by all Kestrel errors.
type KestrelError interface {
	error // Embed the standard error interface
	Pos() Position
	Kind() string // e.g., "Compile", "Runtime"
	// Message returns the specific error message without position info.
	// This might be useful if the caller wants to format the error differently.
	Message() string
	Unwrap() error // For error wrapping support (errors.Is/As)
}

// --- Concrete Error Types ---

// CompileError represents a failure while compiling a function on demand.
// Accessors that trigger lazy compilation (function length, arguments
// reconstruction) propagate these to the caller unchanged.
type CompileError struct {
	Position
	Msg   string
	Cause error // Underlying cause, if any
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("Compile Error at %d:%d: %s", e.Line, e.Column, e.Msg)
}
func (e *CompileError) Pos() Position   { return e.Position }
func (e *CompileError) Kind() string    { return "Compile" }
func (e *CompileError) Message() string { return e.Msg }
func (e *CompileError) Unwrap() error   { return e.Cause }
func (e *CompileError) CausedBy(cause error) *CompileError {
	e.Cause = cause
	return e
}

// RuntimeError represents an engine-level failure during execution that is
// not one of the script-visible exception kinds (see pkg/vm exceptions).
type RuntimeError struct {
	// Position might be less precise for runtime errors, potentially
	// pointing to the start of the operation that failed rather than
	// a specific token. We'll still store it.
	Position
	Msg   string
	Cause error // Underlying cause, if any
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("Runtime Error at %d:%d: %s", e.Line, e.Column, e.Msg)
}
func (e *RuntimeError) Pos() Position   { return e.Position }
func (e *RuntimeError) Kind() string    { return "Runtime" }
func (e *RuntimeError) Message() string { return e.Msg }
func (e *RuntimeError) Unwrap() error   { return e.Cause }
func (e *RuntimeError) CausedBy(cause error) *RuntimeError {
	e.Cause = cause
	return e
}

// --- Error Reporting ---

// DisplayErrors prints a list of Kestrel errors to stderr in a user-friendly
// format, including the source line and position marker. File-backed sources
// are prefixed with their display path.
func DisplayErrors(src *source.SourceFile, errors []KestrelError) {
	if len(errors) == 0 {
		return
	}

	lines := src.Lines()
	heading := ""
	if src.IsFile() {
		heading = src.DisplayPath() + ": "
	}

	for _, err := range errors {
		pos := err.Pos()
		kind := err.Kind()
		msg := err.Message()

		// Ensure line numbers are within bounds (1-based index)
		lineIdx := pos.Line - 1
		if lineIdx < 0 || lineIdx >= len(lines) {
			// Print a generic error if line info is invalid
			fmt.Fprintf(os.Stderr, "%s%s Error: %s\n", heading, kind, msg)
			continue
		}

		sourceLine := lines[lineIdx]
		trimmedLine := strings.TrimRight(sourceLine, "\r\n\t ")

		// Format: <Kind> Error at <Line>:<Column>: <Message>
		fmt.Fprintf(os.Stderr, "%s%s Error at %d:%d: %s\n", heading, kind, pos.Line, pos.Column, msg)

		// Print the source line and the marker line (^)
		fmt.Fprintf(os.Stderr, "  %s\n", trimmedLine)
		marker := strings.Repeat(" ", pos.Column) + "^"
		fmt.Fprintf(os.Stderr, "  %s\n", marker)
		fmt.Fprintln(os.Stderr)
	}
}
