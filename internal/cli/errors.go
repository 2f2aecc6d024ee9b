package cli

import (
	"errors"

	"romkit/internal/python"
)

// ErrUsage marks invocations with missing or malformed arguments.
var ErrUsage = errors.New("Usage")

// ExitCode maps a command error to a process exit status. Interpreter
// failures keep the interpreter's own status; everything else exits 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if code, ok := python.ExitCode(err); ok && code > 0 {
		return code
	}
	return 1
}
