package romcheck

import (
	"context"
	"io"

	"romkit/internal/config"
	"romkit/internal/python"
)

// PythonVerifier delegates to the diambra-arena checksum routine. The
// interpreter's stdout and stderr are streamed and its exit status is kept
// in the returned error.
type PythonVerifier struct {
	runner *python.Runner
}

// NewPythonVerifier runs the checker script with interpreter, exporting
// romsDir as DIAMBRAROMSPATH.
func NewPythonVerifier(interpreter, romsDir string, stdout, stderr io.Writer) *PythonVerifier {
	runner := python.NewRunner(interpreter)
	runner.Env = []string{config.RomsPathEnv + "=" + romsDir}
	if stdout != nil {
		runner.Stdout = stdout
	}
	if stderr != nil {
		runner.Stderr = stderr
	}
	return &PythonVerifier{runner: runner}
}

// Interpreter returns the resolved interpreter binary.
func (v *PythonVerifier) Interpreter() string {
	return v.runner.Interpreter
}

// Delegated reports that a zero exit status is the only success signal.
func (v *PythonVerifier) Delegated() bool {
	return true
}

// Verify runs one checker invocation for path.
func (v *PythonVerifier) Verify(ctx context.Context, path string) error {
	return v.runner.Run(ctx, python.CheckROMsScript, path)
}
