package python

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// CheckROMsScript verifies every path argument with the diambra-arena
// checksum routine, trying the current module layout before the legacy one.
//
//go:embed scripts/check_roms.py
var CheckROMsScript string

// PackageVersionScript prints the installed version of the distribution
// named by its first argument.
//
//go:embed scripts/package_version.py
var PackageVersionScript string

var candidates = []string{"python", "python3"}

// Find returns the configured interpreter, or the first of python and
// python3 available on PATH. It falls back to "python" so the eventual exec
// error names a binary the user recognises.
func Find(configured string) string {
	if configured = strings.TrimSpace(configured); configured != "" {
		return configured
	}
	for _, name := range candidates {
		if _, err := exec.LookPath(name); err == nil {
			return name
		}
	}
	return candidates[0]
}

// Runner executes inline scripts with a Python interpreter.
type Runner struct {
	Interpreter string
	// Env entries are appended to the current process environment.
	Env    []string
	Stdout io.Writer
	Stderr io.Writer
}

// NewRunner returns a runner for the configured interpreter streaming to the
// process stdout and stderr.
func NewRunner(interpreter string) *Runner {
	return &Runner{
		Interpreter: Find(interpreter),
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
	}
}

// Run executes script via `<interpreter> -c script args...`. A non-zero exit
// is returned wrapped, so callers can recover the *exec.ExitError.
func (r *Runner) Run(ctx context.Context, script string, args ...string) error {
	cmd := r.command(ctx, script, args)
	cmd.Stdout = writerOr(r.Stdout, io.Discard)
	cmd.Stderr = writerOr(r.Stderr, io.Discard)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", r.Interpreter, err)
	}
	return nil
}

// Output executes script and returns its trimmed stdout. Stderr is streamed to
// r.Stderr and also returned so callers can classify failures.
func (r *Runner) Output(ctx context.Context, script string, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	cmd := r.command(ctx, script, args)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if r.Stderr != nil {
		cmd.Stderr = io.MultiWriter(&stderr, r.Stderr)
	}
	if err := cmd.Run(); err != nil {
		return "", stderr.String(), fmt.Errorf("%s: %w", r.Interpreter, err)
	}
	return strings.TrimSpace(stdout.String()), stderr.String(), nil
}

func (r *Runner) command(ctx context.Context, script string, args []string) *exec.Cmd {
	if ctx == nil {
		ctx = context.Background()
	}
	interpreter := r.Interpreter
	if interpreter == "" {
		interpreter = Find("")
	}
	cmd := exec.CommandContext(ctx, interpreter, append([]string{"-c", script}, args...)...)
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}
	return cmd
}

// ExitCode extracts the interpreter exit status from err, if it carries one.
func ExitCode(err error) (int, bool) {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), true
	}
	return 0, false
}

func writerOr(w io.Writer, fallback io.Writer) io.Writer {
	if w == nil {
		return fallback
	}
	return w
}
