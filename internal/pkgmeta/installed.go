package pkgmeta

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"romkit/internal/python"
)

// DefaultPackage is queried when no package name is given.
const DefaultPackage = "diambra-engine"

// ErrPackageNotFound is returned when the distribution is not installed.
var ErrPackageNotFound = errors.New("package not installed")

// notFoundMarkers are the exception names the metadata helpers raise for a
// missing distribution.
var notFoundMarkers = []string{"PackageNotFoundError", "DistributionNotFound"}

// ResolvePackage returns the first argument, trimmed, or DefaultPackage.
func ResolvePackage(args []string) string {
	if len(args) > 0 {
		if name := strings.TrimSpace(args[0]); name != "" {
			return name
		}
	}
	return DefaultPackage
}

// Querier reports the installed version of a package.
type Querier interface {
	InstalledVersion(ctx context.Context, name string) (string, error)
}

// PythonQuerier asks the Python interpreter for package metadata.
type PythonQuerier struct {
	runner *python.Runner
}

// NewPythonQuerier returns a querier using interpreter. The interpreter's
// stderr is copied to stderr when it is non-nil.
func NewPythonQuerier(interpreter string, stderr io.Writer) *PythonQuerier {
	runner := python.NewRunner(interpreter)
	runner.Stdout = nil
	runner.Stderr = stderr
	return &PythonQuerier{runner: runner}
}

// Interpreter returns the resolved interpreter binary.
func (q *PythonQuerier) Interpreter() string {
	return q.runner.Interpreter
}

// InstalledVersion returns the trimmed version string for name.
func (q *PythonQuerier) InstalledVersion(ctx context.Context, name string) (string, error) {
	version, stderr, err := q.runner.Output(ctx, python.PackageVersionScript, name)
	if err != nil {
		if isNotFound(stderr) {
			return "", fmt.Errorf("%w: %s: %w", ErrPackageNotFound, name, err)
		}
		return "", fmt.Errorf("query %s version: %w", name, err)
	}
	if version == "" {
		return "", fmt.Errorf("query %s version: empty output", name)
	}
	return version, nil
}

func isNotFound(stderr string) bool {
	for _, marker := range notFoundMarkers {
		if strings.Contains(stderr, marker) {
			return true
		}
	}
	return false
}
