package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"romkit/internal/catalog"
	"romkit/internal/deps"
	"romkit/internal/pkgmeta"
)

const packageCheckTimeout = 30 * time.Second

// CheckInterpreter verifies that the configured interpreter, or python or
// python3 when none is configured, is on PATH.
func CheckInterpreter(configured string) Result {
	const name = "Python interpreter"

	statuses := deps.CheckBinaries([]deps.Requirement{{
		Name:         name,
		Command:      configured,
		Alternatives: []string{"python", "python3"},
		Description:  "Runs the diambra-arena helpers",
	}})
	status := statuses[0]
	if !status.Available {
		return Result{Name: name, Detail: status.Detail}
	}
	return Result{Name: name, Passed: true, Detail: status.Path}
}

// CheckDirectoryAccess verifies that the directory exists and grants mode
// (a combination of unix.R_OK, unix.W_OK and unix.X_OK).
func CheckDirectoryAccess(name, path string, mode uint32) Result {
	if path == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s ok)", path, describeMode(mode))}
}

// CheckEnginePackage queries the installed engine package and reports the
// image it maps to.
func CheckEnginePackage(ctx context.Context, querier pkgmeta.Querier, pkg, registry, image string) Result {
	name := fmt.Sprintf("Package %s", pkg)
	if querier == nil {
		return Result{Name: name, Detail: "no querier configured"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, packageCheckTimeout)
	defer cancel()

	version, err := querier.InstalledVersion(checkCtx, pkg)
	if err != nil {
		return Result{Name: name, Detail: describeQueryError(err)}
	}
	ref, fallback := pkgmeta.EngineImage(registry, image, pkgmeta.ParseVersion(version))
	if fallback {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (no versioned image, using %s)", version, ref)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (image %s)", version, ref)}
}

// CheckPackage verifies that a Python distribution is installed.
func CheckPackage(ctx context.Context, querier pkgmeta.Querier, pkg string) Result {
	name := fmt.Sprintf("Package %s", pkg)
	if querier == nil {
		return Result{Name: name, Detail: "no querier configured"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, packageCheckTimeout)
	defer cancel()

	version, err := querier.InstalledVersion(checkCtx, pkg)
	if err != nil {
		return Result{Name: name, Detail: describeQueryError(err)}
	}
	return Result{Name: name, Passed: true, Detail: version}
}

// CheckCatalog verifies that the catalog file parses and holds entries.
func CheckCatalog(path string) Result {
	const name = "ROM catalog"

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if cat.Len() == 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: no entries)", path)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d entries)", path, cat.Len())}
}

// CheckCacheDirectory ensures the directory holding the cache database exists
// and is writable.
func CheckCacheDirectory(dbPath string) Result {
	const name = "Cache directory"

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", dir, err)}
	}
	return CheckDirectoryAccess(name, dir, unix.R_OK|unix.W_OK|unix.X_OK)
}

func describeQueryError(err error) string {
	switch {
	case errors.Is(err, pkgmeta.ErrPackageNotFound):
		return "not installed (is the virtual environment active?)"
	case errors.Is(err, context.DeadlineExceeded):
		return "version query timed out"
	default:
		return err.Error()
	}
}

func describeMode(mode uint32) string {
	switch {
	case mode&unix.W_OK != 0:
		return "read/write"
	case mode&unix.R_OK != 0:
		return "read"
	default:
		return "access"
	}
}
