package testsupport

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"
)

// StubInterpreter writes an executable /bin/sh script named "python" into
// dir and returns its path. Tests relying on it are skipped on Windows.
func StubInterpreter(t testing.TB, dir, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub interpreters require a POSIX shell")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir stub dir: %v", err)
	}
	target := filepath.Join(dir, "python")
	script := []byte("#!/bin/sh\n" + body + "\n")
	if err := os.WriteFile(target, script, 0o755); err != nil {
		t.Fatalf("write stub interpreter: %v", err)
	}
	return target
}

// VersionStub answers package version queries: the named package reports
// version, anything else fails the way importlib.metadata does.
func VersionStub(pkg, version string) string {
	return `case "$3" in
  ` + pkg + `) echo "` + version + `" ;;
  *) echo "importlib.metadata.PackageNotFoundError: No package metadata was found for $3" >&2; exit 1 ;;
esac`
}

// RecordingStub appends every script argument (one per line) to logPath and
// exits with code.
func RecordingStub(logPath string, code int) string {
	return `shift 2
for arg in "$@"; do echo "$arg" >> "` + logPath + `"; done
exit ` + strconv.Itoa(code)
}
