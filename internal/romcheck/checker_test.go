package romcheck_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"romkit/internal/romcheck"
)

type recordingVerifier struct {
	paths []string
	fail  map[string]error
}

func (v *recordingVerifier) Verify(_ context.Context, path string) error {
	v.paths = append(v.paths, path)
	return v.fail[path]
}

type memoryRecorder struct {
	runIDs []string
	names  []string
	err    error
}

func (r *memoryRecorder) Record(_ context.Context, runID string, result romcheck.Result) error {
	r.runIDs = append(r.runIDs, runID)
	r.names = append(r.names, result.Name)
	return r.err
}

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name    string
		romsDir string
		rom     string
		want    string
	}{
		{"joins relative", "/roms", "a.zip", "/roms/a.zip"},
		{"nested", "/roms", "sub/b.zip", "/roms/sub/b.zip"},
		{"absolute wins", "/roms", "/other/c.zip", "/other/c.zip"},
		{"cleans", "/roms/", "./d.zip", "/roms/d.zip"},
		{"empty dir", "", "e.zip", "e.zip"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := romcheck.ResolvePath(tc.romsDir, tc.rom); got != filepath.FromSlash(tc.want) {
				t.Fatalf("ResolvePath(%q, %q) = %q, want %q", tc.romsDir, tc.rom, got, tc.want)
			}
		})
	}
}

func TestCheckVerifiesInOrder(t *testing.T) {
	verifier := &recordingVerifier{}
	checker := romcheck.New("/roms", verifier)

	results, err := checker.Check(context.Background(), []string{"a.zip", "b.zip"})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	want := []string{"/roms/a.zip", "/roms/b.zip"}
	if len(verifier.paths) != len(want) {
		t.Fatalf("verifier called %d times, want %d", len(verifier.paths), len(want))
	}
	for i := range want {
		if verifier.paths[i] != want[i] {
			t.Fatalf("call %d = %q, want %q", i, verifier.paths[i], want[i])
		}
	}
	if len(results) != 2 || results[0].Status != romcheck.StatusOK || results[1].Status != romcheck.StatusOK {
		t.Fatalf("unexpected results: %#v", results)
	}
	if results[1].Path != "/roms/b.zip" || results[1].Name != "b.zip" {
		t.Fatalf("unexpected result: %#v", results[1])
	}
}

func TestCheckRequiresNames(t *testing.T) {
	verifier := &recordingVerifier{}
	_, err := romcheck.New("/roms", verifier).Check(context.Background(), nil)
	if !errors.Is(err, romcheck.ErrNoROMs) {
		t.Fatalf("expected ErrNoROMs, got %v", err)
	}
	if len(verifier.paths) != 0 {
		t.Fatalf("verifier should not run, got %v", verifier.paths)
	}
}

func TestCheckStopsAtFirstFailure(t *testing.T) {
	boom := errors.New("boom")
	verifier := &recordingVerifier{fail: map[string]error{"/roms/a.zip": boom}}

	results, err := romcheck.New("/roms", verifier).Check(context.Background(), []string{"a.zip", "b.zip"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected verifier error to propagate, got %v", err)
	}
	if len(verifier.paths) != 1 {
		t.Fatalf("expected a single verifier call, got %v", verifier.paths)
	}
	if len(results) != 1 || results[0].Status != romcheck.StatusFailed || !errors.Is(results[0].Err, boom) {
		t.Fatalf("unexpected results: %#v", results)
	}
}

func TestCheckKeepGoingJoinsFailures(t *testing.T) {
	first := errors.New("first")
	second := errors.New("second")
	verifier := &recordingVerifier{fail: map[string]error{
		"/roms/a.zip": first,
		"/roms/c.zip": second,
	}}

	results, err := romcheck.New("/roms", verifier, romcheck.WithKeepGoing(true)).
		Check(context.Background(), []string{"a.zip", "b.zip", "c.zip"})
	if !errors.Is(err, first) || !errors.Is(err, second) {
		t.Fatalf("expected both failures, got %v", err)
	}
	if len(verifier.paths) != 3 {
		t.Fatalf("expected every rom attempted, got %v", verifier.paths)
	}
	if !results[1].OK() {
		t.Fatalf("expected b.zip to pass: %#v", results[1])
	}
}

func TestCheckRecordsAndReportsProgress(t *testing.T) {
	recorder := &memoryRecorder{err: fmt.Errorf("disk full")}
	var seen []string
	checker := romcheck.New("/roms", &recordingVerifier{},
		romcheck.WithRecorder(recorder),
		romcheck.WithRunID("run-42"),
		romcheck.WithProgress(func(r romcheck.Result) { seen = append(seen, r.Name) }),
	)

	if _, err := checker.Check(context.Background(), []string{"a.zip", "b.zip"}); err != nil {
		t.Fatalf("recorder failures must not fail the check: %v", err)
	}
	if len(recorder.names) != 2 || recorder.runIDs[0] != "run-42" {
		t.Fatalf("unexpected recorded rows: %v %v", recorder.runIDs, recorder.names)
	}
	if len(seen) != 2 || seen[0] != "a.zip" {
		t.Fatalf("unexpected progress callbacks: %v", seen)
	}
}

func TestCheckHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	verifier := &recordingVerifier{}
	if _, err := romcheck.New("/roms", verifier).Check(ctx, []string{"a.zip"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(verifier.paths) != 0 {
		t.Fatal("verifier should not run after cancellation")
	}
}
