package romcheck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"romkit/internal/logging"
)

var (
	// ErrNoROMs is returned when Check is called without any file names.
	ErrNoROMs = errors.New("no roms given")
	// ErrUnknownROM is returned when a ROM has no reference checksum.
	ErrUnknownROM = errors.New("unknown rom")
	// ErrChecksumMismatch is returned when a ROM's digest differs from the reference.
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

// Status is the outcome of verifying one ROM.
type Status string

const (
	// StatusOK means the digest was compared and matched.
	StatusOK Status = "ok"
	// StatusChecked means a delegated verifier raised no error. It never saw
	// the digest itself, so the ROM is not confirmed.
	StatusChecked Status = "checked"
	StatusFailed  Status = "failed"
)

// Verifier checks the archive at path, returning nil when it is intact.
type Verifier interface {
	Verify(ctx context.Context, path string) error
}

// Delegating is implemented by verifiers that hand the decision to another
// program and only learn about failures through its exit status.
type Delegating interface {
	Delegated() bool
}

// Recorder persists check results.
type Recorder interface {
	Record(ctx context.Context, runID string, result Result) error
}

// Result captures the verification of one requested ROM.
type Result struct {
	Name     string
	Path     string
	Status   Status
	Err      error
	Duration time.Duration
}

// OK reports whether verification raised no error.
func (r Result) OK() bool {
	return r.Status == StatusOK || r.Status == StatusChecked
}

// ResolvePath joins name onto romsDir. Absolute names are returned cleaned.
func ResolvePath(romsDir, name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(romsDir, name)
}

// Option configures a Checker.
type Option func(*Checker)

// WithKeepGoing makes Check attempt every ROM and join the failures instead
// of stopping at the first one.
func WithKeepGoing(enabled bool) Option {
	return func(c *Checker) {
		c.keepGoing = enabled
	}
}

// WithRecorder stores every result, tagged with the run ID.
func WithRecorder(recorder Recorder) Option {
	return func(c *Checker) {
		c.recorder = recorder
	}
}

// WithLogger sets the logger used for check progress.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRunID tags recorded results and log lines with id.
func WithRunID(id string) Option {
	return func(c *Checker) {
		c.runID = id
	}
}

// WithProgress registers a callback invoked after each ROM is verified.
func WithProgress(fn func(Result)) Option {
	return func(c *Checker) {
		c.progress = fn
	}
}

// Checker verifies ROMs found under a single directory.
type Checker struct {
	romsDir   string
	verifier  Verifier
	passed    Status
	keepGoing bool
	recorder  Recorder
	logger    *slog.Logger
	runID     string
	progress  func(Result)
}

// New constructs a Checker rooted at romsDir.
func New(romsDir string, verifier Verifier, opts ...Option) *Checker {
	c := &Checker{
		romsDir:  romsDir,
		verifier: verifier,
		passed:   StatusOK,
		logger:   logging.NewNop(),
	}
	if d, ok := verifier.(Delegating); ok && d.Delegated() {
		c.passed = StatusChecked
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, "romcheck")
	if c.runID != "" {
		c.logger = c.logger.With(logging.String(logging.FieldCorrelationID, c.runID))
	}
	return c
}

// RomsDir returns the directory names are resolved against.
func (c *Checker) RomsDir() string {
	return c.romsDir
}

// Check verifies names in order, calling the verifier exactly once for each
// attempted ROM. It returns the results gathered so far together with the
// first failure, or every failure joined when keep-going is enabled.
func (c *Checker) Check(ctx context.Context, names []string) ([]Result, error) {
	if len(names) == 0 {
		return nil, ErrNoROMs
	}
	if c.verifier == nil {
		return nil, errors.New("romcheck: verifier not configured")
	}

	results := make([]Result, 0, len(names))
	var failures []error
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result := c.checkOne(ctx, name)
		results = append(results, result)
		c.record(ctx, result)
		if c.progress != nil {
			c.progress(result)
		}
		if result.Err == nil {
			continue
		}
		if !c.keepGoing {
			return results, result.Err
		}
		failures = append(failures, result.Err)
	}
	return results, errors.Join(failures...)
}

func (c *Checker) checkOne(ctx context.Context, name string) Result {
	path := ResolvePath(c.romsDir, name)
	c.logger.Debug("verifying rom",
		logging.String("rom", name),
		logging.String("path", path),
	)

	start := time.Now()
	err := c.verifier.Verify(ctx, path)
	result := Result{
		Name:     name,
		Path:     path,
		Status:   c.passed,
		Duration: time.Since(start),
	}
	if err != nil {
		result.Status = StatusFailed
		result.Err = fmt.Errorf("check %s: %w", name, err)
		c.logger.Debug("rom verification failed",
			logging.String("rom", name),
			logging.Error(err),
		)
		return result
	}
	c.logger.Info("rom verified",
		logging.String("rom", name),
		logging.String("status", string(result.Status)),
		logging.Duration("duration", result.Duration),
	)
	return result
}

func (c *Checker) record(ctx context.Context, result Result) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.Record(ctx, c.runID, result); err != nil {
		logging.WarnWithContext(c.logger, "failed to record check result", "history_write_failed",
			logging.String("rom", result.Name),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the cache database path and permissions"),
			logging.String(logging.FieldImpact, "check history is incomplete"),
		)
	}
}
