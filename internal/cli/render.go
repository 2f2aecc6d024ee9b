package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"romkit/internal/fileutil"
	"romkit/internal/romcheck"
	"romkit/internal/romdb"
)

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// statusLabel renders a check status as OK, checked or FAILED.
func statusLabel(status romcheck.Status, colorize bool) string {
	var label string
	var attr color.Attribute
	switch status {
	case romcheck.StatusOK:
		label, attr = "OK", color.FgGreen
	case romcheck.StatusChecked:
		label, attr = "checked", color.FgCyan
	default:
		label, attr = "FAILED", color.FgRed
	}
	if !colorize {
		return label
	}
	c := color.New(attr, color.Bold)
	c.EnableColor()
	return c.Sprint(label)
}

// passLabel renders a preflight outcome.
func passLabel(passed, colorize bool) string {
	if passed {
		return statusLabel(romcheck.StatusOK, colorize)
	}
	return statusLabel(romcheck.StatusFailed, colorize)
}

// hashWithProgress digests path, drawing a byte progress bar on progress
// when it is a terminal.
func hashWithProgress(ctx context.Context, path, label string, progress io.Writer) (fileutil.Digest, error) {
	if !shouldColorize(progress) {
		return fileutil.SHA256File(ctx, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return fileutil.Digest{}, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return fileutil.Digest{}, err
	}

	bar := progressbar.NewOptions64(info.Size(),
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription("hashing "+label),
		progressbar.OptionShowBytes(true),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionThrottle(65*time.Millisecond),
	)
	digest, err := fileutil.SHA256Reader(ctx, io.TeeReader(f, bar))
	_ = bar.Finish()
	return digest, err
}

// progressHasher digests ROMs for the catalog backend, going through the
// cache when one is open and drawing a progress bar whenever a file is
// actually read.
type progressHasher struct {
	store    *romdb.Store
	progress io.Writer
}

func (h progressHasher) Digest(ctx context.Context, path string) (fileutil.Digest, error) {
	hash := func(ctx context.Context, p string) (fileutil.Digest, error) {
		return hashWithProgress(ctx, p, filepath.Base(p), h.progress)
	}
	if h.store != nil {
		return h.store.DigestWith(ctx, path, hash)
	}
	return hash(ctx, path)
}
