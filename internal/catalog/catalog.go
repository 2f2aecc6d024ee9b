package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/pelletier/go-toml/v2"

	"romkit/internal/fileutil"
	"romkit/internal/textutil"
)

var (
	// ErrDuplicate is returned by Add when the file is already catalogued.
	ErrDuplicate = errors.New("rom already catalogued")
	// ErrNotFound is returned when a file has no catalog entry.
	ErrNotFound = errors.New("rom not catalogued")
)

const lockTimeout = 5 * time.Second

// Entry describes one known-good ROM archive.
type Entry struct {
	ID     string `toml:"id" json:"id"`
	Title  string `toml:"title,omitempty" json:"title,omitempty"`
	File   string `toml:"file" json:"file"`
	SHA256 string `toml:"sha256" json:"sha256"`
}

// DisplayTitle returns the configured title or one derived from the id.
func (e Entry) DisplayTitle() string {
	if strings.TrimSpace(e.Title) != "" {
		return e.Title
	}
	return textutil.TitleFromID(e.ID)
}

type document struct {
	ROMs []Entry `toml:"rom"`
}

// Catalog is an in-memory view of a catalog file keyed by ROM file name.
type Catalog struct {
	path    string
	mu      sync.RWMutex
	entries map[string]Entry
}

// Load reads the catalog at path. A missing file yields an empty catalog
// that will be created on the first Save.
func Load(path string) (*Catalog, error) {
	c := &Catalog{path: path, entries: make(map[string]Entry)}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return c, nil
		}
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	for i, entry := range doc.ROMs {
		entry, err := normalizeEntry(entry)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: rom[%d]: %w", path, i, err)
		}
		c.entries[entry.File] = entry
	}
	return c, nil
}

// Path returns the backing file location.
func (c *Catalog) Path() string {
	return c.path
}

// Len reports the number of entries.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Lookup returns the entry for a ROM file name.
func (c *Catalog) Lookup(file string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[strings.TrimSpace(file)]
	return entry, ok
}

// Add inserts entry. Existing entries for the same file are only replaced
// when replace is set.
func (c *Catalog) Add(entry Entry, replace bool) error {
	entry, err := normalizeEntry(entry)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[entry.File]; exists && !replace {
		return fmt.Errorf("%w: %s", ErrDuplicate, entry.File)
	}
	c.entries[entry.File] = entry
	return nil
}

// Remove deletes the entry for file.
func (c *Catalog) Remove(file string) error {
	file = strings.TrimSpace(file)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[file]; !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, file)
	}
	delete(c.entries, file)
	return nil
}

// Entries returns all entries sorted by file name.
func (c *Catalog) Entries() []Entry {
	c.mu.RLock()
	out := make([]Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		out = append(out, entry)
	}
	c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].File < out[j].File })
	return out
}

// Save writes the catalog while holding an exclusive lock on <path>.lock so
// concurrent romkit invocations never interleave writes.
func (c *Catalog) Save() error {
	if strings.TrimSpace(c.path) == "" {
		return errors.New("catalog path not configured")
	}
	data, err := c.encode()
	if err != nil {
		return err
	}

	lock := flock.New(c.path + ".lock")
	locked, err := tryLockWithin(lock, lockTimeout)
	if err != nil {
		return fmt.Errorf("lock catalog: %w", err)
	}
	if !locked {
		return fmt.Errorf("lock catalog: %s is held by another process", lock.Path())
	}
	defer func() { _ = lock.Unlock() }()

	if err := fileutil.WriteFileAtomic(c.path, data, 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}

func (c *Catalog) encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# romkit ROM catalog\n\n")
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(document{ROMs: c.Entries()}); err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return buf.Bytes(), nil
}

func tryLockWithin(lock *flock.Flock, timeout time.Duration) (bool, error) {
	deadline := time.Now().Add(timeout)
	for {
		ok, err := lock.TryLock()
		if err != nil || ok {
			return ok, err
		}
		if time.Now().After(deadline) {
			return false, nil
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func normalizeEntry(entry Entry) (Entry, error) {
	entry.File = strings.TrimSpace(entry.File)
	entry.Title = strings.TrimSpace(entry.Title)
	entry.SHA256 = strings.ToLower(strings.TrimSpace(entry.SHA256))
	if entry.File == "" {
		return entry, errors.New("file must be set")
	}
	if strings.ContainsAny(entry.File, `/\`) {
		return entry, fmt.Errorf("file %q must be a bare file name", entry.File)
	}
	if !isHexDigest(entry.SHA256) {
		return entry, fmt.Errorf("sha256 for %s must be 64 hex characters", entry.File)
	}
	entry.ID = strings.TrimSpace(entry.ID)
	if entry.ID == "" {
		entry.ID = textutil.IDFromFileName(entry.File)
	}
	return entry, nil
}

func isHexDigest(value string) bool {
	if len(value) != 64 {
		return false
	}
	for _, r := range value {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
