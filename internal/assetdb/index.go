// pattern: Imperative Shell

package assetdb

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"
)

// lockRetryDelay is how often a blocked cache lock is retried.
const lockRetryDelay = 50 * time.Millisecond

// Index is the persisted guid table for one project.
type Index struct {
	Root    string                `yaml:"root"`
	Entries map[string]IndexEntry `yaml:"entries"` // keyed by project-relative .meta path
}

// IndexEntry records the guid read from a .meta file and the file's mtime at that time.
type IndexEntry struct {
	GUID    string `yaml:"guid"`
	ModTime int64  `yaml:"mtime"`
}

// NewIndex returns an empty index for root.
func NewIndex(root string) *Index {
	return &Index{Root: root, Entries: make(map[string]IndexEntry)}
}

// IndexPath returns the cache file for a project root inside cacheDir.
// Each project gets its own file, named by a hash of the root path.
func IndexPath(cacheDir, root string) string {
	sum := sha1.Sum([]byte(root))
	return filepath.Join(cacheDir, "guid-index-"+hex.EncodeToString(sum[:8])+".yaml")
}

// LoadIndex reads a cached index under a shared file lock.
// A missing cache file yields an empty index and no error.
func LoadIndex(ctx context.Context, path, root string) (*Index, error) {
	fl := flock.New(path + ".lock")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return NewIndex(root), fmt.Errorf("create cache directory: %w", err)
	}
	locked, err := fl.TryRLockContext(ctx, lockRetryDelay)
	if err != nil {
		return NewIndex(root), fmt.Errorf("lock index cache: %w", err)
	}
	if locked {
		defer func() { _ = fl.Unlock() }()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewIndex(root), nil
		}
		return NewIndex(root), fmt.Errorf("read index cache: %w", err)
	}

	idx := NewIndex(root)
	if err := yaml.Unmarshal(data, idx); err != nil {
		return NewIndex(root), fmt.Errorf("parse index cache: %w", err)
	}
	if idx.Root != root {
		return NewIndex(root), nil
	}
	if idx.Entries == nil {
		idx.Entries = make(map[string]IndexEntry)
	}
	return idx, nil
}

// SaveIndex writes idx under an exclusive file lock, replacing the file atomically.
func SaveIndex(ctx context.Context, path string, idx *Index) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	fl := flock.New(path + ".lock")
	locked, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("lock index cache: %w", err)
	}
	if !locked {
		return fmt.Errorf("index cache %s is locked", path)
	}
	defer func() { _ = fl.Unlock() }()

	data, err := yaml.Marshal(idx)
	if err != nil {
		return fmt.Errorf("encode index cache: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write index cache: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace index cache: %w", err)
	}
	return nil
}
