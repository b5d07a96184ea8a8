// pattern: Imperative Shell

package assetdb

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"assettree/internal/logging"
	"assettree/internal/unityclass"
)

// Database maps asset GUIDs to project-relative paths for one Unity project.
// All lookups are safe for concurrent use and return "" for unknown GUIDs.
type Database struct {
	root     string
	cacheDir string
	logger   *logging.ScopedLogger

	mu     sync.RWMutex
	byGUID map[string]string
	byPath map[string]string
}

// New returns an empty database for root. Call Refresh to populate it.
// cacheDir may be empty to disable the on-disk index cache.
func New(root, cacheDir string, logger *logging.ScopedLogger) *Database {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Database{
		root:     root,
		cacheDir: cacheDir,
		logger:   logger,
		byGUID:   make(map[string]string),
		byPath:   make(map[string]string),
	}
}

// Open creates a database for root and indexes it, reusing the cached index for
// .meta files whose mtime has not changed.
func Open(ctx context.Context, root, cacheDir string, logger *logging.ScopedLogger) (*Database, error) {
	db := New(root, cacheDir, logger)
	if err := db.Refresh(ctx); err != nil {
		return db, err
	}
	return db, nil
}

// Root returns the project root directory.
func (db *Database) Root() string {
	return db.root
}

// Len returns the number of indexed assets.
func (db *Database) Len() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.byGUID)
}

// Refresh rescans the project's .meta files and swaps in the new tables.
// Unreadable .meta files are logged and skipped.
func (db *Database) Refresh(ctx context.Context) error {
	idx := NewIndex(db.root)
	cachePath := ""
	if db.cacheDir != "" {
		cachePath = IndexPath(db.cacheDir, db.root)
		loaded, err := LoadIndex(ctx, cachePath, db.root)
		if err != nil {
			db.logger.Warn("index cache unusable", "path", cachePath, "error", err)
		}
		idx = loaded
	}

	changed, err := db.scan(ctx, idx)
	if err != nil {
		return err
	}

	byGUID := make(map[string]string, len(idx.Entries))
	byPath := make(map[string]string, len(idx.Entries))
	for metaPath, e := range idx.Entries {
		assetPath := strings.TrimSuffix(metaPath, ".meta")
		byGUID[e.GUID] = assetPath
		byPath[assetPath] = e.GUID
	}

	db.mu.Lock()
	db.byGUID = byGUID
	db.byPath = byPath
	db.mu.Unlock()

	db.logger.Info("asset database indexed", "root", db.root, "assets", len(byGUID), "changed", changed)

	if changed && cachePath != "" {
		if err := SaveIndex(ctx, cachePath, idx); err != nil {
			db.logger.Warn("failed to save index cache", "path", cachePath, "error", err)
		}
	}
	return nil
}

// scan updates idx in place from the .meta files on disk and reports whether
// anything changed.
func (db *Database) scan(ctx context.Context, idx *Index) (bool, error) {
	changed := false
	seen := make(map[string]bool, len(idx.Entries))

	for _, dir := range scanDirs {
		base := filepath.Join(db.root, filepath.FromSlash(dir))
		if !isDir(base) {
			continue
		}
		err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				db.logger.Warn("skipping unreadable path", "path", path, "error", err)
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(d.Name(), ".meta") {
				return nil
			}

			rel, err := filepath.Rel(db.root, path)
			if err != nil {
				return nil
			}
			rel = filepath.ToSlash(rel)

			info, err := d.Info()
			if err != nil {
				return nil
			}
			mtime := info.ModTime().UnixNano()

			if e, ok := idx.Entries[rel]; ok && e.ModTime == mtime {
				seen[rel] = true
				return nil
			}

			guid, err := ReadMetaGUID(path)
			if err != nil {
				db.logger.Warn("skipping meta file", "path", rel, "error", err)
				return nil
			}
			idx.Entries[rel] = IndexEntry{GUID: guid, ModTime: mtime}
			seen[rel] = true
			changed = true
			return nil
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return changed, err
			}
			return changed, fmt.Errorf("scan %s: %w", dir, err)
		}
	}

	for rel := range idx.Entries {
		if !seen[rel] {
			delete(idx.Entries, rel)
			changed = true
		}
	}
	return changed, nil
}

// AssetPath returns the project-relative path of guid, or "".
func (db *Database) AssetPath(guid string) string {
	if db == nil || guid == "" {
		return ""
	}
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.byGUID[guid]
}

// GUID returns the guid of a project-relative asset path, or "".
func (db *Database) GUID(assetPath string) string {
	if db == nil {
		return ""
	}
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.byPath[filepath.ToSlash(assetPath)]
}

// ScriptClassName returns the class name a C# script asset declares.
// Unity requires a MonoBehaviour's class to match its file name, so the base name is used.
// Compiled assemblies hold many classes and resolve to "".
func (db *Database) ScriptClassName(guid string) string {
	p := db.AssetPath(guid)
	if !strings.EqualFold(filepath.Ext(p), ".cs") {
		return ""
	}
	base := filepath.Base(filepath.FromSlash(p))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Abs converts a project-relative asset path to an absolute file path.
func (db *Database) Abs(assetPath string) string {
	if assetPath == "" || filepath.IsAbs(assetPath) {
		return assetPath
	}
	if db == nil {
		return filepath.FromSlash(assetPath)
	}
	return filepath.Join(db.root, filepath.FromSlash(assetPath))
}

// Exists reports whether the asset file for assetPath is present on disk.
func (db *Database) Exists(assetPath string) bool {
	_, err := os.Stat(db.Abs(assetPath))
	return err == nil
}

func (db *Database) ClassName(classID int) string {
	return unityclass.Name(classID)
}

func (db *Database) ClassIcon(classID int) string {
	return unityclass.ClassIcon(classID)
}

// AssetIcon returns the glyph for the asset guid, or "" when guid is unknown.
func (db *Database) AssetIcon(guid string) string {
	p := db.AssetPath(guid)
	if p == "" {
		return ""
	}
	return unityclass.PathIcon(p)
}

func (db *Database) PathIcon(path string) string {
	return unityclass.PathIcon(path)
}
