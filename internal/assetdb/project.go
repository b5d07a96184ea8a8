// pattern: Imperative Shell

// Package assetdb is a read-only view of a Unity project's asset database built from
// the .meta files on disk.
package assetdb

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// scanDirs are the project folders that carry .meta files. Registry packages are
// unpacked under Library/PackageCache rather than Packages.
var scanDirs = []string{"Assets", "Packages", "Library/PackageCache", "ProjectSettings"}

// FindProjectRoot walks up from start looking for a directory that holds both
// "Assets" and "ProjectSettings". Returns ok=false when none is found.
func FindProjectRoot(start string) (root string, ok bool) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}

	for dir := abs; ; {
		if isDir(filepath.Join(dir, "Assets")) && isDir(filepath.Join(dir, "ProjectSettings")) {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// metaFile is the part of a .meta file the database needs.
type metaFile struct {
	GUID string `yaml:"guid"`
}

// ReadMetaGUID returns the guid recorded in a .meta file.
func ReadMetaGUID(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read meta %s: %w", path, err)
	}

	var m metaFile
	if err := yaml.Unmarshal(data, &m); err != nil {
		return "", fmt.Errorf("parse meta %s: %w", path, err)
	}
	if m.GUID == "" {
		return "", fmt.Errorf("meta %s has no guid", path)
	}
	return m.GUID, nil
}
