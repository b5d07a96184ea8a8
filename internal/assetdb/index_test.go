package assetdb

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/flock"
)

func TestIndexPath_PerRoot(t *testing.T) {
	a := IndexPath("/cache", "/projects/a")
	b := IndexPath("/cache", "/projects/b")
	if a == b {
		t.Error("different roots should map to different cache files")
	}
	if a != IndexPath("/cache", "/projects/a") {
		t.Error("IndexPath should be stable")
	}
	if !strings.HasPrefix(filepath.Base(a), "guid-index-") || filepath.Ext(a) != ".yaml" {
		t.Errorf("unexpected cache file name %q", a)
	}
}

func TestSaveLoadIndex(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "guid-index.yaml")

	idx := NewIndex("/proj")
	idx.Entries["Assets/A.prefab.meta"] = IndexEntry{GUID: "aaa", ModTime: 42}

	if err := SaveIndex(ctx, path, idx); err != nil {
		t.Fatalf("SaveIndex: %v", err)
	}

	loaded, err := LoadIndex(ctx, path, "/proj")
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	got := loaded.Entries["Assets/A.prefab.meta"]
	if got.GUID != "aaa" || got.ModTime != 42 {
		t.Errorf("loaded entry = %+v", got)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should not remain after save")
	}
}

func TestLoadIndex_Missing(t *testing.T) {
	idx, err := LoadIndex(context.Background(), filepath.Join(t.TempDir(), "none.yaml"), "/proj")
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	if len(idx.Entries) != 0 || idx.Root != "/proj" {
		t.Errorf("expected empty index for /proj, got %+v", idx)
	}
}

func TestLoadIndex_OtherRootDiscarded(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "guid-index.yaml")

	idx := NewIndex("/other")
	idx.Entries["Assets/A.prefab.meta"] = IndexEntry{GUID: "aaa"}
	if err := SaveIndex(ctx, path, idx); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadIndex(ctx, path, "/proj")
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Entries) != 0 {
		t.Errorf("entries from another root should be discarded, got %v", loaded.Entries)
	}
}

func TestLoadIndex_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guid-index.yaml")
	if err := os.WriteFile(path, []byte("entries: [broken"), 0644); err != nil {
		t.Fatal(err)
	}

	idx, err := LoadIndex(context.Background(), path, "/proj")
	if err == nil {
		t.Error("expected parse error")
	}
	if idx == nil || len(idx.Entries) != 0 {
		t.Error("corrupt cache should still yield an empty index")
	}
}

func TestSaveIndex_LockHeld(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guid-index.yaml")

	held := flock.New(path + ".lock")
	locked, err := held.TryLock()
	if err != nil || !locked {
		t.Fatalf("failed to take lock: %v", err)
	}
	defer func() { _ = held.Unlock() }()

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	if err := SaveIndex(ctx, path, NewIndex("/proj")); err == nil {
		t.Error("SaveIndex should fail while another process holds the lock")
	}
}
