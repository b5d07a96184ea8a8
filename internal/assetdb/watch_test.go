package assetdb

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_DebouncesChanges(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "Cube.prefab")
	other := filepath.Join(dir, "Other.prefab")
	for _, p := range []string{target, other} {
		if err := os.WriteFile(p, []byte("a"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	w, err := NewWatcher([]string{target}, 50*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	batches := make(chan []string, 8)
	done := make(chan error, 1)
	go func() {
		done <- w.Start(ctx, func(changed []string) { batches <- changed })
	}()

	// Writes to an unwatched sibling are ignored.
	if err := os.WriteFile(other, []byte("b"), 0644); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(target, []byte{byte('b' + i)}, 0644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case got := <-batches:
		if len(got) != 1 || got[0] != target {
			t.Errorf("changed = %v, want [%s]", got, target)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}

	select {
	case extra := <-batches:
		t.Errorf("burst should coalesce into one batch, got extra %v", extra)
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Start returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestNewWatcher_MissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone", "Cube.prefab")
	if _, err := NewWatcher([]string{missing}, 0, nil); err == nil {
		t.Error("expected error watching a missing directory")
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone", "Cube.prefab")
	err := Watch(context.Background(), []string{missing}, nil, func([]string) {})
	if err == nil {
		t.Error("expected error watching a missing directory")
	}
}

func TestWatch_StopsOnCancel(t *testing.T) {
	target := filepath.Join(t.TempDir(), "Cube.prefab")
	if err := os.WriteFile(target, []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, []string{target}, nil, func([]string) {})
	}()
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Watch returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Watch did not stop")
	}
}
