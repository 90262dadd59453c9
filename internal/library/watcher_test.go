package library

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_WatchAndClose(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "album", "01 - intro.mp3"), time.Unix(1700000000, 0))

	store := NewStore(setupTestDB(t))
	scanner := NewScanner(store, discardLogger(), 2)

	w, err := NewWatcher(scanner, []string{dir}, discardLogger())
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}

	// A write schedules a debounced rescan; Close cancels it before it fires.
	writeFile(t, filepath.Join(dir, "album", "02 - outro.mp3"), time.Unix(1700000100, 0))

	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close = %v, want idempotent nil", err)
	}
}

func TestWatcher_SkipsHiddenDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".git", "objects"), 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "album"), 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	store := NewStore(setupTestDB(t))
	scanner := NewScanner(store, discardLogger(), 2)

	w, err := NewWatcher(scanner, []string{dir}, discardLogger())
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	if list := w.fsw.WatchList(); len(list) != 2 {
		t.Errorf("WatchList = %v, want the root and the album directory only", list)
	}
}
