package library

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// rescanDebounce batches bursts of filesystem events (an album copy touches
// dozens of files) into a single incremental scan.
const rescanDebounce = 2 * time.Second

// Watcher triggers incremental rescans when files under the library sources
// change on disk.
type Watcher struct {
	scanner *Scanner
	sources []string
	log     *slog.Logger

	fsw *fsnotify.Watcher

	mu          sync.Mutex
	rescanTimer *time.Timer
	closed      bool

	done chan struct{}
	wg   sync.WaitGroup
}

// NewWatcher starts watching every directory under sources. Events are
// handled on a background goroutine until Close.
func NewWatcher(scanner *Scanner, sources []string, log *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		scanner: scanner,
		sources: sources,
		log:     log,
		fsw:     fsw,
		done:    make(chan struct{}),
	}

	for _, src := range sources {
		if err := w.watchTree(src); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}

	w.wg.Go(w.run)
	return w, nil
}

// watchTree registers root and every subdirectory with the watcher. Hidden
// and unreadable directories are skipped.
func (w *Watcher) watchTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil //nolint:nilerr // skip unreadable subtrees
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			w.log.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("library watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	// New directories need their own watch before their files produce events
	if ev.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.watchTree(ev.Name); err != nil {
				w.log.Warn("failed to watch new directory", "path", ev.Name, "error", err)
			}
			w.rescanSoon()
			return
		}
	}

	if !IsMusicFile(ev.Name) {
		return
	}
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
		w.rescanSoon()
	}
}

func (w *Watcher) rescanSoon() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.rescanTimer != nil {
		w.rescanTimer.Stop()
	}
	w.rescanTimer = time.AfterFunc(rescanDebounce, func() {
		if _, err := w.scanner.Refresh(w.sources); err != nil {
			w.log.Warn("watch-triggered scan failed", "error", err)
		}
	})
}

// Close stops the watcher. A pending debounced rescan is cancelled.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.rescanTimer != nil {
		w.rescanTimer.Stop()
		w.rescanTimer = nil
	}
	w.mu.Unlock()

	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}
