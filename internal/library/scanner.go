package library

import (
	"log/slog"
	"time"
)

const defaultWorkers = 8

// ScanStats holds statistics for a completed scan.
type ScanStats struct {
	Scanned int // music files seen during the walk
	Added   int
	Updated int
	Removed int
	Elapsed time.Duration
}

// Scanner keeps the track store in sync with the source folders on disk.
type Scanner struct {
	store   *Store
	log     *slog.Logger
	workers int
}

// NewScanner builds a scanner writing to store. workers bounds the number of
// concurrent tag readers.
func NewScanner(store *Store, log *slog.Logger, workers int) *Scanner {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Scanner{store: store, log: log, workers: workers}
}

// Refresh performs an incremental scan of the given source directories.
// Only new or modified files are probed; records whose files vanished are
// removed.
func (s *Scanner) Refresh(sources []string) (*ScanStats, error) {
	start := time.Now()
	stats := &ScanStats{}

	// Phase 1: walk source folders
	files, discoveredPaths := discoverFiles(sources)
	stats.Scanned = len(files)
	s.log.Debug("library walk complete", "files", len(files), "sources", len(sources))

	// Phase 2: diff against tracks already in the store
	existing, err := s.store.PathsWithMtimes(sources)
	if err != nil {
		return nil, err
	}

	filesToProcess := make([]fileInfo, 0, len(files))
	fileIsNew := make(map[string]bool)
	for _, f := range files {
		if known, ok := existing[f.path]; ok && known == f.mtime {
			continue // unchanged, skip
		}
		_, existed := existing[f.path]
		fileIsNew[f.path] = !existed
		filesToProcess = append(filesToProcess, f)
	}

	// Phase 3: probe new/modified files in parallel
	if len(filesToProcess) > 0 {
		stats.Added, stats.Updated = s.processFiles(filesToProcess, fileIsNew)
	}

	// Phase 4: drop records whose files are gone
	for path := range existing {
		if _, ok := discoveredPaths[path]; ok {
			continue
		}
		if err := s.store.DeleteByPath(path); err != nil {
			s.log.Warn("failed to remove vanished track", "path", path, "error", err)
			continue
		}
		stats.Removed++
	}

	stats.Elapsed = time.Since(start)
	s.log.Info("library scan finished",
		"scanned", stats.Scanned,
		"added", stats.Added,
		"updated", stats.Updated,
		"removed", stats.Removed,
		"elapsed", stats.Elapsed.Round(time.Millisecond))
	return stats, nil
}
