package library

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dhowden/tag"
)

// processFiles reads tags and stream info with a worker pool and writes the
// results sequentially (sqlite prefers a single writer). Returns how many
// tracks were added and how many updated.
func (s *Scanner) processFiles(filesToProcess []fileInfo, fileIsNew map[string]bool) (added, updated int) {
	total := len(filesToProcess)
	var processed atomic.Int64

	workCh := make(chan fileInfo, total)
	resultCh := make(chan Track, total)

	// Start workers
	var wg sync.WaitGroup
	for range s.workers {
		wg.Go(func() {
			for f := range workCh {
				resultCh <- s.readTrack(f)
				processed.Add(1)
			}
		})
	}

	// Send work to workers
	go func() {
		for _, f := range filesToProcess {
			workCh <- f
		}
		close(workCh)
	}()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.log.Info("library scan progress", "processed", processed.Load(), "total", total)
			case <-done:
				return
			}
		}
	}()

	// Close results channel when all workers are done
	go func() {
		wg.Wait()
		close(resultCh)
	}()

	// Collect results and insert into DB (sequential to avoid SQLite issues)
	for track := range resultCh {
		if err := s.store.Upsert(track); err != nil {
			s.log.Warn("failed to store track", "path", track.Path, "error", err)
			continue
		}
		if fileIsNew[track.Path] {
			added++
		} else {
			updated++
		}
	}

	close(done)
	return added, updated
}

// readTrack builds the Track record for one file. Unreadable tags are not
// fatal: the title falls back to the file name and the duration to zero.
func (s *Scanner) readTrack(f fileInfo) Track {
	t := Track{
		ID:    IDForPath(f.path),
		Path:  f.path,
		Mtime: f.mtime,
		Title: titleFromPath(f.path),
	}

	meta := readTags(f.path, s.log)
	if meta != nil {
		if title := strings.TrimSpace(meta.Title()); title != "" {
			t.Title = title
		}
		t.Artist = strings.TrimSpace(meta.Artist())
		t.Album = strings.TrimSpace(meta.Album())
	}

	if info, err := ReadAudioInfo(f.path); err == nil {
		t.DurationMs = info.Duration.Milliseconds()
	} else {
		s.log.Debug("could not probe stream info", "path", f.path, "error", err)
	}

	t.AlbumArtLocator = artLocator(meta, f.path)

	return t
}

// readTags reads file metadata, returning nil when the file has no
// parseable tags.
func readTags(path string, log *slog.Logger) tag.Metadata {
	f, err := os.Open(path)
	if err != nil {
		log.Debug("could not open file for tags", "path", path, "error", err)
		return nil
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil
	}
	return m
}

// titleFromPath derives a display title from the file name, used when a file
// carries no title tag.
func titleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
