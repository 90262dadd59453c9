package playback

import (
	"spindle/internal/library"
	"spindle/internal/queue"
	"spindle/internal/state"
)

// SnapshotStore persists the playback session across restarts. Saves are
// expected to be debounced and best-effort; a load that yields nothing
// simply starts a fresh session.
type SnapshotStore interface {
	LoadSnapshot() *state.Snapshot
	SaveSnapshot(snap state.Snapshot)
}

// TrackResolver resolves persisted track ids back to library tracks.
type TrackResolver interface {
	TracksByIDs(ids []string) (map[string]library.Track, error)
}

// RecentsRecorder receives the play-history hook.
type RecentsRecorder interface {
	RecordPlay(id string) error
}

// persistLocked hands the current session to the snapshot store. The
// store debounces and keeps only the newest pending snapshot, so calls
// made in mutation order can never write an older session over a newer
// one. Callers hold mu.
func (s *serviceImpl) persistLocked() {
	if s.snapshots == nil {
		return
	}
	s.snapshots.SaveSnapshot(state.Snapshot{
		TrackIDs: s.queue.IDs(),
		Order:    s.queue.Order(),
		Cursor:   s.queue.Cursor(),
		Repeat:   uint8(s.repeat),
		Shuffle:  s.queue.Shuffled(),
	})
}

// restore rebuilds the previous session at construction time. The
// controller comes up Paused with nothing loaded; the first Play loads
// the current track. Ids that no longer resolve are dropped with the
// play order and cursor remapped around them. Anything inconsistent
// degrades to a fresh session.
func (s *serviceImpl) restore(resolver TrackResolver) {
	if s.snapshots == nil {
		return
	}
	snap := s.snapshots.LoadSnapshot()
	if snap == nil {
		return
	}

	s.repeat = restoredRepeat(snap.Repeat)

	if len(snap.TrackIDs) == 0 || resolver == nil {
		s.queue.SetShuffled(snap.Shuffle, s.rng)
		return
	}

	found, err := resolver.TracksByIDs(snap.TrackIDs)
	if err != nil {
		s.log.Warn("restore session", "error", err)
		s.queue.SetShuffled(snap.Shuffle, s.rng)
		return
	}

	tracks, order, cursor := remapSnapshot(snap, found)
	if len(tracks) == 0 {
		s.queue.SetShuffled(snap.Shuffle, s.rng)
		return
	}

	q, ok := queue.Restore(tracks, order, cursor, snap.Shuffle)
	if !ok {
		s.log.Warn("restore session", "error", "inconsistent snapshot")
		return
	}
	s.queue = q
	s.state = StatePaused
	s.log.Info("session restored",
		"tracks", len(tracks),
		"dropped", len(snap.TrackIDs)-len(tracks),
		"repeat", s.repeat.String(),
		"shuffle", snap.Shuffle)
}

// remapSnapshot drops ids that did not resolve and renumbers the play
// order. The cursor keeps addressing its track when that track survived;
// otherwise it lands on the next surviving play position, clamped to the
// end.
func remapSnapshot(snap *state.Snapshot, found map[string]library.Track) ([]library.Track, []int, int) {
	newIndex := make([]int, len(snap.TrackIDs))
	tracks := make([]library.Track, 0, len(snap.TrackIDs))
	for i, id := range snap.TrackIDs {
		if t, ok := found[id]; ok {
			newIndex[i] = len(tracks)
			tracks = append(tracks, t)
		} else {
			newIndex[i] = -1
		}
	}

	order := make([]int, 0, len(tracks))
	survivorsBefore := 0
	for pos, oi := range snap.Order {
		if oi < 0 || oi >= len(newIndex) || newIndex[oi] < 0 {
			continue
		}
		if pos < snap.Cursor {
			survivorsBefore++
		}
		order = append(order, newIndex[oi])
	}

	cursor := min(survivorsBefore, len(order)-1)
	return tracks, order, cursor
}

func restoredRepeat(b uint8) RepeatMode {
	mode := RepeatMode(b)
	if mode < RepeatOff || mode > RepeatOne {
		return RepeatOff
	}
	return mode
}
