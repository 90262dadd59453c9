package playback

import (
	"spindle/internal/library"
)

// ReplaceQueue swaps the whole queue for tracks and starts playback on
// tracks[startIndex]. With shuffle on the play order is rebuilt so that
// track leads it. Track ids must be unique.
func (s *serviceImpl) ReplaceQueue(tracks []library.Track, startIndex int) error {
	if len(tracks) == 0 {
		return ErrEmptyQueue
	}
	if startIndex < 0 || startIndex >= len(tracks) {
		return ErrIndexOutOfRange
	}
	seen := make(map[string]struct{}, len(tracks))
	for _, t := range tracks {
		if _, dup := seen[t.ID]; dup {
			return ErrDuplicateTrack
		}
		seen[t.ID] = struct{}{}
	}

	s.mu.Lock()
	s.queue.Replace(tracks, startIndex, s.rng)
	states := s.loadCurrentLocked(true)
	s.persistLocked()
	s.publish(states...)
	return nil
}

// Enqueue appends a track to the end of the queue. The cursor does not
// move; the first track into an empty queue becomes current but playback
// stays stopped until Play.
func (s *serviceImpl) Enqueue(track library.Track) error {
	s.mu.Lock()
	if s.queue.ContainsID(track.ID) {
		s.mu.Unlock()
		return ErrDuplicateTrack
	}
	s.queue.Append(track)
	s.persistLocked()
	st := s.snapshotLocked()
	s.publish(st)
	return nil
}

// EnqueueAt inserts a track into the play order offset positions after
// the cursor, clamped to the end of the queue. Offset must be at least 1
// so the current track is never displaced.
func (s *serviceImpl) EnqueueAt(track library.Track, offset int) error {
	if offset < 1 {
		return ErrIndexOutOfRange
	}

	s.mu.Lock()
	if s.queue.ContainsID(track.ID) {
		s.mu.Unlock()
		return ErrDuplicateTrack
	}
	s.queue.InsertAt(track, s.queue.Cursor()+offset)
	s.persistLocked()
	st := s.snapshotLocked()
	s.publish(st)
	return nil
}

// Remove deletes the track with the given id from the queue. Removing
// the current track moves on the way its end would: the next track in
// play order starts (respecting repeat-all wrap at the queue end), the
// paused/playing distinction survives, and removing the last remaining
// or final track stops playback.
func (s *serviceImpl) Remove(id string) error {
	s.mu.Lock()
	wasPlaying := s.state == StatePlaying
	wasCurrent, wasLast, ok := s.queue.RemoveID(id)
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}

	var states []PlaybackState
	switch {
	case !wasCurrent:
		states = []PlaybackState{s.snapshotLocked()}
	case s.queue.Empty():
		s.unloadLocked()
		states = []PlaybackState{s.snapshotLocked()}
	case !s.loaded:
		// Nothing in the sink (stopped, or a restored session before the
		// first Play): the cursor fixup is the whole change
		states = []PlaybackState{s.snapshotLocked()}
	case !wasLast:
		// The cursor already addresses the track that followed
		states = s.loadCurrentLocked(wasPlaying)
	case s.repeat == RepeatAll:
		s.queue.SetCursor(0)
		states = s.loadCurrentLocked(wasPlaying)
	default:
		// Current was the final track: stop, cursor stays on the new end
		s.unloadLocked()
		states = []PlaybackState{s.snapshotLocked()}
	}

	s.persistLocked()
	s.publish(states...)
	return nil
}

// Move takes the track at play position from and re-inserts it so it
// ends up at play position to. The cursor follows the current track.
func (s *serviceImpl) Move(from, to int) error {
	s.mu.Lock()
	if !s.queue.Move(from, to) {
		s.mu.Unlock()
		return ErrIndexOutOfRange
	}
	s.persistLocked()
	st := s.snapshotLocked()
	s.publish(st)
	return nil
}

// Clear empties the queue and stops the sink.
func (s *serviceImpl) Clear() {
	s.mu.Lock()
	s.queue.Clear()
	s.unloadLocked()
	s.lastError = ""
	s.persistLocked()
	st := s.snapshotLocked()
	s.publish(st)
}
