package playback

import (
	"time"
)

// prevRestartThreshold is how far into a track Previous restarts it
// instead of moving to the preceding one.
const prevRestartThreshold = 3 * time.Second

// Play starts or resumes playback. From Stopped, or after a restored
// session, the current track is loaded into the sink first.
func (s *serviceImpl) Play() error {
	s.mu.Lock()
	if s.queue.Empty() {
		s.mu.Unlock()
		return ErrEmptyQueue
	}

	switch {
	case s.state == StatePlaying:
		s.mu.Unlock()
		return nil
	case s.loaded:
		if err := s.sink.Play(); err != nil {
			s.log.Warn("resume playback", "error", err)
		}
		s.state = StatePlaying
		if cur, ok := s.queue.Current(); ok {
			s.recordPlayLocked(cur.ID)
		}
		st := s.snapshotLocked()
		s.publish(st)
	default:
		states := s.loadCurrentLocked(true)
		s.persistLocked()
		s.publish(states...)
	}
	return nil
}

// Pause pauses playback. A no-op unless currently playing.
func (s *serviceImpl) Pause() error {
	s.mu.Lock()
	if s.state != StatePlaying {
		s.mu.Unlock()
		return nil
	}
	if err := s.sink.Pause(); err != nil {
		s.log.Warn("pause playback", "error", err)
	}
	s.state = StatePaused
	st := s.snapshotLocked()
	s.publish(st)
	return nil
}

// Toggle pauses when playing, otherwise starts playback.
func (s *serviceImpl) Toggle() error {
	s.mu.RLock()
	playing := s.state == StatePlaying
	s.mu.RUnlock()

	if playing {
		return s.Pause()
	}
	return s.Play()
}

// Seek moves within the current track and returns the applied position.
// Positions outside [0, duration] are clamped rather than rejected; the
// upper clamp is skipped when the track duration is unknown.
func (s *serviceImpl) Seek(pos time.Duration) (time.Duration, error) {
	s.mu.Lock()
	cur, ok := s.queue.Current()
	if !ok || !s.loaded {
		s.mu.Unlock()
		return 0, ErrNoCurrent
	}

	pos = max(pos, 0)
	if d := time.Duration(cur.DurationMs) * time.Millisecond; d > 0 {
		pos = min(pos, d)
	}
	if err := s.sink.Seek(pos); err != nil {
		s.log.Warn("seek", "path", cur.Path, "error", err)
	}
	st := s.snapshotLocked()
	s.publish(st)
	return pos, nil
}

// Next moves to the following track. An explicit skip always moves
// forward: repeat-one behaves as repeat-all here. At the end of the
// queue with repeat off playback stops and the queue is retained.
func (s *serviceImpl) Next() error {
	s.mu.Lock()
	if s.queue.Empty() {
		s.mu.Unlock()
		return ErrEmptyQueue
	}
	states := s.advanceLocked(true)
	s.persistLocked()
	s.publish(states...)
	return nil
}

// Previous restarts the current track when more than three seconds in,
// otherwise moves to the preceding track: wrapping under repeat-all,
// stepping back when possible, and restarting from the queue head.
func (s *serviceImpl) Previous() error {
	s.mu.Lock()
	if s.queue.Empty() {
		s.mu.Unlock()
		return ErrEmptyQueue
	}

	var pos time.Duration
	if s.loaded {
		pos = s.sink.Position()
	}
	if pos > prevRestartThreshold {
		s.restartCurrentLocked()
		st := s.snapshotLocked()
		s.publish(st)
		return nil
	}

	switch {
	case s.repeat == RepeatAll:
		s.queue.WrapPrev()
	case s.queue.Retreat():
	default:
		// Already at the head of the play order
		if s.loaded {
			s.restartCurrentLocked()
		}
		st := s.snapshotLocked()
		s.publish(st)
		return nil
	}

	states := s.loadCurrentLocked(true)
	s.persistLocked()
	s.publish(states...)
	return nil
}

// advanceLocked applies the end-of-track transition. Auto-advance keeps
// repeat-one on the same track; an explicit skip does not.
func (s *serviceImpl) advanceLocked(explicit bool) []PlaybackState {
	switch {
	case !explicit && s.repeat == RepeatOne:
		// Same track again from the top
		return s.loadCurrentLocked(true)
	case s.repeat == RepeatAll || s.repeat == RepeatOne:
		s.queue.WrapNext()
		return s.loadCurrentLocked(true)
	default:
		if s.queue.Advance() {
			return s.loadCurrentLocked(true)
		}
		// Ran off the end: stop, keep queue and cursor
		s.unloadLocked()
		return []PlaybackState{s.snapshotLocked()}
	}
}

// restartCurrentLocked rewinds the loaded track to its start.
func (s *serviceImpl) restartCurrentLocked() {
	if err := s.sink.Seek(0); err != nil {
		s.log.Warn("seek", "error", err)
	}
}

// SetRepeatMode updates the repeat mode. The cursor never moves.
func (s *serviceImpl) SetRepeatMode(mode RepeatMode) {
	s.mu.Lock()
	if s.repeat == mode {
		s.mu.Unlock()
		return
	}
	s.repeat = mode
	s.persistLocked()
	st := s.snapshotLocked()
	s.publish(st)
}

// CycleRepeatMode steps off → all → one → off and returns the new mode.
func (s *serviceImpl) CycleRepeatMode() RepeatMode {
	s.mu.RLock()
	mode := s.repeat
	s.mu.RUnlock()

	switch mode {
	case RepeatOff:
		mode = RepeatAll
	case RepeatAll:
		mode = RepeatOne
	default:
		mode = RepeatOff
	}
	s.SetRepeatMode(mode)
	return mode
}

// SetShuffle rebuilds the play order. Enabling puts the current track at
// play position 0 with the rest in random order; disabling restores the
// original sequence with the cursor following the current track. Setting
// the current value again is a no-op.
func (s *serviceImpl) SetShuffle(enabled bool) {
	s.mu.Lock()
	if s.queue.Shuffled() == enabled {
		s.mu.Unlock()
		return
	}
	s.queue.SetShuffled(enabled, s.rng)
	s.persistLocked()
	st := s.snapshotLocked()
	s.publish(st)
}

// ToggleShuffle flips shuffle and returns the new value.
func (s *serviceImpl) ToggleShuffle() bool {
	enabled := !s.Shuffle()
	s.SetShuffle(enabled)
	return enabled
}
