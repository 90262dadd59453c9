package playback

import (
	"spindle/internal/sink"
)

// pump marshals sink events onto the controller. Every reduction runs
// under the state mutex, so subscribers observe sink-driven changes in
// the same serialized stream as direct operations.
func (s *serviceImpl) pump() {
	events := s.sink.Events()
	for {
		select {
		case <-s.done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev.Kind {
			case sink.EventTrackEnded:
				s.handleTrackEnded(ev)
			case sink.EventPosition:
				s.handlePosition(ev)
			}
		}
	}
}

// handleTrackEnded applies the auto-advance rule for the track that just
// finished. Events for a path that is no longer current are stale: the
// track was replaced after the sink fired, and the end belongs to the
// old track.
func (s *serviceImpl) handleTrackEnded(ev sink.Event) {
	s.mu.Lock()
	if !s.currentEventLocked(ev) {
		s.mu.Unlock()
		return
	}
	states := s.advanceLocked(false)
	s.persistLocked()
	s.publish(states...)
}

// handlePosition republishes state on playback progress.
func (s *serviceImpl) handlePosition(ev sink.Event) {
	s.mu.Lock()
	if !s.currentEventLocked(ev) {
		s.mu.Unlock()
		return
	}
	st := s.snapshotLocked()
	s.publish(st)
}

// currentEventLocked reports whether the event concerns the loaded
// current track.
func (s *serviceImpl) currentEventLocked(ev sink.Event) bool {
	if !s.loaded {
		return false
	}
	cur, ok := s.queue.Current()
	return ok && cur.Path == ev.Path
}
