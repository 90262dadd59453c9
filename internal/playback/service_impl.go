package playback

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"sync"

	"spindle/internal/library"
	"spindle/internal/queue"
	"spindle/internal/sink"
)

// Verify serviceImpl implements Service at compile time.
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	mu sync.RWMutex

	sink  sink.Sink
	queue *queue.Queue
	rng   *rand.Rand
	log   *slog.Logger

	state     State
	repeat    RepeatMode
	loaded    bool   // the sink holds the track at the cursor
	lastError string // most recent load failure, cleared on success

	snapshots SnapshotStore
	recents   RecentsRecorder
	played    map[string]struct{} // ids already recorded this session

	subs   []*Subscription
	subsMu sync.Mutex

	done   chan struct{}
	closed bool
	wg     sync.WaitGroup
}

// New creates the playback controller. A persisted session is restored
// through snapshots and resolver when both are present; the restored
// controller starts Paused and never auto-plays. snapshots, resolver and
// recents may each be nil to disable that collaborator.
func New(snk sink.Sink, resolver TrackResolver, snapshots SnapshotStore, recents RecentsRecorder, log *slog.Logger) Service {
	s := &serviceImpl{
		sink:      snk,
		queue:     queue.New(),
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		log:       log,
		state:     StateStopped,
		snapshots: snapshots,
		recents:   recents,
		played:    make(map[string]struct{}),
		done:      make(chan struct{}),
	}
	s.restore(resolver)
	s.wg.Go(s.pump)
	return s
}

// State returns the current playback state snapshot.
func (s *serviceImpl) State() PlaybackState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// CurrentTrack returns a copy of the current track, or nil if none.
func (s *serviceImpl) CurrentTrack() *library.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if cur, ok := s.queue.Current(); ok {
		return &cur
	}
	return nil
}

// QueueTracks returns a copy of the queue in play order.
func (s *serviceImpl) QueueTracks() []library.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queue.InPlayOrder()
}

// QueueLen returns the number of queued tracks.
func (s *serviceImpl) QueueLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queue.Len()
}

// RepeatMode returns the current repeat mode.
func (s *serviceImpl) RepeatMode() RepeatMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.repeat
}

// Shuffle returns whether shuffle is enabled.
func (s *serviceImpl) Shuffle() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queue.Shuffled()
}

// Subscribe creates a subscription primed with the latest state.
func (s *serviceImpl) Subscribe() *Subscription {
	s.mu.RLock()
	st := s.snapshotLocked()
	sub := newSubscription()
	s.subsMu.Lock()
	s.mu.RUnlock()
	s.subs = append(s.subs, sub)
	sub.send(st)
	s.subsMu.Unlock()
	return sub
}

// Close shuts down the controller: the event pump stops, a final
// snapshot is handed to the persistence layer, the sink is unloaded and
// all subscription Done channels close.
func (s *serviceImpl) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.done)
	s.mu.Unlock()

	s.wg.Wait()

	s.mu.Lock()
	s.persistLocked()
	if err := s.sink.Stop(); err != nil {
		s.log.Warn("stop audio sink", "error", err)
	}
	s.loaded = false
	s.state = StateStopped
	s.mu.Unlock()

	s.subsMu.Lock()
	for _, sub := range s.subs {
		sub.close()
	}
	s.subs = nil
	s.subsMu.Unlock()

	return nil
}

// snapshotLocked builds the emitted state. Callers hold mu.
func (s *serviceImpl) snapshotLocked() PlaybackState {
	st := PlaybackState{
		State:     s.state,
		IsPlaying: s.state == StatePlaying,
		QueueLen:  s.queue.Len(),
		Cursor:    s.queue.Cursor(),
		Repeat:    s.repeat,
		Shuffle:   s.queue.Shuffled(),
		LastError: s.lastError,
	}
	if cur, ok := s.queue.Current(); ok {
		st.Current = &cur
	}
	if s.loaded {
		st.Position = s.sink.Position()
	}
	return st
}

// publish sends states to every subscriber in order. The caller holds mu
// for writing; the subscriber lock is taken before mu is released so
// snapshots from concurrent operations cannot interleave out of mutation
// order.
func (s *serviceImpl) publish(states ...PlaybackState) {
	s.subsMu.Lock()
	s.mu.Unlock()
	for _, st := range states {
		for _, sub := range s.subs {
			sub.send(st)
		}
	}
	s.subsMu.Unlock()
}

// loadCurrentLocked makes the track at the cursor current in the sink,
// optionally starting playback, and returns the snapshots to publish. A
// track that fails to load is recorded on the state and skipped; after a
// full queue of consecutive failures the controller gives up and stops.
func (s *serviceImpl) loadCurrentLocked(autoplay bool) []PlaybackState {
	var states []PlaybackState
	failures := 0
	for {
		cur, ok := s.queue.Current()
		if !ok {
			s.unloadLocked()
			return append(states, s.snapshotLocked())
		}

		s.state = StateLoading
		s.loaded = false
		states = append(states, s.snapshotLocked())

		err := s.sink.Load(cur)
		if err == nil {
			s.loaded = true
			s.lastError = ""
			if autoplay {
				s.startLoadedLocked(cur)
			} else {
				s.state = StatePaused
			}
			return append(states, s.snapshotLocked())
		}

		s.log.Warn("load track", "path", cur.Path, "error", err)
		s.lastError = fmt.Sprintf("load %s: %v", filepath.Base(cur.Path), err)

		failures++
		if failures >= s.queue.Len() || !s.skipFailedLocked() {
			s.unloadLocked()
			return append(states, s.snapshotLocked())
		}
	}
}

// skipFailedLocked moves the cursor past a track that failed to load.
// Repeat-one does not pin a broken track; a failure always moves
// forward. Reports false at the end of the queue with repeat off.
func (s *serviceImpl) skipFailedLocked() bool {
	if s.repeat == RepeatOff {
		return s.queue.Advance()
	}
	s.queue.WrapNext()
	return true
}

// startLoadedLocked starts the sink on the freshly loaded track.
func (s *serviceImpl) startLoadedLocked(cur library.Track) {
	if err := s.sink.Play(); err != nil {
		s.log.Warn("start playback", "path", cur.Path, "error", err)
	}
	s.state = StatePlaying
	s.recordPlayLocked(cur.ID)
}

// unloadLocked discards whatever the sink holds and stops.
func (s *serviceImpl) unloadLocked() {
	if s.loaded || s.state != StateStopped {
		if err := s.sink.Stop(); err != nil {
			s.log.Warn("stop audio sink", "error", err)
		}
	}
	s.loaded = false
	s.state = StateStopped
}

// recordPlayLocked notes the first playback of a track this session.
func (s *serviceImpl) recordPlayLocked(id string) {
	if s.recents == nil {
		return
	}
	if _, ok := s.played[id]; ok {
		return
	}
	s.played[id] = struct{}{}
	if err := s.recents.RecordPlay(id); err != nil {
		s.log.Warn("record play", "id", id, "error", err)
	}
}
