package sink

import (
	"sync"
	"time"

	"spindle/internal/library"
)

// Mock is a test double for Sink. Tests script load failures and feed
// events through the Emit helpers.
type Mock struct {
	mu        sync.Mutex
	loaded    string
	playing   bool
	position  time.Duration
	loadErrs  map[string]error
	loadCalls []string
	seekCalls []time.Duration
	stops     int
	events    chan Event
}

func NewMock() *Mock {
	return &Mock{
		loadErrs: make(map[string]error),
		events:   make(chan Event, eventBuffer),
	}
}

// FailLoad makes Load return err for the given path.
func (m *Mock) FailLoad(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErrs[path] = err
}

func (m *Mock) Load(track library.Track) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.loadCalls = append(m.loadCalls, track.Path)
	if err := m.loadErrs[track.Path]; err != nil {
		return err
	}
	m.loaded = track.Path
	m.playing = false
	m.position = 0
	return nil
}

func (m *Mock) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loaded != "" {
		m.playing = true
	}
	return nil
}

func (m *Mock) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playing = false
	return nil
}

func (m *Mock) Seek(pos time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seekCalls = append(m.seekCalls, pos)
	m.position = pos
	return nil
}

func (m *Mock) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stops++
	m.loaded = ""
	m.playing = false
	m.position = 0
	return nil
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) Events() <-chan Event { return m.events }

func (m *Mock) Close() error { return nil }

// EmitTrackEnded reports end-of-track for the loaded file.
func (m *Mock) EmitTrackEnded() {
	m.mu.Lock()
	path := m.loaded
	m.mu.Unlock()
	m.events <- Event{Kind: EventTrackEnded, Path: path}
}

// EmitTrackEndedFor reports end-of-track for an arbitrary path, simulating
// an event that raced with a track switch.
func (m *Mock) EmitTrackEndedFor(path string) {
	m.events <- Event{Kind: EventTrackEnded, Path: path}
}

// EmitPosition reports progress for the loaded file.
func (m *Mock) EmitPosition(pos time.Duration) {
	m.mu.Lock()
	m.position = pos
	path := m.loaded
	m.mu.Unlock()
	m.events <- Event{Kind: EventPosition, Path: path, Position: pos}
}

// EmitPositionFor reports progress for an arbitrary path.
func (m *Mock) EmitPositionFor(path string, pos time.Duration) {
	m.events <- Event{Kind: EventPosition, Path: path, Position: pos}
}

// Loaded returns the path of the currently loaded file.
func (m *Mock) Loaded() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded
}

func (m *Mock) Playing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

func (m *Mock) LoadCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.loadCalls))
	copy(out, m.loadCalls)
	return out
}

func (m *Mock) SeekCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Duration, len(m.seekCalls))
	copy(out, m.seekCalls)
	return out
}

// StopCalls returns how many times Stop was called.
func (m *Mock) StopCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stops
}
