package playback

import (
	"time"

	"spindle/internal/library"
)

// State represents the playback state machine.
//
// Valid transitions:
//   - Stopped → Loading  (via ReplaceQueue or Play on a non-empty queue)
//   - Loading → Playing  (sink ready)
//   - Loading → Stopped  (every remaining track failed to load)
//   - Playing → Paused   (via Pause)
//   - Paused  → Playing  (via Play)
//   - Playing → Loading  (track ended or skipped, next track loads)
//   - Playing → Stopped  (track ended past the last position, repeat off)
//   - any     → Stopped  (via Clear)
//
// A restored session starts in Paused with nothing loaded yet; the first
// Play loads the current track. Track end itself is reduced immediately
// into Loading or Stopped and is never observable.
type State int

const (
	StateStopped State = iota
	StateLoading
	StatePlaying
	StatePaused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateLoading:
		return "Loading"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if playback is active (playing or paused).
func (s State) IsActive() bool {
	return s == StatePlaying || s == StatePaused
}

// RepeatMode defines the repeat behavior.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatAll
	RepeatOne
)

// String returns the repeat mode name.
func (m RepeatMode) String() string {
	switch m {
	case RepeatOff:
		return "Off"
	case RepeatAll:
		return "All"
	case RepeatOne:
		return "One"
	default:
		return "Unknown"
	}
}

// ParseRepeatMode maps a user-supplied name to a mode.
func ParseRepeatMode(s string) (RepeatMode, bool) {
	switch s {
	case "off", "none":
		return RepeatOff, true
	case "all", "queue":
		return RepeatAll, true
	case "one", "track":
		return RepeatOne, true
	default:
		return RepeatOff, false
	}
}

// PlaybackState is an immutable snapshot of the controller, emitted to
// subscribers after every change and returned by State().
type PlaybackState struct {
	State     State
	Current   *library.Track // nil when the queue is empty
	Position  time.Duration
	IsPlaying bool
	QueueLen  int
	Cursor    int // play-order position of the current track, -1 when empty
	Repeat    RepeatMode
	Shuffle   bool
	LastError string // most recent track-load failure, empty when none
}
