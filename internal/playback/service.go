package playback

import (
	"time"

	"spindle/internal/library"
)

// Service defines the playback controller contract. All methods are safe
// for concurrent use and synchronous with respect to controller state:
// when a method returns, its state change has been applied and published
// to subscribers.
type Service interface {
	// Queue manipulation
	ReplaceQueue(tracks []library.Track, startIndex int) error
	Enqueue(track library.Track) error
	EnqueueAt(track library.Track, offset int) error
	Remove(id string) error
	Move(from, to int) error
	Clear()

	// Playback control
	Play() error
	Pause() error
	Toggle() error
	Seek(pos time.Duration) (time.Duration, error)
	Next() error
	Previous() error

	// Mode control
	RepeatMode() RepeatMode
	SetRepeatMode(mode RepeatMode)
	CycleRepeatMode() RepeatMode
	Shuffle() bool
	SetShuffle(enabled bool)
	ToggleShuffle() bool

	// State queries
	State() PlaybackState
	CurrentTrack() *library.Track
	QueueTracks() []library.Track
	QueueLen() int

	// Event subscription
	Subscribe() *Subscription

	// Lifecycle
	Close() error
}
