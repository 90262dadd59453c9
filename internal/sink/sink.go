// Package sink abstracts the audio output backend. A sink readies one
// track at a time and reports progress and end-of-track through an event
// channel. Every event carries the file path it concerns so consumers can
// discard events from a track that has already been replaced.
package sink

import (
	"fmt"
	"log/slog"
	"time"

	"spindle/internal/library"
)

// eventBuffer bounds the event channel. Position events are dropped when
// the buffer is full; track-ended events are never dropped.
const eventBuffer = 16

// positionInterval is how often backends report playback progress.
const positionInterval = 250 * time.Millisecond

type EventKind int

const (
	// EventTrackEnded fires when the loaded track played to its end.
	EventTrackEnded EventKind = iota
	// EventPosition reports playback progress while a track is playing.
	EventPosition
)

type Event struct {
	Kind     EventKind
	Path     string
	Position time.Duration
}

// Sink is the audio backend contract. Load makes a track ready without
// starting it; Play and Pause drive the transport; Seek moves within the
// loaded track. Implementations are safe for concurrent use.
type Sink interface {
	Load(track library.Track) error
	Play() error
	Pause() error
	Seek(pos time.Duration) error
	Stop() error
	Position() time.Duration
	Events() <-chan Event
	Close() error
}

// New builds the sink for the configured backend name.
func New(backend string, log *slog.Logger) (Sink, error) {
	switch backend {
	case "mpv":
		return newMPVSink(log)
	case "beep":
		return newBeepSink(log)
	default:
		return nil, fmt.Errorf("unknown audio backend %q", backend)
	}
}
