//go:build libmpv

package sink

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	mpv "github.com/gen2brain/go-mpv"

	"spindle/internal/library"
)

const (
	mpvPauseProperty    = "pause"
	mpvPositionProperty = "time-pos"
)

// mpvSink drives a libmpv instance. mpv handles decoding and output, so
// this backend supports whatever the system mpv build does.
type mpvSink struct {
	log *slog.Logger

	mu     sync.Mutex
	client *mpv.Mpv
	path   string

	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

func newMPVSink(log *slog.Logger) (Sink, error) {
	client := mpv.New()
	if client == nil {
		return nil, errors.New("create libmpv instance")
	}

	_ = client.SetOptionString("terminal", "no")
	_ = client.SetOptionString("video", "no")
	_ = client.SetOptionString("audio-display", "no")
	_ = client.SetOptionString("keep-open", "no")

	if err := client.Initialize(); err != nil {
		client.TerminateDestroy()
		return nil, fmt.Errorf("initialize libmpv: %w", err)
	}

	s := &mpvSink{
		log:    log,
		client: client,
		events: make(chan Event, eventBuffer),
		done:   make(chan struct{}),
	}

	_ = client.RequestEvent(mpv.EventEnd, true)

	s.wg.Go(s.eventLoop)
	s.wg.Go(s.positionLoop)

	return s, nil
}

// Load replaces the playing file and leaves mpv paused until Play.
func (s *mpvSink) Load(track library.Track) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.client.SetPropertyString(mpvPauseProperty, "yes"); err != nil {
		return fmt.Errorf("set pause before load: %w", err)
	}
	if err := s.client.Command([]string{"loadfile", track.Path, "replace"}); err != nil {
		return fmt.Errorf("load file %q: %w", track.Path, err)
	}

	s.path = track.Path
	return nil
}

func (s *mpvSink) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.client.SetPropertyString(mpvPauseProperty, "no"); err != nil {
		return fmt.Errorf("resume playback: %w", err)
	}
	return nil
}

func (s *mpvSink) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.client.SetPropertyString(mpvPauseProperty, "yes"); err != nil {
		return fmt.Errorf("pause playback: %w", err)
	}
	return nil
}

func (s *mpvSink) Seek(pos time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seconds := pos.Seconds()
	if err := s.client.SetProperty(mpvPositionProperty, mpv.FormatDouble, seconds); err != nil {
		return fmt.Errorf("seek playback: %w", err)
	}
	return nil
}

func (s *mpvSink) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.client.Command([]string{"stop"}); err != nil {
		return fmt.Errorf("stop playback: %w", err)
	}
	s.path = ""
	return nil
}

func (s *mpvSink) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.readPositionLocked()
	if !ok {
		return 0
	}
	return pos
}

func (s *mpvSink) readPositionLocked() (time.Duration, bool) {
	value, err := s.client.GetProperty(mpvPositionProperty, mpv.FormatDouble)
	if err != nil {
		return 0, false
	}

	seconds, ok := value.(float64)
	if !ok || math.IsNaN(seconds) || seconds < 0 {
		return 0, false
	}
	return time.Duration(seconds * float64(time.Second)), true
}

func (s *mpvSink) readPausedLocked() bool {
	value, err := s.client.GetProperty(mpvPauseProperty, mpv.FormatFlag)
	if err != nil {
		return true
	}
	paused, ok := value.(bool)
	return !ok || paused
}

func (s *mpvSink) Events() <-chan Event {
	return s.events
}

func (s *mpvSink) eventLoop() {
	for {
		event := s.client.WaitEvent(0.5)
		if event == nil {
			continue
		}

		switch event.EventID {
		case mpv.EventShutdown:
			return
		case mpv.EventEnd:
			end := event.EndFile()
			if end.Reason != mpv.EndFileEOF {
				continue
			}

			s.mu.Lock()
			path := s.path
			s.mu.Unlock()
			if path == "" {
				continue
			}

			select {
			case s.events <- Event{Kind: EventTrackEnded, Path: path}:
			case <-s.done:
				return
			}
		}
	}
}

func (s *mpvSink) positionLoop() {
	ticker := time.NewTicker(positionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
		}

		s.mu.Lock()
		path := s.path
		var (
			pos time.Duration
			ok  bool
		)
		if path != "" && !s.readPausedLocked() {
			pos, ok = s.readPositionLocked()
		}
		s.mu.Unlock()

		if !ok {
			continue
		}

		select {
		case s.events <- Event{Kind: EventPosition, Path: path, Position: pos}:
		default:
		}
	}
}

func (s *mpvSink) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)

		s.mu.Lock()
		client := s.client
		s.mu.Unlock()

		if client != nil {
			client.Wakeup()
			client.TerminateDestroy()
		}

		s.wg.Wait()
	})
	return nil
}
