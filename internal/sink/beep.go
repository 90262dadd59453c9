//go:build (linux && cgo) || windows || darwin

package sink

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"

	"spindle/internal/library"
)

const (
	outputSampleRate = beep.SampleRate(44100)
	resampleQuality  = 4
)

// beepSink plays audio in-process through the beep speaker. The speaker is
// initialized once at the output sample rate; tracks with other rates are
// resampled.
type beepSink struct {
	log *slog.Logger

	mu          sync.Mutex
	initialized bool
	streamer    beep.StreamSeekCloser
	file        *os.File // closed on unload; not every decoder owns its reader
	format      beep.Format
	ctrl        *beep.Ctrl
	path        string
	gen         int // bumped on every load/stop so stale callbacks can tell

	events chan Event
	done   chan struct{}
	wg     sync.WaitGroup
}

func newBeepSink(log *slog.Logger) (Sink, error) {
	s := &beepSink{
		log:    log,
		events: make(chan Event, eventBuffer),
		done:   make(chan struct{}),
	}
	s.wg.Go(s.positionLoop)
	return s, nil
}

func decode(path string, f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case library.ExtMP3:
		return mp3.Decode(f)
	case library.ExtFLAC:
		return flac.Decode(f)
	case library.ExtOGG:
		return vorbis.Decode(f)
	case library.ExtWAV:
		return wav.Decode(f)
	}
	return nil, beep.Format{}, fmt.Errorf("unsupported format: %s", filepath.Ext(path))
}

// Load decodes the track and hands it to the speaker paused. Play starts
// it. Any previously loaded track is discarded, and its pending callbacks
// become stale.
func (s *beepSink) Load(track library.Track) error {
	f, err := os.Open(track.Path)
	if err != nil {
		return err
	}

	streamer, format, err := decode(track.Path, f)
	if err != nil {
		_ = f.Close()
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		if err := speaker.Init(outputSampleRate, outputSampleRate.N(time.Second/10)); err != nil {
			_ = streamer.Close()
			return err
		}
		s.initialized = true
	}

	speaker.Clear()
	if s.streamer != nil {
		_ = s.streamer.Close()
	}
	if s.file != nil {
		_ = s.file.Close()
	}

	s.streamer = streamer
	s.file = f
	s.format = format
	s.path = track.Path
	s.gen++
	gen := s.gen

	var stream beep.Streamer = streamer
	if format.SampleRate != outputSampleRate {
		stream = beep.Resample(resampleQuality, format.SampleRate, outputSampleRate, streamer)
	}
	s.ctrl = &beep.Ctrl{Streamer: stream, Paused: true}

	path := track.Path
	speaker.Play(beep.Seq(s.ctrl, beep.Callback(func() {
		// The callback runs on the speaker goroutine, so hand off
		go s.trackEnded(gen, path)
	})))

	return nil
}

func (s *beepSink) trackEnded(gen int, path string) {
	s.mu.Lock()
	stale := gen != s.gen
	s.mu.Unlock()
	if stale {
		return
	}

	select {
	case s.events <- Event{Kind: EventTrackEnded, Path: path}:
	case <-s.done:
	}
}

func (s *beepSink) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctrl == nil {
		return nil
	}
	speaker.Lock()
	s.ctrl.Paused = false
	speaker.Unlock()
	return nil
}

func (s *beepSink) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctrl == nil {
		return nil
	}
	speaker.Lock()
	s.ctrl.Paused = true
	speaker.Unlock()
	return nil
}

func (s *beepSink) Seek(pos time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.streamer == nil {
		return nil
	}

	speaker.Lock()
	defer speaker.Unlock()

	samples := min(max(s.format.SampleRate.N(pos), 0), s.streamer.Len())
	return s.streamer.Seek(samples)
}

func (s *beepSink) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unloadLocked()
	return nil
}

func (s *beepSink) unloadLocked() {
	if s.initialized {
		speaker.Clear()
	}
	if s.streamer != nil {
		_ = s.streamer.Close()
		s.streamer = nil
	}
	if s.file != nil {
		_ = s.file.Close()
		s.file = nil
	}
	s.ctrl = nil
	s.path = ""
	s.gen++
}

func (s *beepSink) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.streamer == nil {
		return 0
	}

	speaker.Lock()
	pos := s.streamer.Position()
	speaker.Unlock()

	return s.format.SampleRate.D(pos)
}

func (s *beepSink) Events() <-chan Event {
	return s.events
}

// positionLoop emits progress events while a track is playing. Events are
// dropped rather than blocking when the consumer lags.
func (s *beepSink) positionLoop() {
	ticker := time.NewTicker(positionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
		}

		s.mu.Lock()
		if s.streamer == nil || s.ctrl == nil {
			s.mu.Unlock()
			continue
		}
		speaker.Lock()
		paused := s.ctrl.Paused
		pos := s.streamer.Position()
		speaker.Unlock()
		path := s.path
		format := s.format
		s.mu.Unlock()

		if paused {
			continue
		}

		select {
		case s.events <- Event{Kind: EventPosition, Path: path, Position: format.SampleRate.D(pos)}:
		default:
		}
	}
}

func (s *beepSink) Close() error {
	close(s.done)
	s.wg.Wait()

	s.mu.Lock()
	s.unloadLocked()
	s.mu.Unlock()
	return nil
}
