package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	goflac "github.com/go-flac/go-flac"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
	"github.com/llehouerou/go-mp3"
)

// File extensions the scanner admits. The set matches what the audio
// backends can decode.
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
	ExtOGG  = ".ogg"
	ExtWAV  = ".wav"
)

// IsMusicFile returns true if the path has a supported music file extension.
func IsMusicFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtMP3, ExtFLAC, ExtOGG, ExtWAV:
		return true
	}
	return false
}

// AudioInfo holds stream properties read from a file header.
type AudioInfo struct {
	Duration   time.Duration
	Format     string
	SampleRate int
}

// ReadAudioInfo reads audio stream properties (duration, format, sample rate).
// This uses lighter-weight methods than full decoding where possible.
func ReadAudioInfo(path string) (*AudioInfo, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ExtMP3:
		return readMP3AudioInfo(path)
	case ExtFLAC:
		return readFLACStreamInfo(path)
	case ExtOGG:
		return readVorbisAudioInfo(path)
	case ExtWAV:
		return readWAVAudioInfo(path)
	}

	return nil, fmt.Errorf("unsupported format: %s", ext)
}

// readMP3AudioInfo extracts audio info from an MP3 file.
func readMP3AudioInfo(path string) (*AudioInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, err
	}

	sampleRate := decoder.SampleRate()
	if sampleRate == 0 {
		return nil, errors.New("mp3: invalid sample rate")
	}

	sampleCount := max(decoder.SampleCount(), 0)

	duration := time.Duration(float64(sampleCount) / float64(sampleRate) * float64(time.Second))

	return &AudioInfo{
		Duration:   duration,
		Format:     "MP3",
		SampleRate: sampleRate,
	}, nil
}

// readFLACStreamInfo extracts audio info from FLAC streaminfo metadata.
func readFLACStreamInfo(path string) (*AudioInfo, error) {
	flacFile, err := goflac.ParseFile(path)
	if err != nil {
		// Files with prepended ID3 tags fail here; let beep handle them
		return readFLACWithBeep(path)
	}

	for _, meta := range flacFile.Meta {
		if meta.Type != goflac.StreamInfo || len(meta.Data) < 18 {
			continue
		}
		data := meta.Data

		// Sample rate is in bits 0-19 of bytes 10-12
		sampleRate := int(data[10])<<12 | int(data[11])<<4 | int(data[12])>>4
		// Total samples is in bytes 14-17 (plus 4 bits from byte 13)
		totalSamples := int64(data[13]&0x0F)<<32 | int64(data[14])<<24 | int64(data[15])<<16 | int64(data[16])<<8 | int64(data[17])

		duration := time.Duration(0)
		if sampleRate > 0 {
			duration = time.Duration(float64(totalSamples) / float64(sampleRate) * float64(time.Second))
		}

		return &AudioInfo{
			Duration:   duration,
			Format:     "FLAC",
			SampleRate: sampleRate,
		}, nil
	}

	return readFLACWithBeep(path)
}

// readFLACWithBeep uses beep's FLAC decoder as fallback.
func readFLACWithBeep(path string) (*AudioInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	streamer, format, err := flac.Decode(f)
	if err != nil {
		return nil, err
	}
	defer streamer.Close()

	return &AudioInfo{
		Duration:   format.SampleRate.D(streamer.Len()),
		Format:     "FLAC",
		SampleRate: int(format.SampleRate),
	}, nil
}

// readVorbisAudioInfo extracts audio info from an OGG Vorbis file.
func readVorbisAudioInfo(path string) (*AudioInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	streamer, format, err := vorbis.Decode(f)
	if err != nil {
		return nil, err
	}
	defer streamer.Close()

	return &AudioInfo{
		Duration:   format.SampleRate.D(streamer.Len()),
		Format:     "OGG",
		SampleRate: int(format.SampleRate),
	}, nil
}

// readWAVAudioInfo extracts audio info from a WAV file.
func readWAVAudioInfo(path string) (*AudioInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	streamer, format, err := wav.Decode(f)
	if err != nil {
		return nil, err
	}
	defer streamer.Close()

	return &AudioInfo{
		Duration:   format.SampleRate.D(streamer.Len()),
		Format:     "WAV",
		SampleRate: int(format.SampleRate),
	}, nil
}
