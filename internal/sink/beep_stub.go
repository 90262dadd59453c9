//go:build !((linux && cgo) || windows || darwin)

package sink

import (
	"errors"
	"log/slog"
)

func newBeepSink(_ *slog.Logger) (Sink, error) {
	return nil, errors.New("audio output is not available in this build")
}
