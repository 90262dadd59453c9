//go:build !libmpv

package sink

import (
	"errors"
	"log/slog"
)

func newMPVSink(_ *slog.Logger) (Sink, error) {
	return nil, errors.New("mpv backend is not enabled; build with -tags libmpv")
}
