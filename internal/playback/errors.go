package playback

import "errors"

// Operational failures returned synchronously by Service methods. They
// never change controller state. Asynchronous failures (a track that
// cannot be loaded, a snapshot that cannot be written) are not returned;
// they surface through the emitted state and the logger.
var (
	ErrEmptyQueue      = errors.New("queue is empty")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrDuplicateTrack  = errors.New("track is already in the queue")
	ErrNotFound        = errors.New("track is not in the queue")
	ErrNoCurrent       = errors.New("no track is loaded")
)
