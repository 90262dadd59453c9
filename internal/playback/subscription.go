package playback

const stateBufferSize = 16

// Subscription delivers PlaybackState snapshots. The first value received
// is the state at subscription time; every later change follows in
// mutation order. Done is closed when the service shuts down.
type Subscription struct {
	States <-chan PlaybackState
	Done   <-chan struct{}

	// Internal write channels
	statesCh chan PlaybackState
	doneCh   chan struct{}
}

// newSubscription creates a new subscription with a buffered state channel.
func newSubscription() *Subscription {
	s := &Subscription{
		statesCh: make(chan PlaybackState, stateBufferSize),
		doneCh:   make(chan struct{}),
	}
	s.States = s.statesCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

// send delivers a state without blocking the controller. When the
// subscriber lags, the oldest buffered snapshot is evicted so the latest
// state always gets through. Only one goroutine sends at a time (the
// caller holds the subscriber lock), so the retry after eviction cannot
// race with another producer.
func (s *Subscription) send(st PlaybackState) {
	for {
		select {
		case s.statesCh <- st:
			return
		default:
		}
		// Buffer full, evict the oldest
		select {
		case <-s.statesCh:
		default:
		}
	}
}
