// Package queue holds the playback queue: the tracks in their original
// sequence, a play-order permutation over them, and a cursor into that
// order. With shuffle off the play order mirrors the original sequence;
// with shuffle on it is a random permutation with the current track first.
package queue

import (
	"math/rand/v2"
	"slices"

	"spindle/internal/library"
)

// Queue is not safe for concurrent use. The playback service serializes
// all access under its own lock.
type Queue struct {
	tracks   []library.Track // original sequence
	order    []int           // play position -> index into tracks
	cursor   int             // index into order, -1 when empty
	shuffled bool
}

func New() *Queue {
	return &Queue{cursor: -1}
}

func (q *Queue) Len() int { return len(q.tracks) }

func (q *Queue) Empty() bool { return len(q.tracks) == 0 }

func (q *Queue) Shuffled() bool { return q.shuffled }

// Cursor returns the current play-order position, or -1 for an empty queue.
func (q *Queue) Cursor() int { return q.cursor }

// Current returns the track at the cursor.
func (q *Queue) Current() (library.Track, bool) {
	return q.At(q.cursor)
}

// At returns the track at the given play-order position.
func (q *Queue) At(pos int) (library.Track, bool) {
	if pos < 0 || pos >= len(q.order) {
		return library.Track{}, false
	}
	return q.tracks[q.order[pos]], true
}

// Original returns a copy of the tracks in their original sequence.
func (q *Queue) Original() []library.Track {
	return slices.Clone(q.tracks)
}

// InPlayOrder returns a copy of the tracks in play order.
func (q *Queue) InPlayOrder() []library.Track {
	out := make([]library.Track, 0, len(q.order))
	for _, oi := range q.order {
		out = append(out, q.tracks[oi])
	}
	return out
}

// IDs returns the track ids in original-sequence order.
func (q *Queue) IDs() []string {
	ids := make([]string, len(q.tracks))
	for i := range q.tracks {
		ids[i] = q.tracks[i].ID
	}
	return ids
}

// Order returns a copy of the play-order permutation.
func (q *Queue) Order() []int {
	return slices.Clone(q.order)
}

func (q *Queue) ContainsID(id string) bool {
	return q.indexOfID(id) >= 0
}

func (q *Queue) indexOfID(id string) int {
	return slices.IndexFunc(q.tracks, func(t library.Track) bool { return t.ID == id })
}

// Replace swaps the whole queue for tracks. startIndex addresses the
// original sequence; with shuffle on the play order is rebuilt so the
// start track sits at position 0. The caller validates ids and range.
func (q *Queue) Replace(tracks []library.Track, startIndex int, rng *rand.Rand) {
	q.tracks = slices.Clone(tracks)
	q.order = identity(len(q.tracks))
	q.cursor = startIndex
	if q.shuffled {
		q.shuffle(rng)
	}
}

// Append adds a track to the end of both orderings. An empty queue gains a
// cursor at position 0.
func (q *Queue) Append(t library.Track) {
	q.tracks = append(q.tracks, t)
	q.order = append(q.order, len(q.tracks)-1)
	if q.cursor < 0 {
		q.cursor = 0
	}
}

// InsertAt inserts a track at the given play-order position, clamped to
// the queue bounds. With shuffle off the original sequence gains the track
// at the same spot so both orderings stay aligned; with shuffle on it goes
// to the end of the original sequence.
func (q *Queue) InsertAt(t library.Track, pos int) {
	pos = min(max(pos, 0), len(q.order))

	if q.shuffled {
		q.tracks = append(q.tracks, t)
		q.order = slices.Insert(q.order, pos, len(q.tracks)-1)
	} else {
		q.tracks = slices.Insert(q.tracks, pos, t)
		q.order = identity(len(q.tracks))
	}

	if pos <= q.cursor {
		q.cursor++
	}
	if q.cursor < 0 {
		q.cursor = 0
	}
}

// RemoveID removes the track with the given id from both orderings. The
// cursor keeps addressing the same track when that track survives; when
// the current track itself is removed the cursor stays at its play
// position, now addressing the following track, clamped to the new end.
func (q *Queue) RemoveID(id string) (wasCurrent, wasLast, ok bool) {
	oi := q.indexOfID(id)
	if oi < 0 {
		return false, false, false
	}
	pos := slices.Index(q.order, oi)
	if pos < 0 {
		panic("queue: play order lost a track index")
	}

	wasCurrent = pos == q.cursor
	wasLast = pos == len(q.order)-1

	q.tracks = slices.Delete(q.tracks, oi, oi+1)
	q.order = slices.Delete(q.order, pos, pos+1)
	for i, v := range q.order {
		if v > oi {
			q.order[i] = v - 1
		}
	}

	switch {
	case len(q.order) == 0:
		q.cursor = -1
	case pos < q.cursor:
		q.cursor--
	case q.cursor >= len(q.order):
		q.cursor = len(q.order) - 1
	}
	return wasCurrent, wasLast, true
}

// Move takes the track at play position from and re-inserts it so that it
// ends up at play position to. The cursor follows the current track.
func (q *Queue) Move(from, to int) bool {
	if from < 0 || from >= len(q.order) || to < 0 || to >= len(q.order) {
		return false
	}
	if from == to {
		return true
	}

	oi := q.order[from]
	q.order = slices.Delete(q.order, from, from+1)
	q.order = slices.Insert(q.order, to, oi)

	switch {
	case q.cursor == from:
		q.cursor = to
	case from < q.cursor && to >= q.cursor:
		q.cursor--
	case from > q.cursor && to <= q.cursor:
		q.cursor++
	}
	return true
}

// Clear empties the queue. The shuffle flag survives, matching mode state
// outliving the queue contents.
func (q *Queue) Clear() {
	q.tracks = nil
	q.order = nil
	q.cursor = -1
}

// Advance moves the cursor one position forward, reporting false at the
// end of the play order.
func (q *Queue) Advance() bool {
	if q.cursor < 0 || q.cursor+1 >= len(q.order) {
		return false
	}
	q.cursor++
	return true
}

// WrapNext moves forward, wrapping to position 0 past the end.
func (q *Queue) WrapNext() {
	if n := len(q.order); n > 0 {
		q.cursor = (q.cursor + 1) % n
	}
}

// Retreat moves one position back, reporting false at the start.
func (q *Queue) Retreat() bool {
	if q.cursor <= 0 {
		return false
	}
	q.cursor--
	return true
}

// WrapPrev moves back, wrapping to the last position from the start.
func (q *Queue) WrapPrev() {
	if n := len(q.order); n > 0 {
		q.cursor = (q.cursor - 1 + n) % n
	}
}

// SetCursor jumps to the given play-order position.
func (q *Queue) SetCursor(pos int) bool {
	if pos < 0 || pos >= len(q.order) {
		return false
	}
	q.cursor = pos
	return true
}

// SetShuffled toggles shuffle. Enabling rebuilds the play order with the
// current track first and the rest in random order; disabling restores the
// original sequence with the cursor following the current track. Setting
// the current value again is a no-op.
func (q *Queue) SetShuffled(enabled bool, rng *rand.Rand) {
	if q.shuffled == enabled {
		return
	}
	q.shuffled = enabled
	if len(q.order) == 0 {
		return
	}
	if enabled {
		q.shuffle(rng)
	} else {
		q.unshuffle()
	}
}

func (q *Queue) shuffle(rng *rand.Rand) {
	cur := -1
	if q.cursor >= 0 && q.cursor < len(q.order) {
		cur = q.order[q.cursor]
	}

	n := len(q.tracks)
	q.order = identity(n)

	// Fisher-Yates
	for i := n - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		q.order[i], q.order[j] = q.order[j], q.order[i]
	}

	// The current track keeps playing, so it leads the new order
	if cur >= 0 {
		if at := slices.Index(q.order, cur); at > 0 {
			q.order[0], q.order[at] = q.order[at], q.order[0]
		}
		q.cursor = 0
	}
}

func (q *Queue) unshuffle() {
	if q.cursor >= 0 && q.cursor < len(q.order) {
		q.cursor = q.order[q.cursor]
	}
	q.order = identity(len(q.tracks))
}

// Restore rebuilds a queue from persisted parts. Reports false when order
// is not a permutation of the track indices or the cursor is out of range.
func Restore(tracks []library.Track, order []int, cursor int, shuffled bool) (*Queue, bool) {
	n := len(tracks)
	if n == 0 {
		q := New()
		q.shuffled = shuffled
		return q, true
	}

	if len(order) != n {
		return nil, false
	}
	seen := make([]bool, n)
	for _, oi := range order {
		if oi < 0 || oi >= n || seen[oi] {
			return nil, false
		}
		seen[oi] = true
	}
	if cursor < 0 || cursor >= n {
		return nil, false
	}

	return &Queue{
		tracks:   slices.Clone(tracks),
		order:    slices.Clone(order),
		cursor:   cursor,
		shuffled: shuffled,
	}, true
}

func identity(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}
