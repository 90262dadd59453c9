// internal/playback/persist_test.go
package playback

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"spindle/internal/library"
	"spindle/internal/sink"
	"spindle/internal/state"
)

// memSnapshots is an in-memory SnapshotStore recording every save.
type memSnapshots struct {
	mu        sync.Mutex
	preloaded *state.Snapshot
	saves     []state.Snapshot
}

func (m *memSnapshots) LoadSnapshot() *state.Snapshot { return m.preloaded }

func (m *memSnapshots) SaveSnapshot(snap state.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves = append(m.saves, snap)
}

func (m *memSnapshots) last(t *testing.T) state.Snapshot {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.saves, "no snapshot was saved")
	return m.saves[len(m.saves)-1]
}

func (m *memSnapshots) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saves)
}

// memRecents records play-history hooks in call order.
type memRecents struct {
	mu  sync.Mutex
	err error
	ids []string
}

func (m *memRecents) RecordPlay(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.ids = append(m.ids, id)
	return nil
}

func (m *memRecents) played() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.ids))
	copy(out, m.ids)
	return out
}

// fakeResolver resolves ids from a fixed library subset.
type fakeResolver struct {
	tracks map[string]library.Track
	err    error
}

func resolverFor(tracks ...library.Track) *fakeResolver {
	m := make(map[string]library.Track, len(tracks))
	for _, tr := range tracks {
		m[tr.ID] = tr
	}
	return &fakeResolver{tracks: m}
}

func (r *fakeResolver) TracksByIDs(ids []string) (map[string]library.Track, error) {
	if r.err != nil {
		return nil, r.err
	}
	found := make(map[string]library.Track, len(ids))
	for _, id := range ids {
		if tr, ok := r.tracks[id]; ok {
			found[id] = tr
		}
	}
	return found, nil
}

func newPersistedService(t *testing.T, mock *sink.Mock, store *memSnapshots, resolver TrackResolver, recents RecentsRecorder) Service {
	t.Helper()
	svc := New(mock, resolver, store, recents, discardLogger())
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func testIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = testTrack(i).ID
	}
	return ids
}

func TestService_Persist_AfterQueueMutations(t *testing.T) {
	mock := sink.NewMock()
	store := &memSnapshots{}
	svc := newPersistedService(t, mock, store, nil, nil)

	require.NoError(t, svc.ReplaceQueue(testTracks(3), 1))
	snap := store.last(t)
	require.Equal(t, testIDs(3), snap.TrackIDs)
	require.Equal(t, []int{0, 1, 2}, snap.Order)
	require.Equal(t, 1, snap.Cursor)
	require.Equal(t, uint8(RepeatOff), snap.Repeat)
	require.False(t, snap.Shuffle)

	require.NoError(t, svc.Enqueue(testTrack(3)))
	require.Equal(t, testIDs(4), store.last(t).TrackIDs)

	require.NoError(t, svc.Next())
	require.Equal(t, 2, store.last(t).Cursor)

	svc.SetRepeatMode(RepeatAll)
	require.Equal(t, uint8(RepeatAll), store.last(t).Repeat)

	svc.SetShuffle(true)
	snap = store.last(t)
	require.True(t, snap.Shuffle)
	require.Len(t, snap.Order, 4)
	require.Equal(t, 0, snap.Cursor)
	// The current track leads the persisted play order
	require.Equal(t, 2, snap.Order[0])

	require.NoError(t, svc.Remove(testTrack(3).ID))
	require.Equal(t, testIDs(3), store.last(t).TrackIDs)
}

func TestService_Persist_NotOnTransportOps(t *testing.T) {
	mock := sink.NewMock()
	store := &memSnapshots{}
	svc := newPersistedService(t, mock, store, nil, nil)

	require.NoError(t, svc.ReplaceQueue(testTracks(2), 0))
	before := store.count()

	require.NoError(t, svc.Pause())
	require.NoError(t, svc.Play())
	_, err := svc.Seek(30 * time.Second)
	require.NoError(t, err)

	require.Equal(t, before, store.count(), "pause, resume and seek must not persist")
}

func TestService_Close_PersistsFinalSession(t *testing.T) {
	mock := sink.NewMock()
	store := &memSnapshots{}
	svc := New(mock, nil, store, nil, discardLogger())

	require.NoError(t, svc.ReplaceQueue(testTracks(2), 1))
	before := store.count()

	require.NoError(t, svc.Close())
	require.Equal(t, before+1, store.count())
	snap := store.last(t)
	require.Equal(t, testIDs(2), snap.TrackIDs)
	require.Equal(t, 1, snap.Cursor)
}

func TestService_Restore_ResumesPaused(t *testing.T) {
	mock := sink.NewMock()
	store := &memSnapshots{preloaded: &state.Snapshot{
		TrackIDs: testIDs(3),
		Order:    []int{0, 1, 2},
		Cursor:   1,
		Repeat:   uint8(RepeatOne),
	}}
	svc := newPersistedService(t, mock, store, resolverFor(testTracks(3)...), nil)

	st := svc.State()
	require.Equal(t, StatePaused, st.State)
	require.False(t, st.IsPlaying)
	require.NotNil(t, st.Current)
	require.Equal(t, testTrack(1).ID, st.Current.ID)
	require.Zero(t, st.Position)
	require.Equal(t, 3, st.QueueLen)
	require.Equal(t, RepeatOne, st.Repeat)

	// Nothing touches the sink until the first Play
	require.Empty(t, mock.LoadCalls())

	require.NoError(t, svc.Play())
	require.Equal(t, []string{testTrack(1).Path}, mock.LoadCalls())
	require.Equal(t, StatePlaying, svc.State().State)
}

func TestService_Restore_DroppedTrackKeepsCurrent(t *testing.T) {
	mock := sink.NewMock()
	a, b, c := testTrack(0), testTrack(1), testTrack(2)
	store := &memSnapshots{preloaded: &state.Snapshot{
		TrackIDs: []string{a.ID, b.ID, c.ID},
		Order:    []int{2, 0, 1}, // play order c, a, b
		Cursor:   1,              // current a
	}}
	// b vanished from the library
	svc := newPersistedService(t, mock, store, resolverFor(a, c), nil)

	st := svc.State()
	require.Equal(t, 2, st.QueueLen)
	require.NotNil(t, st.Current)
	require.Equal(t, a.ID, st.Current.ID, "the surviving current track keeps its place")

	order := svc.QueueTracks()
	require.Equal(t, []string{c.ID, a.ID}, []string{order[0].ID, order[1].ID})
}

func TestService_Restore_VanishedCurrentMovesToNextSurvivor(t *testing.T) {
	mock := sink.NewMock()
	a, b, c := testTrack(0), testTrack(1), testTrack(2)
	store := &memSnapshots{preloaded: &state.Snapshot{
		TrackIDs: []string{a.ID, b.ID, c.ID},
		Order:    []int{0, 1, 2},
		Cursor:   1, // current b, which vanished
	}}
	svc := newPersistedService(t, mock, store, resolverFor(a, c), nil)

	st := svc.State()
	require.Equal(t, 2, st.QueueLen)
	require.NotNil(t, st.Current)
	require.Equal(t, c.ID, st.Current.ID, "the cursor lands on the next survivor")
}

func TestService_Restore_ShuffledOrderPreserved(t *testing.T) {
	mock := sink.NewMock()
	store := &memSnapshots{preloaded: &state.Snapshot{
		TrackIDs: testIDs(3),
		Order:    []int{2, 0, 1},
		Cursor:   0,
		Shuffle:  true,
	}}
	svc := newPersistedService(t, mock, store, resolverFor(testTracks(3)...), nil)

	require.True(t, svc.Shuffle())
	order := svc.QueueTracks()
	require.Equal(t,
		[]string{testTrack(2).ID, testTrack(0).ID, testTrack(1).ID},
		[]string{order[0].ID, order[1].ID, order[2].ID},
		"the persisted permutation survives instead of being reshuffled")
	cur := svc.CurrentTrack()
	require.NotNil(t, cur)
	require.Equal(t, testTrack(2).ID, cur.ID)
}

func TestService_Restore_FallsBackToFreshSession(t *testing.T) {
	tests := []struct {
		name     string
		snapshot *state.Snapshot
		resolver TrackResolver
	}{
		{"no snapshot", nil, resolverFor(testTracks(2)...)},
		{"resolver failure", &state.Snapshot{TrackIDs: testIDs(2), Order: []int{0, 1}}, &fakeResolver{err: errors.New("db closed")}},
		{"all tracks vanished", &state.Snapshot{TrackIDs: testIDs(2), Order: []int{0, 1}}, resolverFor()},
		{"corrupt play order", &state.Snapshot{TrackIDs: testIDs(3), Order: []int{0, 0, 1}}, resolverFor(testTracks(3)...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := sink.NewMock()
			store := &memSnapshots{preloaded: tt.snapshot}
			svc := newPersistedService(t, mock, store, tt.resolver, nil)

			st := svc.State()
			require.Equal(t, StateStopped, st.State)
			require.Zero(t, st.QueueLen)
			require.Nil(t, st.Current)
		})
	}
}

func TestService_Restore_ModesSurviveEmptySession(t *testing.T) {
	mock := sink.NewMock()
	store := &memSnapshots{preloaded: &state.Snapshot{
		Repeat:  uint8(RepeatAll),
		Shuffle: true,
	}}
	svc := newPersistedService(t, mock, store, nil, nil)

	require.Equal(t, RepeatAll, svc.RepeatMode())
	require.True(t, svc.Shuffle())
	require.Zero(t, svc.QueueLen())
}

func TestService_Restore_InvalidRepeatByteFallsBackToOff(t *testing.T) {
	mock := sink.NewMock()
	store := &memSnapshots{preloaded: &state.Snapshot{Repeat: 9}}
	svc := newPersistedService(t, mock, store, nil, nil)

	require.Equal(t, RepeatOff, svc.RepeatMode())
}

func TestService_RecordsPlayOncePerTrack(t *testing.T) {
	mock := sink.NewMock()
	recents := &memRecents{}
	svc := newPersistedService(t, mock, &memSnapshots{}, nil, recents)

	require.NoError(t, svc.ReplaceQueue(testTracks(2), 0)) // plays a
	require.NoError(t, svc.Next())                         // plays b
	require.NoError(t, svc.Previous())                     // back to a, already recorded
	require.NoError(t, svc.Pause())
	require.NoError(t, svc.Play()) // resume, already recorded

	require.Equal(t, []string{testTrack(0).ID, testTrack(1).ID}, recents.played())
}

func TestService_RecordPlayFailureDoesNotBlockPlayback(t *testing.T) {
	mock := sink.NewMock()
	recents := &memRecents{err: errors.New("db closed")}
	svc := newPersistedService(t, mock, &memSnapshots{}, nil, recents)

	require.NoError(t, svc.ReplaceQueue(testTracks(1), 0))
	require.Equal(t, StatePlaying, svc.State().State)
}
