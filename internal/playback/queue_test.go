// internal/playback/queue_test.go
package playback

import (
	"errors"
	"testing"

	"spindle/internal/library"
	"spindle/internal/sink"
)

func TestService_ReplaceQueue_Validation(t *testing.T) {
	mock := sink.NewMock()
	svc := newTestService(t, mock)

	tests := []struct {
		name   string
		tracks []library.Track
		start  int
		want   error
	}{
		{"empty", nil, 0, ErrEmptyQueue},
		{"start negative", testTracks(2), -1, ErrIndexOutOfRange},
		{"start past end", testTracks(2), 2, ErrIndexOutOfRange},
		{"duplicate ids", []library.Track{testTrack(0), testTrack(0)}, 0, ErrDuplicateTrack},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.ReplaceQueue(tt.tracks, tt.start); !errors.Is(err, tt.want) {
				t.Errorf("ReplaceQueue() = %v, want %v", err, tt.want)
			}
		})
	}

	// A rejected replace leaves the controller untouched
	if st := svc.State(); st.State != StateStopped || st.QueueLen != 0 {
		t.Errorf("State = %v QueueLen = %d after rejected calls, want Stopped and empty", st.State, st.QueueLen)
	}
	if calls := mock.LoadCalls(); len(calls) != 0 {
		t.Errorf("LoadCalls = %v, want none", calls)
	}
}

func TestService_ReplaceQueue_StartsAtIndex(t *testing.T) {
	mock := sink.NewMock()
	svc := newTestService(t, mock)
	sub := svc.Subscribe()
	<-sub.States // subscription-time state

	if err := svc.ReplaceQueue(testTracks(3), 1); err != nil {
		t.Fatalf("ReplaceQueue: %v", err)
	}

	if st := <-sub.States; st.State != StateLoading {
		t.Errorf("first emitted state = %v, want Loading", st.State)
	}
	st := <-sub.States
	if st.State != StatePlaying || st.Current == nil || st.Current.ID != testTrack(1).ID {
		t.Errorf("second emitted state = %v %+v, want Playing the start track", st.State, st.Current)
	}
}

func TestService_ReplaceQueue_WhilePlaying(t *testing.T) {
	mock := sink.NewMock()
	svc := newTestService(t, mock)

	if err := svc.ReplaceQueue(testTracks(2), 0); err != nil {
		t.Fatalf("ReplaceQueue: %v", err)
	}
	next := []library.Track{testTrack(7), testTrack(8)}
	if err := svc.ReplaceQueue(next, 1); err != nil {
		t.Fatalf("ReplaceQueue: %v", err)
	}

	st := svc.State()
	if st.Current == nil || st.Current.ID != testTrack(8).ID {
		t.Errorf("Current = %+v, want the new start track", st.Current)
	}
	if st.QueueLen != 2 || st.State != StatePlaying {
		t.Errorf("QueueLen = %d State = %v, want the old queue gone", st.QueueLen, st.State)
	}
	if mock.Loaded() != testTrack(8).Path {
		t.Errorf("sink holds %q, want %q", mock.Loaded(), testTrack(8).Path)
	}
}

func TestService_Enqueue_AppendsWithoutDisturbingPlayback(t *testing.T) {
	mock := sink.NewMock()
	svc := newTestService(t, mock)

	if err := svc.ReplaceQueue(testTracks(2), 0); err != nil {
		t.Fatalf("ReplaceQueue: %v", err)
	}
	if err := svc.Enqueue(testTrack(2)); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	st := svc.State()
	if st.QueueLen != 3 || st.Cursor != 0 {
		t.Errorf("QueueLen = %d Cursor = %d, want 3 and 0", st.QueueLen, st.Cursor)
	}
	if st.Current == nil || st.Current.ID != testTrack(0).ID {
		t.Errorf("Current = %+v, want unchanged", st.Current)
	}
	if calls := mock.LoadCalls(); len(calls) != 1 {
		t.Errorf("LoadCalls = %v, want no reload", calls)
	}
}

func TestService_Enqueue_FirstTrackStaysStopped(t *testing.T) {
	mock := sink.NewMock()
	svc := newTestService(t, mock)

	if err := svc.Enqueue(testTrack(0)); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	st := svc.State()
	if st.State != StateStopped || st.IsPlaying {
		t.Errorf("State = %v, want Stopped until Play", st.State)
	}
	if st.Current == nil || st.Current.ID != testTrack(0).ID || st.Cursor != 0 {
		t.Errorf("Current = %+v Cursor = %d, want the new track current", st.Current, st.Cursor)
	}
	if mock.Loaded() != "" {
		t.Errorf("sink holds %q, want nothing", mock.Loaded())
	}
}

func TestService_Enqueue_RejectsDuplicate(t *testing.T) {
	mock := sink.NewMock()
	svc := newTestService(t, mock)

	if err := svc.Enqueue(testTrack(0)); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if err := svc.Enqueue(testTrack(0)); !errors.Is(err, ErrDuplicateTrack) {
		t.Errorf("Enqueue duplicate = %v, want ErrDuplicateTrack", err)
	}
	if svc.QueueLen() != 1 {
		t.Errorf("QueueLen() = %d, want 1", svc.QueueLen())
	}
}

func TestService_EnqueueAt_InsertsAfterCursor(t *testing.T) {
	mock := sink.NewMock()
	svc := newTestService(t, mock)

	if err := svc.ReplaceQueue(testTracks(3), 0); err != nil {
		t.Fatalf("ReplaceQueue: %v", err)
	}
	if err := svc.EnqueueAt(testTrack(7), 1); err != nil {
		t.Fatalf("EnqueueAt: %v", err)
	}

	got := svc.QueueTracks()
	want := []string{testTrack(0).ID, testTrack(7).ID, testTrack(1).ID, testTrack(2).ID}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("play order[%d] = %s, want %s", i, got[i].ID, id)
		}
	}
	if cur := svc.CurrentTrack(); cur == nil || cur.ID != testTrack(0).ID {
		t.Errorf("Current = %+v, want undisplaced", cur)
	}
}

func TestService_EnqueueAt_ClampsToQueueEnd(t *testing.T) {
	mock := sink.NewMock()
	svc := newTestService(t, mock)

	if err := svc.ReplaceQueue(testTracks(2), 0); err != nil {
		t.Fatalf("ReplaceQueue: %v", err)
	}
	if err := svc.EnqueueAt(testTrack(7), 99); err != nil {
		t.Fatalf("EnqueueAt: %v", err)
	}

	got := svc.QueueTracks()
	if got[len(got)-1].ID != testTrack(7).ID {
		t.Errorf("last track = %s, want the inserted one at the end", got[len(got)-1].ID)
	}
}

func TestService_EnqueueAt_Validation(t *testing.T) {
	mock := sink.NewMock()
	svc := newTestService(t, mock)

	if err := svc.ReplaceQueue(testTracks(2), 0); err != nil {
		t.Fatalf("ReplaceQueue: %v", err)
	}
	if err := svc.EnqueueAt(testTrack(7), 0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("EnqueueAt offset 0 = %v, want ErrIndexOutOfRange", err)
	}
	if err := svc.EnqueueAt(testTrack(0), 1); !errors.Is(err, ErrDuplicateTrack) {
		t.Errorf("EnqueueAt duplicate = %v, want ErrDuplicateTrack", err)
	}
}

func TestService_Remove_NotFound(t *testing.T) {
	mock := sink.NewMock()
	svc := newTestService(t, mock)

	if err := svc.Remove("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove() = %v, want ErrNotFound", err)
	}
}

func TestService_Remove_NonCurrentTrack(t *testing.T) {
	mock := sink.NewMock()
	svc := newTestService(t, mock)

	if err := svc.ReplaceQueue(testTracks(3), 1); err != nil {
		t.Fatalf("ReplaceQueue: %v", err)
	}
	if err := svc.Remove(testTrack(0).ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	st := svc.State()
	if st.Current == nil || st.Current.ID != testTrack(1).ID {
		t.Errorf("Current = %+v, want unchanged", st.Current)
	}
	if st.QueueLen != 2 || st.Cursor != 0 {
		t.Errorf("QueueLen = %d Cursor = %d, want 2 and 0", st.QueueLen, st.Cursor)
	}
	if st.State != StatePlaying {
		t.Errorf("State = %v, want playback undisturbed", st.State)
	}
	if calls := mock.LoadCalls(); len(calls) != 1 {
		t.Errorf("LoadCalls = %v, want no reload", calls)
	}
}

func TestService_Remove_CurrentStartsNext(t *testing.T) {
	mock := sink.NewMock()
	svc := newTestService(t, mock)

	if err := svc.ReplaceQueue(testTracks(3), 0); err != nil {
		t.Fatalf("ReplaceQueue: %v", err)
	}
	if err := svc.Remove(testTrack(0).ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	st := svc.State()
	if st.Current == nil || st.Current.ID != testTrack(1).ID {
		t.Errorf("Current = %+v, want the following track", st.Current)
	}
	if st.State != StatePlaying {
		t.Errorf("State = %v, want Playing", st.State)
	}
	if mock.Loaded() != testTrack(1).Path {
		t.Errorf("sink holds %q, want %q", mock.Loaded(), testTrack(1).Path)
	}
}

func TestService_Remove_CurrentWhilePausedStaysPaused(t *testing.T) {
	mock := sink.NewMock()
	svc := newTestService(t, mock)

	if err := svc.ReplaceQueue(testTracks(3), 0); err != nil {
		t.Fatalf("ReplaceQueue: %v", err)
	}
	if err := svc.Pause(); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if err := svc.Remove(testTrack(0).ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	st := svc.State()
	if st.Current == nil || st.Current.ID != testTrack(1).ID {
		t.Errorf("Current = %+v, want the following track", st.Current)
	}
	if st.State != StatePaused || st.IsPlaying {
		t.Errorf("State = %v, want the paused distinction to survive", st.State)
	}
	if mock.Loaded() != testTrack(1).Path || mock.Playing() {
		t.Errorf("sink loaded=%q playing=%v, want the next track loaded but idle", mock.Loaded(), mock.Playing())
	}
}

func TestService_Remove_CurrentWhileStoppedStaysUnloaded(t *testing.T) {
	mock := sink.NewMock()
	svc := newTestService(t, mock)

	if err := svc.Enqueue(testTrack(0)); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if err := svc.Enqueue(testTrack(1)); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if err := svc.Remove(testTrack(0).ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	st := svc.State()
	if st.State != StateStopped {
		t.Errorf("State = %v, want Stopped", st.State)
	}
	if st.Current == nil || st.Current.ID != testTrack(1).ID {
		t.Errorf("Current = %+v, want the remaining track", st.Current)
	}
	if got := mock.LoadCalls(); len(got) != 0 {
		t.Errorf("LoadCalls = %v, want none before Play", got)
	}
}

func TestService_Remove_FinalTrackStops(t *testing.T) {
	mock := sink.NewMock()
	svc := newTestService(t, mock)

	if err := svc.ReplaceQueue(testTracks(3), 2); err != nil {
		t.Fatalf("ReplaceQueue: %v", err)
	}
	if err := svc.Remove(testTrack(2).ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	st := svc.State()
	if st.State != StateStopped {
		t.Errorf("State = %v, want Stopped", st.State)
	}
	if st.QueueLen != 2 || st.Cursor != 1 {
		t.Errorf("QueueLen = %d Cursor = %d, want cursor on the new end", st.QueueLen, st.Cursor)
	}
	if mock.Loaded() != "" {
		t.Errorf("sink holds %q, want nothing", mock.Loaded())
	}
}

func TestService_Remove_FinalTrackRepeatAllWraps(t *testing.T) {
	mock := sink.NewMock()
	svc := newTestService(t, mock)

	if err := svc.ReplaceQueue(testTracks(3), 2); err != nil {
		t.Fatalf("ReplaceQueue: %v", err)
	}
	svc.SetRepeatMode(RepeatAll)
	if err := svc.Remove(testTrack(2).ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	st := svc.State()
	if st.Current == nil || st.Current.ID != testTrack(0).ID {
		t.Errorf("Current = %+v, want wrap to the queue head", st.Current)
	}
	if st.State != StatePlaying {
		t.Errorf("State = %v, want Playing", st.State)
	}
}

func TestService_Remove_OnlyTrackEmptiesQueue(t *testing.T) {
	mock := sink.NewMock()
	svc := newTestService(t, mock)

	if err := svc.ReplaceQueue(testTracks(1), 0); err != nil {
		t.Fatalf("ReplaceQueue: %v", err)
	}
	if err := svc.Remove(testTrack(0).ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	st := svc.State()
	if st.State != StateStopped || st.QueueLen != 0 || st.Cursor != -1 {
		t.Errorf("State = %v QueueLen = %d Cursor = %d, want an empty stopped controller", st.State, st.QueueLen, st.Cursor)
	}
	if st.Current != nil {
		t.Errorf("Current = %+v, want nil", st.Current)
	}
	if err := svc.Play(); !errors.Is(err, ErrEmptyQueue) {
		t.Errorf("Play after emptying = %v, want ErrEmptyQueue", err)
	}
}

func TestService_Move_ReordersAroundCurrent(t *testing.T) {
	mock := sink.NewMock()
	svc := newTestService(t, mock)

	if err := svc.ReplaceQueue(testTracks(3), 0); err != nil {
		t.Fatalf("ReplaceQueue: %v", err)
	}
	if err := svc.Move(2, 0); err != nil {
		t.Fatalf("Move: %v", err)
	}

	got := svc.QueueTracks()
	want := []string{testTrack(2).ID, testTrack(0).ID, testTrack(1).ID}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("play order[%d] = %s, want %s", i, got[i].ID, id)
		}
	}
	st := svc.State()
	if st.Current == nil || st.Current.ID != testTrack(0).ID || st.Cursor != 1 {
		t.Errorf("Current = %+v Cursor = %d, want the cursor to follow its track", st.Current, st.Cursor)
	}
	if calls := mock.LoadCalls(); len(calls) != 1 {
		t.Errorf("LoadCalls = %v, want no reload", calls)
	}
}

func TestService_Move_OutOfRange(t *testing.T) {
	mock := sink.NewMock()
	svc := newTestService(t, mock)

	if err := svc.ReplaceQueue(testTracks(2), 0); err != nil {
		t.Fatalf("ReplaceQueue: %v", err)
	}
	if err := svc.Move(0, 5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Move(0, 5) = %v, want ErrIndexOutOfRange", err)
	}
}

func TestService_Clear_StopsAndEmpties(t *testing.T) {
	mock := sink.NewMock()
	svc := newTestService(t, mock)

	mock.FailLoad(testTrack(0).Path, errors.New("decode error"))
	if err := svc.ReplaceQueue(testTracks(1), 0); err != nil {
		t.Fatalf("ReplaceQueue: %v", err)
	}
	if st := svc.State(); st.LastError == "" {
		t.Fatal("expected a load failure on the state")
	}

	svc.Clear()

	st := svc.State()
	if st.State != StateStopped || st.QueueLen != 0 || st.Cursor != -1 {
		t.Errorf("State = %v QueueLen = %d Cursor = %d, want an empty stopped controller", st.State, st.QueueLen, st.Cursor)
	}
	if st.LastError != "" {
		t.Errorf("LastError = %q, want cleared", st.LastError)
	}
	if mock.Loaded() != "" {
		t.Errorf("sink holds %q, want nothing", mock.Loaded())
	}
}
