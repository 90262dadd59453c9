// internal/playback/state_test.go
package playback

import "testing"

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateStopped, "Stopped"},
		{StateLoading, "Loading"},
		{StatePlaying, "Playing"},
		{StatePaused, "Paused"},
		{State(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestState_IsActive(t *testing.T) {
	tests := []struct {
		state State
		want  bool
	}{
		{StateStopped, false},
		{StateLoading, false},
		{StatePlaying, true},
		{StatePaused, true},
	}
	for _, tt := range tests {
		if got := tt.state.IsActive(); got != tt.want {
			t.Errorf("%v.IsActive() = %v, want %v", tt.state, got, tt.want)
		}
	}
}

func TestRepeatMode_String(t *testing.T) {
	tests := []struct {
		mode RepeatMode
		want string
	}{
		{RepeatOff, "Off"},
		{RepeatAll, "All"},
		{RepeatOne, "One"},
		{RepeatMode(42), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestParseRepeatMode(t *testing.T) {
	tests := []struct {
		in   string
		want RepeatMode
		ok   bool
	}{
		{"off", RepeatOff, true},
		{"none", RepeatOff, true},
		{"all", RepeatAll, true},
		{"queue", RepeatAll, true},
		{"one", RepeatOne, true},
		{"track", RepeatOne, true},
		{"", RepeatOff, false},
		{"sideways", RepeatOff, false},
	}
	for _, tt := range tests {
		got, ok := ParseRepeatMode(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseRepeatMode(%q) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
