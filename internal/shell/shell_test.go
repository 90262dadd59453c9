package shell

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestParseIndex(t *testing.T) {
	tests := []struct {
		arg     string
		max     int
		want    int
		wantErr bool
	}{
		{"1", 5, 0, false},
		{"5", 5, 4, false},
		{"0", 5, 0, true},
		{"6", 5, 0, true},
		{"-1", 5, 0, true},
		{"abc", 5, 0, true},
		{"1", 0, 0, true},
	}
	for _, tt := range tests {
		got, err := parseIndex(tt.arg, tt.max)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseIndex(%q, %d) error = %v, wantErr %v", tt.arg, tt.max, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("parseIndex(%q, %d) = %d, want %d", tt.arg, tt.max, got, tt.want)
		}
	}
}

func TestParseSeekTarget(t *testing.T) {
	current := 60 * time.Second
	tests := []struct {
		arg     string
		want    time.Duration
		wantErr bool
	}{
		{"90", 90 * time.Second, false},
		{"1:30", 90 * time.Second, false},
		{"1:02:03", 3723 * time.Second, false},
		{"+30", 90 * time.Second, false},
		{"-15", 45 * time.Second, false},
		{"+1:00", 120 * time.Second, false},
		{"-2:00", -60 * time.Second, false}, // the controller clamps below zero
		{"", 0, true},
		{"+", 0, true},
		{"1:2:3:4", 0, true},
		{"abc", 0, true},
		{"1:-2", 0, true},
	}
	for _, tt := range tests {
		got, err := parseSeekTarget(tt.arg, current)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseSeekTarget(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("parseSeekTarget(%q) = %v, want %v", tt.arg, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{7 * time.Second, "0:07"},
		{90 * time.Second, "1:30"},
		{59*time.Minute + 59*time.Second, "59:59"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
		{-5 * time.Second, "0:00"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatTotal(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Minute, "30 minutes"},
		{3*time.Hour + 20*time.Minute, "3 hours 20 minutes"},
		{50 * time.Hour, "2 days 2 hours"},
	}
	for _, tt := range tests {
		if got := formatTotal(tt.d); got != tt.want {
			t.Errorf("formatTotal(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestDispatchQuit(t *testing.T) {
	out := &bytes.Buffer{}
	s := &Shell{out: out}

	for _, cmd := range []string{"quit", "exit"} {
		if !s.dispatch(cmd) {
			t.Errorf("dispatch(%q) = false, want the shell to exit", cmd)
		}
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	out := &bytes.Buffer{}
	s := &Shell{out: out}

	if s.dispatch("warble") {
		t.Error("dispatch of an unknown command must not exit the shell")
	}
	if !strings.Contains(out.String(), "unknown command") {
		t.Errorf("output = %q, want an unknown-command hint", out.String())
	}
}
