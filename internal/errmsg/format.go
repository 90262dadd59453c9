// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Playback operations
	OpPlaybackStart Op = "start playback"
	OpPlaybackPause Op = "pause playback"
	OpPlaybackSeek  Op = "seek"
	OpSkipNext      Op = "skip to next track"
	OpSkipPrevious  Op = "skip to previous track"
	OpSetRepeat     Op = "set repeat mode"
	OpSetShuffle    Op = "set shuffle"

	// Queue operations
	OpQueueReplace Op = "replace queue"
	OpQueueAdd     Op = "add to queue"
	OpQueueInsert  Op = "insert into queue"
	OpQueueRemove  Op = "remove from queue"
	OpQueueMove    Op = "move queue entry"
	OpQueueClear   Op = "clear queue"

	// Snapshot operations
	OpSnapshotSave Op = "save playback snapshot"
	OpSnapshotLoad Op = "restore playback snapshot"

	// Library operations
	OpLibraryScan  Op = "scan library"
	OpLibraryLoad  Op = "load library"
	OpLibraryWatch Op = "watch library folders"
	OpTrackLoad    Op = "load track"

	// Favorites and history
	OpFavoriteToggle Op = "update favorites"
	OpRecentRecord   Op = "record play"

	// Audio output
	OpSinkLoad Op = "open track in audio backend"
	OpSinkStop Op = "stop audio backend"

	// Initialization
	OpConfigLoad Op = "load configuration"
	OpStateOpen  Op = "open state database"
	OpInitialize Op = "initialize player"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}

// Error wraps err in the same user-friendly form as Format. The original
// error stays available to errors.Is and errors.As.
func Error(op Op, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("Failed to %s: %w", op, err)
}
