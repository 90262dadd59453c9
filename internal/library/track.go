// Package library maintains the scanned music collection: track records in
// sqlite, tag and duration extraction, and change watching. The playback
// controller consumes Track values but never creates them.
package library

import (
	"crypto/sha256"
	"encoding/hex"
)

// Track describes one playable file. Identity is ID; a Track is immutable
// once produced by the scanner.
type Track struct {
	ID              string
	Path            string
	Title           string
	Artist          string
	Album           string
	DurationMs      int64
	AlbumArtLocator string // empty when no art was found
	Mtime           int64
}

// IDForPath derives the stable opaque id for a file path. The id survives
// rescans as long as the file does not move.
func IDForPath(path string) string {
	sum := sha256.Sum256([]byte(path))
	return hex.EncodeToString(sum[:8])
}
