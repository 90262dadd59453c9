package library

import (
	"os"
	"path/filepath"

	"github.com/dhowden/tag"
)

// Common cover art filenames to look for in album folders.
var coverArtFilenames = []string{
	"cover.jpg", "cover.jpeg", "cover.png",
	"folder.jpg", "folder.jpeg", "folder.png",
	"album.jpg", "album.jpeg", "album.png",
	"front.jpg", "front.jpeg", "front.png",
}

// embeddedArtPrefix marks locators that point at art inside the audio file
// itself rather than at a standalone image.
const embeddedArtPrefix = "embedded:"

// artLocator derives the album art locator for a file: "embedded:<path>"
// when the already-read metadata carries a picture, otherwise the path of a
// cover image in the same folder, otherwise "".
func artLocator(meta tag.Metadata, path string) string {
	if meta != nil && meta.Picture() != nil {
		return embeddedArtPrefix + path
	}
	return findFolderArt(filepath.Dir(path))
}

// findFolderArt looks for common cover art files in the given directory and
// returns the first match, or "".
func findFolderArt(dir string) string {
	for _, filename := range coverArtFilenames {
		imgPath := filepath.Join(dir, filename)
		if _, err := os.Stat(imgPath); err == nil {
			return imgPath
		}
	}
	return ""
}
