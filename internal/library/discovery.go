package library

import (
	"io/fs"
	"path/filepath"
)

// fileInfo describes a music file found during the walk phase.
type fileInfo struct {
	path  string
	mtime int64
}

// discoverFiles walks the source directories and collects every music file.
// Unreadable entries are skipped so one bad mount cannot abort a scan. The
// returned set is used by the cleanup phase to spot vanished files.
func discoverFiles(sources []string) ([]fileInfo, map[string]struct{}) {
	var files []fileInfo

	for _, src := range sources {
		_ = filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return nil //nolint:nilerr // skip unreadable entries
			}
			if d.IsDir() || !IsMusicFile(path) {
				return nil
			}

			info, infoErr := d.Info()
			if infoErr != nil {
				return nil //nolint:nilerr // skip unreadable entries
			}

			files = append(files, fileInfo{path: path, mtime: info.ModTime().Unix()})
			return nil
		})
	}

	discovered := make(map[string]struct{}, len(files))
	for _, f := range files {
		discovered[f.path] = struct{}{}
	}

	return files, discovered
}
