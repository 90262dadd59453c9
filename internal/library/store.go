package library

import (
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"

	dbutil "spindle/internal/db"
)

// Store provides access to the library_tracks table. The table itself is
// created by the state manager's schema bootstrap.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const trackColumns = `id, path, mtime, title, artist, album, duration_ms, art_locator`

func scanTrack(row interface{ Scan(...any) error }) (Track, error) {
	var t Track
	var art sql.NullString
	err := row.Scan(&t.ID, &t.Path, &t.Mtime, &t.Title, &t.Artist, &t.Album, &t.DurationMs, &art)
	if err != nil {
		return Track{}, err
	}
	t.AlbumArtLocator = dbutil.NullStringValue(art)
	return t, nil
}

// Upsert inserts or updates a track keyed by path.
func (s *Store) Upsert(t Track) error {
	return upsertTrackWithExecutor(s.db, t)
}

type executor interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func upsertTrackWithExecutor(ex executor, t Track) error {
	now := time.Now().Unix()
	_, err := ex.Exec(`
		INSERT INTO library_tracks (id, path, mtime, title, artist, album, duration_ms, art_locator, added_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			id = excluded.id,
			mtime = excluded.mtime,
			title = excluded.title,
			artist = excluded.artist,
			album = excluded.album,
			duration_ms = excluded.duration_ms,
			art_locator = excluded.art_locator,
			updated_at = excluded.updated_at
	`, t.ID, t.Path, t.Mtime, t.Title, t.Artist, t.Album, t.DurationMs,
		dbutil.NullStringFrom(t.AlbumArtLocator), t.Mtime, now)
	return err
}

// UpsertBatch writes a set of tracks in one transaction.
func (s *Store) UpsertBatch(tracks []Track) error {
	if len(tracks) == 0 {
		return nil
	}
	return dbutil.WithTx(s.db, func(tx *sql.Tx) error {
		for _, t := range tracks {
			if err := upsertTrackWithExecutor(tx, t); err != nil {
				return err
			}
		}
		return nil
	})
}

// TrackByID returns the track with the given id, or nil when unknown.
func (s *Store) TrackByID(id string) (*Track, error) {
	row := s.db.QueryRow(`SELECT `+trackColumns+` FROM library_tracks WHERE id = ?`, id)
	t, err := scanTrack(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // unknown id is not an error here
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// TracksByIDs resolves a set of ids in one query. Unknown ids are simply
// absent from the result map.
func (s *Store) TracksByIDs(ids []string) (map[string]Track, error) {
	if len(ids) == 0 {
		return map[string]Track{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := lo.Map(ids, func(id string, _ int) any { return id })

	rows, err := s.db.Query(`SELECT `+trackColumns+` FROM library_tracks WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tracks := make(map[string]Track, len(ids))
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks[t.ID] = t
	}
	return tracks, rows.Err()
}

// TrackByPath returns the track stored at path, or nil when unknown.
func (s *Store) TrackByPath(path string) (*Track, error) {
	row := s.db.QueryRow(`SELECT `+trackColumns+` FROM library_tracks WHERE path = ?`, path)
	t, err := scanTrack(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // unknown path is not an error here
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Tracks returns the whole library ordered for display.
func (s *Store) Tracks() ([]Track, error) {
	rows, err := s.db.Query(`
		SELECT ` + trackColumns + `
		FROM library_tracks
		ORDER BY artist COLLATE NOCASE, album COLLATE NOCASE, title COLLATE NOCASE
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []Track
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}

func (s *Store) TrackCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM library_tracks`).Scan(&count)
	return count, err
}

// TotalDurationMs sums the duration of every track in the library.
func (s *Store) TotalDurationMs() (int64, error) {
	var total sql.NullInt64
	err := s.db.QueryRow(`SELECT SUM(duration_ms) FROM library_tracks`).Scan(&total)
	return total.Int64, err
}

// PathsWithMtimes returns path->mtime for tracks under the given sources.
// Used by the scanner for incremental change detection.
func (s *Store) PathsWithMtimes(sources []string) (map[string]int64, error) {
	rows, err := s.db.Query(`SELECT path, mtime FROM library_tracks`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Match on a separator boundary so /music never claims /music-other
	prefixes := lo.Map(sources, func(src string, _ int) string {
		return strings.TrimSuffix(src, string(filepath.Separator)) + string(filepath.Separator)
	})

	tracks := make(map[string]int64)
	for rows.Next() {
		var path string
		var mtime int64
		if err := rows.Scan(&path, &mtime); err != nil {
			return nil, err
		}
		for _, prefix := range prefixes {
			if strings.HasPrefix(path, prefix) {
				tracks[path] = mtime
				break
			}
		}
	}
	return tracks, rows.Err()
}

// DeleteByPath removes a track record. Missing paths are not an error.
func (s *Store) DeleteByPath(path string) error {
	_, err := s.db.Exec(`DELETE FROM library_tracks WHERE path = ?`, path)
	return err
}
