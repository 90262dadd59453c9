package state

import (
	"database/sql"
)

const currentSchemaVersion = 2

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS library_tracks (
			id TEXT NOT NULL PRIMARY KEY,
			path TEXT NOT NULL UNIQUE,
			mtime INTEGER NOT NULL,
			title TEXT NOT NULL,
			artist TEXT NOT NULL DEFAULT '',
			album TEXT NOT NULL DEFAULT '',
			duration_ms INTEGER NOT NULL DEFAULT 0,
			art_locator TEXT,
			added_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_tracks_artist_album ON library_tracks(artist, album);
		CREATE INDEX IF NOT EXISTS idx_tracks_added_at ON library_tracks(added_at);

		CREATE TABLE IF NOT EXISTS playback_snapshot (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			payload BLOB NOT NULL,
			saved_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS favorites (
			track_id TEXT NOT NULL PRIMARY KEY,
			added_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS recently_played (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			track_id TEXT NOT NULL,
			played_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_recently_played_at ON recently_played(played_at DESC);
	`)
	if err != nil {
		return err
	}

	// Set initial version if not exists
	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	if err != nil {
		return err
	}

	// Migration: add art_locator column if missing
	_, _ = db.Exec(`ALTER TABLE library_tracks ADD COLUMN art_locator TEXT`)

	return nil
}
