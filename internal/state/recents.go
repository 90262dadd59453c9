package state

import (
	"time"
)

// maxRecent caps the play history table; older rows are pruned on insert.
const maxRecent = 100

// RecordPlay appends the track to the play history.
func (m *Manager) RecordPlay(trackID string) error {
	_, err := m.db.Exec(`INSERT INTO recently_played (track_id, played_at) VALUES (?, ?)`,
		trackID, time.Now().Unix())
	if err != nil {
		return err
	}

	_, err = m.db.Exec(`
		DELETE FROM recently_played
		WHERE id NOT IN (
			SELECT id FROM recently_played ORDER BY played_at DESC, id DESC LIMIT ?
		)
	`, maxRecent)
	return err
}

// RecentlyPlayed returns track IDs from the play history, most recent
// first. Repeated plays of the same track appear once per play.
func (m *Manager) RecentlyPlayed(limit int) ([]string, error) {
	if limit <= 0 || limit > maxRecent {
		limit = maxRecent
	}

	rows, err := m.db.Query(`
		SELECT track_id FROM recently_played ORDER BY played_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
