package state

import (
	"database/sql"
	"errors"
	"time"

	dbutil "spindle/internal/db"
)

// IsFavorite reports whether the track is marked as a favorite.
func (m *Manager) IsFavorite(trackID string) (bool, error) {
	row := m.db.QueryRow(`SELECT 1 FROM favorites WHERE track_id = ?`, trackID)

	var one int
	err := row.Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ToggleFavorite flips the favorite mark for the track and returns the
// new value.
func (m *Manager) ToggleFavorite(trackID string) (bool, error) {
	var favorite bool
	err := dbutil.WithTx(m.db, func(tx *sql.Tx) error {
		row := tx.QueryRow(`SELECT 1 FROM favorites WHERE track_id = ?`, trackID)

		var one int
		err := row.Scan(&one)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			_, err = tx.Exec(`INSERT INTO favorites (track_id, added_at) VALUES (?, ?)`,
				trackID, time.Now().Unix())
			favorite = true
			return err
		case err != nil:
			return err
		default:
			_, err = tx.Exec(`DELETE FROM favorites WHERE track_id = ?`, trackID)
			favorite = false
			return err
		}
	})
	return favorite, err
}

// Favorites returns favorite track IDs, most recently added first.
func (m *Manager) Favorites() ([]string, error) {
	rows, err := m.db.Query(`SELECT track_id FROM favorites ORDER BY added_at DESC, track_id`)
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
