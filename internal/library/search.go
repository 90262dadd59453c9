package library

import (
	"strings"
)

// SearchTracks finds tracks whose title, artist or album contains every
// word of query, case-insensitively. Punctuation in the query is ignored.
func (s *Store) SearchTracks(query string, limit int) ([]Track, error) {
	tokens := strings.Fields(NormalizeTitle(query))
	if len(tokens) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + trackColumns + ` FROM library_tracks WHERE `)
	args := make([]any, 0, len(tokens)*3+1)
	for i, tok := range tokens {
		if i > 0 {
			sb.WriteString(` AND `)
		}
		sb.WriteString(`(title LIKE ? OR artist LIKE ? OR album LIKE ?)`)
		pattern := "%" + tok + "%"
		args = append(args, pattern, pattern, pattern)
	}
	sb.WriteString(` ORDER BY artist COLLATE NOCASE, album COLLATE NOCASE, title COLLATE NOCASE LIMIT ?`)
	args = append(args, limit)

	rows, err := s.db.Query(sb.String(), args...)
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
