package library

// Artists returns all distinct artists, sorted case-insensitively.
func (s *Store) Artists() ([]string, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT artist FROM library_tracks ORDER BY artist COLLATE NOCASE
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var artists []string
	for rows.Next() {
		var artist string
		if err := rows.Scan(&artist); err != nil {
			return nil, err
		}
		artists = append(artists, artist)
	}
	return artists, rows.Err()
}

// Albums returns album summaries for one artist, or for the whole library
// when artist is empty.
func (s *Store) Albums(artist string) ([]Album, error) {
	query := `
		SELECT artist, album, COUNT(*), SUM(duration_ms), MIN(added_at)
		FROM library_tracks
		GROUP BY artist, album
		ORDER BY artist COLLATE NOCASE, album COLLATE NOCASE
	`
	args := []any{}
	if artist != "" {
		query = `
			SELECT artist, album, COUNT(*), SUM(duration_ms), MIN(added_at)
			FROM library_tracks
			WHERE artist = ?
			GROUP BY album
			ORDER BY album COLLATE NOCASE
		`
		args = append(args, artist)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var albums []Album
	for rows.Next() {
		var a Album
		if err := rows.Scan(&a.Artist, &a.Album, &a.TrackCount, &a.DurationMs, &a.AddedAt); err != nil {
			return nil, err
		}
		albums = append(albums, a)
	}
	return albums, rows.Err()
}

// AlbumTracks returns the tracks of one album in display order.
func (s *Store) AlbumTracks(artist, album string) ([]Track, error) {
	rows, err := s.db.Query(`
		SELECT `+trackColumns+`
		FROM library_tracks
		WHERE artist = ? AND album = ?
		ORDER BY path
	`, artist, album)
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
