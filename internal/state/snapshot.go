package state

import (
	"bytes"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"
)

const snapshotVersion = 1

// maxSnapshotTracks bounds decoding so a corrupt length prefix cannot
// trigger a huge allocation.
const maxSnapshotTracks = 1 << 20

// Snapshot is the persisted playback session: queue contents by track ID,
// the play-order permutation, cursor position and modes. Track IDs are
// resolved back to library rows on restore; IDs that no longer exist are
// dropped there, not here.
type Snapshot struct {
	TrackIDs []string
	Order    []int
	Cursor   int
	Repeat   uint8
	Shuffle  bool
}

func loadSnapshot(db *sql.DB) (*Snapshot, error) {
	row := db.QueryRow(`SELECT payload FROM playback_snapshot WHERE id = 1`)

	var payload []byte
	err := row.Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // no saved session is valid on first run
	}
	if err != nil {
		return nil, err
	}

	return decodeSnapshot(payload)
}

func saveSnapshot(db *sql.DB, snap Snapshot) error {
	payload, err := encodeSnapshot(&snap)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO playback_snapshot (id, payload, saved_at)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			payload = excluded.payload,
			saved_at = excluded.saved_at
	`, payload, time.Now().Unix())

	return err
}

func encodeSnapshot(s *Snapshot) ([]byte, error) {
	buf := new(bytes.Buffer)

	if err := binary.Write(buf, binary.BigEndian, uint16(snapshotVersion)); err != nil {
		return nil, err
	}
	if err := binary.Write(buf, binary.BigEndian, uint32(len(s.TrackIDs))); err != nil {
		return nil, err
	}
	for _, id := range s.TrackIDs {
		if len(id) > 0xFFFF {
			return nil, fmt.Errorf("track id too long: %d bytes", len(id))
		}
		if err := binary.Write(buf, binary.BigEndian, uint16(len(id))); err != nil {
			return nil, err
		}
		buf.WriteString(id)
	}
	for _, pos := range s.Order {
		if pos < 0 || pos >= len(s.TrackIDs) {
			return nil, fmt.Errorf("play order entry %d out of range", pos)
		}
		if err := binary.Write(buf, binary.BigEndian, uint32(pos)); err != nil {
			return nil, err
		}
	}

	cursor := s.Cursor
	if cursor < 0 {
		cursor = 0
	}
	if err := binary.Write(buf, binary.BigEndian, uint32(cursor)); err != nil {
		return nil, err
	}
	if err := binary.Write(buf, binary.BigEndian, s.Repeat); err != nil {
		return nil, err
	}
	var shuffle uint8
	if s.Shuffle {
		shuffle = 1
	}
	if err := binary.Write(buf, binary.BigEndian, shuffle); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func decodeSnapshot(data []byte) (*Snapshot, error) {
	r := bytes.NewReader(data)

	var version uint16
	if err := binary.Read(r, binary.BigEndian, &version); err != nil {
		return nil, fmt.Errorf("read snapshot version: %w", err)
	}
	if version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", version)
	}

	var count uint32
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return nil, fmt.Errorf("read track count: %w", err)
	}
	if count > maxSnapshotTracks {
		return nil, fmt.Errorf("track count %d exceeds limit", count)
	}

	s := &Snapshot{
		TrackIDs: make([]string, 0, count),
		Order:    make([]int, 0, count),
	}
	for i := uint32(0); i < count; i++ {
		var idLen uint16
		if err := binary.Read(r, binary.BigEndian, &idLen); err != nil {
			return nil, fmt.Errorf("read track id length: %w", err)
		}
		id := make([]byte, idLen)
		if _, err := io.ReadFull(r, id); err != nil {
			return nil, fmt.Errorf("read track id: %w", err)
		}
		s.TrackIDs = append(s.TrackIDs, string(id))
	}
	for i := uint32(0); i < count; i++ {
		var pos uint32
		if err := binary.Read(r, binary.BigEndian, &pos); err != nil {
			return nil, fmt.Errorf("read play order: %w", err)
		}
		if pos >= count {
			return nil, fmt.Errorf("play order entry %d out of range", pos)
		}
		s.Order = append(s.Order, int(pos))
	}

	var cursor uint32
	if err := binary.Read(r, binary.BigEndian, &cursor); err != nil {
		return nil, fmt.Errorf("read cursor: %w", err)
	}
	s.Cursor = int(cursor)

	if err := binary.Read(r, binary.BigEndian, &s.Repeat); err != nil {
		return nil, fmt.Errorf("read repeat mode: %w", err)
	}
	var shuffle uint8
	if err := binary.Read(r, binary.BigEndian, &shuffle); err != nil {
		return nil, fmt.Errorf("read shuffle flag: %w", err)
	}
	s.Shuffle = shuffle != 0

	if r.Len() != 0 {
		return nil, fmt.Errorf("%d trailing bytes after snapshot", r.Len())
	}

	return s, nil
}
