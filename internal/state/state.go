package state

import (
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName      = "spindle"
	dbFileName   = "spindle.db"
	saveDebounce = 500 * time.Millisecond
)

type Manager struct {
	db   *sql.DB
	path string
	log  *slog.Logger

	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   *Snapshot
}

// Open opens the state database at path, creating it and the schema on
// first run. An empty path selects the default location under the XDG
// data directory.
func Open(path string, log *slog.Logger) (*Manager, error) {
	if path == "" {
		var err error
		path, err = defaultDBPath()
		if err != nil {
			return nil, err
		}
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Manager{db: db, path: path, log: log}, nil
}

func (m *Manager) Close() error {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	pending := m.pending
	m.pending = nil
	m.saveMu.Unlock()

	// Flush pending snapshot
	if pending != nil {
		if err := saveSnapshot(m.db, *pending); err != nil {
			m.log.Warn("flush playback snapshot", "error", err)
		}
	}

	return m.db.Close()
}

func (m *Manager) DB() *sql.DB {
	return m.db
}

// Path returns the database file location.
func (m *Manager) Path() string {
	return m.path
}

// LoadSnapshot returns the persisted playback session, or nil when none
// was saved. A snapshot that cannot be read or decoded is logged and
// treated as absent so a corrupt row never blocks startup.
func (m *Manager) LoadSnapshot() *Snapshot {
	snap, err := loadSnapshot(m.db)
	if err != nil {
		m.log.Warn("load playback snapshot", "error", err)
		return nil
	}
	return snap
}

// SaveSnapshot schedules a debounced write of the playback session.
// Rapid successive calls collapse into a single write; the last pending
// snapshot is flushed on Close.
func (m *Manager) SaveSnapshot(snap Snapshot) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.pending = &snap

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}

	m.saveTimer = time.AfterFunc(saveDebounce, func() {
		m.saveMu.Lock()
		pending := m.pending
		m.pending = nil
		m.saveMu.Unlock()

		if pending != nil {
			if err := saveSnapshot(m.db, *pending); err != nil {
				m.log.Warn("save playback snapshot", "error", err)
			}
		}
	})
}

func defaultDBPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}
