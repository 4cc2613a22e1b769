package persist

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteFileName is the database file created inside the data directory.
const SQLiteFileName = "taskquest.db"

// SQLite persists state in a local SQLite database.
type SQLite struct {
	sqlStore
	path string
}

// NewSQLite opens (creating if needed) the database in dataDir. The special
// value ":memory:" opens a private in-memory database.
func NewSQLite(dataDir, userID string) (*SQLite, error) {
	var dbPath string
	if dataDir == ":memory:" {
		dbPath = ":memory:"
	} else {
		dbPath = filepath.Join(dataDir, SQLiteFileName)
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// An in-memory database lives only as long as its connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	s := &SQLite{sqlStore: sqlStore{db: db, userID: userID}, path: dbPath}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *SQLite) Path() string { return s.path }

func (s *SQLite) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		version INTEGER NOT NULL,
		current_view TEXT NOT NULL DEFAULT 'dashboard',
		profile TEXT NOT NULL,              -- JSON: level, xp, streak, badges, challenge
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tasks (
		user_id TEXT NOT NULL,
		id TEXT NOT NULL,
		position INTEGER NOT NULL,
		horizon TEXT NOT NULL,
		priority TEXT NOT NULL,
		due_date TEXT NOT NULL DEFAULT '',
		is_completed INTEGER NOT NULL DEFAULT 0,
		data TEXT NOT NULL,                 -- JSON task document
		PRIMARY KEY (user_id, id),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS completion_history (
		user_id TEXT NOT NULL,
		date TEXT NOT NULL,
		completed INTEGER NOT NULL,
		total INTEGER NOT NULL,
		xp_earned INTEGER NOT NULL,
		PRIMARY KEY (user_id, date),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_due ON tasks(user_id, due_date);
	CREATE INDEX IF NOT EXISTS idx_tasks_horizon ON tasks(user_id, horizon);
	`
	_, err := s.db.Exec(schema)
	return err
}
