package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultDBFileName is the SQLite filename under the storage directory.
const DefaultDBFileName = "sinkswitch.db"

const slotSchema = `
CREATE TABLE IF NOT EXISTS slots (
  name       TEXT PRIMARY KEY,
  value      BLOB NOT NULL,
  updated_at INTEGER NOT NULL
);
`

// SQLiteSlot stores slots as rows of a single key-value table.
type SQLiteSlot struct {
	db *sql.DB
}

// OpenSQLiteSlot opens (or creates) the database in dir and applies the schema.
func OpenSQLiteSlot(dir string) (*SQLiteSlot, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	dbPath := filepath.Join(dir, DefaultDBFileName)
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", dbPath, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(slotSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply slot schema: %w", err)
	}

	return &SQLiteSlot{db: db}, nil
}

func (s *SQLiteSlot) Get(name string) ([]byte, error) {
	if err := validName(name); err != nil {
		return nil, err
	}

	var value []byte
	err := s.db.QueryRow(`SELECT value FROM slots WHERE name = ?`, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read slot %q: %w", name, err)
	}
	return value, nil
}

func (s *SQLiteSlot) Set(name string, data []byte) error {
	if err := validName(name); err != nil {
		return err
	}

	_, err := s.db.Exec(
		`INSERT INTO slots (name, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		name,
		data,
		time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("write slot %q: %w", name, err)
	}
	return nil
}

func (s *SQLiteSlot) Remove(name string) error {
	if err := validName(name); err != nil {
		return err
	}

	if _, err := s.db.Exec(`DELETE FROM slots WHERE name = ?`, name); err != nil {
		return fmt.Errorf("remove slot %q: %w", name, err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteSlot) Close() error {
	return s.db.Close()
}
