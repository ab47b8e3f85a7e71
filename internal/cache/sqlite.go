package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps cache entries in a single-table SQLite database. Each
// statement runs in its own implicit transaction, which gives readers the
// same atomic-visibility guarantee the file store gets from rename.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and if necessary creates) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS cache_entries (
			key        TEXT PRIMARY KEY,
			payload    TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Exists reports whether an entry is stored for the key.
func (s *SQLiteStore) Exists(key Key) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM cache_entries WHERE key = ?`, key.String()).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying cache entry %s: %w", key, err)
	}
	return true, nil
}

// Read returns the stored payload, or ErrNotFound when the key is absent.
func (s *SQLiteStore) Read(key Key) (*Payload, error) {
	var data string
	err := s.db.QueryRow(`SELECT payload FROM cache_entries WHERE key = ?`, key.String()).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache entry %s: %w", key, err)
	}

	var p Payload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("decoding cache entry %s: %w", key, err)
	}
	return &p, nil
}

// Write stores the payload under the key, replacing any previous entry.
func (s *SQLiteStore) Write(key Key, p *Payload) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding cache entry %s: %w", key, err)
	}

	if _, err := s.db.Exec(`
		INSERT INTO cache_entries (key, payload)
		VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			created_at = CURRENT_TIMESTAMP
	`, key.String(), string(data)); err != nil {
		return fmt.Errorf("writing cache entry %s: %w", key, err)
	}
	return nil
}

// Invalidate removes the entry. Removing an absent entry is not an error.
func (s *SQLiteStore) Invalidate(key Key) error {
	if _, err := s.db.Exec(`DELETE FROM cache_entries WHERE key = ?`, key.String()); err != nil {
		return fmt.Errorf("removing cache entry %s: %w", key, err)
	}
	return nil
}
