package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore persists one JSON file per key under a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the cache directory if necessary and returns a store
// rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key Key) string {
	return filepath.Join(s.dir, key.String()+".json")
}

// Exists reports whether an entry is stored for the key.
func (s *FileStore) Exists(key Key) (bool, error) {
	_, err := os.Stat(s.path(key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("statting cache entry %s: %w", key, err)
	}
	return true, nil
}

// Read returns the stored payload, or ErrNotFound when the key is absent.
func (s *FileStore) Read(key Key) (*Payload, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache entry %s: %w", key, err)
	}

	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding cache entry %s: %w", key, err)
	}
	return &p, nil
}

// Write stores the payload atomically: it goes to a temporary file in the
// same directory and is renamed into place, so a concurrent reader never
// observes a half-written entry.
func (s *FileStore) Write(key Key, p *Payload) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache entry %s: %w", key, err)
	}

	tmp, err := os.CreateTemp(s.dir, key.String()+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing temp cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temp cache file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("publishing cache entry %s: %w", key, err)
	}
	return nil
}

// Invalidate removes the entry. Removing an absent entry is not an error.
func (s *FileStore) Invalidate(key Key) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing cache entry %s: %w", key, err)
	}
	return nil
}
