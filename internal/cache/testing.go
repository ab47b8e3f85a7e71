package cache

import (
	"encoding/json"
	"fmt"
)

// MemStore is an in-memory Store for tests. Payloads are kept serialized so
// reads exercise the same round-trip as the durable backends.
type MemStore struct {
	entries map[string][]byte
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{entries: make(map[string][]byte)}
}

// Exists reports whether an entry is stored for the key.
func (s *MemStore) Exists(key Key) (bool, error) {
	_, ok := s.entries[key.String()]
	return ok, nil
}

// Read returns the stored payload, or ErrNotFound when the key is absent.
func (s *MemStore) Read(key Key) (*Payload, error) {
	data, ok := s.entries[key.String()]
	if !ok {
		return nil, ErrNotFound
	}
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding cache entry %s: %w", key, err)
	}
	return &p, nil
}

// Write stores the payload under the key.
func (s *MemStore) Write(key Key, p *Payload) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding cache entry %s: %w", key, err)
	}
	s.entries[key.String()] = data
	return nil
}

// Invalidate removes the entry.
func (s *MemStore) Invalidate(key Key) error {
	delete(s.entries, key.String())
	return nil
}

// Len returns the number of stored entries.
func (s *MemStore) Len() int {
	return len(s.entries)
}
