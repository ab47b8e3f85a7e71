package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when no entry exists for a key
var ErrNotFound = errors.New("cache entry not found")

// Payload kinds stored in the cache
const (
	KindDaily      = "daily"
	KindActivities = "activities"
)

// DateFormat is the calendar-date layout used throughout the cache layer
const DateFormat = "2006-01-02"

// Key identifies one cached payload: a data kind over an inclusive date range
type Key struct {
	Kind  string
	Start time.Time
	End   time.Time
}

// NewKey creates a key for a kind and range
func NewKey(kind string, start, end time.Time) Key {
	return Key{Kind: kind, Start: start, End: end}
}

// String renders the key deterministically so identical requests map to the
// same entry
func (k Key) String() string {
	return fmt.Sprintf("%s-%s-%s", k.Kind, k.Start.Format(DateFormat), k.End.Format(DateFormat))
}

// FetchError records a single failed item inside an otherwise usable payload.
// Key is the date or activity id that failed.
type FetchError struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

// Payload is the stored unit for one (kind, range): every raw result that was
// fetched plus a manifest of what failed. A payload is never mutated in
// place; refreshing means Invalidate followed by a full re-fetch.
type Payload struct {
	Results []json.RawMessage `json:"results"`
	Errors  []FetchError      `json:"errors"`
}

// Store is the durable key-value contract backing the fetch pipeline.
// Write must be atomic: a concurrent reader never observes a partial entry.
// There is no TTL; staleness is managed by the caller via Invalidate.
type Store interface {
	Exists(key Key) (bool, error)
	Read(key Key) (*Payload, error)
	Write(key Key, p *Payload) error
	Invalidate(key Key) error
}
