// internal/redirectscope/store.go
//
// Entry stores.
//
// The Store contract is claim-and-remove: Consume must atomically hand
// the entry to exactly one caller and make the token dead for everyone
// else, including the sweeper.  MemoryStore is the default for a single
// process; SQLStore (sql.go) shares entries across instances.

package redirectscope

import (
	"sync"
	"time"
)

// Store persists redirect-scope entries between the redirecting request
// and its correlated follow-up.
type Store interface {
	// Put stores a new entry.  Tokens are unique; Put never overwrites.
	Put(e *Entry) error

	// Consume atomically claims and removes the entry for token.  A
	// missing, already-claimed, or expired token returns ok == false;
	// that is a silent miss, never an error.  expired reports that the
	// miss removed an entry whose window had lapsed, so accounting for
	// pending entries stays balanced.
	Consume(token string, now time.Time) (bag Bag, ok, expired bool, err error)

	// Sweep removes every entry expired at now and reports how many.
	Sweep(now time.Time) (int, error)
}

// MemoryStore is a mutex-guarded in-process Store.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*Entry
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]*Entry{}}
}

// Put stores the entry.
func (s *MemoryStore) Put(e *Entry) error {
	s.mu.Lock()
	s.entries[e.Token] = e
	s.mu.Unlock()
	return nil
}

// Consume claims and removes the entry under the store lock, so a token
// can never be handed to two requests and the sweeper can never reap an
// entry mid-claim.
func (s *MemoryStore) Consume(token string, now time.Time) (Bag, bool, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[token]
	if !ok {
		return nil, false, false, nil
	}
	delete(s.entries, token)
	if e.Expired(now) {
		return nil, false, true, nil
	}
	return e.Bag, true, false, nil
}

// Sweep reaps expired entries.
func (s *MemoryStore) Sweep(now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	for token, e := range s.entries {
		if e.Expired(now) {
			delete(s.entries, token)
			n++
		}
	}
	return n, nil
}

// Len reports the current entry count (tests and the active gauge).
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
