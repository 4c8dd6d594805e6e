package storage

import (
	"errors"
	"sync"
)

var (
	// ErrStoreFull is returned when the account ceiling is reached. Closed
	// accounts still count against it since they are retained for audit.
	ErrStoreFull = errors.New("account store full")

	// ErrNoSuchAccount is returned for unknown account numbers and for
	// closed accounts alike.
	ErrNoSuchAccount = errors.New("no such account")

	// ErrBelowMinBalance is returned when a withdrawal would take an active
	// account under the minimum-balance floor.
	ErrBelowMinBalance = errors.New("balance would fall below minimum")
)

// Store is the authoritative in-memory account table. All mutations flow
// through a Writer obtained from Write; the operator guarantees at most one
// Writer is ever in flight. Reads take the read lock and return copies so a
// mutation is never observed mid-flight.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]*Account
	order    []string
	persist  Persister
}

// NewStore creates an empty store that commits durable snapshots through p.
func NewStore(p Persister) *Store {
	return &Store{
		accounts: make(map[string]*Account),
		persist:  p,
	}
}

// Restore replaces the store's state with the contents of a snapshot. It is
// called exactly once at startup, before any client is accepted.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = make(map[string]*Account, len(snap.Accounts))
	s.order = make([]string, 0, len(snap.Accounts))
	for i := range snap.Accounts {
		a := snap.Accounts[i]
		s.accounts[a.Number] = &a
		s.order = append(s.order, a.Number)
	}
}

// Find returns a deep copy of an active account. Closed accounts are
// indistinguishable from ones that never existed.
func (s *Store) Find(number string) (*Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[number]
	if !ok || !a.Active {
		return nil, false
	}
	return a.clone(), true
}

// Count returns the number of accounts ever created and how many are active.
func (s *Store) Count() (total, active int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.Active {
			active++
		}
	}
	return len(s.accounts), active
}

// Write acquires the write lock and returns a Writer for a single mutation.
// The caller must finish with exactly one Commit or Rollback.
func (s *Store) Write() *Writer {
	s.mu.Lock()
	return &Writer{store: s, stashed: make(map[string]*Account)}
}

// export builds a snapshot of the full table in creation order.
// Caller must hold at least the read lock.
func (s *Store) export() Snapshot {
	snap := Snapshot{
		Meta: SnapshotMeta{
			Format:  SnapshotFormat,
			Version: SnapshotVersion,
		},
		AccountCount: len(s.order),
		Accounts:     make([]Account, 0, len(s.order)),
	}
	for _, number := range s.order {
		snap.Accounts = append(snap.Accounts, *s.accounts[number].clone())
	}
	return snap
}
