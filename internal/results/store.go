package results

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"spark-spread/internal/spread"
)

// Run is one completed spread computation, kept so the series of a recent
// run can be fetched again without recomputing. Runs are not persisted;
// they expire with the TTL.
type Run struct {
	ID        string
	CreatedAt time.Time

	Market   string
	GasIndex string

	Points  []spread.Point
	Summary spread.Summary
}

type entry struct {
	run       *Run
	expiresAt time.Time
}

// Store is an in-memory TTL store of completed runs.
type Store struct {
	mu    sync.RWMutex
	store map[string]*entry
	ttl   time.Duration
}

const sweepInterval = 5 * time.Minute

// NewStore creates a store whose entries expire after ttl.
// A background sweep evicts expired entries.
func NewStore(ttl time.Duration) *Store {
	s := &Store{
		store: make(map[string]*entry),
		ttl:   ttl,
	}
	go s.sweep()
	return s
}

// Put stores a run, assigns it an ID and returns that ID.
func (s *Store) Put(run *Run) string {
	id := uuid.NewString()
	run.ID = id
	run.CreatedAt = time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.store[id] = &entry{
		run:       run,
		expiresAt: run.CreatedAt.Add(s.ttl),
	}
	return id
}

// Get retrieves a run if present and not expired.
func (s *Store) Get(id string) (*Run, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.store[id]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.run, true
}

// Len reports the number of stored entries, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.store)
}

func (s *Store) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		now := time.Now()
		for id, e := range s.store {
			if now.After(e.expiresAt) {
				delete(s.store, id)
			}
		}
		s.mu.Unlock()
	}
}
