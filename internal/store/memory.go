package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/activity-finder/internal/mapview"
)

var (
	// ErrNotFound is returned when no map session exists for an id.
	ErrNotFound = errors.New("no map session for id")
)

type entry struct {
	view       *mapview.View
	lastAccess time.Time
}

// MemoryStore is a concurrency-safe in-memory registry of map sessions.
// Each session holds only its current map state; nothing about earlier
// searches is kept.
type MemoryStore struct {
	mu sync.RWMutex

	// key: map session id
	data map[string]*entry

	// retention configuration
	maxSessions int           // max number of live sessions (0 = unlimited)
	maxAge      time.Duration // idle time after which Sweep drops a session (0 = never)

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
func NewMemoryStore(maxSessions int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:        make(map[string]*entry),
		maxSessions: maxSessions,
		maxAge:      maxAge,
		now:         time.Now,
	}
}

// Create registers a new map session and returns its view. When the store is
// full the least recently used session is evicted.
func (s *MemoryStore) Create() *mapview.View {
	view := mapview.New(uuid.NewString())

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxSessions > 0 && len(s.data) >= s.maxSessions {
		s.evictOldestLocked()
	}
	s.data[view.ID()] = &entry{view: view, lastAccess: s.now()}
	return view
}

// Get returns the view for id and marks the session as used.
func (s *MemoryStore) Get(id string) (*mapview.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.lastAccess = s.now()
	return e.view, nil
}

// Delete removes the session for id.
func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[id]; !ok {
		return ErrNotFound
	}
	delete(s.data, id)
	return nil
}

// Sweep drops sessions idle for longer than maxAge and returns their ids.
func (s *MemoryStore) Sweep() []string {
	if s.maxAge <= 0 {
		return nil
	}
	cutoff := s.now().Add(-s.maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []string
	for id, e := range s.data {
		if e.lastAccess.Before(cutoff) {
			delete(s.data, id)
			removed = append(removed, id)
		}
	}
	return removed
}

// Len returns the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *MemoryStore) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, e := range s.data {
		if oldestID == "" || e.lastAccess.Before(oldest) {
			oldestID = id
			oldest = e.lastAccess
		}
	}
	if oldestID != "" {
		delete(s.data, oldestID)
	}
}
