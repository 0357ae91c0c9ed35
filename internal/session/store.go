// Package session keeps upload workspaces in memory for the HTTP API.
//
// A session holds one converter.Workspace. Every edit builds a new Workspace
// from the stored one and replaces it, so readers always see a complete
// snapshot. Sessions idle for longer than the store's TTL are dropped.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/vendor-normalizer/internal/converter"
)

// ErrNotFound is returned for an unknown or expired session id.
var ErrNotFound = errors.New("session not found")

type entry struct {
	ws      converter.Workspace
	created time.Time
	touched time.Time
}

// Store is a concurrency-safe map of session id to workspace.
type Store struct {
	mu    sync.Mutex
	items map[string]entry
	ttl   time.Duration
	now   func() time.Time
}

// NewStore creates a store. A ttl of zero keeps sessions forever.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		items: make(map[string]entry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Create stores ws under a new id and returns the id.
func (s *Store) Create(ws converter.Workspace) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.purgeExpiredLocked(now)

	id := uuid.New().String()
	s.items[id] = entry{ws: ws, created: now, touched: now}
	return id
}

// Get returns the workspace stored under id. A read counts as activity and
// restarts the idle timer.
func (s *Store) Get(id string) (converter.Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, ok := s.items[id]
	if !ok || s.expired(e, now) {
		delete(s.items, id)
		return converter.Workspace{}, ErrNotFound
	}

	e.touched = now
	s.items[id] = e
	return e.ws, nil
}

// Update replaces the workspace under id with fn's result. If fn returns an
// error the stored workspace is left as it was.
func (s *Store) Update(id string, fn func(converter.Workspace) (converter.Workspace, error)) (converter.Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, ok := s.items[id]
	if !ok || s.expired(e, now) {
		delete(s.items, id)
		return converter.Workspace{}, ErrNotFound
	}

	ws, err := fn(e.ws)
	if err != nil {
		return e.ws, err
	}

	e.ws = ws
	e.touched = now
	s.items[id] = e
	return ws, nil
}

// Delete removes the session. Deleting an unknown id returns ErrNotFound.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	delete(s.items, id)
	return nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(s.now())
	return len(s.items)
}

func (s *Store) expired(e entry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.touched) > s.ttl
}

func (s *Store) purgeExpiredLocked(now time.Time) {
	for id, e := range s.items {
		if s.expired(e, now) {
			delete(s.items, id)
		}
	}
}
