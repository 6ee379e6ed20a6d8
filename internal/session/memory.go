package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	sess    *Session
	expires time.Time
}

const maxSweepInterval = time.Minute

// MemoryStore keeps sessions in process. Entries expire ttl after their last
// save; Save drops expired entries at most once per sweep interval.
type MemoryStore struct {
	mu        sync.Mutex
	ttl       time.Duration
	now       func() time.Time
	entries   map[string]memoryEntry
	nextSweep time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now, entries: map[string]memoryEntry{}}
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !e.expires.IsZero() && m.now().After(e.expires) {
		delete(m.entries, id)
		return nil, ErrNotFound
	}
	return e.sess.clone(), nil
}

func (m *MemoryStore) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.sweep(now)
	s.UpdatedAt = now
	e := memoryEntry{sess: s.clone()}
	if m.ttl > 0 {
		e.expires = s.UpdatedAt.Add(m.ttl)
	}
	m.entries[s.ID] = e
	return nil
}

func (m *MemoryStore) sweep(now time.Time) {
	if m.ttl <= 0 || now.Before(m.nextSweep) {
		return
	}
	for id, e := range m.entries {
		if now.After(e.expires) {
			delete(m.entries, id)
		}
	}
	m.nextSweep = now.Add(min(m.ttl, maxSweepInterval))
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

// Len counts stored sessions, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
