package session

import (
	"context"
	"sync"
	"time"

	"plaza/errors"
)

// MemoryStore keeps sessions in process memory. It favors clarity over
// performance and is the default when no Redis address is configured.
// Expired sessions are rejected on read; Sweep evicts them for real.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session)}
}

func (s *MemoryStore) Create(_ context.Context, session Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok || time.Now().After(session.ExpiresAt) {
		return Session{}, errors.ErrNoSession
	}
	return session, nil
}

func (s *MemoryStore) Refresh(_ context.Context, id string, ttl time.Duration) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok || time.Now().After(session.ExpiresAt) {
		return Session{}, errors.ErrNoSession
	}
	session.ExpiresAt = time.Now().Add(ttl)
	s.sessions[id] = session
	return session, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Sweep removes expired sessions and reports how many were evicted.
// Called periodically by the supervised sweeper worker.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	evicted := 0
	for id, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}
