package session

import (
	"context"
	"sync"
	"time"
)

// InMemory tracks sessions with wall-clock expiry. Suitable for single
// process deployments and tests; use the Redis store when running more than
// one instance.
type InMemory struct {
	mu       sync.RWMutex
	sessions map[string]time.Time
}

func NewInMemory() *InMemory {
	return &InMemory{sessions: make(map[string]time.Time)}
}

func (s *InMemory) Save(_ context.Context, sessionID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = time.Now().Add(ttl)
	return nil
}

func (s *InMemory) Exists(_ context.Context, sessionID string) (bool, error) {
	s.mu.RLock()
	expiry, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		s.mu.Lock()
		delete(s.sessions, sessionID)
		s.mu.Unlock()
		return false, nil
	}
	return true, nil
}

func (s *InMemory) Revoke(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
