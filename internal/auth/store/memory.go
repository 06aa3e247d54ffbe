package store

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"mangonet/internal/auth/models"
	"mangonet/pkg/platform/sentinel"
)

// InMemory keeps admin users in a mutex-guarded map. Username uniqueness is
// case-insensitive, matching the postgres unique index.
type InMemory struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*models.AdminUser
}

func NewInMemory() *InMemory {
	return &InMemory{users: make(map[uuid.UUID]*models.AdminUser)}
}

// CreateIfUsernameAvailable inserts the user unless the username is taken.
func (s *InMemory) CreateIfUsernameAvailable(_ context.Context, user *models.AdminUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Username, user.Username) {
			return sentinel.ErrConflict
		}
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *InMemory) FindByUsername(_ context.Context, username string) (*models.AdminUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if strings.EqualFold(user.Username, username) {
			cp := *user
			return &cp, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) List(_ context.Context) ([]*models.AdminUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.AdminUser, 0, len(s.users))
	for _, user := range s.users {
		cp := *user
		out = append(out, &cp)
	}
	return out, nil
}

func (s *InMemory) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.users, id)
	return nil
}
