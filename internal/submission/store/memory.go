package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"mangonet/internal/submission/models"
	"mangonet/pkg/platform/sentinel"
)

// InMemory keeps submissions in a mutex-guarded map. It backs unit tests and
// development runs without PostgreSQL.
type InMemory struct {
	mu          sync.RWMutex
	submissions map[uuid.UUID]*models.Submission
}

func NewInMemory() *InMemory {
	return &InMemory{submissions: make(map[uuid.UUID]*models.Submission)}
}

func (s *InMemory) Create(_ context.Context, sub *models.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.submissions[sub.ID]; ok {
		return sentinel.ErrConflict
	}
	cp := *sub
	s.submissions[sub.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*models.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.submissions[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

// List returns all submissions ordered by submission time ascending.
func (s *InMemory) List(_ context.Context) ([]*models.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Submission, 0, len(s.submissions))
	for _, sub := range s.submissions {
		cp := *sub
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	return out, nil
}

// Execute runs validate-then-mutate on one submission while holding the store
// lock, so a transition is a single conditional update rather than a
// read-modify-write session. Returns the updated record.
func (s *InMemory) Execute(
	_ context.Context,
	id uuid.UUID,
	validate func(*models.Submission) error,
	mutate func(*models.Submission),
) (*models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.submissions[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if validate != nil {
		if err := validate(sub); err != nil {
			return nil, err
		}
	}
	mutate(sub)
	cp := *sub
	return &cp, nil
}
