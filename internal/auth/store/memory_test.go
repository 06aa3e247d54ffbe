package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"mangonet/internal/auth/models"
	"mangonet/pkg/platform/sentinel"
)

type UserStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *UserStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestUserStoreSuite(t *testing.T) {
	suite.Run(t, new(UserStoreSuite))
}

func (s *UserStoreSuite) newUser(username string) *models.AdminUser {
	return &models.AdminUser{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: "$2a$10$fakehashfakehashfakehash",
		Role:         models.RoleStandard,
	}
}

// TestCreationAndLookups verifies the store creates and retrieves users.
func (s *UserStoreSuite) TestCreationAndLookups() {
	s.Run("creates and finds by username", func() {
		user := s.newUser("ops")
		s.Require().NoError(s.store.CreateIfUsernameAvailable(s.ctx, user))

		found, err := s.store.FindByUsername(s.ctx, "ops")
		s.Require().NoError(err)
		s.Equal(user.ID, found.ID)
	})

	s.Run("finds usernames case-insensitively", func() {
		user := s.newUser("Support")
		s.Require().NoError(s.store.CreateIfUsernameAvailable(s.ctx, user))

		found, err := s.store.FindByUsername(s.ctx, "SUPPORT")
		s.Require().NoError(err)
		s.Equal(user.ID, found.ID)
	})

	s.Run("returns ErrNotFound for unknown username", func() {
		_, err := s.store.FindByUsername(s.ctx, "nobody")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

// TestUsernameUniqueness verifies case-insensitive uniqueness.
func (s *UserStoreSuite) TestUsernameUniqueness() {
	s.Require().NoError(s.store.CreateIfUsernameAvailable(s.ctx, s.newUser("admin")))

	err := s.store.CreateIfUsernameAvailable(s.ctx, s.newUser("ADMIN"))
	s.ErrorIs(err, sentinel.ErrConflict)

	listed, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Len(listed, 1)
}

// TestDelete verifies removal semantics.
func (s *UserStoreSuite) TestDelete() {
	s.Run("deletes an existing user", func() {
		user := s.newUser("temp")
		s.Require().NoError(s.store.CreateIfUsernameAvailable(s.ctx, user))
		s.Require().NoError(s.store.Delete(s.ctx, user.ID))

		_, err := s.store.FindByUsername(s.ctx, "temp")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returns ErrNotFound for unknown id", func() {
		s.ErrorIs(s.store.Delete(s.ctx, uuid.New()), sentinel.ErrNotFound)
	})
}
