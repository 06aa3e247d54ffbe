//go:build integration

package store_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"mangonet/internal/settings/store"
	"mangonet/pkg/testutil/containers"
)

type PostgresSettingsSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
}

func TestPostgresSettingsSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresSettingsSuite))
}

func (s *PostgresSettingsSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresSettingsSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "settings"))
}

// TestUpsert verifies set-then-get and overwriting.
func (s *PostgresSettingsSuite) TestUpsert() {
	ctx := context.Background()

	value, err := s.store.Get(ctx, "site_banner")
	s.Require().NoError(err)
	s.Empty(value, "absent key reads as empty")

	s.Require().NoError(s.store.Set(ctx, "site_banner", "first"))
	s.Require().NoError(s.store.Set(ctx, "site_banner", "second"))

	value, err = s.store.Get(ctx, "site_banner")
	s.Require().NoError(err)
	s.Equal("second", value)
}

// TestConcurrentUpsertSameKey verifies the upsert never errors under races.
func (s *PostgresSettingsSuite) TestConcurrentUpsertSameKey() {
	ctx := context.Background()
	const goroutines = 30

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.NoError(s.store.Set(ctx, "contended", "value"))
		}()
	}
	wg.Wait()

	value, err := s.store.Get(ctx, "contended")
	s.Require().NoError(err)
	s.Equal("value", value)
}
