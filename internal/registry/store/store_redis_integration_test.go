//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"uniregistry/internal/registry/models"
	"uniregistry/internal/registry/store"
	"uniregistry/pkg/platform/sentinel"
	"uniregistry/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *store.Redis
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = store.NewRedis(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestPrimaryIndexRoundTrip() {
	ctx := context.Background()
	uma := models.University{Name: "UMA", AccountID: "uni_id"}

	_, err := s.store.GetByAccount(ctx, "uni_id")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	s.Require().NoError(s.store.InsertAccount(ctx, uma))

	found, err := s.store.GetByAccount(ctx, "uni_id")
	s.Require().NoError(err)
	s.Equal(uma, *found)

	exists, err := s.store.ContainsAccount(ctx, "uni_id")
	s.Require().NoError(err)
	s.True(exists)

	entries, err := s.store.AllAccounts(ctx)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal("uni_id", entries[0].AccountID)
	s.Equal(uma, entries[0].University)
}

func (s *RedisStoreSuite) TestNameIndexOrdering() {
	ctx := context.Background()

	records, err := s.store.GetByName(ctx, "NOPE")
	s.Require().NoError(err)
	s.Empty(records)

	u2 := models.University{Name: "UMA", AccountID: "u2"}
	u3 := models.University{Name: "UMA", AccountID: "u3"}
	s.Require().NoError(s.store.AppendByName(ctx, u2))
	s.Require().NoError(s.store.AppendByName(ctx, u3))

	records, err = s.store.GetByName(ctx, "UMA")
	s.Require().NoError(err)
	s.Equal([]models.University{u2, u3}, records)

	names, err := s.store.Names(ctx)
	s.Require().NoError(err)
	s.ElementsMatch([]string{"UMA"}, names)
}

func (s *RedisStoreSuite) TestApplyBatchLandsInBothIndices() {
	ctx := context.Background()
	uma := models.University{Name: "UMA", AccountID: "uni_id"}

	batch := store.Batch{
		Inserts: []models.University{uma},
		Appends: []models.University{uma},
	}
	s.Require().NoError(s.store.ApplyBatch(ctx, batch))

	found, err := s.store.GetByAccount(ctx, "uni_id")
	s.Require().NoError(err)
	s.Equal(uma, *found)

	records, err := s.store.GetByName(ctx, "UMA")
	s.Require().NoError(err)
	s.Equal([]models.University{uma}, records)

	names, err := s.store.Names(ctx)
	s.Require().NoError(err)
	s.ElementsMatch([]string{"UMA"}, names)
}
