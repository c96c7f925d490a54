package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"uniregistry/internal/registry/models"
	"uniregistry/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *Memory
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewMemory()
}

func (s *MemoryStoreSuite) TestPrimaryIndex() {
	ctx := context.Background()
	uma := models.University{Name: "UMA", AccountID: "uni_id"}

	s.Run("returns ErrNotFound for absent accounts", func() {
		_, err := s.store.GetByAccount(ctx, "missing")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("stores and retrieves a record", func() {
		s.Require().NoError(s.store.InsertAccount(ctx, uma))

		found, err := s.store.GetByAccount(ctx, "uni_id")
		s.Require().NoError(err)
		s.Equal(uma, *found)

		exists, err := s.store.ContainsAccount(ctx, "uni_id")
		s.Require().NoError(err)
		s.True(exists)
	})

	s.Run("insert is unconditional", func() {
		// The index itself does not reject overwrites; the registration
		// path guarantees it never inserts an existing key.
		renamed := models.University{Name: "Renamed", AccountID: "uni_id"}
		s.Require().NoError(s.store.InsertAccount(ctx, renamed))

		found, err := s.store.GetByAccount(ctx, "uni_id")
		s.Require().NoError(err)
		s.Equal("Renamed", found.Name)
	})

	s.Run("snapshot pairs account ids with records", func() {
		entries, err := s.store.AllAccounts(ctx)
		s.Require().NoError(err)
		s.Require().Len(entries, 1)
		s.Equal("uni_id", entries[0].AccountID)
		s.Equal(entries[0].University.AccountID, entries[0].AccountID)
	})
}

func (s *MemoryStoreSuite) TestNameIndex() {
	ctx := context.Background()

	s.Run("absent name yields empty slice, never an error", func() {
		records, err := s.store.GetByName(ctx, "NOPE")
		s.Require().NoError(err)
		s.NotNil(records)
		s.Empty(records)
	})

	s.Run("append preserves registration order", func() {
		u2 := models.University{Name: "UMA", AccountID: "u2"}
		u3 := models.University{Name: "UMA", AccountID: "u3"}
		s.Require().NoError(s.store.AppendByName(ctx, u2))
		s.Require().NoError(s.store.AppendByName(ctx, u3))

		records, err := s.store.GetByName(ctx, "UMA")
		s.Require().NoError(err)
		s.Equal([]models.University{u2, u3}, records)
	})

	s.Run("returned slices are copies", func() {
		records, err := s.store.GetByName(ctx, "UMA")
		s.Require().NoError(err)
		records[0].Name = "mutated"

		fresh, err := s.store.GetByName(ctx, "UMA")
		s.Require().NoError(err)
		s.Equal("UMA", fresh[0].Name)
	})

	s.Run("names enumerates each name once", func() {
		s.Require().NoError(s.store.AppendByName(ctx, models.University{Name: "UPM", AccountID: "u4"}))

		names, err := s.store.Names(ctx)
		s.Require().NoError(err)
		s.ElementsMatch([]string{"UMA", "UPM"}, names)
	})
}

func (s *MemoryStoreSuite) TestApplyBatch() {
	ctx := context.Background()
	uma := models.University{Name: "UMA", AccountID: "uni_id"}

	batch := Batch{
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
}
