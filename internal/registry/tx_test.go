package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uniregistry/internal/registry/models"
	"uniregistry/internal/registry/store"
	"uniregistry/pkg/requestcontext"
)

// commitFailStore fails every batch apply, simulating a backend that dies
// between the staged writes and the commit.
type commitFailStore struct {
	*store.Memory
}

func (s *commitFailStore) ApplyBatch(context.Context, store.Batch) error {
	return errors.New("connection reset by peer")
}

func TestLockedStoreTxFailedCommitLeavesNoTrace(t *testing.T) {
	st := &commitFailStore{Memory: store.NewMemory()}
	svc := NewService("admin", st, NewLockedStoreTx(st), nil, nil)

	ctx := requestcontext.WithCallerID(context.Background(), "admin")
	_, err := svc.Register(ctx, "UMA", "uni_id")
	require.Error(t, err)

	found, err := svc.GetByAccount(context.Background(), "uni_id")
	require.NoError(t, err)
	assert.Nil(t, found, "a failed commit must not leave a primary index entry")

	records, err := svc.GetByName(context.Background(), "UMA")
	require.NoError(t, err)
	assert.Empty(t, records, "a failed commit must not leave a name index entry")
}

func TestLockedStoreTxStagedWritesVisibleInsideTx(t *testing.T) {
	mem := store.NewMemory()
	runner := NewLockedStoreTx(mem)
	uma := models.University{Name: "UMA", AccountID: "uni_id"}

	err := runner.RunInTx(context.Background(), func(ctx context.Context, st store.Store) error {
		if err := st.InsertAccount(ctx, uma); err != nil {
			return err
		}
		exists, err := st.ContainsAccount(ctx, "uni_id")
		if err != nil {
			return err
		}
		assert.True(t, exists, "staged insert must be visible to reads inside the tx")

		// The backend stays untouched until the batch is applied.
		outside, err := mem.ContainsAccount(ctx, "uni_id")
		if err != nil {
			return err
		}
		assert.False(t, outside, "staged insert must not reach the backend before commit")

		return st.AppendByName(ctx, uma)
	})
	require.NoError(t, err)

	found, err := mem.GetByAccount(context.Background(), "uni_id")
	require.NoError(t, err)
	assert.Equal(t, uma, *found)

	records, err := mem.GetByName(context.Background(), "UMA")
	require.NoError(t, err)
	assert.Equal(t, []models.University{uma}, records)
}

func TestLockedStoreTxErrorInsideTxDiscardsStagedWrites(t *testing.T) {
	mem := store.NewMemory()
	runner := NewLockedStoreTx(mem)

	err := runner.RunInTx(context.Background(), func(ctx context.Context, st store.Store) error {
		if err := st.InsertAccount(ctx, models.University{Name: "UMA", AccountID: "uni_id"}); err != nil {
			return err
		}
		return errors.New("append rejected")
	})
	require.Error(t, err)

	_, err = mem.GetByAccount(context.Background(), "uni_id")
	assert.Error(t, err, "discarded stage must leave the backend empty")
}
