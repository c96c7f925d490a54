// Package store defines the two persistent indices the registry is built on
// and their in-memory, PostgreSQL, and Redis implementations.
package store

import (
	"context"

	"uniregistry/internal/registry/models"
)

// PrimaryIndex maps account id to its record. At most one record per account
// id; once present an entry is never overwritten or removed by the
// registration path.
type PrimaryIndex interface {
	// GetByAccount returns the record for an account id, or
	// sentinel.ErrNotFound when absent.
	GetByAccount(ctx context.Context, accountID string) (*models.University, error)

	// ContainsAccount reports whether an account id is registered.
	ContainsAccount(ctx context.Context, accountID string) (bool, error)

	// InsertAccount writes unconditionally. Uniqueness is the caller's job:
	// the registration path checks ContainsAccount first, under the same
	// transactional boundary.
	InsertAccount(ctx context.Context, university models.University) error

	// AllAccounts returns a full snapshot. Enumeration order is unspecified.
	AllAccounts(ctx context.Context) ([]models.AccountEntry, error)
}

// NameIndex maps a name to the ordered sequence of records registered under
// it. Sequence order equals registration order.
type NameIndex interface {
	// GetByName returns the sequence for a name. Absent names yield an empty
	// slice, never an error.
	GetByName(ctx context.Context, name string) ([]models.University, error)

	// AppendByName appends the record to its name's sequence, preserving
	// registration order.
	AppendByName(ctx context.Context, university models.University) error

	// Names enumerates every name with at least one record. Used by the
	// integrity check.
	Names(ctx context.Context) ([]string, error)
}

// Store combines both indices so a single transactional scope can write them
// as one atomic unit.
type Store interface {
	PrimaryIndex
	NameIndex
}

// Batch collects the writes of one registration commit so backends without
// native transactions can still apply them in a single step.
type Batch struct {
	Inserts []models.University
	Appends []models.University
}

// BatchWriter applies a staged batch as one commit. Memory applies everything
// under one lock acquisition; Redis queues every command into a single
// MULTI/EXEC pipeline, so a connection failure drops the whole batch rather
// than half of it.
type BatchWriter interface {
	ApplyBatch(ctx context.Context, batch Batch) error
}
