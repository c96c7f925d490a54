package main

import (
	"context"
	"database/sql"
	"time"

	"uniregistry/internal/platform/config"
	"uniregistry/internal/registry/store"
	dErrors "uniregistry/pkg/domain-errors"
)

// registryPostgresTx runs the registration commit inside a real database
// transaction: the uniqueness check and both index writes land or roll back
// together.
type registryPostgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

func newRegistryPostgresTx(db *sql.DB) *registryPostgresTx {
	return &registryPostgresTx{db: db}
}

func (t *registryPostgresTx) RunInTx(ctx context.Context, fn func(ctx context.Context, st store.Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = config.RegisterTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(ctx, store.NewPostgresTx(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	return nil
}
