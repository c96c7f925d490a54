package registry

import (
	"context"
	"sync"
	"time"

	"uniregistry/internal/registry/models"
	"uniregistry/internal/registry/store"
	dErrors "uniregistry/pkg/domain-errors"
)

// StoreTx provides the atomic boundary for the registration commit: the
// uniqueness check and both index writes run inside a single RunInTx call.
// Implementations may wrap a database transaction or stage the writes and
// apply them in one step. A registration either lands in both indices or in
// neither.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, st store.Store) error) error
}

// TxStore is what the locked runner needs from a backend: the two indices
// plus a single-step apply for the staged writes.
type TxStore interface {
	store.Store
	store.BatchWriter
}

// defaultTxTimeout is the maximum duration for a registration commit.
const defaultTxTimeout = 5 * time.Second

// lockedStoreTx serializes commits with a single mutex. fn runs against a
// staged view; the backend is only touched by ApplyBatch once fn has
// succeeded, so a failure inside fn or during the apply leaves both indices
// untouched.
type lockedStoreTx struct {
	mu      sync.Mutex
	store   TxStore
	timeout time.Duration
}

// NewLockedStoreTx wraps a store with a coarse-lock transaction runner.
func NewLockedStoreTx(st TxStore) StoreTx {
	return &lockedStoreTx{store: st}
}

func (t *lockedStoreTx) RunInTx(ctx context.Context, fn func(ctx context.Context, st store.Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Check again after acquiring the lock
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	staged := &stagedStore{base: t.store}
	if err := fn(ctx, staged); err != nil {
		return err
	}

	if err := t.store.ApplyBatch(ctx, staged.batch); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "commit registration")
	}
	return nil
}

// stagedStore buffers index writes while fn runs, so nothing reaches the
// backend until the whole registration is known to succeed. Reads see the
// staged writes overlaid on the backend state.
type stagedStore struct {
	base  store.Store
	batch store.Batch
}

var _ store.Store = (*stagedStore)(nil)

func (s *stagedStore) GetByAccount(ctx context.Context, accountID string) (*models.University, error) {
	for _, u := range s.batch.Inserts {
		if u.AccountID == accountID {
			return &u, nil
		}
	}
	return s.base.GetByAccount(ctx, accountID)
}

func (s *stagedStore) ContainsAccount(ctx context.Context, accountID string) (bool, error) {
	for _, u := range s.batch.Inserts {
		if u.AccountID == accountID {
			return true, nil
		}
	}
	return s.base.ContainsAccount(ctx, accountID)
}

func (s *stagedStore) InsertAccount(_ context.Context, university models.University) error {
	s.batch.Inserts = append(s.batch.Inserts, university)
	return nil
}

func (s *stagedStore) AllAccounts(ctx context.Context) ([]models.AccountEntry, error) {
	entries, err := s.base.AllAccounts(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range s.batch.Inserts {
		entries = append(entries, models.AccountEntry{AccountID: u.AccountID, University: u})
	}
	return entries, nil
}

func (s *stagedStore) GetByName(ctx context.Context, name string) ([]models.University, error) {
	universities, err := s.base.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	for _, u := range s.batch.Appends {
		if u.Name == name {
			universities = append(universities, u)
		}
	}
	return universities, nil
}

func (s *stagedStore) AppendByName(_ context.Context, university models.University) error {
	s.batch.Appends = append(s.batch.Appends, university)
	return nil
}

func (s *stagedStore) Names(ctx context.Context) ([]string, error) {
	names, err := s.base.Names(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		seen[name] = struct{}{}
	}
	for _, u := range s.batch.Appends {
		if _, ok := seen[u.Name]; !ok {
			seen[u.Name] = struct{}{}
			names = append(names, u.Name)
		}
	}
	return names, nil
}
