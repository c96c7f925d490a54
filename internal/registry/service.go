// Package registry implements the university registry: one owner-restricted
// write path over two persistent indices, plus open read paths.
//
// The primary index maps account id to record; the name index maps name to
// the ordered sequence of records sharing it. Registration is insert-only:
// once a record is committed under an account id it is immutable for the
// lifetime of the registry. The two indices are kept mutually consistent by
// running the uniqueness check and both writes inside one StoreTx commit.
package registry

import (
	"context"
	"errors"
	"time"

	"uniregistry/internal/audit"
	"uniregistry/internal/registry/metrics"
	"uniregistry/internal/registry/models"
	"uniregistry/internal/registry/store"
	dErrors "uniregistry/pkg/domain-errors"
	"uniregistry/pkg/platform/sentinel"
	"uniregistry/pkg/requestcontext"
)

// Service orchestrates both indices behind a single write operation and
// several read operations. It owns the authorization check and the
// uniqueness check; the indices themselves are plain storage.
type Service struct {
	owner   string
	store   store.Store
	tx      StoreTx
	metrics *metrics.Metrics
	audit   *audit.Publisher
}

// NewService constructs the registry around its owner identity. Reads go
// through st directly; the registration commit goes through tx. metrics and
// auditor may be nil.
func NewService(owner string, st store.Store, tx StoreTx, m *metrics.Metrics, auditor *audit.Publisher) *Service {
	return &Service{
		owner:   owner,
		store:   st,
		tx:      tx,
		metrics: m,
		audit:   auditor,
	}
}

// Register commits a new record. The caller identity comes from the context
// (set by the auth middleware); only the owner identity may register. Each
// step short-circuits: authorization before any state is read, uniqueness
// before any state is written.
func (s *Service) Register(ctx context.Context, name, accountID string) (models.University, error) {
	caller := requestcontext.CallerID(ctx)
	if caller != s.owner {
		s.metrics.RecordRegistration(audit.OutcomePermissionDenied)
		s.emit(ctx, caller, name, accountID, audit.OutcomePermissionDenied)
		return models.University{}, dErrors.New(dErrors.CodePermissionDenied, "caller is not the registry owner")
	}

	if name == "" || accountID == "" {
		return models.University{}, dErrors.New(dErrors.CodeBadRequest, "name and account_id are required")
	}

	university := models.University{Name: name, AccountID: accountID}

	err := s.tx.RunInTx(ctx, func(ctx context.Context, st store.Store) error {
		exists, err := st.ContainsAccount(ctx, accountID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "check account uniqueness")
		}
		if exists {
			return dErrors.New(dErrors.CodeDuplicateAccount, "account already registered")
		}

		if err := st.InsertAccount(ctx, university); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "insert into primary index")
		}
		if err := st.AppendByName(ctx, university); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "append to name index")
		}
		return nil
	})
	if err != nil {
		outcome := audit.OutcomeError
		if dErrors.CodeOf(err) == dErrors.CodeDuplicateAccount {
			outcome = audit.OutcomeDuplicateAccount
		}
		s.metrics.RecordRegistration(outcome)
		s.emit(ctx, caller, name, accountID, outcome)
		return models.University{}, err
	}

	s.metrics.RecordRegistration(audit.OutcomeCommitted)
	s.emit(ctx, caller, name, accountID, audit.OutcomeCommitted)
	return university, nil
}

// GetAllUniversities returns every registered record paired with its account
// id. Order is unspecified.
func (s *Service) GetAllUniversities(ctx context.Context) ([]models.AccountEntry, error) {
	start := time.Now()
	entries, err := s.store.AllAccounts(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list universities")
	}
	s.metrics.RecordLookup("all", time.Since(start))
	return entries, nil
}

// GetByName returns the records registered under a name, in registration
// order. Absent names yield an empty slice, never an error.
func (s *Service) GetByName(ctx context.Context, name string) ([]models.University, error) {
	start := time.Now()
	universities, err := s.store.GetByName(ctx, name)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list universities by name")
	}
	s.metrics.RecordLookup("by_name", time.Since(start))
	return universities, nil
}

// GetByAccount returns the record for an account id, or nil when absent.
// Absence is not an error.
func (s *Service) GetByAccount(ctx context.Context, accountID string) (*models.University, error) {
	start := time.Now()
	university, err := s.store.GetByAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.RecordLookup("by_account", time.Since(start))
			return nil, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "get university by account")
	}
	s.metrics.RecordLookup("by_account", time.Since(start))
	return university, nil
}

func (s *Service) emit(ctx context.Context, caller, name, accountID, outcome string) {
	_ = s.audit.Emit(ctx, audit.Event{
		Caller:    caller,
		Action:    "register",
		Name:      name,
		AccountID: accountID,
		Outcome:   outcome,
	})
}
