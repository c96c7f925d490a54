package registry

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"uniregistry/internal/registry/models"
	dErrors "uniregistry/pkg/domain-errors"
)

// integrityTimeout bounds a full two-index scan.
const integrityTimeout = 10 * time.Second

// VerifyIntegrity recomputes the cross-index invariant: every record in the
// primary index must appear in its name's sequence, and every record
// reachable through the name index must exist in the primary index. Both
// scans run concurrently with shared cancellation.
func (s *Service) VerifyIntegrity(ctx context.Context) (models.IntegrityReport, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, integrityTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	var entries []models.AccountEntry
	var nameRecords []models.University

	g.Go(func() error {
		var err error
		entries, err = s.store.AllAccounts(ctx)
		return err
	})
	g.Go(func() error {
		names, err := s.store.Names(ctx)
		if err != nil {
			return err
		}
		for _, name := range names {
			records, err := s.store.GetByName(ctx, name)
			if err != nil {
				return err
			}
			nameRecords = append(nameRecords, records...)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return models.IntegrityReport{}, dErrors.Wrap(err, dErrors.CodeInternal, "scan indices")
	}

	report := models.IntegrityReport{
		Accounts:    len(entries),
		NameEntries: len(nameRecords),
	}

	// The registry is insert-only with unique account ids, so multiset
	// equality reduces to comparing account-id sets plus the counts above.
	inPrimary := make(map[string]models.University, len(entries))
	for _, entry := range entries {
		inPrimary[entry.AccountID] = entry.University
	}
	inNames := make(map[string]struct{}, len(nameRecords))
	for _, record := range nameRecords {
		inNames[record.AccountID] = struct{}{}
		if _, ok := inPrimary[record.AccountID]; !ok {
			report.MissingFromPrimary = append(report.MissingFromPrimary, record.AccountID)
		}
	}
	for accountID := range inPrimary {
		if _, ok := inNames[accountID]; !ok {
			report.MissingFromNameIndex = append(report.MissingFromNameIndex, accountID)
		}
	}

	report.Consistent = len(report.MissingFromPrimary) == 0 &&
		len(report.MissingFromNameIndex) == 0 &&
		report.Accounts == report.NameEntries

	s.metrics.RecordLookup("integrity", time.Since(start))
	return report, nil
}
