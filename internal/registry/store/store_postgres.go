package store

import (
	"context"
	"database/sql"
	"fmt"

	"uniregistry/internal/registry/models"
	"uniregistry/pkg/platform/sentinel"
)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx, so the
// same queries serve both direct reads and transactional commits.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Postgres persists both indices in PostgreSQL. The primary index is the
// universities table keyed by account id; the name index is the
// universities_by_name table whose bigserial seq column records registration
// order, giving an O(1) append while preserving per-name ordering.
type Postgres struct {
	q querier
}

var _ Store = (*Postgres)(nil)

// NewPostgres constructs a store reading and writing through the pool.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{q: db}
}

// NewPostgresTx constructs a store scoped to an open transaction. The
// registration commit runs through this so the two index writes land or roll
// back together.
func NewPostgresTx(tx *sql.Tx) *Postgres {
	return &Postgres{q: tx}
}

func (s *Postgres) GetByAccount(ctx context.Context, accountID string) (*models.University, error) {
	var u models.University
	err := s.q.QueryRowContext(ctx,
		`SELECT account_id, name FROM universities WHERE account_id = $1`,
		accountID,
	).Scan(&u.AccountID, &u.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get university by account: %w", err)
	}
	return &u, nil
}

func (s *Postgres) ContainsAccount(ctx context.Context, accountID string) (bool, error) {
	var exists bool
	err := s.q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM universities WHERE account_id = $1)`,
		accountID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check account exists: %w", err)
	}
	return exists, nil
}

func (s *Postgres) InsertAccount(ctx context.Context, university models.University) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO universities (account_id, name)
		VALUES ($1, $2)
		ON CONFLICT (account_id) DO UPDATE SET name = EXCLUDED.name
	`, university.AccountID, university.Name)
	if err != nil {
		return fmt.Errorf("insert university: %w", err)
	}
	return nil
}

func (s *Postgres) AllAccounts(ctx context.Context) ([]models.AccountEntry, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT account_id, name FROM universities`)
	if err != nil {
		return nil, fmt.Errorf("list universities: %w", err)
	}
	defer rows.Close()

	entries := []models.AccountEntry{}
	for rows.Next() {
		var u models.University
		if err := rows.Scan(&u.AccountID, &u.Name); err != nil {
			return nil, fmt.Errorf("scan university: %w", err)
		}
		entries = append(entries, models.AccountEntry{AccountID: u.AccountID, University: u})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate universities: %w", err)
	}
	return entries, nil
}

func (s *Postgres) GetByName(ctx context.Context, name string) ([]models.University, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT account_id, name FROM universities_by_name
		WHERE name = $1
		ORDER BY seq
	`, name)
	if err != nil {
		return nil, fmt.Errorf("list universities by name: %w", err)
	}
	defer rows.Close()

	universities := []models.University{}
	for rows.Next() {
		var u models.University
		if err := rows.Scan(&u.AccountID, &u.Name); err != nil {
			return nil, fmt.Errorf("scan university by name: %w", err)
		}
		universities = append(universities, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate universities by name: %w", err)
	}
	return universities, nil
}

func (s *Postgres) AppendByName(ctx context.Context, university models.University) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO universities_by_name (name, account_id)
		VALUES ($1, $2)
	`, university.Name, university.AccountID)
	if err != nil {
		return fmt.Errorf("append university by name: %w", err)
	}
	return nil
}

func (s *Postgres) Names(ctx context.Context) ([]string, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT DISTINCT name FROM universities_by_name`)
	if err != nil {
		return nil, fmt.Errorf("list names: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate names: %w", err)
	}
	return names, nil
}
