package store

import (
	"context"
	"sync"

	"uniregistry/internal/registry/models"
	"uniregistry/pkg/platform/sentinel"
)

// Memory keeps both indices in process memory. It intentionally favors
// clarity over performance; the name index append is a read-modify-write on
// the whole sequence, accepted for this registry's low per-name cardinality.
type Memory struct {
	mu       sync.RWMutex
	accounts map[string]models.University
	byName   map[string][]models.University
}

var _ Store = (*Memory)(nil)
var _ BatchWriter = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		accounts: make(map[string]models.University),
		byName:   make(map[string][]models.University),
	}
}

func (s *Memory) GetByAccount(_ context.Context, accountID string) (*models.University, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.accounts[accountID]; ok {
		return &u, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *Memory) ContainsAccount(_ context.Context, accountID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.accounts[accountID]
	return ok, nil
}

func (s *Memory) InsertAccount(_ context.Context, university models.University) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[university.AccountID] = university
	return nil
}

func (s *Memory) AllAccounts(_ context.Context) ([]models.AccountEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]models.AccountEntry, 0, len(s.accounts))
	for accountID, u := range s.accounts {
		entries = append(entries, models.AccountEntry{AccountID: accountID, University: u})
	}
	return entries, nil
}

func (s *Memory) GetByName(_ context.Context, name string) ([]models.University, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.University{}, s.byName[name]...), nil
}

func (s *Memory) AppendByName(_ context.Context, university models.University) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byName[university.Name] = append(s.byName[university.Name], university)
	return nil
}

func (s *Memory) ApplyBatch(_ context.Context, batch Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range batch.Inserts {
		s.accounts[u.AccountID] = u
	}
	for _, u := range batch.Appends {
		s.byName[u.Name] = append(s.byName[u.Name], u)
	}
	return nil
}

func (s *Memory) Names(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.byName))
	for name := range s.byName {
		names = append(names, name)
	}
	return names, nil
}
