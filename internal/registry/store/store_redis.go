package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"uniregistry/internal/registry/models"
	"uniregistry/pkg/platform/sentinel"
)

const (
	// Primary index: hash field per account id, JSON-encoded record.
	accountsKey = "uniregistry:accounts"
	// Name index: one list per name, RPUSH preserves registration order.
	byNameKeyPrefix = "uniregistry:by-name:"
	// Set of names with at least one record, for enumeration.
	namesKey = "uniregistry:names"
)

// Redis persists both indices in Redis. Hash enumeration order is
// unspecified, which matches the primary index snapshot contract; list pushes
// are ordered, which matches the name index contract. The registration commit
// goes through ApplyBatch, which queues every write of a registration into
// one MULTI/EXEC pipeline; the locked transaction runner serializes
// registrations on top of that.
type Redis struct {
	client *redis.Client
}

var _ Store = (*Redis)(nil)
var _ BatchWriter = (*Redis)(nil)

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (s *Redis) GetByAccount(ctx context.Context, accountID string) (*models.University, error) {
	raw, err := s.client.HGet(ctx, accountsKey, accountID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get university by account: %w", err)
	}
	var u models.University
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("decode university: %w", err)
	}
	return &u, nil
}

func (s *Redis) ContainsAccount(ctx context.Context, accountID string) (bool, error) {
	exists, err := s.client.HExists(ctx, accountsKey, accountID).Result()
	if err != nil {
		return false, fmt.Errorf("check account exists: %w", err)
	}
	return exists, nil
}

func (s *Redis) InsertAccount(ctx context.Context, university models.University) error {
	raw, err := json.Marshal(university)
	if err != nil {
		return fmt.Errorf("encode university: %w", err)
	}
	if err := s.client.HSet(ctx, accountsKey, university.AccountID, raw).Err(); err != nil {
		return fmt.Errorf("insert university: %w", err)
	}
	return nil
}

func (s *Redis) AllAccounts(ctx context.Context) ([]models.AccountEntry, error) {
	raw, err := s.client.HGetAll(ctx, accountsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list universities: %w", err)
	}
	entries := make([]models.AccountEntry, 0, len(raw))
	for accountID, encoded := range raw {
		var u models.University
		if err := json.Unmarshal([]byte(encoded), &u); err != nil {
			return nil, fmt.Errorf("decode university %q: %w", accountID, err)
		}
		entries = append(entries, models.AccountEntry{AccountID: accountID, University: u})
	}
	return entries, nil
}

func (s *Redis) GetByName(ctx context.Context, name string) ([]models.University, error) {
	raw, err := s.client.LRange(ctx, byNameKeyPrefix+name, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list universities by name: %w", err)
	}
	universities := make([]models.University, 0, len(raw))
	for _, encoded := range raw {
		var u models.University
		if err := json.Unmarshal([]byte(encoded), &u); err != nil {
			return nil, fmt.Errorf("decode university by name: %w", err)
		}
		universities = append(universities, u)
	}
	return universities, nil
}

func (s *Redis) AppendByName(ctx context.Context, university models.University) error {
	raw, err := json.Marshal(university)
	if err != nil {
		return fmt.Errorf("encode university: %w", err)
	}

	// MULTI/EXEC so the list push and the name-set add land together.
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, byNameKeyPrefix+university.Name, raw)
	pipe.SAdd(ctx, namesKey, university.Name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append university by name: %w", err)
	}
	return nil
}

// ApplyBatch commits a staged registration. All writes go into one MULTI/EXEC
// pipeline, so either every command reaches the server or none does; an
// insert is never left without its name-index append.
func (s *Redis) ApplyBatch(ctx context.Context, batch Batch) error {
	pipe := s.client.TxPipeline()
	for _, u := range batch.Inserts {
		raw, err := json.Marshal(u)
		if err != nil {
			return fmt.Errorf("encode university: %w", err)
		}
		pipe.HSet(ctx, accountsKey, u.AccountID, raw)
	}
	for _, u := range batch.Appends {
		raw, err := json.Marshal(u)
		if err != nil {
			return fmt.Errorf("encode university: %w", err)
		}
		pipe.RPush(ctx, byNameKeyPrefix+u.Name, raw)
		pipe.SAdd(ctx, namesKey, u.Name)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("apply registration batch: %w", err)
	}
	return nil
}

func (s *Redis) Names(ctx context.Context) ([]string, error) {
	names, err := s.client.SMembers(ctx, namesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list names: %w", err)
	}
	return names, nil
}
