package audit

import (
	"context"
	"sync"
)

// MemorySink keeps the trail in process memory, keyed by account id. It
// intentionally favors clarity over performance.
type MemorySink struct {
	mu     sync.RWMutex
	events map[string][]Event
}

var _ Sink = (*MemorySink)(nil)

func NewMemorySink() *MemorySink {
	return &MemorySink{events: make(map[string][]Event)}
}

func (s *MemorySink) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.AccountID] = append(s.events[event.AccountID], event)
	return nil
}

// ListByAccount returns the events recorded for an account id, oldest first.
func (s *MemorySink) ListByAccount(_ context.Context, accountID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events[accountID]...), nil
}
