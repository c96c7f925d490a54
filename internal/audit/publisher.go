package audit

import (
	"context"
	"time"
)

// Sink receives audit events. It is append-only, matching the registry's
// insert-only model, so tests can swap sinks easily.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Publisher captures structured audit events and forwards them to a sink.
type Publisher struct {
	sink Sink
}

func NewPublisher(sink Sink) *Publisher {
	return &Publisher{sink: sink}
}

// Emit records an event, stamping the time if the caller left it zero. A nil
// publisher no-ops so audit stays optional in tests.
func (p *Publisher) Emit(ctx context.Context, base Event) error {
	if p == nil {
		return nil
	}
	if base.Timestamp.IsZero() {
		base.Timestamp = time.Now()
	}
	return p.sink.Append(ctx, base)
}
