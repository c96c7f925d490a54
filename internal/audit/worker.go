package audit

import "context"

// Worker consumes audit events from a channel and forwards them to a sink.
// It decouples registration latency from slow sinks such as Kafka.
type Worker struct {
	sink  Sink
	inbox <-chan Event
}

func NewWorker(sink Sink, inbox <-chan Event) *Worker {
	return &Worker{sink: sink, inbox: inbox}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Append(ctx, event); err != nil {
				return err
			}
		}
	}
}

// ChannelSink feeds a Worker's inbox. Append never blocks the caller: when
// the inbox is full the event is dropped, since audit must not stall the
// write path.
type ChannelSink struct {
	inbox chan<- Event
}

func NewChannelSink(inbox chan<- Event) *ChannelSink {
	return &ChannelSink{inbox: inbox}
}

func (s *ChannelSink) Append(_ context.Context, event Event) error {
	select {
	case s.inbox <- event:
	default:
	}
	return nil
}
