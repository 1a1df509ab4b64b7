package notify

import (
	"context"
	"log/slog"
)

// Message is one delivery the worker hands to a Sender.
type Message struct {
	Kind    string
	Topic   string
	Payload []byte
}

// Sender delivers a single message. Implementations must be safe for
// concurrent use; the worker may deliver a batch in parallel passes.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes deliveries to the structured log. It stands in for a real
// mail or push provider in development and tests.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	slog.Info("notification delivered",
		"kind", msg.Kind,
		"topic", msg.Topic,
		"payload", string(msg.Payload),
	)
	return nil
}
