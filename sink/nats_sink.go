package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"presence-chat/domain/event"

	"github.com/nats-io/nats.go"
)

// Publisher is the subset of *nats.Conn used by the sink.
type Publisher interface {
	Publish(subject string, data []byte) error
}

var _ Publisher = (*nats.Conn)(nil)

// NatsSink publishes presence changes on "{prefix}.{type}", e.g. "chat.presence.left".
type NatsSink struct {
	publisher Publisher
	prefix    string
	log       *slog.Logger
}

func NewNatsSink(publisher Publisher, prefix string, log *slog.Logger) *NatsSink {
	return &NatsSink{publisher: publisher, prefix: prefix, log: log}
}

func (s *NatsSink) Consume(ctx context.Context, e event.PresenceChanged) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal presence event: %w", err)
	}
	subject := fmt.Sprintf("%s.%s", s.prefix, e.Type)
	if err = s.publisher.Publish(subject, data); err != nil {
		return fmt.Errorf("publish on %s: %w", subject, err)
	}
	s.log.Debug("Presence event published", "subject", subject, "name", e.Name)
	return nil
}
