package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/teamdesk/platform/internal/domain"
)

// Producer sends one message to a broker topic. *infra.KafkaProducer
// satisfies it.
type Producer interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// EventPublisher announces a completed mutation. Publishing never fails the
// mutation; implementations log their own errors.
type EventPublisher interface {
	Publish(ctx context.Context, draft domain.EventDraft)
}

type brokerPublisher struct {
	producer Producer
	logger   *slog.Logger
}

// NewEventPublisher publishes drafts as JSON on their event-type topic,
// keyed by partition key.
func NewEventPublisher(producer Producer, logger *slog.Logger) EventPublisher {
	return &brokerPublisher{producer: producer, logger: logger}
}

func (p *brokerPublisher) Publish(ctx context.Context, draft domain.EventDraft) {
	data, err := json.Marshal(draft)
	if err != nil {
		p.logger.Error("marshal event", "event_type", draft.EventType, "error", err)
		return
	}
	if err := p.producer.Publish(ctx, draft.Topic(), []byte(draft.PartitionKey), data); err != nil {
		p.logger.Warn("event publish failed",
			"event_type", draft.EventType,
			"aggregate_id", draft.AggregateID,
			"error", err,
		)
		return
	}
	p.logger.Debug("event published", "event_type", draft.EventType, "event_id", draft.EventID)
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, domain.EventDraft) {}
