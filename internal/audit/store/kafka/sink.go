// Package kafka fans audit events out to a Kafka topic in addition to the
// primary store, so downstream compliance consumers see the same trail.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"clearway/internal/audit"
	"clearway/internal/platform/kafka/producer"
	id "clearway/pkg/domain"
)

// Sink decorates an audit store with best-effort Kafka publication. The
// inner store stays the system of record; a broker outage never fails the
// append.
type Sink struct {
	next     audit.Store
	producer *producer.Producer
	topic    string
}

// New wraps next so every appended event is also published to topic.
func New(next audit.Store, p *producer.Producer, topic string) *Sink {
	return &Sink{next: next, producer: p, topic: topic}
}

// Append persists the event and publishes it asynchronously, keyed by case
// so per-case ordering survives partitioning.
func (s *Sink) Append(ctx context.Context, event audit.Event) error {
	if err := s.next.Append(ctx, event); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	// Best effort: delivery errors are logged inside the producer.
	_ = s.producer.ProduceAsync(&producer.Message{
		Topic: s.topic,
		Key:   []byte(event.CaseID.String()),
		Value: payload,
		Headers: map[string]string{
			"action": event.Action,
		},
	})

	return nil
}

// ListByCase delegates to the inner store.
func (s *Sink) ListByCase(ctx context.Context, caseID id.CaseID) ([]audit.Event, error) {
	return s.next.ListByCase(ctx, caseID)
}

var _ audit.Store = (*Sink)(nil)
