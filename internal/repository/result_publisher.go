package repository

import (
	"context"
	"fmt"
	"time"

	"ozzus/domain-scout/internal/domain"
)

type ResultPublisher interface {
	Publish(ctx context.Context, result domain.CheckResult) error
}

// EventPublisher is satisfied by kafka.Producer.
type EventPublisher interface {
	PublishEvent(ctx context.Context, key string, event interface{}) error
	Topic() string
}

type resultEvent struct {
	RunID            string    `json:"run_id"`
	Candidate        string    `json:"candidate"`
	Domain           string    `json:"domain"`
	Status           string    `json:"status"`
	ErrorKind        string    `json:"error_kind,omitempty"`
	Error            string    `json:"error,omitempty"`
	RegistryStatuses []string  `json:"registry_statuses,omitempty"`
	Attempts         int       `json:"attempts"`
	DurationMs       int64     `json:"duration_ms"`
	Timestamp        time.Time `json:"timestamp"`
}

type KafkaResultPublisher struct {
	producer EventPublisher
	runID    string
}

func NewKafkaResultPublisher(producer EventPublisher, runID string) *KafkaResultPublisher {
	return &KafkaResultPublisher{producer: producer, runID: runID}
}

func (p *KafkaResultPublisher) Publish(ctx context.Context, result domain.CheckResult) error {
	event := resultEvent{
		RunID:            p.runID,
		Candidate:        result.Candidate,
		Domain:           result.Domain,
		Status:           string(result.Status),
		RegistryStatuses: result.RegistryStatuses,
		Attempts:         result.Attempts,
		DurationMs:       result.Duration.Milliseconds(),
		Timestamp:        result.Timestamp,
	}
	if result.Err != nil {
		event.ErrorKind = string(result.Err.Kind)
		event.Error = result.Err.Error()
	}

	if err := p.producer.PublishEvent(ctx, result.Domain, event); err != nil {
		return fmt.Errorf("failed to publish result for %s to %s: %w", result.Domain, p.producer.Topic(), err)
	}
	return nil
}
