package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hr-onboarding/internal/models"
)

const (
	KindOnboardingCreated       = "onboarding.created"
	KindOnboardingStatusChanged = "onboarding.status_changed"
	KindOffboardingCreated      = "offboarding.created"
)

// Event is the message body published for record changes.
type Event struct {
	ID         string        `json:"id"`
	Kind       string        `json:"kind"`
	RecordID   int64         `json:"record_id"`
	EmpID      string        `json:"emp_id"`
	Status     models.Status `json:"status"`
	Department string        `json:"department,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

func NewEvent(kind string, recordID int64, empID string, status models.Status, department string) Event {
	return Event{
		ID:         uuid.NewString(),
		Kind:       kind,
		RecordID:   recordID,
		EmpID:      empID,
		Status:     status,
		Department: department,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop drops every event. It is used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

type KafkaPublisher struct {
	sp     sarama.SyncProducer
	topic  string
	source string
	log    zerolog.Logger
}

func NewKafkaPublisher(sp sarama.SyncProducer, topic, source string, log zerolog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		sp:     sp,
		topic:  topic,
		source: source,
		log:    log.With().Str("component", "KafkaPublisher").Logger(),
	}
}

// NewSyncProducer builds an idempotent producer that waits for all replicas.
func NewSyncProducer(brokers []string) (sarama.SyncProducer, error) {
	sCfg := sarama.NewConfig()
	sCfg.Version = sarama.V3_3_2_0
	sCfg.Producer.Return.Successes = true
	sCfg.Producer.RequiredAcks = sarama.WaitForAll
	sCfg.Producer.Idempotent = true
	sCfg.Net.MaxOpenRequests = 1
	sCfg.Producer.Retry.Max = 5
	sCfg.Producer.Retry.Backoff = 200 * time.Millisecond

	return sarama.NewSyncProducer(brokers, sCfg)
}

func (p *KafkaPublisher) Close() error {
	if p == nil || p.sp == nil {
		return nil
	}
	return p.sp.Close()
}

// Publish sends e keyed by employee code so events for one employee stay ordered.
func (p *KafkaPublisher) Publish(_ context.Context, e Event) error {
	if p == nil || p.sp == nil {
		return errors.New("sync producer is not initialized")
	}

	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(e.EmpID),
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-kind"), Value: []byte(e.Kind)},
			{Key: []byte("event-id"), Value: []byte(e.ID)},
			{Key: []byte("source"), Value: []byte(p.source)},
			{Key: []byte("content-type"), Value: []byte("application/json")},
		},
	}

	part, off, err := p.sp.SendMessage(msg)
	if err != nil {
		p.log.Error().
			Err(err).
			Str("kind", e.Kind).
			Str("emp_id", e.EmpID).
			Msg("failed to send kafka message")
		return fmt.Errorf("send kafka message: %w", err)
	}

	p.log.Info().
		Str("kind", e.Kind).
		Str("emp_id", e.EmpID).
		Int32("partition", part).
		Int64("offset", off).
		Msg("kafka message sent")
	return nil
}
