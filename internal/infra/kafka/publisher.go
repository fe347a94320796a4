package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/BruksfildServices01/seucuidado/internal/audit"
)

// Publisher streams audit events to a Kafka topic, keyed by entity id so
// one appointment's events stay ordered within a partition.
type Publisher struct {
	writer *kafka.Writer
	topic  string
}

func NewPublisher(broker, topic string) (*Publisher, error) {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
	}

	// Verifica a conexão com o broker
	conn, err := kafka.Dial("tcp", broker)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Kafka: %w", err)
	}
	defer conn.Close()

	return &Publisher{writer: writer, topic: topic}, nil
}

type eventMessage struct {
	Action   string    `json:"action"`
	Entity   string    `json:"entity"`
	EntityID string    `json:"entity_id"`
	UserID   *uint     `json:"user_id,omitempty"`
	Metadata any       `json:"metadata,omitempty"`
	At       time.Time `json:"at"`
}

func toMessage(topic string, ev audit.Event) (kafka.Message, error) {
	value, err := json.Marshal(eventMessage{
		Action:   ev.Action,
		Entity:   ev.Entity,
		EntityID: ev.EntityID,
		UserID:   ev.UserID,
		Metadata: ev.Metadata,
		At:       ev.At,
	})
	if err != nil {
		return kafka.Message{}, err
	}

	return kafka.Message{
		Topic: topic,
		Key:   []byte(ev.Entity + ":" + ev.EntityID),
		Value: value,
		Time:  ev.At,
	}, nil
}

func (p *Publisher) Name() string { return "kafka" }

func (p *Publisher) Handle(ctx context.Context, ev audit.Event) error {
	msg, err := toMessage(p.topic, ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
