// Package events publishes chat domain events for downstream consumers
// (analytics, moderation). Publishing is fire-and-forget from the
// request path's point of view.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/hoangnqjl/MaroMart/internal/models"
)

// MessageSentEvent is emitted once per successfully persisted message.
type MessageSentEvent struct {
	MessageID string    `json:"message_id"`
	ConID     string    `json:"con_id"`
	Sender    string    `json:"sender"`
	Receiver  string    `json:"receiver"`
	HasMedia  bool      `json:"has_media"`
	SentAt    time.Time `json:"sent_at"`
}

type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	return &Publisher{writer: w}
}

// MessageSent publishes the event keyed by conversation so per-
// conversation ordering survives partitioning.
func (p *Publisher) MessageSent(ctx context.Context, m *models.Message) error {
	ev := MessageSentEvent{
		MessageID: m.ID,
		ConID:     m.ConID,
		Sender:    m.Sender,
		Receiver:  m.Receiver,
		HasMedia:  len(m.Media) > 0,
		SentAt:    m.CreatedAt,
	}
	value, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(m.ConID),
		Value: value,
		Time:  time.Now(),
	})
}

func (p *Publisher) Close() error { return p.writer.Close() }
