// Package messaging publishes stock movements to the Kafka audit stream.
package messaging

import (
	"context"
	"time"

	"github.com/wyfcoding/stockkeeper/internal/stock/domain"
	"github.com/wyfcoding/stockkeeper/pkg/mq"
)

// MovementEvent is the wire form of one audit record.
type MovementEvent struct {
	MovementID string `json:"movement_id"`
	ProductID  string `json:"product_id"`
	Type       string `json:"type"`
	Quantity   int    `json:"quantity"`
	Date       string `json:"date"`
	Reason     string `json:"reason,omitempty"`
}

// KafkaMovementPublisher implements domain.MovementPublisher over the
// shared Kafka producer. Events are keyed by product id so one product's
// movements stay ordered within a partition.
type KafkaMovementPublisher struct {
	producer *mq.KafkaProducer
	topic    string
}

// NewKafkaMovementPublisher creates the publisher.
func NewKafkaMovementPublisher(producer *mq.KafkaProducer, topic string) *KafkaMovementPublisher {
	return &KafkaMovementPublisher{producer: producer, topic: topic}
}

func (p *KafkaMovementPublisher) Publish(ctx context.Context, movement *domain.Movement) error {
	event := MovementEvent{
		MovementID: movement.ID,
		ProductID:  movement.ProductID,
		Type:       string(movement.Type),
		Quantity:   movement.Quantity,
		Date:       movement.Date.Format(time.RFC3339),
		Reason:     movement.Reason,
	}
	return p.producer.SendMessage(ctx, p.topic, movement.ProductID, event)
}
