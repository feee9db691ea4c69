package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/platefit/fulfillment/internal/models"
)

const (
	historyExchange = "fulfillment.events"
	statusExchange  = "fulfillment.status"
)

// Publisher fans order events out to RabbitMQ for audit and notification
// consumers. Publishing is best-effort from the caller's point of view;
// a failed publish never rolls back a state transition.
type Publisher struct {
	conn *amqp.Connection
}

// NewPublisher dials RabbitMQ and declares the outbound exchanges
func NewPublisher(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(historyExchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	if err := ch.ExchangeDeclare(statusExchange, "fanout", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &Publisher{conn: conn}, nil
}

// Close closes the underlying connection
func (p *Publisher) Close() error {
	return p.conn.Close()
}

type historyMessage struct {
	OrderID      string         `json:"order_id"`
	EventType    string         `json:"event_type"`
	RestaurantID *string        `json:"restaurant_id,omitempty"`
	Detail       map[string]any `json:"detail,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

type statusMessage struct {
	OrderID   string    `json:"order_id"`
	Status    string    `json:"status"`
	ChangedAt time.Time `json:"changed_at"`
}

// PublishHistory publishes one audit event on the topic exchange, routed by
// event type
func (p *Publisher) PublishHistory(ctx context.Context, event models.HistoryEvent) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	msg := historyMessage{
		OrderID:   event.OrderID.String(),
		EventType: event.EventType,
		Detail:    event.Detail,
		CreatedAt: event.CreatedAt,
	}
	if event.RestaurantID != nil {
		rid := event.RestaurantID.String()
		msg.RestaurantID = &rid
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	routingKey := fmt.Sprintf("order.%s", event.EventType)

	err = ch.PublishWithContext(ctx, historyExchange, routingKey, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

// PublishStatusChange fans an order-status-changed notification out to
// notification and UI consumers
func (p *Publisher) PublishStatusChange(ctx context.Context, orderID uuid.UUID, status string) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	body, err := json.Marshal(statusMessage{
		OrderID:   orderID.String(),
		Status:    status,
		ChangedAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = ch.PublishWithContext(ctx, statusExchange, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}
