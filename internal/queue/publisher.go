package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends catalog events. Callers treat failures as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, ev CatalogEvent) error
}

// NopPublisher drops every event. It is used when events are disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, CatalogEvent) error { return nil }

// AMQPPublisher dials the broker per publish, declares the durable catalog
// queue and sends a persistent JSON message on the default exchange.
type AMQPPublisher struct {
	url    string
	log    *slog.Logger
	dialer func(url string) (*amqp.Connection, error)
}

func NewAMQPPublisher(url string, log *slog.Logger) *AMQPPublisher {
	if log == nil {
		log = slog.Default()
	}
	return &AMQPPublisher{url: url, log: log, dialer: amqp.Dial}
}

func (p *AMQPPublisher) Publish(ctx context.Context, ev CatalogEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := p.dialer(p.url)
	if err != nil {
		p.log.Warn("rabbitmq dial failed", "err", err, "event", ev.Type)
		return fmt.Errorf("dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(CatalogQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         ev.Type,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", CatalogQueue, false, false, pub); err != nil {
		p.log.Warn("rabbitmq publish failed", "err", err, "event", ev.Type)
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}
