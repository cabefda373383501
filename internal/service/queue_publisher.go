// Package service holds outbound integrations used by the HTTP layer.
package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/iliyamo/eventpage/internal/queue"
)

// Publisher announces domain events. Failures are returned for logging
// only; callers never fail a request because of them.
type Publisher interface {
	PublishBingoWon(ctx context.Context, ev queue.BingoWonEvent) error
	PublishEventProvisioned(ctx context.Context, ev queue.EventProvisionedEvent) error
}

// NewPublisher returns an AMQP publisher, or a no-op one when url is empty.
func NewPublisher(url string, logger zerolog.Logger) Publisher {
	logger = logger.With().Str("component", "publisher").Logger()
	if url == "" {
		logger.Info().Msg("RABBITMQ_URL not set, messages are dropped")
		return NopPublisher{}
	}
	return &AMQPPublisher{url: url, log: logger}
}

// NopPublisher discards every message.
type NopPublisher struct{}

func (NopPublisher) PublishBingoWon(context.Context, queue.BingoWonEvent) error { return nil }

func (NopPublisher) PublishEventProvisioned(context.Context, queue.EventProvisionedEvent) error {
	return nil
}

// AMQPPublisher dials the broker per message and publishes persistently to
// a durable queue on the default exchange.
type AMQPPublisher struct {
	url string
	log zerolog.Logger
}

func (p *AMQPPublisher) PublishBingoWon(ctx context.Context, ev queue.BingoWonEvent) error {
	return p.publish(ctx, queue.BingoWonQueue, ev)
}

func (p *AMQPPublisher) PublishEventProvisioned(ctx context.Context, ev queue.EventProvisionedEvent) error {
	return p.publish(ctx, queue.EventProvisionedQueue, ev)
}

func (p *AMQPPublisher) publish(ctx context.Context, name string, event any) error {
	logger := p.log.With().Str("queue", name).Logger()

	body, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Msg("marshal event")
		return err
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		logger.Error().Err(err).Msg("dial broker")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error().Err(err).Msg("open channel")
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
		logger.Error().Err(err).Msg("declare queue")
		return err
	}
	err = ch.PublishWithContext(ctx, "", name, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		logger.Error().Err(err).Msg("publish")
		return err
	}
	logger.Debug().Msg("published")
	return nil
}
