package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Consumer appends one line per message to a notifications log.
type Consumer struct {
	url     string
	logPath string
	log     zerolog.Logger
}

func NewConsumer(url, logPath string, logger zerolog.Logger) *Consumer {
	return &Consumer{url: url, logPath: logPath, log: logger.With().Str("component", "consumer").Logger()}
}

// Run connects, consumes and reconnects with exponential backoff until ctx
// is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.Warn().Err(err).Dur("retry_in", backoff).Msg("dial broker")
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn().Err(err).Msg("consume loop ended, reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

type delivery struct {
	queue string
	amqp.Delivery
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.log.Warn().Err(err).Msg("set QoS")
	}

	merged := make(chan delivery)
	done := make(chan struct{})
	defer close(done)
	for _, name := range Queues {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
		msgs, err := ch.Consume(name, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("queue consume %s: %w", name, err)
		}
		go func(name string, msgs <-chan amqp.Delivery) {
			for d := range msgs {
				select {
				case merged <- delivery{queue: name, Delivery: d}:
				case <-done:
					return
				}
			}
		}(name, msgs)
	}

	closed := ch.NotifyClose(make(chan *amqp.Error, 1))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case amqpErr := <-closed:
			if amqpErr != nil {
				return amqpErr
			}
			return errors.New("channel closed")
		case d := <-merged:
			if err := c.Handle(d.queue, d.Body); err != nil {
				c.log.Error().Err(err).Str("queue", d.queue).Msg("handle message")
				_ = d.Nack(false, false) // drop, requeueing a bad message would loop
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Handle formats a message from queue and appends it to the log file.
func (c *Consumer) Handle(queue string, body []byte) error {
	line, err := FormatLine(queue, body)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.logPath), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(c.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	c.log.Info().Str("queue", queue).Msg("notification recorded")
	return nil
}

// FormatLine renders one notification line for a message body.
func FormatLine(queue string, body []byte) (string, error) {
	switch queue {
	case BingoWonQueue:
		var ev BingoWonEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return "", fmt.Errorf("unmarshal %s: %w", queue, err)
		}
		return fmt.Sprintf("[%s] Bingo! | event_id=%s | event=%q | card_id=%s | guest_id=%s | cells=%d\n",
			ev.WonAt.UTC().Format(time.RFC3339), ev.EventID, ev.EventTitle, ev.CardID, ev.GuestID, len(ev.CompletedItems)), nil
	case EventProvisionedQueue:
		var ev EventProvisionedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return "", fmt.Errorf("unmarshal %s: %w", queue, err)
		}
		return fmt.Sprintf("[%s] Event provisioned | event_id=%s | title=%q | type=%s | client=%s | code=%s | url=%s\n",
			ev.ProvisionedAt.UTC().Format(time.RFC3339), ev.EventID, ev.Title, ev.EventType,
			strings.ToLower(ev.ClientEmail), ev.AccessCode, ev.GuestURL), nil
	}
	return "", fmt.Errorf("unknown queue %q", queue)
}
