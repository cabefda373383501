// Package queue defines the messages exchanged over RabbitMQ and the
// background consumer that records them.
package queue

import "time"

// Queue names. Both are durable; the routing key equals the queue name on
// the default exchange.
const (
	BingoWonQueue         = "bingo.won"
	EventProvisionedQueue = "event.provisioned"
)

// Queues lists every queue the consumer listens on.
var Queues = []string{BingoWonQueue, EventProvisionedQueue}

// BingoWonEvent is published once per guest and card, on the toggle that
// completed the guest's first line.
type BingoWonEvent struct {
	EventID        string    `json:"event_id"`
	EventTitle     string    `json:"event_title"`
	CardID         string    `json:"card_id"`
	GuestID        string    `json:"guest_id"`
	CompletedItems []int     `json:"completed_items"`
	WonAt          time.Time `json:"won_at"`
}

// EventProvisionedEvent is published when a super admin creates an event
// together with its client account.
type EventProvisionedEvent struct {
	EventID       string    `json:"event_id"`
	Title         string    `json:"title"`
	EventType     string    `json:"event_type"`
	ClientID      string    `json:"client_id"`
	ClientEmail   string    `json:"client_email"`
	AccessCode    string    `json:"access_code"`
	GuestURL      string    `json:"guest_url"`
	ProvisionedAt time.Time `json:"provisioned_at"`
}
