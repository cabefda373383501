package model

import "time"

// BingoCard is the configured board of an event. Items are rendered
// row-major into a 5x5 grid; actions are free-text challenges shown next to
// the board and play no part in win detection.
type BingoCard struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Items     []string  `json:"items"`
	ItemsEN   []string  `json:"items_en,omitempty"`
	Actions   []string  `json:"actions,omitempty"`
	ActionsEN []string  `json:"actions_en,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BingoProgress is one guest's marked cells against a card. IsWinner only
// ever moves from false to true. Version guards read-modify-write cycles.
type BingoProgress struct {
	ID             string    `json:"id"`
	BingoCardID    string    `json:"bingo_card_id"`
	GuestID        string    `json:"guest_id"`
	CompletedItems []int     `json:"completed_items"`
	IsWinner       bool      `json:"is_winner"`
	Version        uint32    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
