package model

import "time"

// WeddingBudget is the overall planning budget of an event (one per event).
type WeddingBudget struct {
	EventID    string    `json:"event_id"`
	TotalCents int64     `json:"total_cents"`
	Currency   string    `json:"currency"`
	Notes      string    `json:"notes,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// WeddingExpense is one planned or paid cost.
type WeddingExpense struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	AmountCents int64     `json:"amount_cents"`
	Paid        bool      `json:"paid"`
	VendorID    *string   `json:"vendor_id,omitempty"`
	OrderIndex  int       `json:"order_index"`
	CreatedAt   time.Time `json:"created_at"`
}

// WeddingChecklistItem is one planning task.
type WeddingChecklistItem struct {
	ID         string     `json:"id"`
	EventID    string     `json:"event_id"`
	Title      string     `json:"title"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	Done       bool       `json:"done"`
	OrderIndex int        `json:"order_index"`
	CreatedAt  time.Time  `json:"created_at"`
}

// BudgetSummary aggregates the expenses against the budget.
type BudgetSummary struct {
	Budget         WeddingBudget `json:"budget"`
	PlannedCents   int64         `json:"planned_cents"`
	PaidCents      int64         `json:"paid_cents"`
	RemainingCents int64         `json:"remaining_cents"`
}

// Summarize totals expenses against b.
func Summarize(b WeddingBudget, expenses []*WeddingExpense) BudgetSummary {
	s := BudgetSummary{Budget: b}
	for _, e := range expenses {
		s.PlannedCents += e.AmountCents
		if e.Paid {
			s.PaidCents += e.AmountCents
		}
	}
	s.RemainingCents = b.TotalCents - s.PlannedCents
	return s
}
