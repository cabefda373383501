package bingo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/eventpage/internal/apperr"
	"github.com/iliyamo/eventpage/internal/model"
	"github.com/iliyamo/eventpage/internal/modules"
)

// Store is the persistence the engine needs. Progress returns
// apperr.ErrNotFound when the guest has none yet. CreateProgress returns
// apperr.ErrConflict when the pair already exists. SaveProgress writes only
// if the stored version still equals p.Version, bumps p.Version on success
// and returns apperr.ErrConflict otherwise.
type Store interface {
	CardByID(ctx context.Context, cardID string) (*model.BingoCard, error)
	Progress(ctx context.Context, cardID, guestID string) (*model.BingoProgress, error)
	CreateProgress(ctx context.Context, p *model.BingoProgress) error
	SaveProgress(ctx context.Context, p *model.BingoProgress) error
}

// Options configures an Engine.
type Options struct {
	// CenterFree treats the free space as marked when checking for a win.
	CenterFree bool
	// MaxAttempts bounds the read-modify-write retries of Toggle.
	MaxAttempts int
	// Now is used for timestamps; defaults to time.Now.
	Now func() time.Time
}

// Engine applies guest actions to bingo progress.
type Engine struct {
	store       Store
	centerFree  bool
	maxAttempts int
	now         func() time.Time
}

// NewEngine returns an engine over store.
func NewEngine(store Store, opts Options) *Engine {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{store: store, centerFree: opts.CenterFree, maxAttempts: opts.MaxAttempts, now: opts.Now}
}

// CenterFree reports which win interpretation the engine applies.
func (e *Engine) CenterFree() bool { return e.centerFree }

// Cell is one square of a rendered board.
type Cell struct {
	Index  int    `json:"index"`
	Text   string `json:"text"`
	Blank  bool   `json:"blank,omitempty"`
	Free   bool   `json:"free,omitempty"`
	Marked bool   `json:"marked"`
}

// Board is a card rendered for one guest.
type Board struct {
	CardID    string   `json:"card_id"`
	GuestID   string   `json:"guest_id"`
	Cells     []Cell   `json:"cells"`
	Actions   []string `json:"actions,omitempty"`
	Completed []int    `json:"completed_items"`
	IsWinner  bool     `json:"is_winner"`
}

// Result is the outcome of a toggle.
type Result struct {
	Index     int   `json:"index"`
	Marked    bool  `json:"marked"`
	Completed []int `json:"completed_items"`
	IsWinner  bool  `json:"is_winner"`
	// JustWon is true only on the toggle that completed the first line.
	JustWon bool `json:"just_won"`
}

func (e *Engine) playableCard(ctx context.Context, cardID string) (*model.BingoCard, error) {
	card, err := e.store.CardByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if len(card.Items) < MinItems {
		return nil, apperr.Invalid("card has %d items, at least %d required", len(card.Items), MinItems)
	}
	return card, nil
}

// Open returns the guest's board, creating an empty progress record on the
// first visit.
func (e *Engine) Open(ctx context.Context, cardID, guestID string, lang modules.Lang) (*Board, error) {
	card, err := e.playableCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	p, err := e.ensureProgress(ctx, cardID, guestID)
	if err != nil {
		return nil, err
	}
	return Render(card, p, lang), nil
}

func (e *Engine) ensureProgress(ctx context.Context, cardID, guestID string) (*model.BingoProgress, error) {
	p, err := e.store.Progress(ctx, cardID, guestID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	now := e.now().UTC()
	p = &model.BingoProgress{
		ID:             uuid.NewString(),
		BingoCardID:    cardID,
		GuestID:        guestID,
		CompletedItems: []int{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := e.store.CreateProgress(ctx, p); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			// another request created it first
			return e.store.Progress(ctx, cardID, guestID)
		}
		return nil, err
	}
	return p, nil
}

// Toggle flips cell index for the guest and persists the new state.
func (e *Engine) Toggle(ctx context.Context, cardID, guestID string, index int) (*Result, error) {
	if index < 0 || index >= Cells {
		return nil, apperr.Invalid("index %d is outside the board", index)
	}
	if index == FreeSpace {
		return nil, apperr.Invalid("index %d is the free space", index)
	}
	if _, err := e.playableCard(ctx, cardID); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		p, err := e.store.Progress(ctx, cardID, guestID)
		if err != nil {
			return nil, err
		}
		prior := p.IsWinner
		completed := Toggle(Normalize(p.CompletedItems), index)
		won := CheckWin(completed, e.centerFree)

		p.CompletedItems = completed
		p.IsWinner = prior || won
		p.UpdatedAt = e.now().UTC()

		err = e.store.SaveProgress(ctx, p)
		if errors.Is(err, apperr.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &Result{
			Index:     index,
			Marked:    Contains(completed, index),
			Completed: completed,
			IsWinner:  p.IsWinner,
			JustWon:   won && !prior,
		}, nil
	}
	return nil, fmt.Errorf("toggle cell %d: %w", index, apperr.ErrConflict)
}

// Render lays out card for the guest in lang. Missing items become blank
// cells that can still be marked; items past the board are dropped.
func Render(card *model.BingoCard, p *model.BingoProgress, lang modules.Lang) *Board {
	completed := Normalize(p.CompletedItems)
	cells := make([]Cell, Cells)
	for i := 0; i < Cells; i++ {
		c := Cell{Index: i, Free: i == FreeSpace, Marked: Contains(completed, i)}
		c.Text = pick(card.Items, card.ItemsEN, i, lang)
		c.Blank = i >= len(card.Items)
		cells[i] = c
	}
	actions := card.Actions
	if lang == modules.LangEN && len(card.ActionsEN) > 0 {
		actions = card.ActionsEN
	}
	return &Board{
		CardID:    card.ID,
		GuestID:   p.GuestID,
		Cells:     cells,
		Actions:   actions,
		Completed: completed,
		IsWinner:  p.IsWinner,
	}
}

func pick(base, en []string, i int, lang modules.Lang) string {
	if lang == modules.LangEN && i < len(en) && en[i] != "" {
		return en[i]
	}
	if i < len(base) {
		return base[i]
	}
	return ""
}
