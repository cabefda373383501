package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/eventpage/internal/apperr"
	"github.com/iliyamo/eventpage/internal/model"
)

// BingoRepo stores cards and per-guest progress. It implements bingo.Store.
type BingoRepo struct {
	db *sql.DB
}

func NewBingoRepo(db *sql.DB) *BingoRepo { return &BingoRepo{db: db} }

const cardColumns = "id, event_id, items, items_en, actions, actions_en, created_at, updated_at"

func scanCard(row interface{ Scan(...any) error }) (*model.BingoCard, error) {
	var (
		c                               model.BingoCard
		items, itemsEN, actions, actsEN []byte
	)
	if err := row.Scan(&c.ID, &c.EventID, &items, &itemsEN, &actions, &actsEN, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if c.Items, err = decodeStrings(items); err != nil {
		return nil, err
	}
	if c.ItemsEN, err = decodeStrings(itemsEN); err != nil {
		return nil, err
	}
	if c.Actions, err = decodeStrings(actions); err != nil {
		return nil, err
	}
	if c.ActionsEN, err = decodeStrings(actsEN); err != nil {
		return nil, err
	}
	return &c, nil
}

// CardByID loads a card.
func (r *BingoRepo) CardByID(ctx context.Context, cardID string) (*model.BingoCard, error) {
	c, err := scanCard(r.db.QueryRowContext(ctx, "SELECT "+cardColumns+" FROM bingo_cards WHERE id=?", cardID))
	if err != nil {
		return nil, translate("bingo.card", err)
	}
	return c, nil
}

// CardByEvent loads the card configured for an event.
func (r *BingoRepo) CardByEvent(ctx context.Context, eventID string) (*model.BingoCard, error) {
	c, err := scanCard(r.db.QueryRowContext(ctx, "SELECT "+cardColumns+" FROM bingo_cards WHERE event_id=?", eventID))
	if err != nil {
		return nil, translate("bingo.card_by_event", err)
	}
	return c, nil
}

// UpsertCard creates or replaces the event's card. An existing card keeps
// its id so guest progress stays attached.
func (r *BingoRepo) UpsertCard(ctx context.Context, c *model.BingoCard) error {
	items, err := jsonStrings(c.Items)
	if err != nil {
		return err
	}
	itemsEN, err := jsonStrings(c.ItemsEN)
	if err != nil {
		return err
	}
	actions, err := jsonStrings(c.Actions)
	if err != nil {
		return err
	}
	actionsEN, err := jsonStrings(c.ActionsEN)
	if err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO bingo_cards (id, event_id, items, items_en, actions, actions_en)
		VALUES (?,?,?,?,?,?)
		ON DUPLICATE KEY UPDATE items=VALUES(items), items_en=VALUES(items_en),
			actions=VALUES(actions), actions_en=VALUES(actions_en), updated_at=CURRENT_TIMESTAMP`,
		c.ID, c.EventID, items, itemsEN, actions, actionsEN)
	if err != nil {
		return translate("bingo.upsert_card", err)
	}
	stored, err := r.CardByEvent(ctx, c.EventID)
	if err != nil {
		return err
	}
	*c = *stored
	return nil
}

const progressColumns = "id, bingo_card_id, guest_id, completed_items, is_winner, version, created_at, updated_at"

func scanProgress(row interface{ Scan(...any) error }) (*model.BingoProgress, error) {
	var (
		p   model.BingoProgress
		raw []byte
	)
	if err := row.Scan(&p.ID, &p.BingoCardID, &p.GuestID, &raw, &p.IsWinner, &p.Version, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.CompletedItems = []int{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &p.CompletedItems); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

// Progress loads one guest's progress on a card.
func (r *BingoRepo) Progress(ctx context.Context, cardID, guestID string) (*model.BingoProgress, error) {
	p, err := scanProgress(r.db.QueryRowContext(ctx,
		"SELECT "+progressColumns+" FROM bingo_progress WHERE bingo_card_id=? AND guest_id=?", cardID, guestID))
	if err != nil {
		return nil, translate("bingo.progress", err)
	}
	return p, nil
}

func encodeCompleted(items []int) ([]byte, error) {
	if items == nil {
		items = []int{}
	}
	return json.Marshal(items)
}

// CreateProgress inserts a new progress record. The (card, guest) pair is
// unique; a second insert reports apperr.ErrConflict.
func (r *BingoRepo) CreateProgress(ctx context.Context, p *model.BingoProgress) error {
	raw, err := encodeCompleted(p.CompletedItems)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO bingo_progress
		(id, bingo_card_id, guest_id, completed_items, is_winner, version, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?)`,
		p.ID, p.BingoCardID, p.GuestID, raw, p.IsWinner, p.Version, p.CreatedAt, p.UpdatedAt)
	return translate("bingo.create_progress", err)
}

// SaveProgress writes p if nobody else saved since it was read. On success
// p.Version is bumped; a stale version reports apperr.ErrConflict.
func (r *BingoRepo) SaveProgress(ctx context.Context, p *model.BingoProgress) error {
	raw, err := encodeCompleted(p.CompletedItems)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `UPDATE bingo_progress
		SET completed_items=?, is_winner=?, version=version+1, updated_at=?,
			won_at=CASE WHEN ? AND won_at IS NULL THEN ? ELSE won_at END
		WHERE id=? AND version=?`,
		raw, p.IsWinner, p.UpdatedAt, p.IsWinner, p.UpdatedAt, p.ID, p.Version)
	if err != nil {
		return translate("bingo.save_progress", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Store("bingo.save_progress", err)
	}
	if n == 0 {
		return apperr.ErrConflict
	}
	p.Version++
	return nil
}

// Winner is one guest who completed a line.
type Winner struct {
	GuestID     string    `json:"guest_id"`
	WonAt       time.Time `json:"won_at"`
	MarkedCells int       `json:"marked_cells"`
}

// ListWinners returns the winners of a card, earliest first.
func (r *BingoRepo) ListWinners(ctx context.Context, cardID string) ([]Winner, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT guest_id, completed_items, COALESCE(won_at, updated_at)
		FROM bingo_progress WHERE bingo_card_id=? AND is_winner=1 ORDER BY won_at`, cardID)
	if err != nil {
		return nil, translate("bingo.winners", err)
	}
	defer rows.Close()

	out := []Winner{}
	for rows.Next() {
		var (
			w   Winner
			raw []byte
		)
		if err := rows.Scan(&w.GuestID, &raw, &w.WonAt); err != nil {
			return nil, translate("bingo.winners", err)
		}
		var items []int
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &items); err != nil {
				return nil, apperr.Store("bingo.winners", err)
			}
		}
		w.MarkedCells = len(items)
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("bingo.winners", err)
	}
	return out, nil
}
