package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/eventpage/internal/apperr"
	"github.com/iliyamo/eventpage/internal/model"
)

// PlanningRepo holds the client-only wedding planning records: budget,
// expenses and checklist.
type PlanningRepo struct{ db *sql.DB }

func NewPlanningRepo(db *sql.DB) *PlanningRepo { return &PlanningRepo{db: db} }

// Budget returns the event's budget. An event without one gets a zero
// budget in EUR.
func (r *PlanningRepo) Budget(ctx context.Context, eventID string) (model.WeddingBudget, error) {
	b := model.WeddingBudget{EventID: eventID}
	var notes sql.NullString
	err := r.db.QueryRowContext(ctx,
		"SELECT total_cents, currency, notes, updated_at FROM wedding_budgets WHERE event_id=?", eventID).
		Scan(&b.TotalCents, &b.Currency, &notes, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		b.Currency = "EUR"
		return b, nil
	}
	if err != nil {
		return b, apperr.Store("planning.budget", err)
	}
	b.Notes = notes.String
	return b, nil
}

// PutBudget creates or replaces the event's budget.
func (r *PlanningRepo) PutBudget(ctx context.Context, b *model.WeddingBudget) error {
	if b.Currency == "" {
		b.Currency = "EUR"
	}
	b.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	_, err := r.db.ExecContext(ctx, `INSERT INTO wedding_budgets (event_id, total_cents, currency, notes, updated_at)
		VALUES (?,?,?,?,?)
		ON DUPLICATE KEY UPDATE total_cents=VALUES(total_cents), currency=VALUES(currency),
			notes=VALUES(notes), updated_at=VALUES(updated_at)`,
		b.EventID, b.TotalCents, b.Currency, nullString(b.Notes), b.UpdatedAt)
	return translate("planning.put_budget", err)
}

func (r *PlanningRepo) Expenses(ctx context.Context, eventID string) ([]*model.WeddingExpense, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, event_id, category, description, amount_cents, paid, vendor_id,
		order_index, created_at
		FROM wedding_expenses WHERE event_id=? ORDER BY order_index, created_at`, eventID)
	if err != nil {
		return nil, translate("planning.expenses", err)
	}
	defer rows.Close()

	out := []*model.WeddingExpense{}
	for rows.Next() {
		var (
			e        model.WeddingExpense
			vendorID sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.EventID, &e.Category, &e.Description, &e.AmountCents, &e.Paid, &vendorID,
			&e.OrderIndex, &e.CreatedAt); err != nil {
			return nil, translate("planning.expenses", err)
		}
		if vendorID.Valid {
			v := vendorID.String
			e.VendorID = &v
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("planning.expenses", err)
	}
	return out, nil
}

func vendorArg(id *string) sql.NullString {
	if id == nil {
		return sql.NullString{}
	}
	return nullString(*id)
}

func (r *PlanningRepo) CreateExpense(ctx context.Context, e *model.WeddingExpense) error {
	e.ID = uuid.NewString()
	e.CreatedAt = time.Now().UTC().Truncate(time.Second)
	_, err := r.db.ExecContext(ctx, `INSERT INTO wedding_expenses
		(id, event_id, category, description, amount_cents, paid, vendor_id, order_index, created_at)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		e.ID, e.EventID, e.Category, e.Description, e.AmountCents, e.Paid, vendorArg(e.VendorID), e.OrderIndex, e.CreatedAt)
	return translate("planning.create_expense", err)
}

func (r *PlanningRepo) UpdateExpense(ctx context.Context, e *model.WeddingExpense) error {
	res, err := r.db.ExecContext(ctx, `UPDATE wedding_expenses SET category=?, description=?, amount_cents=?, paid=?,
		vendor_id=?, order_index=? WHERE id=? AND event_id=?`,
		e.Category, e.Description, e.AmountCents, e.Paid, vendorArg(e.VendorID), e.OrderIndex, e.ID, e.EventID)
	return affected("planning.update_expense", res, err)
}

func (r *PlanningRepo) DeleteExpense(ctx context.Context, eventID, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM wedding_expenses WHERE id=? AND event_id=?", id, eventID)
	return affected("planning.delete_expense", res, err)
}

// Summary totals the event's expenses against its budget.
func (r *PlanningRepo) Summary(ctx context.Context, eventID string) (model.BudgetSummary, error) {
	b, err := r.Budget(ctx, eventID)
	if err != nil {
		return model.BudgetSummary{}, err
	}
	expenses, err := r.Expenses(ctx, eventID)
	if err != nil {
		return model.BudgetSummary{}, err
	}
	return model.Summarize(b, expenses), nil
}

func (r *PlanningRepo) Checklist(ctx context.Context, eventID string) ([]*model.WeddingChecklistItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, event_id, title, due_date, done, order_index, created_at
		FROM wedding_checklist_items WHERE event_id=? ORDER BY done, order_index, due_date`, eventID)
	if err != nil {
		return nil, translate("planning.checklist", err)
	}
	defer rows.Close()

	out := []*model.WeddingChecklistItem{}
	for rows.Next() {
		var (
			c   model.WeddingChecklistItem
			due sql.NullTime
		)
		if err := rows.Scan(&c.ID, &c.EventID, &c.Title, &due, &c.Done, &c.OrderIndex, &c.CreatedAt); err != nil {
			return nil, translate("planning.checklist", err)
		}
		if due.Valid {
			t := due.Time
			c.DueDate = &t
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("planning.checklist", err)
	}
	return out, nil
}

func (r *PlanningRepo) CreateChecklistItem(ctx context.Context, c *model.WeddingChecklistItem) error {
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now().UTC().Truncate(time.Second)
	_, err := r.db.ExecContext(ctx, `INSERT INTO wedding_checklist_items
		(id, event_id, title, due_date, done, order_index, created_at) VALUES (?,?,?,?,?,?,?)`,
		c.ID, c.EventID, c.Title, nullTime(c.DueDate), c.Done, c.OrderIndex, c.CreatedAt)
	return translate("planning.create_checklist", err)
}

func (r *PlanningRepo) UpdateChecklistItem(ctx context.Context, c *model.WeddingChecklistItem) error {
	res, err := r.db.ExecContext(ctx, `UPDATE wedding_checklist_items SET title=?, due_date=?, done=?, order_index=?
		WHERE id=? AND event_id=?`,
		c.Title, nullTime(c.DueDate), c.Done, c.OrderIndex, c.ID, c.EventID)
	return affected("planning.update_checklist", res, err)
}

func (r *PlanningRepo) DeleteChecklistItem(ctx context.Context, eventID, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM wedding_checklist_items WHERE id=? AND event_id=?", id, eventID)
	return affected("planning.delete_checklist", res, err)
}
