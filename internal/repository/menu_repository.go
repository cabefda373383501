package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/eventpage/internal/model"
)

// MenuRepo manages the dishes of an event menu.
type MenuRepo struct{ db *sql.DB }

func NewMenuRepo(db *sql.DB) *MenuRepo { return &MenuRepo{db: db} }

func (r *MenuRepo) ListByEvent(ctx context.Context, eventID string) ([]*model.MenuItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, event_id, course, name, name_en, description, description_en,
		dietary, order_index, created_at
		FROM menu_items WHERE event_id=? ORDER BY order_index, created_at`, eventID)
	if err != nil {
		return nil, translate("menu.list", err)
	}
	defer rows.Close()

	out := []*model.MenuItem{}
	for rows.Next() {
		var (
			m          model.MenuItem
			desc, deEN sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.EventID, &m.Course, &m.Name, &m.NameEN, &desc, &deEN,
			&m.Dietary, &m.OrderIndex, &m.CreatedAt); err != nil {
			return nil, translate("menu.list", err)
		}
		m.Description, m.DescriptionEN = desc.String, deEN.String
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("menu.list", err)
	}
	return out, nil
}

func (r *MenuRepo) Create(ctx context.Context, m *model.MenuItem) error {
	m.ID = uuid.NewString()
	m.CreatedAt = time.Now().UTC().Truncate(time.Second)
	_, err := r.db.ExecContext(ctx, `INSERT INTO menu_items
		(id, event_id, course, name, name_en, description, description_en, dietary, order_index, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		m.ID, m.EventID, m.Course, m.Name, m.NameEN, nullString(m.Description), nullString(m.DescriptionEN),
		m.Dietary, m.OrderIndex, m.CreatedAt)
	return translate("menu.create", err)
}

func (r *MenuRepo) Update(ctx context.Context, m *model.MenuItem) error {
	res, err := r.db.ExecContext(ctx, `UPDATE menu_items SET course=?, name=?, name_en=?, description=?,
		description_en=?, dietary=?, order_index=? WHERE id=? AND event_id=?`,
		m.Course, m.Name, m.NameEN, nullString(m.Description), nullString(m.DescriptionEN),
		m.Dietary, m.OrderIndex, m.ID, m.EventID)
	return affected("menu.update", res, err)
}

func (r *MenuRepo) Delete(ctx context.Context, eventID, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM menu_items WHERE id=? AND event_id=?", id, eventID)
	return affected("menu.delete", res, err)
}
