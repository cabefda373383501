package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/eventpage/internal/model"
)

// ScheduleRepo manages the timeline entries of an event.
type ScheduleRepo struct{ db *sql.DB }

func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

// ListByEvent returns the timeline ordered by order_index, then time.
func (r *ScheduleRepo) ListByEvent(ctx context.Context, eventID string) ([]*model.ScheduleItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, event_id, time_label, title, title_en, description, description_en,
		location, order_index, created_at
		FROM schedule_items WHERE event_id=? ORDER BY order_index, time_label, created_at`, eventID)
	if err != nil {
		return nil, translate("schedule.list", err)
	}
	defer rows.Close()

	out := []*model.ScheduleItem{}
	for rows.Next() {
		var (
			s          model.ScheduleItem
			desc, deEN sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.EventID, &s.Time, &s.Title, &s.TitleEN, &desc, &deEN,
			&s.Location, &s.OrderIndex, &s.CreatedAt); err != nil {
			return nil, translate("schedule.list", err)
		}
		s.Description, s.DescriptionEN = desc.String, deEN.String
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("schedule.list", err)
	}
	return out, nil
}

// Create inserts s and assigns its id.
func (r *ScheduleRepo) Create(ctx context.Context, s *model.ScheduleItem) error {
	s.ID = uuid.NewString()
	s.CreatedAt = time.Now().UTC().Truncate(time.Second)
	_, err := r.db.ExecContext(ctx, `INSERT INTO schedule_items
		(id, event_id, time_label, title, title_en, description, description_en, location, order_index, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		s.ID, s.EventID, s.Time, s.Title, s.TitleEN, nullString(s.Description), nullString(s.DescriptionEN),
		s.Location, s.OrderIndex, s.CreatedAt)
	return translate("schedule.create", err)
}

// Update rewrites an entry of the event.
func (r *ScheduleRepo) Update(ctx context.Context, s *model.ScheduleItem) error {
	res, err := r.db.ExecContext(ctx, `UPDATE schedule_items SET time_label=?, title=?, title_en=?, description=?,
		description_en=?, location=?, order_index=? WHERE id=? AND event_id=?`,
		s.Time, s.Title, s.TitleEN, nullString(s.Description), nullString(s.DescriptionEN),
		s.Location, s.OrderIndex, s.ID, s.EventID)
	return affected("schedule.update", res, err)
}

// Delete removes an entry of the event.
func (r *ScheduleRepo) Delete(ctx context.Context, eventID, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM schedule_items WHERE id=? AND event_id=?", id, eventID)
	return affected("schedule.delete", res, err)
}
