package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/eventpage/internal/model"
)

// PhotoRepo stores metadata of guest uploads.
type PhotoRepo struct{ db *sql.DB }

func NewPhotoRepo(db *sql.DB) *PhotoRepo { return &PhotoRepo{db: db} }

// ListByEvent returns up to limit photos, newest first. limit <= 0 means all.
func (r *PhotoRepo) ListByEvent(ctx context.Context, eventID string, limit int) ([]*model.Photo, error) {
	q := `SELECT id, event_id, guest_id, guest_name, storage_url, caption, overlay, created_at
		FROM photos WHERE event_id=? ORDER BY created_at DESC`
	args := []any{eventID}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, translate("photo.list", err)
	}
	defer rows.Close()

	out := []*model.Photo{}
	for rows.Next() {
		var p model.Photo
		if err := rows.Scan(&p.ID, &p.EventID, &p.GuestID, &p.GuestName, &p.StorageURL, &p.Caption, &p.Overlay, &p.CreatedAt); err != nil {
			return nil, translate("photo.list", err)
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("photo.list", err)
	}
	return out, nil
}

func (r *PhotoRepo) Create(ctx context.Context, p *model.Photo) error {
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now().UTC().Truncate(time.Second)
	_, err := r.db.ExecContext(ctx, `INSERT INTO photos
		(id, event_id, guest_id, guest_name, storage_url, caption, overlay, created_at) VALUES (?,?,?,?,?,?,?,?)`,
		p.ID, p.EventID, p.GuestID, p.GuestName, p.StorageURL, p.Caption, p.Overlay, p.CreatedAt)
	return translate("photo.create", err)
}

func (r *PhotoRepo) Delete(ctx context.Context, eventID, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM photos WHERE id=? AND event_id=?", id, eventID)
	return affected("photo.delete", res, err)
}
