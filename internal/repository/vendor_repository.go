package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/eventpage/internal/model"
)

// VendorRepo manages the service partners listed for a wedding.
type VendorRepo struct{ db *sql.DB }

func NewVendorRepo(db *sql.DB) *VendorRepo { return &VendorRepo{db: db} }

func (r *VendorRepo) ListByEvent(ctx context.Context, eventID string) ([]*model.Vendor, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, event_id, name, category, website, phone, email, description,
		order_index, created_at
		FROM vendors WHERE event_id=? ORDER BY order_index, name`, eventID)
	if err != nil {
		return nil, translate("vendor.list", err)
	}
	defer rows.Close()

	out := []*model.Vendor{}
	for rows.Next() {
		var (
			v    model.Vendor
			desc sql.NullString
		)
		if err := rows.Scan(&v.ID, &v.EventID, &v.Name, &v.Category, &v.Website, &v.Phone, &v.Email, &desc,
			&v.OrderIndex, &v.CreatedAt); err != nil {
			return nil, translate("vendor.list", err)
		}
		v.Description = desc.String
		out = append(out, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("vendor.list", err)
	}
	return out, nil
}

func (r *VendorRepo) Create(ctx context.Context, v *model.Vendor) error {
	v.ID = uuid.NewString()
	v.CreatedAt = time.Now().UTC().Truncate(time.Second)
	_, err := r.db.ExecContext(ctx, `INSERT INTO vendors
		(id, event_id, name, category, website, phone, email, description, order_index, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		v.ID, v.EventID, v.Name, v.Category, v.Website, v.Phone, v.Email, nullString(v.Description),
		v.OrderIndex, v.CreatedAt)
	return translate("vendor.create", err)
}

func (r *VendorRepo) Update(ctx context.Context, v *model.Vendor) error {
	res, err := r.db.ExecContext(ctx, `UPDATE vendors SET name=?, category=?, website=?, phone=?, email=?,
		description=?, order_index=? WHERE id=? AND event_id=?`,
		v.Name, v.Category, v.Website, v.Phone, v.Email, nullString(v.Description), v.OrderIndex, v.ID, v.EventID)
	return affected("vendor.update", res, err)
}

func (r *VendorRepo) Delete(ctx context.Context, eventID, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM vendors WHERE id=? AND event_id=?", id, eventID)
	return affected("vendor.delete", res, err)
}
