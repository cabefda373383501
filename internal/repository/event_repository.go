package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/eventpage/internal/apperr"
	"github.com/iliyamo/eventpage/internal/model"
	"github.com/iliyamo/eventpage/internal/utils"
)

// accessCodeAttempts bounds how often a colliding access code is redrawn.
const accessCodeAttempts = 5

const eventColumns = `id, client_id, title, event_type, status, event_date, location, access_code,
	template, primary_color, secondary_color, background_color,
	hero_image_url, background_image_url, welcome_message, welcome_message_en,
	module_photo_gallery, module_photo_gallery_visible,
	module_schedule, module_schedule_visible,
	module_menu, module_menu_visible,
	module_survey, module_survey_visible,
	module_bingo, module_bingo_visible,
	module_photo_overlay, module_photo_overlay_visible,
	module_vendors, module_vendors_visible,
	created_at, updated_at`

// EventRepo manages the events table. It also serves the access gate's
// EventLookup.
type EventRepo struct {
	db *sql.DB
}

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

func scanEvent(row interface{ Scan(...any) error }) (*model.Event, error) {
	var (
		e                            model.Event
		date                         sql.NullTime
		hero, bg, welcome, welcomeEN sql.NullString
		m                            = &e.Modules
	)
	err := row.Scan(
		&e.ID, &e.ClientID, &e.Title, &e.EventType, &e.Status, &date, &e.Location, &e.AccessCode,
		&e.Customization.Template, &e.Customization.PrimaryColor, &e.Customization.SecondaryColor, &e.Customization.BackgroundColor,
		&hero, &bg, &welcome, &welcomeEN,
		&m.PhotoGallery.Purchased, &m.PhotoGallery.Visible,
		&m.Schedule.Purchased, &m.Schedule.Visible,
		&m.Menu.Purchased, &m.Menu.Visible,
		&m.Survey.Purchased, &m.Survey.Visible,
		&m.Bingo.Purchased, &m.Bingo.Visible,
		&m.PhotoOverlay.Purchased, &m.PhotoOverlay.Visible,
		&m.Vendors.Purchased, &m.Vendors.Visible,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if date.Valid {
		t := date.Time
		e.EventDate = &t
	}
	e.Customization.HeroImageURL = hero.String
	e.Customization.BackgroundImageURL = bg.String
	e.Customization.WelcomeMessage = welcome.String
	e.Customization.WelcomeMessageEN = welcomeEN.String
	return &e, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// moduleArgs flattens the flag pairs in column order.
func moduleArgs(m model.ModuleFlags) []any {
	return []any{
		m.PhotoGallery.Purchased, m.PhotoGallery.Visible,
		m.Schedule.Purchased, m.Schedule.Visible,
		m.Menu.Purchased, m.Menu.Visible,
		m.Survey.Purchased, m.Survey.Visible,
		m.Bingo.Purchased, m.Bingo.Visible,
		m.PhotoOverlay.Purchased, m.PhotoOverlay.Visible,
		m.Vendors.Purchased, m.Vendors.Visible,
	}
}

// EventAccess returns the id, owner and status of an event.
func (r *EventRepo) EventAccess(ctx context.Context, eventID string) (model.EventAccess, error) {
	var a model.EventAccess
	err := r.db.QueryRowContext(ctx,
		"SELECT id, client_id, status FROM events WHERE id=? LIMIT 1", eventID).
		Scan(&a.ID, &a.ClientID, &a.Status)
	if err != nil {
		return model.EventAccess{}, translate("event.access", err)
	}
	return a, nil
}

// GetByID loads a full event.
func (r *EventRepo) GetByID(ctx context.Context, id string) (*model.Event, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx, "SELECT "+eventColumns+" FROM events WHERE id=?", id))
	if err != nil {
		return nil, translate("event.get", err)
	}
	return e, nil
}

// GetByAccessCode loads the event a guest access code points at.
func (r *EventRepo) GetByAccessCode(ctx context.Context, code string) (*model.Event, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE access_code=?", utils.NormalizeAccessCode(code)))
	if err != nil {
		return nil, translate("event.get_by_code", err)
	}
	return e, nil
}

func (r *EventRepo) list(ctx context.Context, op, where string, args ...any) ([]*model.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+eventColumns+" FROM events"+where+" ORDER BY event_date IS NULL, event_date, created_at", args...)
	if err != nil {
		return nil, translate(op, err)
	}
	defer rows.Close()

	out := []*model.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, translate(op, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(op, err)
	}
	return out, nil
}

// ListAll returns every event; admin screens only.
func (r *EventRepo) ListAll(ctx context.Context) ([]*model.Event, error) {
	return r.list(ctx, "event.list_all", "")
}

// ListByClient returns the events owned by clientID.
func (r *EventRepo) ListByClient(ctx context.Context, clientID string) ([]*model.Event, error) {
	return r.list(ctx, "event.list_by_client", " WHERE client_id=?", clientID)
}

// CreateTx inserts e inside the caller's transaction. A colliding access
// code is redrawn a few times before giving up with apperr.ErrConflict.
func (r *EventRepo) CreateTx(ctx context.Context, tx *sql.Tx, e *model.Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.EventType == "" {
		e.EventType = model.TypeWedding
	}
	if e.Status == "" {
		e.Status = model.StatusDraft
	}
	if e.Customization.Template == "" {
		e.Customization.Template = model.TemplateClassic
	}
	now := time.Now().UTC().Truncate(time.Second)
	e.CreatedAt, e.UpdatedAt = now, now

	q := `INSERT INTO events (id, client_id, title, event_type, status, event_date, location, access_code,
		template, primary_color, secondary_color, background_color,
		hero_image_url, background_image_url, welcome_message, welcome_message_en,
		module_photo_gallery, module_photo_gallery_visible,
		module_schedule, module_schedule_visible,
		module_menu, module_menu_visible,
		module_survey, module_survey_visible,
		module_bingo, module_bingo_visible,
		module_photo_overlay, module_photo_overlay_visible,
		module_vendors, module_vendors_visible,
		created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?, ?,?,?,?, ?,?,?,?, ?,?,?,?,?,?,?,?,?,?,?,?,?,?, ?,?)`

	for attempt := 0; attempt < accessCodeAttempts; attempt++ {
		code, err := utils.NewAccessCode()
		if err != nil {
			return err
		}
		c := e.Customization
		args := []any{e.ID, e.ClientID, e.Title, e.EventType, e.Status, nullTime(e.EventDate), e.Location, code,
			c.Template, c.PrimaryColor, c.SecondaryColor, c.BackgroundColor,
			nullString(c.HeroImageURL), nullString(c.BackgroundImageURL), nullString(c.WelcomeMessage), nullString(c.WelcomeMessageEN)}
		args = append(args, moduleArgs(e.Modules)...)
		args = append(args, e.CreatedAt, e.UpdatedAt)

		_, err = tx.ExecContext(ctx, q, args...)
		if err == nil {
			e.AccessCode = code
			return nil
		}
		if !isDuplicate(err) {
			return apperr.Store("event.create", err)
		}
	}
	return apperr.ErrConflict
}

// CreateWithClient provisions a client account and its first event in one
// transaction.
func (r *EventRepo) CreateWithClient(ctx context.Context, users *UserRepo, email, password, displayName string, cost int, e *model.Event) (*model.User, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperr.Store("event.provision", err)
	}
	committed := false
	defer rollback(tx, &committed)

	u, err := users.CreateTx(ctx, tx, email, password, model.RoleClient, displayName, cost)
	if err != nil {
		return nil, err
	}
	e.ClientID = u.ID
	if err := r.CreateTx(ctx, tx, e); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, apperr.Store("event.provision", err)
	}
	committed = true
	return u, nil
}

// UpdateCustomization stores the client-editable look of the page.
func (r *EventRepo) UpdateCustomization(ctx context.Context, id string, c model.Customization) error {
	res, err := r.db.ExecContext(ctx, `UPDATE events SET template=?, primary_color=?, secondary_color=?, background_color=?,
		hero_image_url=?, background_image_url=?, welcome_message=?, welcome_message_en=?, updated_at=CURRENT_TIMESTAMP
		WHERE id=?`,
		c.Template, c.PrimaryColor, c.SecondaryColor, c.BackgroundColor,
		nullString(c.HeroImageURL), nullString(c.BackgroundImageURL), nullString(c.WelcomeMessage), nullString(c.WelcomeMessageEN),
		id)
	return affected("event.update_customization", res, err)
}

// UpdateModules writes every flag pair. Clients reach it only through the
// visibility screen, which keeps the purchased halves unchanged.
func (r *EventRepo) UpdateModules(ctx context.Context, id string, m model.ModuleFlags) error {
	args := append(moduleArgs(m), id)
	res, err := r.db.ExecContext(ctx, `UPDATE events SET
		module_photo_gallery=?, module_photo_gallery_visible=?,
		module_schedule=?, module_schedule_visible=?,
		module_menu=?, module_menu_visible=?,
		module_survey=?, module_survey_visible=?,
		module_bingo=?, module_bingo_visible=?,
		module_photo_overlay=?, module_photo_overlay_visible=?,
		module_vendors=?, module_vendors_visible=?,
		updated_at=CURRENT_TIMESTAMP
		WHERE id=?`, args...)
	return affected("event.update_modules", res, err)
}

// UpdateDetails writes title, type, status, date and location.
func (r *EventRepo) UpdateDetails(ctx context.Context, e *model.Event) error {
	res, err := r.db.ExecContext(ctx, `UPDATE events SET title=?, event_type=?, status=?, event_date=?, location=?,
		updated_at=CURRENT_TIMESTAMP WHERE id=?`,
		e.Title, e.EventType, e.Status, nullTime(e.EventDate), e.Location, e.ID)
	return affected("event.update_details", res, err)
}

// Delete removes an event; child records go with it through ON DELETE
// CASCADE.
func (r *EventRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM events WHERE id=?", id)
	return affected("event.delete", res, err)
}

// Provisioner creates events together with their client account.
type Provisioner struct {
	Events *EventRepo
	Users  *UserRepo
	Cost   int
}

func (p Provisioner) Provision(ctx context.Context, email, password, displayName string, e *model.Event) (*model.User, error) {
	return p.Events.CreateWithClient(ctx, p.Users, email, password, displayName, p.Cost, e)
}
