package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/eventpage/internal/apperr"
	"github.com/iliyamo/eventpage/internal/model"
	"github.com/iliyamo/eventpage/internal/utils"
)

const userColumns = "id, email, password_hash, role, display_name, is_active, created_at, updated_at"

type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.DisplayName, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// Create hashes password and inserts a user. apperr.ErrConflict means the
// email is taken.
func (r *UserRepo) Create(ctx context.Context, email, password string, role model.Role, displayName string, cost int) (*model.User, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperr.Store("user.create", err)
	}
	committed := false
	defer rollback(tx, &committed)

	u, err := r.CreateTx(ctx, tx, email, password, role, displayName, cost)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, apperr.Store("user.create", err)
	}
	committed = true
	return u, nil
}

// CreateTx is Create inside the caller's transaction.
func (r *UserRepo) CreateTx(ctx context.Context, tx *sql.Tx, email, password string, role model.Role, displayName string, cost int) (*model.User, error) {
	if !role.Valid() {
		return nil, apperr.Invalid("unknown role %q", role)
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		ID:           uuid.NewString(),
		Email:        normalizeEmail(email),
		PasswordHash: hash,
		Role:         role,
		DisplayName:  strings.TrimSpace(displayName),
		IsActive:     true,
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash, role, display_name) VALUES (?,?,?,?,?)",
		u.ID, u.Email, u.PasswordHash, u.Role, u.DisplayName)
	if err != nil {
		return nil, translate("user.create", err)
	}
	return u, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", normalizeEmail(email))
	u, err := scanUser(row)
	if err != nil {
		return nil, translate("user.get_by_email", err)
	}
	return u, nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
	u, err := scanUser(row)
	if err != nil {
		return nil, translate("user.get_by_id", err)
	}
	return u, nil
}

// RoleOf returns the profile role of an active user.
func (r *UserRepo) RoleOf(ctx context.Context, userID string) (model.Role, error) {
	var (
		role   model.Role
		active bool
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT role, is_active FROM users WHERE id=? LIMIT 1", userID).Scan(&role, &active)
	if err != nil {
		return "", translate("user.role_of", err)
	}
	if !active {
		return "", apperr.ErrNotFound
	}
	return role, nil
}

// EnsureSuperAdmin creates the bootstrap super admin unless the email is
// already registered. It reports whether a user was created.
func (r *UserRepo) EnsureSuperAdmin(ctx context.Context, email, password string, cost int) (bool, error) {
	if _, err := r.GetByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return false, err
	}
	_, err := r.Create(ctx, email, password, model.RoleSuperAdmin, "Administrator", cost)
	if errors.Is(err, apperr.ErrConflict) {
		return false, nil
	}
	return err == nil, err
}
