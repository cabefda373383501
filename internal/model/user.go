package model

import "time"

// Role is the profile role of a user.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleClient     Role = "client"
	RoleGuest      Role = "guest"
)

func (r Role) Valid() bool {
	return r == RoleSuperAdmin || r == RoleClient || r == RoleGuest
}

// User is a row of the `users` table and carries the profile role. The role
// is fixed when the account is created.
//
// Fields:
//	ID           uuid primary key.
//	Email        unique, lower-cased address.
//	PasswordHash bcrypt hash.
//	Role         super_admin, client or guest.
//	DisplayName  name shown in the admin screens.
//	IsActive     inactive accounts cannot log in.
type User struct {
	ID           string    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         Role      // users.role
	DisplayName  string    // users.display_name
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table. Only the
// SHA-256 of the raw token is stored.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    string     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
