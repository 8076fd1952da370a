package model

import (
	"database/sql"
	"time"
)

// Role names accepted by the users.role column.  The default for new
// registrations is RoleUser.  RoleArtist marks accounts that publish
// content and RoleAdmin unlocks administrative responses.
const (
	RoleUser   = "user"
	RoleArtist = "artist"
	RoleAdmin  = "admin"
)

// ValidRole reports whether name is one of the accepted role values.
func ValidRole(name string) bool {
	switch name {
	case RoleUser, RoleArtist, RoleAdmin:
		return true
	}
	return false
}

// User represents an account record as stored in the `users` table.
// Each field corresponds to a column.  PasswordHash never leaves the
// repository/service boundary; handlers build response types from the
// public fields instead of serializing this struct directly.
//
// Email uniqueness is case-insensitive: addresses are trimmed and
// lowercased before they are stored or looked up, so "Foo@Example.com"
// and "foo@example.com" name the same account.
//
// ResetTokenHash and ResetExpiresAt hold the SHA-256 digest of a pending
// password-reset secret and its expiry.  They are either both set or both
// NULL; a single UPDATE writes or clears the pair so a half-updated reset
// state is never persisted.
type User struct {
	ID             uint64         // users.id
	Email          string         // users.email (unique, stored lowercased)
	FullName       string         // users.full_name
	AvatarURL      sql.NullString // users.avatar_url (optional)
	PasswordHash   string         // users.password_hash (bcrypt)
	Role           string         // users.role (user | artist | admin)
	ResetTokenHash sql.NullString // users.reset_token_hash (sha256 hex, nullable)
	ResetExpiresAt sql.NullTime   // users.reset_expires_at (nullable, paired with hash)
	CreatedAt      time.Time      // users.created_at
	UpdatedAt      time.Time      // users.updated_at
}

// PublicUser carries the fields of a user that may be shown to other
// authenticated users, e.g. in follower listings.  It deliberately
// excludes the password hash and any pending reset state.
type PublicUser struct {
	ID        uint64 `json:"id"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Public converts a full user record into its public projection.
func (u User) Public() PublicUser {
	p := PublicUser{ID: u.ID, FullName: u.FullName, Email: u.Email}
	if u.AvatarURL.Valid {
		p.AvatarURL = u.AvatarURL.String
	}
	return p
}
