package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/soundhaven/account-service/internal/model"
)

// UserStore is the persistence gateway for user records.  One
// implementation exists per backend; the concrete store is chosen by
// configuration at startup.
type UserStore interface {
	// Create inserts a new user and returns its ID.  A duplicate email
	// yields ErrEmailExists.
	Create(ctx context.Context, email, fullName string, avatarURL sql.NullString, passwordHash, role string) (uint64, error)
	// Update rewrites the mutable profile fields of an existing user.
	Update(ctx context.Context, id uint64, fullName string, avatarURL sql.NullString, role string) error
	FindByID(ctx context.Context, id uint64) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindAll(ctx context.Context) ([]model.User, error)
	Delete(ctx context.Context, id uint64) error

	// SetResetToken stores the hash of a pending password-reset secret
	// together with its expiry on the user row.
	SetResetToken(ctx context.Context, id uint64, tokenHash string, expiresAt time.Time) error
	// FindByResetToken returns the user whose stored reset hash matches
	// tokenHash and whose expiry is strictly after now.  An expired match
	// is indistinguishable from no match: both yield ErrNotFound.
	FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (model.User, error)
	// ResetPassword writes the new password hash and clears both reset
	// columns in a single statement.
	ResetPassword(ctx context.Context, id uint64, passwordHash string) error
}

// FollowStore persists the follow graph.  An edge is a single row in the
// follows table keyed by (follower_id, followee_id), so both directions
// of the relationship are derived from the same row and cannot drift
// apart.  Follow and Unfollow are idempotent.
type FollowStore interface {
	Follow(ctx context.Context, followerID, followeeID uint64) error
	Unfollow(ctx context.Context, followerID, followeeID uint64) error
	// Followers returns the users following userID.
	Followers(ctx context.Context, userID uint64) ([]model.User, error)
	// Following returns the users that userID follows.
	Following(ctx context.Context, userID uint64) ([]model.User, error)
	CountFollowers(ctx context.Context, userID uint64) (int, error)
}

// NewUserStore returns the UserStore implementation for the given driver.
func NewUserStore(db *sql.DB, driver string) UserStore {
	if driver == "sqlite3" {
		return &SQLiteUserStore{DB: db}
	}
	return &MySQLUserStore{DB: db}
}

// NewFollowStore returns the FollowStore implementation for the given driver.
func NewFollowStore(db *sql.DB, driver string) FollowStore {
	if driver == "sqlite3" {
		return &SQLiteFollowStore{DB: db}
	}
	return &MySQLFollowStore{DB: db}
}
