package repository

import (
	"context"
	"database/sql"

	"github.com/soundhaven/account-service/internal/model"
)

// MySQLFollowStore implements FollowStore on top of MySQL.  The follows
// table is keyed by (follower_id, followee_id); one row is the whole
// edge, so a user's followers and following lists can never disagree.
type MySQLFollowStore struct{ DB *sql.DB }

// Follow records that followerID follows followeeID.  Re-applying an
// existing edge is a no-op thanks to INSERT IGNORE.
func (r *MySQLFollowStore) Follow(ctx context.Context, followerID, followeeID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT IGNORE INTO follows (follower_id, followee_id) VALUES (?,?)",
		followerID, followeeID)
	return err
}

// Unfollow removes the edge if present.  Removing a missing edge is a
// no-op.
func (r *MySQLFollowStore) Unfollow(ctx context.Context, followerID, followeeID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM follows WHERE follower_id=? AND followee_id=?",
		followerID, followeeID)
	return err
}

// Followers returns the users following userID.
func (r *MySQLFollowStore) Followers(ctx context.Context, userID uint64) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+prefixedUserColumns+" FROM users u JOIN follows f ON f.follower_id=u.id WHERE f.followee_id=? ORDER BY u.id",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

// Following returns the users that userID follows.
func (r *MySQLFollowStore) Following(ctx context.Context, userID uint64) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+prefixedUserColumns+" FROM users u JOIN follows f ON f.followee_id=u.id WHERE f.follower_id=? ORDER BY u.id",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

// CountFollowers returns how many users follow userID.
func (r *MySQLFollowStore) CountFollowers(ctx context.Context, userID uint64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM follows WHERE followee_id=?", userID).Scan(&n)
	return n, err
}

const prefixedUserColumns = "u.id,u.email,u.full_name,u.avatar_url,u.password_hash,u.role,u.reset_token_hash,u.reset_expires_at,u.created_at,u.updated_at"
