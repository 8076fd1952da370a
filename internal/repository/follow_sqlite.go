package repository

import (
	"context"
	"database/sql"

	"github.com/soundhaven/account-service/internal/model"
)

// SQLiteFollowStore implements FollowStore on top of SQLite.  Identical
// to the MySQL store apart from INSERT OR IGNORE syntax.
type SQLiteFollowStore struct{ DB *sql.DB }

func (r *SQLiteFollowStore) Follow(ctx context.Context, followerID, followeeID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT OR IGNORE INTO follows (follower_id, followee_id) VALUES (?,?)",
		followerID, followeeID)
	return err
}

func (r *SQLiteFollowStore) Unfollow(ctx context.Context, followerID, followeeID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM follows WHERE follower_id=? AND followee_id=?",
		followerID, followeeID)
	return err
}

func (r *SQLiteFollowStore) Followers(ctx context.Context, userID uint64) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+prefixedUserColumns+" FROM users u JOIN follows f ON f.follower_id=u.id WHERE f.followee_id=? ORDER BY u.id",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (r *SQLiteFollowStore) Following(ctx context.Context, userID uint64) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+prefixedUserColumns+" FROM users u JOIN follows f ON f.followee_id=u.id WHERE f.follower_id=? ORDER BY u.id",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (r *SQLiteFollowStore) CountFollowers(ctx context.Context, userID uint64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM follows WHERE followee_id=?", userID).Scan(&n)
	return n, err
}
