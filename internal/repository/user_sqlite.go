package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/soundhaven/account-service/internal/model"
)

// SQLiteUserStore implements UserStore on top of SQLite.  The SQL is the
// shared MySQL/SQLite subset; only duplicate-key detection differs.
type SQLiteUserStore struct{ DB *sql.DB }

func (r *SQLiteUserStore) Create(ctx context.Context, email, fullName string, avatarURL sql.NullString, passwordHash, role string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, full_name, avatar_url, password_hash, role) VALUES (?,?,?,?,?)",
		email, fullName, avatarURL, passwordHash, role)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (r *SQLiteUserStore) Update(ctx context.Context, id uint64, fullName string, avatarURL sql.NullString, role string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET full_name=?, avatar_url=?, role=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		fullName, avatarURL, role, id)
	return err
}

func (r *SQLiteUserStore) FindByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

func (r *SQLiteUserStore) FindByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

func (r *SQLiteUserStore) FindAll(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (r *SQLiteUserStore) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *SQLiteUserStore) SetResetToken(ctx context.Context, id uint64, tokenHash string, expiresAt time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET reset_token_hash=?, reset_expires_at=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		tokenHash, expiresAt, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *SQLiteUserStore) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE reset_token_hash=? AND reset_expires_at>? LIMIT 1",
		tokenHash, now))
}

func (r *SQLiteUserStore) ResetPassword(ctx context.Context, id uint64, passwordHash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, reset_token_hash=NULL, reset_expires_at=NULL, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		passwordHash, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
