package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/soundhaven/account-service/internal/model"
)

const userColumns = "id,email,full_name,avatar_url,password_hash,role,reset_token_hash,reset_expires_at,created_at,updated_at"

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.AvatarURL, &u.PasswordHash, &u.Role,
		&u.ResetTokenHash, &u.ResetExpiresAt, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// MySQLUserStore implements UserStore on top of MySQL.
type MySQLUserStore struct{ DB *sql.DB }

// Create inserts a user and returns its ID.
func (r *MySQLUserStore) Create(ctx context.Context, email, fullName string, avatarURL sql.NullString, passwordHash, role string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, full_name, avatar_url, password_hash, role) VALUES (?,?,?,?,?)",
		email, fullName, avatarURL, passwordHash, role)
	if err != nil {
		// MySQL reports unique-key violations as error 1062.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
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

// Update rewrites the mutable profile fields, preserving everything else.
// MySQL reports zero affected rows when the new values equal the old
// ones, so existence is the caller's concern and not checked here.
func (r *MySQLUserStore) Update(ctx context.Context, id uint64, fullName string, avatarURL sql.NullString, role string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET full_name=?, avatar_url=?, role=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		fullName, avatarURL, role, id)
	return err
}

// FindByID fetches a user by id.
func (r *MySQLUserStore) FindByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// FindByEmail fetches a user by normalized email.
func (r *MySQLUserStore) FindByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// FindAll returns every user record.
func (r *MySQLUserStore) FindAll(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

// Delete removes a user row.
func (r *MySQLUserStore) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// SetResetToken stores the reset hash and expiry on the user row.
func (r *MySQLUserStore) SetResetToken(ctx context.Context, id uint64, tokenHash string, expiresAt time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET reset_token_hash=?, reset_expires_at=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		tokenHash, expiresAt, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// FindByResetToken matches a pending, unexpired reset hash.
func (r *MySQLUserStore) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE reset_token_hash=? AND reset_expires_at>? LIMIT 1",
		tokenHash, now))
}

// ResetPassword writes the new hash and clears both reset columns in one
// statement so a half-updated reset state is never persisted.
func (r *MySQLUserStore) ResetPassword(ctx context.Context, id uint64, passwordHash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, reset_token_hash=NULL, reset_expires_at=NULL, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		passwordHash, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func collectUsers(rows *sql.Rows) ([]model.User, error) {
	var out []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.FullName, &u.AvatarURL, &u.PasswordHash, &u.Role,
			&u.ResetTokenHash, &u.ResetExpiresAt, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
