package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"github.com/soundhaven/account-service/internal/config"
)

// Open connects to the configured backend and verifies the connection.
// The driver is selected by configuration at startup; the rest of the
// application only ever sees the *sql.DB handle.
func Open(cfg config.Config) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch cfg.DBDriver {
	case "mysql":
		auth := cfg.DBUser
		if cfg.DBPass != "" {
			auth = fmt.Sprintf("%s:%s", cfg.DBUser, cfg.DBPass)
		}
		// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
		dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
			auth, cfg.DBHost, cfg.DBPort, cfg.DBName)
		db, err = sql.Open("mysql", dsn)
	case "sqlite3":
		db, err = sql.Open("sqlite3", cfg.DBPath)
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.DBDriver)
	}
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates the tables the service needs if they do not exist yet.
// The DDL sticks to the shared subset of MySQL and SQLite syntax except
// for the auto-increment primary key, which differs between the two.
func Migrate(db *sql.DB, driver string) error {
	idCol := "BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY"
	if driver == "sqlite3" {
		idCol = "INTEGER PRIMARY KEY AUTOINCREMENT"
	}

	usersTable := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS users (
		id %s,
		email VARCHAR(255) NOT NULL UNIQUE,
		full_name VARCHAR(255) NOT NULL,
		avatar_url VARCHAR(512),
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(16) NOT NULL DEFAULT 'user',
		reset_token_hash CHAR(64),
		reset_expires_at DATETIME,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`, idCol)

	followsTable := `
	CREATE TABLE IF NOT EXISTS follows (
		follower_id BIGINT NOT NULL,
		followee_id BIGINT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (follower_id, followee_id)
	);`

	if _, err := db.Exec(usersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	if _, err := db.Exec(followsTable); err != nil {
		return fmt.Errorf("create follows table: %w", err)
	}
	return nil
}
