package db

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Schema for the auth tables. Types are kept to the portable subset that
// both postgres and mysql accept.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(36) PRIMARY KEY,
		email VARCHAR(320) NOT NULL UNIQUE,
		name VARCHAR(255) NOT NULL DEFAULT '',
		username VARCHAR(255),
		image VARCHAR(2048),
		email_verified BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		deleted_at TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS accounts (
		id VARCHAR(36) PRIMARY KEY,
		user_id VARCHAR(36) NOT NULL,
		provider VARCHAR(64) NOT NULL,
		provider_account_id VARCHAR(255) NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		CONSTRAINT accounts_provider_ref UNIQUE (provider, provider_account_id)
	)`,
}

// Migrate applies the schema idempotently.
func Migrate(ctx context.Context, conn *sqlx.DB) error {
	for _, stmt := range migrations {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
