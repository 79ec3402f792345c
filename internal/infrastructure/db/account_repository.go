package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-wardlow/tt/internal/domain/user"
)

// AccountRepository implements user.AccountRepository using sqlx.
type AccountRepository struct {
	db *sqlx.DB
}

// NewAccountRepository constructs the repo.
func NewAccountRepository(db *sqlx.DB) user.AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, a *user.Account) error {
	query := `INSERT INTO accounts (id, user_id, provider, provider_account_id, created_at, updated_at)
		VALUES (:id, :user_id, :provider, :provider_account_id, :created_at, :updated_at)`
	_, err := r.db.NamedExecContext(ctx, query, a)
	return err
}

func (r *AccountRepository) GetByProviderAccount(ctx context.Context, provider, providerAccountID string) (*user.Account, error) {
	var a user.Account
	query := r.db.Rebind(`SELECT * FROM accounts WHERE provider = ? AND provider_account_id = ? LIMIT 1`)
	err := r.db.GetContext(ctx, &a, query, provider, providerAccountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]user.Account, error) {
	var accounts []user.Account
	query := r.db.Rebind(`SELECT * FROM accounts WHERE user_id = ? ORDER BY created_at`)
	if err := r.db.SelectContext(ctx, &accounts, query, userID); err != nil {
		return nil, err
	}
	return accounts, nil
}
