package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence boundary for users.
type Repository interface {
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	List(ctx context.Context) ([]User, error)
}

// AccountRepository defines the persistence boundary for provider links.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	GetByProviderAccount(ctx context.Context, provider, providerAccountID string) (*Account, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Account, error)
}
