package user

import (
	"time"

	"github.com/google/uuid"
)

// User represents the persisted user entity. Accounts are created from
// OAuth profiles only; there is no password credential.
type User struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Email         string     `json:"email" db:"email"`
	Name          string     `json:"name" db:"name"`
	Username      *string    `json:"username,omitempty" db:"username"`
	Image         *string    `json:"image,omitempty" db:"image"`
	EmailVerified bool       `json:"email_verified" db:"email_verified"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt     *time.Time `json:"-" db:"deleted_at"`
}

// Account links a user to one external provider identity. A user may hold
// several accounts when linking across trusted providers.
type Account struct {
	ID                uuid.UUID `json:"id" db:"id"`
	UserID            uuid.UUID `json:"user_id" db:"user_id"`
	Provider          string    `json:"provider" db:"provider"`
	ProviderAccountID string    `json:"provider_account_id" db:"provider_account_id"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// OAuthIdentity is the normalized result of one completed OAuth exchange,
// handed to the service for upsert and linking.
type OAuthIdentity struct {
	Provider          string
	ProviderAccountID string
	Email             string
	EmailVerified     bool
	Name              string
	Username          string
	Image             string
}
