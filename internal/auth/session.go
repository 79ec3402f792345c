package auth

import (
	"context"
	"time"
)

// Session represents an authenticated user session. It stores identity
// pointers only; all auth decisions happen at lookup time.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionStore defines how sessions are stored and retrieved. Get returns
// (nil, nil) for an unknown session id.
type SessionStore interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}
