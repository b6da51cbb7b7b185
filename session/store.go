//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=../mocks/mock_session_store.go -package=mocks

// Package session holds the server side session records binding a
// cookie token to a user for a bounded, rolling lifetime.
package session

import (
	"context"
	"time"
)

// Session binds an opaque id to a user id. It intentionally stores only
// identity pointers, not auth state. UserID may be empty for a session
// that has not authenticated yet.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store defines how sessions are stored and retrieved. Implementations
// must treat the session id as opaque.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, error)
	// Refresh extends the session's expiry, implementing the rolling
	// cookie contract: every authenticated request pushes expiry out.
	Refresh(ctx context.Context, id string, ttl time.Duration) (Session, error)
	Delete(ctx context.Context, id string) error
}
