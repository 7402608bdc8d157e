package ports

import (
	"context"
	"time"

	"github.com/fineko/fineko-api/internal/core/domain"
)

// SessionStore keeps short-lived opaque sessions.
//
// Create assigns the ID, CreatedAt and ExpiresAt of the given session.
// Resolve returns domain.ErrSessionNotFound for unknown and expired ids alike.
// Consume resolves and removes the session in one step; of two concurrent
// callers at most one gets the session.
type SessionStore interface {
	Create(ctx context.Context, s *domain.Session, ttl time.Duration) (*domain.Session, error)
	Resolve(ctx context.Context, id string) (*domain.Session, error)
	Consume(ctx context.Context, id string) (*domain.Session, error)
}
