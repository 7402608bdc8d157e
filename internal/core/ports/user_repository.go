package ports

import (
	"context"

	"github.com/fineko/fineko-api/internal/core/domain"
)

// UserRepository persists users keyed by their Telegram identity.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByTelegramID returns domain.ErrUserNotFound when absent.
	FindByTelegramID(ctx context.Context, telegramUserID string) (*domain.User, error)
	// Create returns domain.ErrUserExists when the Telegram identity is taken.
	Create(ctx context.Context, user *domain.User) error
}
