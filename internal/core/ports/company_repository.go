package ports

import (
	"context"

	"github.com/fineko/fineko-api/internal/core/domain"
)

// CompanyRepository persists companies.
type CompanyRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Company, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Company, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Company, int64, error)
	// CreateWithOwner stores the company and the owner's membership atomically.
	// Either both become visible or neither does.
	CreateWithOwner(ctx context.Context, company *domain.Company, owner *domain.Membership) error
	SetTelegramChat(ctx context.Context, companyID string, chatID int64) error
}

// MembershipRepository reads the user/company relation.
type MembershipRepository interface {
	Exists(ctx context.Context, userID, companyID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Membership, error)
}
