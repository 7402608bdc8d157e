package ports

import (
	"context"
	"time"

	"github.com/fineko/fineko-api/internal/core/domain"
)

// LoginResult is the outcome of a successful identity event.
type LoginResult struct {
	TempToken string
	ExpiresAt time.Time
	User      *domain.User
	Created   bool
}

// Next step the client should take after listing companies.
const (
	NextCreate = "create"
	NextSelect = "select"
	NextChoose = "choose"
)

// CompanyChoice lists the companies reachable from a temporary session.
type CompanyChoice struct {
	UserID    string
	Companies []*domain.Company
	Next      string
}

// CredentialResult carries a freshly issued permanent credential together
// with the identity it was issued for.
type CredentialResult struct {
	Credential *domain.Credential
	User       *domain.User
	Company    *domain.Company
}

type SelectCompanyInput struct {
	TempToken string
	CompanyID string
	// RememberMe nil keeps the value carried by the temporary session.
	RememberMe *bool
}

type LoginService interface {
	LoginWithExternalIdentity(ctx context.Context, id domain.ExternalIdentity, rememberMe bool) (*LoginResult, error)
}

type CompanyService interface {
	ListForTempToken(ctx context.Context, tempToken string) (*CompanyChoice, error)
	SelectCompany(ctx context.Context, in SelectCompanyInput) (*CredentialResult, error)
	CreateCompanyAndLogin(ctx context.Context, tempToken, name string) (*CredentialResult, error)
	SwitchCompany(ctx context.Context, userID, companyID string, rememberMe bool) (*CredentialResult, error)
	ListForUser(ctx context.Context, userID string) ([]*domain.Company, error)
	ListAll(ctx context.Context, offset, limit int) ([]*domain.Company, int64, error)
	Current(ctx context.Context, userID, companyID string) (*domain.User, *domain.Company, error)
}

// MembershipResolver answers authorization questions.
type MembershipResolver interface {
	IsMember(ctx context.Context, userID, companyID string) (bool, error)
	IsAdmin(ctx context.Context, userID, companyID string) (bool, error)
}

type GroupLinkService interface {
	CreateLinkCode(ctx context.Context, userID, companyID string) (*domain.Session, error)
	LinkChat(ctx context.Context, code string, chatID int64) (*domain.Company, error)
}

type TelegramService interface {
	HandleUpdate(ctx context.Context, u domain.TelegramUpdate) error
}
