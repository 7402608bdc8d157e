package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fineko/fineko-api/internal/core/domain"
	"github.com/fineko/fineko-api/internal/core/ports"
	"github.com/fineko/fineko-api/internal/pkg/metrics"
)

// CompanyService drives the second half of the handshake: picking or
// creating a company and exchanging the temporary session for a permanent
// credential.
type CompanyService struct {
	companies   ports.CompanyRepository
	memberships ports.MembershipRepository
	users       ports.UserRepository
	sessions    ports.SessionStore
	resolver    ports.MembershipResolver
	issuer      ports.CredentialIssuer
	log         zerolog.Logger
	now         func() time.Time
}

func NewCompanyService(
	companies ports.CompanyRepository,
	memberships ports.MembershipRepository,
	users ports.UserRepository,
	sessions ports.SessionStore,
	resolver ports.MembershipResolver,
	issuer ports.CredentialIssuer,
	log zerolog.Logger,
) *CompanyService {
	return &CompanyService{
		companies:   companies,
		memberships: memberships,
		users:       users,
		sessions:    sessions,
		resolver:    resolver,
		issuer:      issuer,
		log:         log,
		now:         time.Now,
	}
}

// ListForTempToken returns the user's companies and what the client should
// do next: create one, use the only one, or let the user choose.
func (s *CompanyService) ListForTempToken(ctx context.Context, tempToken string) (*ports.CompanyChoice, error) {
	sess, err := s.resolveTemp(ctx, tempToken)
	if err != nil {
		return nil, err
	}

	companies, err := s.ListForUser(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}

	next := ports.NextChoose
	switch len(companies) {
	case 0:
		next = ports.NextCreate
	case 1:
		next = ports.NextSelect
	}

	return &ports.CompanyChoice{UserID: sess.UserID, Companies: companies, Next: next}, nil
}

func (s *CompanyService) SelectCompany(ctx context.Context, in ports.SelectCompanyInput) (*ports.CredentialResult, error) {
	sess, err := s.resolveTemp(ctx, in.TempToken)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.CompanyID) == "" {
		return nil, domain.InvalidInput("companyId is required")
	}

	rememberMe := sess.RememberMe
	if in.RememberMe != nil {
		rememberMe = *in.RememberMe
	}

	res, err := s.issueFor(ctx, sess.UserID, in.CompanyID, rememberMe)
	if err != nil {
		return nil, err
	}
	metrics.CredentialsIssuedTotal.WithLabelValues("select").Inc()
	return res, nil
}

// CreateCompanyAndLogin creates a company owned by the session's user and
// logs them into it. Each call creates a new company.
func (s *CompanyService) CreateCompanyAndLogin(ctx context.Context, tempToken, name string) (*ports.CredentialResult, error) {
	sess, err := s.resolveTemp(ctx, tempToken)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.InvalidInput("company name is required")
	}
	if utf8.RuneCountInString(name) > domain.MaxCompanyNameLength {
		return nil, domain.InvalidInput(fmt.Sprintf("company name must be at most %d characters", domain.MaxCompanyNameLength))
	}

	user, err := s.users.FindByID(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("create company: %w", err)
	}

	now := s.now().UTC()
	company := &domain.Company{
		ID:        uuid.NewString(),
		Name:      name,
		OwnerID:   user.ID,
		CreatedAt: now,
	}
	owner := &domain.Membership{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CompanyID: company.ID,
		Status:    domain.MembershipOwner,
		Notes:     "created the company",
		CreatedAt: now,
	}
	if err := s.companies.CreateWithOwner(ctx, company, owner); err != nil {
		return nil, fmt.Errorf("create company: %w", err)
	}

	cred, err := s.issuer.Issue(user.ID, company.ID, sess.RememberMe)
	if err != nil {
		return nil, fmt.Errorf("issue credential: %w", err)
	}

	s.log.Info().
		Str("user_id", user.ID).
		Str("company_id", company.ID).
		Msg("company created")
	metrics.CredentialsIssuedTotal.WithLabelValues("create").Inc()

	return &ports.CredentialResult{Credential: cred, User: user, Company: company}, nil
}

// SwitchCompany re-issues the credential of an authenticated user for
// another company they belong to.
func (s *CompanyService) SwitchCompany(ctx context.Context, userID, companyID string, rememberMe bool) (*ports.CredentialResult, error) {
	if strings.TrimSpace(companyID) == "" {
		return nil, domain.InvalidInput("companyId is required")
	}
	res, err := s.issueFor(ctx, userID, companyID, rememberMe)
	if err != nil {
		return nil, err
	}
	metrics.CredentialsIssuedTotal.WithLabelValues("switch").Inc()
	return res, nil
}

func (s *CompanyService) ListForUser(ctx context.Context, userID string) ([]*domain.Company, error) {
	memberships, err := s.memberships.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	if len(memberships) == 0 {
		return []*domain.Company{}, nil
	}

	ids := make([]string, 0, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.CompanyID)
	}
	companies, err := s.companies.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return companies, nil
}

func (s *CompanyService) ListAll(ctx context.Context, offset, limit int) ([]*domain.Company, int64, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	companies, total, err := s.companies.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list all companies: %w", err)
	}
	return companies, total, nil
}

// Current loads the user and company a verified credential points at.
func (s *CompanyService) Current(ctx context.Context, userID, companyID string) (*domain.User, *domain.Company, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	company, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		return nil, nil, err
	}
	return user, company, nil
}

func (s *CompanyService) resolveTemp(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrTempTokenInvalid
	}
	sess, err := s.sessions.Resolve(ctx, token)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil, domain.ErrTempTokenInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	if sess.Type != domain.SessionTemp {
		return nil, domain.ErrTempTokenInvalid
	}
	return sess, nil
}

// issueFor checks membership before signing anything: no credential exists
// for a pair without a membership at issuance time.
func (s *CompanyService) issueFor(ctx context.Context, userID, companyID string, rememberMe bool) (*ports.CredentialResult, error) {
	ok, err := s.resolver.IsMember(ctx, userID, companyID)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.log.Warn().
			Str("user_id", userID).
			Str("company_id", companyID).
			Msg("company selection without membership")
		return nil, fmt.Errorf("%w: not a member of this company", domain.ErrForbidden)
	}

	user, company, err := s.Current(ctx, userID, companyID)
	if err != nil {
		return nil, err
	}

	cred, err := s.issuer.Issue(userID, companyID, rememberMe)
	if err != nil {
		return nil, fmt.Errorf("issue credential: %w", err)
	}

	s.log.Info().
		Str("user_id", userID).
		Str("company_id", companyID).
		Bool("remember_me", rememberMe).
		Msg("credential issued")

	return &ports.CredentialResult{Credential: cred, User: user, Company: company}, nil
}
