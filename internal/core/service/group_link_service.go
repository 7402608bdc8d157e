package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fineko/fineko-api/internal/core/domain"
	"github.com/fineko/fineko-api/internal/core/ports"
	"github.com/fineko/fineko-api/internal/pkg/metrics"
)

// GroupLinkService binds a Telegram group chat to a company through a
// single-use code.
type GroupLinkService struct {
	companies ports.CompanyRepository
	sessions  ports.SessionStore
	resolver  ports.MembershipResolver
	log       zerolog.Logger
}

func NewGroupLinkService(companies ports.CompanyRepository, sessions ports.SessionStore, resolver ports.MembershipResolver, log zerolog.Logger) *GroupLinkService {
	return &GroupLinkService{companies: companies, sessions: sessions, resolver: resolver, log: log}
}

// CreateLinkCode issues a code valid for domain.GroupLinkTTL.
func (s *GroupLinkService) CreateLinkCode(ctx context.Context, userID, companyID string) (*domain.Session, error) {
	ok, err := s.resolver.IsMember(ctx, userID, companyID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: not a member of this company", domain.ErrForbidden)
	}

	sess, err := s.sessions.Create(ctx, &domain.Session{
		Type:      domain.SessionGroupLink,
		UserID:    userID,
		CompanyID: companyID,
	}, domain.GroupLinkTTL)
	if err != nil {
		return nil, fmt.Errorf("create link code: %w", err)
	}
	metrics.SessionsCreatedTotal.WithLabelValues(string(domain.SessionGroupLink)).Inc()
	return sess, nil
}

// LinkChat consumes code and records chatID on its company.
func (s *GroupLinkService) LinkChat(ctx context.Context, code string, chatID int64) (*domain.Company, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.InvalidInput("link code is required")
	}

	// Peek before consuming so a login token pasted by mistake stays usable.
	peek, err := s.sessions.Resolve(ctx, code)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil, domain.ErrLinkCodeInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("resolve link code: %w", err)
	}
	if peek.Type != domain.SessionGroupLink {
		return nil, domain.ErrLinkCodeInvalid
	}

	sess, err := s.sessions.Consume(ctx, code)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil, domain.ErrLinkCodeInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("consume link code: %w", err)
	}
	if err := s.companies.SetTelegramChat(ctx, sess.CompanyID, chatID); err != nil {
		return nil, fmt.Errorf("link chat: %w", err)
	}

	company, err := s.companies.FindByID(ctx, sess.CompanyID)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("company_id", company.ID).
		Int64("chat_id", chatID).
		Msg("telegram group linked")
	return company, nil
}
