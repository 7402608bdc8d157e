package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fineko/fineko-api/internal/core/domain"
	"github.com/fineko/fineko-api/internal/core/ports"
	"github.com/fineko/fineko-api/internal/pkg/metrics"
)

// LoginService turns a verified identity event into a temporary session.
type LoginService struct {
	users    ports.UserRepository
	sessions ports.SessionStore
	log      zerolog.Logger
	now      func() time.Time
}

func NewLoginService(users ports.UserRepository, sessions ports.SessionStore, log zerolog.Logger) *LoginService {
	return &LoginService{
		users:    users,
		sessions: sessions,
		log:      log,
		now:      time.Now,
	}
}

// LoginWithExternalIdentity finds or creates the user for id and opens a
// temporary session. Existing profiles are reused as stored; fresh names or
// avatars from Telegram are not written back.
func (s *LoginService) LoginWithExternalIdentity(ctx context.Context, id domain.ExternalIdentity, rememberMe bool) (*ports.LoginResult, error) {
	externalID := strings.TrimSpace(id.ExternalID)
	if externalID == "" {
		return nil, domain.InvalidInput("external id is required")
	}

	user, created, err := s.findOrCreate(ctx, externalID, id)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Create(ctx, &domain.Session{
		Type:       domain.SessionTemp,
		UserID:     user.ID,
		RememberMe: rememberMe,
	}, domain.TempSessionTTL)
	if err != nil {
		return nil, &domain.LoginError{Op: "create session", Err: err}
	}
	metrics.SessionsCreatedTotal.WithLabelValues(string(domain.SessionTemp)).Inc()

	s.log.Info().
		Str("user_id", user.ID).
		Bool("new_user", created).
		Bool("remember_me", rememberMe).
		Msg("temporary session opened")

	return &ports.LoginResult{
		TempToken: sess.ID,
		ExpiresAt: sess.ExpiresAt,
		User:      user,
		Created:   created,
	}, nil
}

func (s *LoginService) findOrCreate(ctx context.Context, externalID string, id domain.ExternalIdentity) (*domain.User, bool, error) {
	user, err := s.users.FindByTelegramID(ctx, externalID)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, false, &domain.LoginError{Op: "find user", Err: err}
	}

	user = &domain.User{
		ID:               uuid.NewString(),
		FirstName:        strings.TrimSpace(id.FirstName),
		LastName:         strings.TrimSpace(id.LastName),
		TelegramUserID:   externalID,
		TelegramUsername: id.Username,
		Avatar:           id.AvatarURL,
		CreatedAt:        s.now().UTC(),
	}
	err = s.users.Create(ctx, user)
	switch {
	case err == nil:
		return user, true, nil
	case errors.Is(err, domain.ErrUserExists):
		// Lost a race with a concurrent first login; the winner's row is authoritative.
		existing, findErr := s.users.FindByTelegramID(ctx, externalID)
		if findErr != nil {
			return nil, false, &domain.LoginError{Op: "find user", Err: findErr}
		}
		return existing, false, nil
	default:
		return nil, false, &domain.LoginError{Op: "create user", Err: err}
	}
}
