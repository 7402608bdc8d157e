package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fineko/fineko-api/internal/core/domain"
	"github.com/fineko/fineko-api/internal/core/ports"
)

// MembershipService answers "may this user act in this company".
type MembershipService struct {
	memberships ports.MembershipRepository
	users       ports.UserRepository
}

func NewMembershipService(memberships ports.MembershipRepository, users ports.UserRepository) *MembershipService {
	return &MembershipService{memberships: memberships, users: users}
}

func (s *MembershipService) IsMember(ctx context.Context, userID, companyID string) (bool, error) {
	if userID == "" || companyID == "" {
		return false, nil
	}
	ok, err := s.memberships.Exists(ctx, userID, companyID)
	if err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return ok, nil
}

// IsAdmin applies a global policy: the user's admin flag decides, the
// company is not consulted.
func (s *MembershipService) IsAdmin(ctx context.Context, userID, _ string) (bool, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check admin: %w", err)
	}
	return user.IsAdmin, nil
}
