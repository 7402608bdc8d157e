package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/fineko/fineko-api/internal/core/domain"
	"github.com/fineko/fineko-api/internal/core/ports"
)

// RequireMembership re-checks that the credential's user still belongs to
// the credential's company. A credential outlives a revoked membership, so
// company-scoped routes must not trust the claim alone. Must run after Auth.
func RequireMembership(resolver ports.MembershipResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, _ := c.Get(CtxUserID).(string)
			companyID, _ := c.Get(CtxCompanyID).(string)
			if userID == "" || companyID == "" {
				return domain.ErrUnauthenticated
			}

			ok, err := resolver.IsMember(c.Request().Context(), userID, companyID)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: not a member of this company", domain.ErrForbidden)
			}
			return next(c)
		}
	}
}
