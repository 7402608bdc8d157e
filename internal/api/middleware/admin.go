package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/fineko/fineko-api/internal/core/domain"
	"github.com/fineko/fineko-api/internal/core/ports"
)

// RequireAdmin lets the request through only when the resolver says the
// authenticated user is an admin. Must run after Auth.
func RequireAdmin(resolver ports.MembershipResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, _ := c.Get(CtxUserID).(string)
			companyID, _ := c.Get(CtxCompanyID).(string)
			if userID == "" {
				return domain.ErrUnauthenticated
			}

			ok, err := resolver.IsAdmin(c.Request().Context(), userID, companyID)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: admin only", domain.ErrForbidden)
			}
			return next(c)
		}
	}
}
