package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/fineko/fineko-api/internal/api/middleware"
	"github.com/fineko/fineko-api/internal/core/domain"
)

type identity struct {
	UserID     string
	CompanyID  string
	RememberMe bool
}

// ctxIdentity reads the claims injected by the Auth middleware. Both ids
// must be present; a credential without them is unusable.
func ctxIdentity(c echo.Context) (identity, error) {
	userID, _ := c.Get(middleware.CtxUserID).(string)
	companyID, _ := c.Get(middleware.CtxCompanyID).(string)
	if userID == "" || companyID == "" {
		return identity{}, domain.ErrMalformed
	}
	rememberMe, _ := c.Get(middleware.CtxRememberMe).(bool)
	return identity{UserID: userID, CompanyID: companyID, RememberMe: rememberMe}, nil
}
