package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Identity headers read by the backend.
const (
	HeaderUserID    = "X-Fineko-User-Id"
	HeaderCompanyID = "X-Fineko-Company-Id"

	identityHeaderPrefix = "X-Fineko-"
)

// ForwardIdentity replaces any client-supplied X-Fineko-* headers with the
// identity established by Auth, so the backend can trust them.
func ForwardIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Request().Header
			for name := range h {
				if strings.HasPrefix(http.CanonicalHeaderKey(name), identityHeaderPrefix) {
					h.Del(name)
				}
			}

			userID, _ := c.Get(CtxUserID).(string)
			companyID, _ := c.Get(CtxCompanyID).(string)
			h.Set(HeaderUserID, userID)
			h.Set(HeaderCompanyID, companyID)

			return next(c)
		}
	}
}
