package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fineko/fineko-api/internal/core/domain"
	"github.com/fineko/fineko-api/internal/core/ports"
)

// Context keys set by Auth.
const (
	CtxUserID     = "user_id"
	CtxCompanyID  = "company_id"
	CtxRememberMe = "remember_me"
)

// Auth verifies the permanent credential and injects its claims into the
// context. The cookie is tried first; when it is absent or fails to verify,
// a Bearer credential in the Authorization header is tried instead. If
// both fail the cookie's error is returned.
func Auth(verifier ports.CredentialVerifier, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var candidates []string
			if ck, err := c.Cookie(cookieName); err == nil && ck.Value != "" {
				candidates = append(candidates, ck.Value)
			}
			if bearer, ok := BearerToken(c); ok {
				candidates = append(candidates, bearer)
			}
			if len(candidates) == 0 {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing credential")
			}

			var (
				claims   *domain.CredentialClaims
				firstErr error
			)
			for _, tok := range candidates {
				var err error
				claims, err = verifier.Verify(tok)
				if err == nil {
					break
				}
				if firstErr == nil {
					firstErr = err
				}
			}
			if claims == nil {
				return firstErr
			}

			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxCompanyID, claims.CompanyID)
			c.Set(CtxRememberMe, claims.RememberMe)

			return next(c)
		}
	}
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
func BearerToken(c echo.Context) (string, bool) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
