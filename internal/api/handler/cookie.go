package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fineko/fineko-api/internal/core/domain"
)

// CookieConfig describes the cookie carrying the permanent credential.
type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
}

func (cc CookieConfig) set(c echo.Context, cred *domain.Credential) {
	c.SetCookie(&http.Cookie{
		Name:     cc.Name,
		Value:    cred.Token,
		Path:     "/",
		Domain:   cc.Domain,
		Expires:  cred.ExpiresAt,
		MaxAge:   cred.MaxAge(),
		Secure:   cc.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (cc CookieConfig) clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     cc.Name,
		Value:    "",
		Path:     "/",
		Domain:   cc.Domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   cc.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
