package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fineko/fineko-api/internal/api/middleware"
	"github.com/fineko/fineko-api/internal/core/domain"
	"github.com/fineko/fineko-api/internal/core/ports"
	"github.com/fineko/fineko-api/internal/infrastructure/telegram"
	"github.com/fineko/fineko-api/internal/pkg/metrics"
)

// WidgetVerifier checks Telegram Login Widget signatures.
type WidgetVerifier interface {
	Verify(w telegram.WidgetLogin) error
}

// AuthHandler serves the login handshake: identity event, company choice,
// credential issuance and logout.
type AuthHandler struct {
	login     ports.LoginService
	companies ports.CompanyService
	widget    WidgetVerifier
	cookie    CookieConfig
}

func NewAuthHandler(login ports.LoginService, companies ports.CompanyService, widget WidgetVerifier, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{login: login, companies: companies, widget: widget, cookie: cookie}
}

// TelegramLogin logs in with a Login Widget payload.
//
// @Summary      Login with the Telegram widget
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      telegramLoginRequest  true  "Login Widget payload"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/auth/telegram [post]
func (h *AuthHandler) TelegramLogin(c echo.Context) error {
	var req telegramLoginRequest
	if err := c.Bind(&req); err != nil {
		return domain.InvalidInput("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	w := telegram.WidgetLogin{
		ID:        req.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		PhotoURL:  req.PhotoURL,
		AuthDate:  req.AuthDate,
		Hash:      req.Hash,
	}
	if err := h.widget.Verify(w); err != nil {
		return err
	}

	res, err := h.login.LoginWithExternalIdentity(c.Request().Context(), w.Identity(), req.RememberMe)
	if err != nil {
		return err
	}

	userLabel := "existing"
	if res.Created {
		userLabel = "new"
	}
	metrics.LoginsTotal.WithLabelValues("widget", userLabel).Inc()

	return c.JSON(http.StatusOK, loginResponse{TempToken: res.TempToken, ExpiresAt: res.ExpiresAt, User: res.User})
}

// ListCompanies returns the companies reachable from a temporary token.
//
// @Summary      List companies for a temporary token
// @Tags         auth
// @Produce      json
// @Security     TempToken
// @Success      200  {object}  companiesResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/auth/companies [get]
func (h *AuthHandler) ListCompanies(c echo.Context) error {
	tempToken, _ := middleware.BearerToken(c)
	choice, err := h.companies.ListForTempToken(c.Request().Context(), tempToken)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, companiesResponse{Companies: choice.Companies, Next: choice.Next})
}

// SelectCompany exchanges a temporary token for a permanent credential.
//
// @Summary      Select a company
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     TempToken
// @Param        body  body      selectCompanyRequest  true  "Company to log into"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/auth/select-company [post]
func (h *AuthHandler) SelectCompany(c echo.Context) error {
	var req selectCompanyRequest
	if err := c.Bind(&req); err != nil {
		return domain.InvalidInput("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tempToken, _ := middleware.BearerToken(c)
	res, err := h.companies.SelectCompany(c.Request().Context(), ports.SelectCompanyInput{
		TempToken:  tempToken,
		CompanyID:  req.CompanyID,
		RememberMe: req.RememberMe,
	})
	if err != nil {
		return err
	}

	h.cookie.set(c, res.Credential)
	return c.JSON(http.StatusOK, sessionResponse{User: res.User, Company: res.Company, ExpiresAt: res.Credential.ExpiresAt})
}

// CreateCompany creates a company owned by the user and logs into it.
//
// @Summary      Create a company
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     TempToken
// @Param        body  body      createCompanyRequest  true  "Company name"
// @Success      201   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/auth/create-company [post]
func (h *AuthHandler) CreateCompany(c echo.Context) error {
	var req createCompanyRequest
	if err := c.Bind(&req); err != nil {
		return domain.InvalidInput("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tempToken, _ := middleware.BearerToken(c)
	res, err := h.companies.CreateCompanyAndLogin(c.Request().Context(), tempToken, req.Name)
	if err != nil {
		return err
	}

	h.cookie.set(c, res.Credential)
	return c.JSON(http.StatusCreated, sessionResponse{User: res.User, Company: res.Company, ExpiresAt: res.Credential.ExpiresAt})
}

// Logout expires the credential cookie.
//
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.cookie.clear(c)
	return c.NoContent(http.StatusNoContent)
}
