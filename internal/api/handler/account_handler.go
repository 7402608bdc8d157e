package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fineko/fineko-api/internal/core/domain"
	"github.com/fineko/fineko-api/internal/core/ports"
)

// AccountHandler serves requests made with a permanent credential.
type AccountHandler struct {
	companies  ports.CompanyService
	groupLinks ports.GroupLinkService
	cookie     CookieConfig
}

func NewAccountHandler(companies ports.CompanyService, groupLinks ports.GroupLinkService, cookie CookieConfig) *AccountHandler {
	return &AccountHandler{companies: companies, groupLinks: groupLinks, cookie: cookie}
}

// Me returns the user and company of the current credential.
//
// @Summary      Current identity
// @Tags         account
// @Produce      json
// @Security     Credential
// @Success      200  {object}  meResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/me [get]
func (h *AccountHandler) Me(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	user, company, err := h.companies.Current(c.Request().Context(), id.UserID, id.CompanyID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meResponse{User: user, Company: company})
}

// Companies lists the companies the current user belongs to.
//
// @Summary      My companies
// @Tags         account
// @Produce      json
// @Security     Credential
// @Success      200  {object}  companiesResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/companies [get]
func (h *AccountHandler) Companies(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	companies, err := h.companies.ListForUser(c.Request().Context(), id.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, companiesResponse{Companies: companies})
}

// Switch re-issues the credential for another company of the same user.
//
// @Summary      Switch company
// @Tags         account
// @Accept       json
// @Produce      json
// @Security     Credential
// @Param        body  body      switchCompanyRequest  true  "Target company"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/companies/switch [post]
func (h *AccountHandler) Switch(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req switchCompanyRequest
	if err := c.Bind(&req); err != nil {
		return domain.InvalidInput("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	rememberMe := id.RememberMe
	if req.RememberMe != nil {
		rememberMe = *req.RememberMe
	}
	res, err := h.companies.SwitchCompany(c.Request().Context(), id.UserID, req.CompanyID, rememberMe)
	if err != nil {
		return err
	}

	h.cookie.set(c, res.Credential)
	return c.JSON(http.StatusOK, sessionResponse{User: res.User, Company: res.Company, ExpiresAt: res.Credential.ExpiresAt})
}

// GroupLink issues a code for linking a Telegram group to the current company.
//
// @Summary      Create a group link code
// @Tags         account
// @Produce      json
// @Security     Credential
// @Success      200  {object}  groupLinkResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/companies/group-link [post]
func (h *AccountHandler) GroupLink(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	code, err := h.groupLinks.CreateLinkCode(c.Request().Context(), id.UserID, id.CompanyID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, groupLinkResponse{Code: code.ID, ExpiresAt: code.ExpiresAt})
}
