package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fineko/fineko-api/internal/core/domain"
	"github.com/fineko/fineko-api/internal/core/ports"
)

const defaultAdminPageSize = 50

type AdminHandler struct {
	companies ports.CompanyService
}

func NewAdminHandler(companies ports.CompanyService) *AdminHandler {
	return &AdminHandler{companies: companies}
}

// ListCompanies pages through every company.
//
// @Summary      All companies
// @Tags         admin
// @Produce      json
// @Security     Credential
// @Param        offset  query     int  false  "Offset"
// @Param        limit   query     int  false  "Page size (max 100)"
// @Success      200     {object}  adminCompaniesResponse
// @Failure      403     {object}  map[string]string
// @Router       /api/admin/companies [get]
func (h *AdminHandler) ListCompanies(c echo.Context) error {
	offset, limit := 0, defaultAdminPageSize
	if err := echo.QueryParamsBinder(c).
		Int("offset", &offset).
		Int("limit", &limit).
		BindError(); err != nil {
		return domain.InvalidInput("offset and limit must be integers")
	}

	companies, total, err := h.companies.ListAll(c.Request().Context(), offset, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, adminCompaniesResponse{
		Companies: companies,
		Total:     total,
		Offset:    max(offset, 0),
	})
}
