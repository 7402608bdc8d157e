package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fineko/fineko-api/internal/core/domain"
	"github.com/fineko/fineko-api/internal/core/ports"
)

type ContentHandler struct {
	generator ports.ContentGenerator
	log       zerolog.Logger
}

func NewContentHandler(generator ports.ContentGenerator, log zerolog.Logger) *ContentHandler {
	return &ContentHandler{generator: generator, log: log}
}

// Generate asks the AI collaborator for page help or an audit plan.
//
// @Summary      Generate help content
// @Tags         content
// @Accept       json
// @Produce      json
// @Security     Credential
// @Param        body  body      domain.ContentRequest  true  "Page or audit context"
// @Success      200   {object}  domain.ContentResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/content/generate [post]
func (h *ContentHandler) Generate(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req domain.ContentRequest
	if err := c.Bind(&req); err != nil {
		return domain.InvalidInput("invalid payload")
	}
	if req.PageID == "" && req.Audit == nil {
		return domain.InvalidInput("pageId or audit is required")
	}

	res, err := h.generator.Generate(c.Request().Context(), req)
	if err != nil {
		h.log.Warn().Err(err).
			Str("company_id", id.CompanyID).
			Str("page_id", req.PageID).
			Msg("content generation failed")
		return echo.NewHTTPError(http.StatusBadGateway, "help unavailable")
	}
	return c.JSON(http.StatusOK, res)
}
