package handler

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fineko/fineko-api/internal/core/domain"
	"github.com/fineko/fineko-api/internal/core/ports"
)

// HeaderWebhookSecret carries the secret registered with setWebhook.
const HeaderWebhookSecret = "X-Telegram-Bot-Api-Secret-Token"

type TelegramHandler struct {
	service ports.TelegramService
	secret  string
	log     zerolog.Logger
}

// NewTelegramHandler serves the bot webhook. An empty secret disables the
// header check.
func NewTelegramHandler(service ports.TelegramService, secret string, log zerolog.Logger) *TelegramHandler {
	return &TelegramHandler{service: service, secret: secret, log: log}
}

// Webhook receives one bot update. Anything past the secret check is
// acknowledged with 200 so Telegram stops redelivering.
//
// @Summary      Telegram webhook
// @Tags         telegram
// @Accept       json
// @Produce      json
// @Param        body  body      domain.TelegramUpdate  true  "Bot API update"
// @Success      200   {object}  map[string]bool
// @Failure      401   {object}  map[string]string
// @Router       /api/telegram/webhook [post]
func (h *TelegramHandler) Webhook(c echo.Context) error {
	if h.secret != "" {
		got := c.Request().Header.Get(HeaderWebhookSecret)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) != 1 {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid webhook secret")
		}
	}

	var update domain.TelegramUpdate
	if err := c.Bind(&update); err != nil {
		h.log.Warn().Err(err).Msg("unparseable telegram update")
		return c.JSON(http.StatusOK, map[string]bool{"ok": true})
	}

	if err := h.service.HandleUpdate(c.Request().Context(), update); err != nil {
		h.log.Error().Err(err).Int64("update_id", update.UpdateID).Msg("telegram update failed")
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}
