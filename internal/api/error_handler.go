package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fineko/fineko-api/internal/core/domain"
	"github.com/fineko/fineko-api/internal/pkg/metrics"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps domain
// errors to status codes and renders {"error": "<message>"}. Unexpected
// errors are logged and answered with a generic 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code == http.StatusUnauthorized {
			metrics.AuthRejectionsTotal.WithLabelValues("missing").Inc()
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var le *domain.LoginError
	switch {
	case errors.As(err, &le):
		log.Error().Err(err).Str("op", le.Op).Str("path", c.Path()).Msg("login failed")
		return http.StatusInternalServerError, "login failed, please try again"
	case errors.Is(err, domain.ErrUnauthenticated):
		metrics.AuthRejectionsTotal.WithLabelValues(rejectionReason(err)).Inc()
		return http.StatusUnauthorized, unauthenticatedMessage(err)
	case errors.Is(err, domain.ErrForbidden):
		metrics.AuthRejectionsTotal.WithLabelValues("forbidden").Inc()
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, inputMessage(err)
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, notFoundMessage(err)
	case errors.Is(err, domain.ErrUpstream):
		log.Warn().Err(err).Str("path", c.Path()).Msg("upstream failure")
		return http.StatusBadGateway, "upstream unavailable"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrExpired):
		return "expired"
	case errors.Is(err, domain.ErrInvalidSignature):
		return "signature"
	case errors.Is(err, domain.ErrTempTokenInvalid):
		return "temp_token"
	default:
		return "malformed"
	}
}

func unauthenticatedMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrExpired):
		return "credential expired"
	case errors.Is(err, domain.ErrTempTokenInvalid):
		return "temporary token is invalid or expired"
	default:
		return "unauthenticated"
	}
}

// inputMessage strips the sentinel prefix so the client sees only the
// message given to domain.InvalidInput.
func inputMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, domain.ErrInvalidInput.Error()+": "); i >= 0 {
		return msg[i+len(domain.ErrInvalidInput.Error())+2:]
	}
	return domain.ErrInvalidInput.Error()
}

func notFoundMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrCompanyNotFound):
		return domain.ErrCompanyNotFound.Error()
	case errors.Is(err, domain.ErrUserNotFound):
		return domain.ErrUserNotFound.Error()
	case errors.Is(err, domain.ErrLinkCodeInvalid):
		return domain.ErrLinkCodeInvalid.Error()
	default:
		return "not found"
	}
}
