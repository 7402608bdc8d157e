package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fineko/fineko-api/internal/core/domain"
)

func TestContentHandler_Generate(t *testing.T) {
	e := newEcho()
	h := NewContentHandler(stubGenerator{res: &domain.ContentResponse{Title: "Tasks"}}, zerolog.Nop())

	c, rec := newJSONContext(e, http.MethodPost, "/api/content/generate", `{"pageId":"tasks"}`)
	authed(c, "u1", "c1", false)
	if err := h.Generate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"title":"Tasks"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestContentHandler_UpstreamFailure(t *testing.T) {
	e := newEcho()
	h := NewContentHandler(stubGenerator{err: domain.ErrUpstream}, zerolog.Nop())

	c, _ := newJSONContext(e, http.MethodPost, "/api/content/generate", `{"pageId":"tasks"}`)
	authed(c, "u1", "c1", false)
	err := h.Generate(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadGateway || he.Message != "help unavailable" {
		t.Fatalf("expected 502 help unavailable, got %v", err)
	}
}

func TestContentHandler_RequiresContext(t *testing.T) {
	e := newEcho()
	h := NewContentHandler(stubGenerator{}, zerolog.Nop())

	c, _ := newJSONContext(e, http.MethodPost, "/api/content/generate", `{}`)
	authed(c, "u1", "c1", false)
	if err := h.Generate(c); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAdminHandler_ListCompanies(t *testing.T) {
	e := newEcho()
	companies := &stubCompanyService{
		listAllFn: func(ctx context.Context, offset, limit int) ([]*domain.Company, int64, error) {
			if offset != 10 || limit != 5 {
				t.Fatalf("unexpected paging: %d %d", offset, limit)
			}
			return []*domain.Company{{ID: "c1"}}, 11, nil
		},
	}
	h := NewAdminHandler(companies)

	c, rec := newJSONContext(e, http.MethodGet, "/api/admin/companies?offset=10&limit=5", "")
	if err := h.ListCompanies(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"total":11`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAdminHandler_BadPaging(t *testing.T) {
	e := newEcho()
	h := NewAdminHandler(&stubCompanyService{})

	c, _ := newJSONContext(e, http.MethodGet, "/api/admin/companies?limit=lots", "")
	if err := h.ListCompanies(c); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestTelegramHandler_RejectsWrongSecret(t *testing.T) {
	e := newEcho()
	svc := &stubTelegramService{}
	h := NewTelegramHandler(svc, "s3cret", zerolog.Nop())

	c, _ := newJSONContext(e, http.MethodPost, "/api/telegram/webhook", `{"update_id":1}`)
	c.Request().Header.Set(HeaderWebhookSecret, "guess")
	err := h.Webhook(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
	if len(svc.updates) != 0 {
		t.Fatalf("update must not be processed")
	}
}

func TestTelegramHandler_AlwaysAcknowledges(t *testing.T) {
	bodies := []string{
		`{"update_id":5,"message":{"message_id":1,"from":{"id":1,"first_name":"A"},"chat":{"id":1,"type":"private"},"text":"/start"}}`,
		`not json`,
	}
	for _, body := range bodies {
		e := newEcho()
		svc := &stubTelegramService{err: errors.New("mongo down")}
		h := NewTelegramHandler(svc, "s3cret", zerolog.Nop())

		c, rec := newJSONContext(e, http.MethodPost, "/api/telegram/webhook", body)
		c.Request().Header.Set(HeaderWebhookSecret, "s3cret")
		if err := h.Webhook(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	}
}

func TestTelegramHandler_ForwardsUpdate(t *testing.T) {
	e := newEcho()
	svc := &stubTelegramService{}
	h := NewTelegramHandler(svc, "", zerolog.Nop())

	c, _ := newJSONContext(e, http.MethodPost, "/api/telegram/webhook",
		`{"update_id":9,"message":{"message_id":1,"from":{"id":7,"first_name":"A"},"chat":{"id":-3,"type":"group"},"text":"/link abc"}}`)
	if err := h.Webhook(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(svc.updates) != 1 {
		t.Fatalf("expected one update")
	}
	u := svc.updates[0]
	if u.UpdateID != 9 || u.Message.Chat.Type != domain.ChatGroup || u.Message.From.ID != 7 {
		t.Fatalf("unexpected update: %+v", u)
	}
}
