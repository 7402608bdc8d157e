package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/fineko/fineko-api/internal/core/domain"
	"github.com/fineko/fineko-api/internal/core/ports"
)

func TestAccountHandler_Me(t *testing.T) {
	e := newEcho()
	companies := &stubCompanyService{
		currentFn: func(ctx context.Context, userID, companyID string) (*domain.User, *domain.Company, error) {
			return &domain.User{ID: userID}, &domain.Company{ID: companyID, Name: "Acme"}, nil
		},
	}
	h := NewAccountHandler(companies, &stubGroupLinks{}, testCookie)

	c, rec := newJSONContext(e, http.MethodGet, "/api/me", "")
	authed(c, "u1", "c1", false)
	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["user"]["id"] != "u1" || resp["company"]["id"] != "c1" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAccountHandler_MeWithoutIdentity(t *testing.T) {
	e := newEcho()
	h := NewAccountHandler(&stubCompanyService{}, &stubGroupLinks{}, testCookie)

	c, _ := newJSONContext(e, http.MethodGet, "/api/me", "")
	if err := h.Me(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAccountHandler_SwitchKeepsRememberMe(t *testing.T) {
	e := newEcho()
	companies := &stubCompanyService{
		switchFn: func(ctx context.Context, userID, companyID string, rememberMe bool) (*ports.CredentialResult, error) {
			if userID != "u1" || companyID != "c2" || !rememberMe {
				t.Fatalf("unexpected args: %s %s %v", userID, companyID, rememberMe)
			}
			return credResult(), nil
		},
	}
	h := NewAccountHandler(companies, &stubGroupLinks{}, testCookie)

	c, rec := newJSONContext(e, http.MethodPost, "/api/companies/switch", `{"companyId":"c2"}`)
	authed(c, "u1", "c1", true)
	if err := h.Switch(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(rec.Result().Cookies()) != 1 {
		t.Fatalf("expected a new cookie")
	}
}

func TestAccountHandler_SwitchForbidden(t *testing.T) {
	e := newEcho()
	companies := &stubCompanyService{
		switchFn: func(context.Context, string, string, bool) (*ports.CredentialResult, error) {
			return nil, domain.ErrForbidden
		},
	}
	h := NewAccountHandler(companies, &stubGroupLinks{}, testCookie)

	c, rec := newJSONContext(e, http.MethodPost, "/api/companies/switch", `{"companyId":"c9","rememberMe":false}`)
	authed(c, "u1", "c1", true)
	if err := h.Switch(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("no cookie on failure")
	}
}

func TestAccountHandler_GroupLink(t *testing.T) {
	e := newEcho()
	expires := time.Date(2024, 4, 1, 10, 10, 0, 0, time.UTC)
	links := &stubGroupLinks{
		createFn: func(ctx context.Context, userID, companyID string) (*domain.Session, error) {
			if userID != "u1" || companyID != "c1" {
				t.Fatalf("unexpected args: %s %s", userID, companyID)
			}
			return &domain.Session{ID: "code123", ExpiresAt: expires}, nil
		},
	}
	h := NewAccountHandler(&stubCompanyService{}, links, testCookie)

	c, rec := newJSONContext(e, http.MethodPost, "/api/companies/group-link", "")
	authed(c, "u1", "c1", false)
	if err := h.GroupLink(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp groupLinkResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Code != "code123" || !resp.ExpiresAt.Equal(expires) {
		t.Fatalf("unexpected body: %+v", resp)
	}
}
