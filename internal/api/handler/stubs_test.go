package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fineko/fineko-api/internal/core/domain"
	"github.com/fineko/fineko-api/internal/core/ports"
	"github.com/fineko/fineko-api/internal/infrastructure/telegram"
)

type stubLoginService struct {
	loginFn func(ctx context.Context, id domain.ExternalIdentity, rememberMe bool) (*ports.LoginResult, error)
}

func (s *stubLoginService) LoginWithExternalIdentity(ctx context.Context, id domain.ExternalIdentity, rememberMe bool) (*ports.LoginResult, error) {
	return s.loginFn(ctx, id, rememberMe)
}

type stubCompanyService struct {
	listForTempFn func(ctx context.Context, tempToken string) (*ports.CompanyChoice, error)
	selectFn      func(ctx context.Context, in ports.SelectCompanyInput) (*ports.CredentialResult, error)
	createFn      func(ctx context.Context, tempToken, name string) (*ports.CredentialResult, error)
	switchFn      func(ctx context.Context, userID, companyID string, rememberMe bool) (*ports.CredentialResult, error)
	listForUserFn func(ctx context.Context, userID string) ([]*domain.Company, error)
	listAllFn     func(ctx context.Context, offset, limit int) ([]*domain.Company, int64, error)
	currentFn     func(ctx context.Context, userID, companyID string) (*domain.User, *domain.Company, error)
}

func (s *stubCompanyService) ListForTempToken(ctx context.Context, tempToken string) (*ports.CompanyChoice, error) {
	return s.listForTempFn(ctx, tempToken)
}
func (s *stubCompanyService) SelectCompany(ctx context.Context, in ports.SelectCompanyInput) (*ports.CredentialResult, error) {
	return s.selectFn(ctx, in)
}
func (s *stubCompanyService) CreateCompanyAndLogin(ctx context.Context, tempToken, name string) (*ports.CredentialResult, error) {
	return s.createFn(ctx, tempToken, name)
}
func (s *stubCompanyService) SwitchCompany(ctx context.Context, userID, companyID string, rememberMe bool) (*ports.CredentialResult, error) {
	return s.switchFn(ctx, userID, companyID, rememberMe)
}
func (s *stubCompanyService) ListForUser(ctx context.Context, userID string) ([]*domain.Company, error) {
	return s.listForUserFn(ctx, userID)
}
func (s *stubCompanyService) ListAll(ctx context.Context, offset, limit int) ([]*domain.Company, int64, error) {
	return s.listAllFn(ctx, offset, limit)
}
func (s *stubCompanyService) Current(ctx context.Context, userID, companyID string) (*domain.User, *domain.Company, error) {
	return s.currentFn(ctx, userID, companyID)
}

type stubGroupLinks struct {
	createFn func(ctx context.Context, userID, companyID string) (*domain.Session, error)
}

func (s *stubGroupLinks) CreateLinkCode(ctx context.Context, userID, companyID string) (*domain.Session, error) {
	return s.createFn(ctx, userID, companyID)
}
func (s *stubGroupLinks) LinkChat(context.Context, string, int64) (*domain.Company, error) {
	panic("not used by handlers")
}

type stubWidget struct{ err error }

func (s stubWidget) Verify(telegram.WidgetLogin) error { return s.err }

type stubTelegramService struct {
	updates []domain.TelegramUpdate
	err     error
}

func (s *stubTelegramService) HandleUpdate(_ context.Context, u domain.TelegramUpdate) error {
	s.updates = append(s.updates, u)
	return s.err
}

type stubGenerator struct {
	res *domain.ContentResponse
	err error
}

func (s stubGenerator) Generate(context.Context, domain.ContentRequest) (*domain.ContentResponse, error) {
	return s.res, s.err
}

var testCookie = CookieConfig{Name: "auth-token", Secure: true}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func newJSONContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// authed marks c as carrying a verified credential.
func authed(c echo.Context, userID, companyID string, rememberMe bool) {
	c.Set("user_id", userID)
	c.Set("company_id", companyID)
	c.Set("remember_me", rememberMe)
}
