package handler

import (
	"time"

	"github.com/fineko/fineko-api/internal/core/domain"
)

// telegramLoginRequest is the Login Widget payload posted by the browser.
type telegramLoginRequest struct {
	ID         int64  `json:"id" validate:"required"`
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name,omitempty"`
	Username   string `json:"username,omitempty"`
	PhotoURL   string `json:"photo_url,omitempty"`
	AuthDate   int64  `json:"auth_date" validate:"required"`
	Hash       string `json:"hash" validate:"required"`
	RememberMe bool   `json:"rememberMe,omitempty"`
}

type loginResponse struct {
	TempToken string       `json:"tempToken"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *domain.User `json:"user"`
}

type companiesResponse struct {
	Companies []*domain.Company `json:"companies"`
	Next      string            `json:"next,omitempty"`
}

type selectCompanyRequest struct {
	CompanyID  string `json:"companyId" validate:"required"`
	RememberMe *bool  `json:"rememberMe,omitempty"`
}

type createCompanyRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// sessionResponse answers every call that sets the credential cookie. The
// credential itself is never in the body.
type sessionResponse struct {
	User      *domain.User    `json:"user"`
	Company   *domain.Company `json:"company"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

type meResponse struct {
	User    *domain.User    `json:"user"`
	Company *domain.Company `json:"company"`
}

type switchCompanyRequest struct {
	CompanyID  string `json:"companyId" validate:"required"`
	RememberMe *bool  `json:"rememberMe,omitempty"`
}

type groupLinkResponse struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type adminCompaniesResponse struct {
	Companies []*domain.Company `json:"companies"`
	Total     int64             `json:"total"`
	Offset    int               `json:"offset"`
}
