package domain

import "time"

const (
	CredentialTTL           = 24 * time.Hour
	RememberMeCredentialTTL = 30 * 24 * time.Hour
)

// CredentialLifetime returns how long a permanent credential stays valid.
func CredentialLifetime(rememberMe bool) time.Duration {
	if rememberMe {
		return RememberMeCredentialTTL
	}
	return CredentialTTL
}

// Credential is a signed permanent credential ready to be placed in a cookie.
type Credential struct {
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// MaxAge is the cookie lifetime in seconds.
func (c Credential) MaxAge() int {
	return int(c.ExpiresAt.Sub(c.IssuedAt) / time.Second)
}

// CredentialClaims is what a verified permanent credential asserts.
type CredentialClaims struct {
	UserID     string
	CompanyID  string
	RememberMe bool
	IssuedAt   time.Time
	ExpiresAt  time.Time
}
