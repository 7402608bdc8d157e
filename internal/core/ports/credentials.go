package ports

import "github.com/fineko/fineko-api/internal/core/domain"

// CredentialIssuer signs permanent credentials.
type CredentialIssuer interface {
	Issue(userID, companyID string, rememberMe bool) (*domain.Credential, error)
}

// CredentialVerifier checks permanent credentials. Errors wrap
// domain.ErrUnauthenticated.
type CredentialVerifier interface {
	Verify(token string) (*domain.CredentialClaims, error)
}

// CredentialCodec is both halves.
type CredentialCodec interface {
	CredentialIssuer
	CredentialVerifier
}
