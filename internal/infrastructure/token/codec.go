// Package token signs and verifies permanent credentials.
//
// Only the permanent kind lives here. Temporary tokens are opaque session
// ids and never pass through this package.
package token

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"

	"github.com/fineko/fineko-api/internal/core/domain"
)

const (
	kindPermanent = "permanent"

	// HKDF info label for the permanent credential key. Any future token
	// kind gets its own label and therefore its own key.
	permanentKeyInfo = "fineko/credential/permanent/v1"

	minSecretLength = 32
)

var errShortSecret = fmt.Errorf("auth secret must be at least %d bytes", minSecretLength)

type claims struct {
	CompanyID  string `json:"cid"`
	RememberMe bool   `json:"rem"`
	Kind       string `json:"typ"`
	jwt.RegisteredClaims
}

// Codec issues and verifies HS256 permanent credentials.
type Codec struct {
	key    []byte
	now    func() time.Time
	parser *jwt.Parser
}

// Option customises a Codec.
type Option func(*Codec)

// WithClock replaces time.Now. Tests use it to cross expiry boundaries.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// NewCodec derives the signing key from secret.
func NewCodec(secret string, opts ...Option) (*Codec, error) {
	if len(secret) < minSecretLength {
		return nil, errShortSecret
	}
	key, err := deriveKey(secret, permanentKeyInfo)
	if err != nil {
		return nil, err
	}

	c := &Codec{key: key, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	c.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(c.now),
	)
	return c, nil
}

func deriveKey(secret, info string) ([]byte, error) {
	key := make([]byte, sha256.Size)
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(info))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}

// Issue signs a credential for (userID, companyID). Callers must have
// checked membership first.
func (c *Codec) Issue(userID, companyID string, rememberMe bool) (*domain.Credential, error) {
	if userID == "" || companyID == "" {
		return nil, domain.InvalidInput("credential requires user and company")
	}

	// NumericDate has second precision; truncate so ExpiresAt matches the token.
	issued := c.now().UTC().Truncate(time.Second)
	expires := issued.Add(domain.CredentialLifetime(rememberMe))

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		CompanyID:  companyID,
		RememberMe: rememberMe,
		Kind:       kindPermanent,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	signed, err := t.SignedString(c.key)
	if err != nil {
		return nil, fmt.Errorf("sign credential: %w", err)
	}

	return &domain.Credential{Token: signed, IssuedAt: issued, ExpiresAt: expires}, nil
}

// Verify returns the claims of a valid credential. A credential is invalid
// from its exp second onwards.
func (c *Codec) Verify(token string) (*domain.CredentialClaims, error) {
	if token == "" {
		return nil, domain.ErrMalformed
	}

	var cl claims
	_, err := c.parser.ParseWithClaims(token, &cl, func(*jwt.Token) (any, error) {
		return c.key, nil
	})
	if err != nil {
		return nil, classify(err)
	}

	if cl.Kind != kindPermanent || cl.Subject == "" || cl.CompanyID == "" || cl.IssuedAt == nil {
		return nil, domain.ErrMalformed
	}

	return &domain.CredentialClaims{
		UserID:     cl.Subject,
		CompanyID:  cl.CompanyID,
		RememberMe: cl.RememberMe,
		IssuedAt:   cl.IssuedAt.Time,
		ExpiresAt:  cl.ExpiresAt.Time,
	}, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return domain.ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrExpired
	default:
		return domain.ErrMalformed
	}
}
