package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// SessionType distinguishes the short-lived server-side sessions.
type SessionType string

const (
	// SessionTemp bridges identity verification and company selection.
	SessionTemp SessionType = "temp"
	// SessionGroupLink is a one-time code binding a Telegram group to a company.
	SessionGroupLink SessionType = "group_link"
)

const (
	TempSessionTTL = 5 * time.Minute
	GroupLinkTTL   = 10 * time.Minute
)

const sessionIDBytes = 32

// Session is an opaque server-side record. The ID is the bearer value handed
// to the client; it carries no data of its own.
type Session struct {
	ID         string      `json:"id"`
	Type       SessionType `json:"type"`
	UserID     string      `json:"userId"`
	CompanyID  string      `json:"companyId,omitempty"`
	RememberMe bool        `json:"rememberMe"`
	CreatedAt  time.Time   `json:"createdAt"`
	ExpiresAt  time.Time   `json:"expiresAt"`
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// NewSessionID returns a 256-bit random hex identifier.
func NewSessionID() (string, error) {
	b := make([]byte, sessionIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return hex.EncodeToString(b), nil
}
