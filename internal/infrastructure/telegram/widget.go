package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fineko/fineko-api/internal/core/domain"
)

const (
	// MaxWidgetAge bounds how old a Login Widget payload may be.
	MaxWidgetAge = 24 * time.Hour
	// MaxClockSkew bounds how far in the future auth_date may lie.
	MaxClockSkew = time.Minute
)

// ErrNoBotToken is returned by NewWidgetVerifier when the bot token is empty;
// SHA256("") is public, so such a verifier would accept forged payloads.
var ErrNoBotToken = errors.New("telegram: bot token is required for widget verification")

// WidgetLogin is the payload the Telegram Login Widget hands to the browser.
type WidgetLogin struct {
	ID        int64  `json:"id" validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
	PhotoURL  string `json:"photo_url,omitempty"`
	AuthDate  int64  `json:"auth_date" validate:"required"`
	Hash      string `json:"hash" validate:"required"`
}

// Identity converts a verified payload to the login input.
func (w WidgetLogin) Identity() domain.ExternalIdentity {
	return domain.ExternalIdentity{
		ExternalID: strconv.FormatInt(w.ID, 10),
		FirstName:  w.FirstName,
		LastName:   w.LastName,
		Username:   w.Username,
		AvatarURL:  w.PhotoURL,
	}
}

// WidgetVerifier checks Login Widget signatures for one bot.
type WidgetVerifier struct {
	secret []byte
	now    func() time.Time
}

func NewWidgetVerifier(botToken string) (*WidgetVerifier, error) {
	if botToken == "" {
		return nil, ErrNoBotToken
	}
	sum := sha256.Sum256([]byte(botToken))
	return &WidgetVerifier{secret: sum[:], now: time.Now}, nil
}

// Verify checks hash against the data-check-string and rejects stale or
// future-dated payloads.
// Failures wrap domain.ErrUnauthenticated.
func (v *WidgetVerifier) Verify(w WidgetLogin) error {
	got, err := hex.DecodeString(w.Hash)
	if err != nil {
		return fmt.Errorf("%w: telegram hash is not hex", domain.ErrMalformed)
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(dataCheckString(w)))
	if !hmac.Equal(got, mac.Sum(nil)) {
		return fmt.Errorf("%w: telegram login", domain.ErrInvalidSignature)
	}

	authDate := time.Unix(w.AuthDate, 0)
	age := v.now().Sub(authDate)
	if age > MaxWidgetAge {
		return fmt.Errorf("%w: telegram login", domain.ErrExpired)
	}
	if age < -MaxClockSkew {
		return fmt.Errorf("%w: telegram auth_date is in the future", domain.ErrMalformed)
	}
	return nil
}

// dataCheckString joins every received field except hash as key=value
// lines in alphabetical key order.
func dataCheckString(w WidgetLogin) string {
	fields := map[string]string{
		"id":         strconv.FormatInt(w.ID, 10),
		"first_name": w.FirstName,
		"auth_date":  strconv.FormatInt(w.AuthDate, 10),
	}
	if w.LastName != "" {
		fields["last_name"] = w.LastName
	}
	if w.Username != "" {
		fields["username"] = w.Username
	}
	if w.PhotoURL != "" {
		fields["photo_url"] = w.PhotoURL
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+fields[k])
	}
	return strings.Join(lines, "\n")
}
