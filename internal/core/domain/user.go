package domain

import "time"

// User is a person identified by their Telegram account.
// TelegramUserID never changes once the user exists.
type User struct {
	ID               string    `json:"id"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName,omitempty"`
	TelegramUserID   string    `json:"telegramUserId"`
	TelegramUsername string    `json:"telegramUsername,omitempty"`
	Avatar           string    `json:"avatar,omitempty"`
	IsAdmin          bool      `json:"isAdmin"`
	CreatedAt        time.Time `json:"createdAt"`
}

// ExternalIdentity is the profile delivered by an identity event (bot
// command or Login Widget).
type ExternalIdentity struct {
	ExternalID string
	FirstName  string
	LastName   string
	Username   string
	AvatarURL  string
}
