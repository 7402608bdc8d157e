package domain

import "time"

// Company is a tenant. All task data in the external backend is scoped to one.
type Company struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	OwnerID             string     `json:"ownerId"`
	SubscriptionTier    string     `json:"subscriptionTier,omitempty"`
	SubscriptionExpires *time.Time `json:"subscriptionExpires,omitempty"`
	TrialEnds           *time.Time `json:"trialEnds,omitempty"`
	TelegramChatID      int64      `json:"telegramChatId,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
}

// MaxCompanyNameLength bounds the trimmed company name.
const MaxCompanyNameLength = 200
