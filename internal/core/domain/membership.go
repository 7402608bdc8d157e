package domain

import "time"

// MembershipStatus describes a user's standing inside a company.
type MembershipStatus string

const (
	MembershipOwner  MembershipStatus = "owner"
	MembershipMember MembershipStatus = "member"
)

// Membership links a user to a company. It is the only artifact that grants
// company-scoped access.
type Membership struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	CompanyID string           `json:"companyId"`
	Status    MembershipStatus `json:"status"`
	Notes     string           `json:"notes,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}
