package domain

import "time"

// ContactStage tracks how warm a relationship with a person is.
type ContactStage string

const (
	ContactNew        ContactStage = "new"
	ContactNetworking ContactStage = "networking"
	ContactWarm       ContactStage = "warm"
	ContactProspect   ContactStage = "prospect"
	ContactClient     ContactStage = "client"
	ContactInactive   ContactStage = "inactive"
)

// IsValid reports whether s is a known contact stage.
func (s ContactStage) IsValid() bool {
	switch s {
	case ContactNew, ContactNetworking, ContactWarm, ContactProspect, ContactClient, ContactInactive:
		return true
	}
	return false
}

// Contact is a person, optionally attached to a company.
type Contact struct {
	ID             string       `json:"id"`
	FullName       string       `json:"fullName"`
	Email          string       `json:"email"`
	Phone          string       `json:"phone"`
	Role           string       `json:"role"`
	CompanyID      *string      `json:"companyId"`   // weak reference
	CompanyName    string       `json:"companyName"` // denormalized
	Stage          ContactStage `json:"stage"`
	IsPrimary      bool         `json:"isPrimary"`
	NextAction     *string      `json:"nextAction"`
	NextActionDate *time.Time   `json:"nextActionDate"`
	LastActivityAt *time.Time   `json:"lastActivityAt"`
	AuditFields
}
