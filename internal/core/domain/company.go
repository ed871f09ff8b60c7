package domain

import "time"

// CompanyStatus is the relationship status of a company.
type CompanyStatus string

const (
	CompanyProspect CompanyStatus = "prospect"
	CompanyActive   CompanyStatus = "active"
	CompanyInactive CompanyStatus = "inactive"
	CompanyChurned  CompanyStatus = "churned"
)

// IsValid reports whether s is a known company status.
func (s CompanyStatus) IsValid() bool {
	switch s {
	case CompanyProspect, CompanyActive, CompanyInactive, CompanyChurned:
		return true
	}
	return false
}

// Company is an organisation the business sells to or works for.
type Company struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Status         CompanyStatus `json:"status"`
	Source         string        `json:"source"`
	Website        string        `json:"website"`
	Tags           []string      `json:"tags"`
	NextAction     *string       `json:"nextAction"`
	NextActionDate *time.Time    `json:"nextActionDate"`
	LastActivityAt *time.Time    `json:"lastActivityAt"`
	IsArchived     bool          `json:"isArchived"`
	AuditFields
}
