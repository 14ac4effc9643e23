package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// NewAuditFields stamps creation and update fields with the same actor and time.
func NewAuditFields(actor string, at time.Time) AuditFields {
	return AuditFields{
		CreatedAt:     at,
		CreatedBy:     actor,
		LastUpdatedAt: at,
		LastUpdatedBy: actor,
	}
}

// DateOnly truncates t to midnight UTC. Entry dates and period bounds are compared as calendar days.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
