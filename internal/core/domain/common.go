package domain

import "time"

// AuditFields holds standard audit information for domain entities.
// Version is the optimistic concurrency counter; updates are conditional on it.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
	Version       int64     `json:"version"`
}

// NewAuditFields stamps a freshly created entity.
func NewAuditFields(userID string, now time.Time) AuditFields {
	return AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
		Version:       1,
	}
}

// Touch records a modification by userID at now. The Version is bumped by the
// repository once the conditional write succeeds.
func (a *AuditFields) Touch(userID string, now time.Time) {
	a.LastUpdatedAt = now
	a.LastUpdatedBy = userID
}

// Scope is the tenant key every read and write is filtered by.
type Scope struct {
	OrgID     string `json:"orgID"`
	ProjectID string `json:"projectID"`
}

// Valid reports whether both keys are present.
func (s Scope) Valid() bool {
	return s.OrgID != "" && s.ProjectID != ""
}
