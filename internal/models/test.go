package models

import "time"

// TestStatus enumerates lifecycle states for an interview test.
const (
	TestStatusDraft    = "DRAFT"
	TestStatusActive   = "ACTIVE"
	TestStatusArchived = "ARCHIVED"
)

// Test is a set of timed questions authored by an interviewer. Candidates start a
// test through its access code.
type Test struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	AccessCode  string     `gorm:"size:16;uniqueIndex;not null" json:"access_code"`
	Status      string     `gorm:"size:32;not null" json:"status"`
	CreatedByID uint       `gorm:"not null;index" json:"created_by_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Questions   []Question `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"questions"`
}

// IsActive reports whether candidates may start interviews against the test.
func (t Test) IsActive() bool {
	return t.Status == TestStatusActive
}
