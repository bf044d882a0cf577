package models

import "time"

// InterviewStatus enumerates session states. COMPLETED is the only state that makes
// an interview eligible for evaluation.
const (
	InterviewStatusInProgress = "IN_PROGRESS"
	InterviewStatusCompleted  = "COMPLETED"
	InterviewStatusFailed     = "FAILED"
	InterviewStatusCancelled  = "CANCELLED"
)

// Interview is one candidate's device-bound attempt at a test.
type Interview struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	TestID        uint       `gorm:"not null;index" json:"test_id"`
	DeviceID      string     `gorm:"size:128;not null;index" json:"device_id"`
	CandidateName string     `gorm:"size:255" json:"candidate_name"`
	Status        string     `gorm:"size:32;not null" json:"status"`
	StartedAt     time.Time  `json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Test          Test       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"test"`
	Responses     []Response `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"responses"`
}

// ValidInterviewStatus reports whether the value is a known session state.
func ValidInterviewStatus(status string) bool {
	switch status {
	case InterviewStatusInProgress, InterviewStatusCompleted, InterviewStatusFailed, InterviewStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the status ends the session.
func IsTerminalInterviewStatus(status string) bool {
	switch status {
	case InterviewStatusCompleted, InterviewStatusFailed, InterviewStatusCancelled:
		return true
	}
	return false
}
