package dto

import "time"

// Monitor event types emitted while interviews run.
const (
	MonitorEventInterviewStarted = "interview_started"
	MonitorEventStatusChanged    = "status_changed"
	MonitorEventResponseRecorded = "response_recorded"
	MonitorEventReportCreated    = "report_created"
)

// MonitorEvent is one live update streamed to interviewers watching a test.
type MonitorEvent struct {
	Type          string    `json:"type"`
	TestID        uint      `json:"test_id"`
	InterviewID   uint      `json:"interview_id"`
	CandidateName string    `json:"candidate_name,omitempty"`
	Status        string    `json:"status,omitempty"`
	QuestionID    uint      `json:"question_id,omitempty"`
	TotalScore    float64   `json:"total_score,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
