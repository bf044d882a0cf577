package dto

import (
	"time"

	"github.com/voxera-dev/voxera-api/internal/models"
)

// ReportCreateRequest asks for evaluation of one completed interview.
type ReportCreateRequest struct {
	InterviewID uint   `json:"interview_id" validate:"required,gt=0"`
	DeviceID    string `json:"device_id" validate:"required"`
}

// ScoreResponse is one per-question grade inside a report payload.
type ScoreResponse struct {
	ID         uint    `json:"id"`
	QuestionID uint    `json:"question_id"`
	Score      float64 `json:"score"`
	Feedback   string  `json:"feedback"`
}

// ReportResponse represents a persisted evaluation report.
type ReportResponse struct {
	ID          uint            `json:"id"`
	InterviewID uint            `json:"interview_id"`
	TotalScore  float64         `json:"total_score"`
	Feedback    string          `json:"feedback"`
	Provider    string          `json:"provider"`
	CreatedAt   time.Time       `json:"created_at"`
	Scores      []ScoreResponse `json:"scores"`
}

// TestReportsResponse lists every report produced for a test alongside the test's
// questions, for the interviewer dashboard.
type TestReportsResponse struct {
	Questions []QuestionResponse  `json:"questions"`
	Reports   []TestReportSummary `json:"reports"`
}

// TestReportSummary couples one report with its interview's candidate info.
type TestReportSummary struct {
	Report        ReportResponse          `json:"report"`
	InterviewID   uint                    `json:"interview_id"`
	CandidateName string                  `json:"candidate_name"`
	StartedAt     time.Time               `json:"started_at"`
	CompletedAt   *time.Time              `json:"completed_at"`
	Responses     []AnswerRecordedPayload `json:"responses"`
}

// NewReportResponse builds a report DTO from a model.
func NewReportResponse(report models.Report) ReportResponse {
	scores := make([]ScoreResponse, 0, len(report.Scores))
	for _, score := range report.Scores {
		scores = append(scores, ScoreResponse{
			ID:         score.ID,
			QuestionID: score.QuestionID,
			Score:      score.Score,
			Feedback:   score.Feedback,
		})
	}

	return ReportResponse{
		ID:          report.ID,
		InterviewID: report.InterviewID,
		TotalScore:  report.TotalScore,
		Feedback:    report.Feedback,
		Provider:    report.Provider,
		CreatedAt:   report.CreatedAt,
		Scores:      scores,
	}
}
