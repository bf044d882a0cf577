package dto

import (
	"time"

	"github.com/voxera-dev/voxera-api/internal/models"
)

// InterviewStartRequest opens a new device-bound session against a test.
type InterviewStartRequest struct {
	AccessCode string `json:"access_code" validate:"required"`
	DeviceID   string `json:"device_id" validate:"required"`
}

// InterviewStartResponse returns the new session and the ordered questions to present.
type InterviewStartResponse struct {
	InterviewID    uint               `json:"interview_id"`
	TestTitle      string             `json:"test_title"`
	TotalQuestions int                `json:"total_questions"`
	Questions      []QuestionResponse `json:"questions"`
}

// InterviewUpdateRequest transitions the session status and optionally records the
// candidate's display name.
type InterviewUpdateRequest struct {
	Status        string `json:"status" validate:"required,oneof=IN_PROGRESS COMPLETED FAILED CANCELLED"`
	DeviceID      string `json:"device_id" validate:"required"`
	CandidateName string `json:"candidate_name" validate:"omitempty,max=255"`
}

// InterviewResponse represents a session to API consumers.
type InterviewResponse struct {
	ID            uint                    `json:"id"`
	TestID        uint                    `json:"test_id"`
	CandidateName string                  `json:"candidate_name"`
	Status        string                  `json:"status"`
	StartedAt     time.Time               `json:"started_at"`
	CompletedAt   *time.Time              `json:"completed_at"`
	Responses     []AnswerRecordedPayload `json:"responses,omitempty"`
	Report        *ReportResponse         `json:"report,omitempty"`
}

// AnswerRecordedPayload is the read shape of one recorded response.
type AnswerRecordedPayload struct {
	ID         uint   `json:"id"`
	QuestionID uint   `json:"question_id"`
	Transcript string `json:"transcript"`
	AudioURL   string `json:"audio_url"`
}

// NewInterviewResponse builds an interview DTO from a model.
func NewInterviewResponse(interview models.Interview, report *models.Report) InterviewResponse {
	responses := make([]AnswerRecordedPayload, 0, len(interview.Responses))
	for _, response := range interview.Responses {
		responses = append(responses, AnswerRecordedPayload{
			ID:         response.ID,
			QuestionID: response.QuestionID,
			Transcript: response.Transcript,
			AudioURL:   response.AudioURL,
		})
	}

	result := InterviewResponse{
		ID:            interview.ID,
		TestID:        interview.TestID,
		CandidateName: interview.CandidateName,
		Status:        interview.Status,
		StartedAt:     interview.StartedAt,
		CompletedAt:   interview.CompletedAt,
		Responses:     responses,
	}

	if report != nil {
		converted := NewReportResponse(*report)
		result.Report = &converted
	}

	return result
}
