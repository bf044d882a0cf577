package dto

// ResponseCreateRequest records one answer for an in-progress interview.
type ResponseCreateRequest struct {
	InterviewID uint   `json:"interview_id" validate:"required,gt=0"`
	QuestionID  uint   `json:"question_id" validate:"required,gt=0"`
	DeviceID    string `json:"device_id" validate:"required"`
	Transcript  string `json:"transcript" validate:"required"`
	AudioURL    string `json:"audio_url" validate:"omitempty,url"`
}

// ResponseCreateResult acknowledges a recorded answer.
type ResponseCreateResult struct {
	ResponseID uint `json:"response_id"`
}
