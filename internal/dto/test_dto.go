package dto

import (
	"time"

	"github.com/voxera-dev/voxera-api/internal/models"
)

// QuestionCreateRequest describes one question inside a test creation payload.
type QuestionCreateRequest struct {
	Content   string `json:"content" validate:"required,min=10"`
	TimeLimit int    `json:"time_limit" validate:"required,gt=0"`
}

// TestCreateRequest is the payload for authoring a new test.
type TestCreateRequest struct {
	Title     string                  `json:"title" validate:"required,min=3"`
	Status    string                  `json:"status" validate:"omitempty,oneof=DRAFT ACTIVE ARCHIVED"`
	Questions []QuestionCreateRequest `json:"questions" validate:"required,min=1,dive"`
}

// TestUpdateRequest changes the lifecycle status of a test.
type TestUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=DRAFT ACTIVE ARCHIVED"`
}

// QuestionResponse represents a question to API consumers.
type QuestionResponse struct {
	ID         uint   `json:"id"`
	Content    string `json:"content"`
	TimeLimit  int    `json:"time_limit"`
	OrderIndex int    `json:"order_index"`
}

// TestResponse represents a test with its ordered questions.
type TestResponse struct {
	ID         uint               `json:"id"`
	Title      string             `json:"title"`
	AccessCode string             `json:"access_code"`
	Status     string             `json:"status"`
	CreatedAt  time.Time          `json:"created_at"`
	Questions  []QuestionResponse `json:"questions"`
}

// NewQuestionResponse builds a question DTO from a model.
func NewQuestionResponse(question models.Question) QuestionResponse {
	return QuestionResponse{
		ID:         question.ID,
		Content:    question.Content,
		TimeLimit:  question.TimeLimit,
		OrderIndex: question.OrderIndex,
	}
}

// NewTestResponse builds a test DTO from a model, preserving question order.
func NewTestResponse(test models.Test) TestResponse {
	questions := make([]QuestionResponse, 0, len(test.Questions))
	for _, question := range test.Questions {
		questions = append(questions, NewQuestionResponse(question))
	}

	return TestResponse{
		ID:         test.ID,
		Title:      test.Title,
		AccessCode: test.AccessCode,
		Status:     test.Status,
		CreatedAt:  test.CreatedAt,
		Questions:  questions,
	}
}
