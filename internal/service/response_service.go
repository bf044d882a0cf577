package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/voxera-dev/voxera-api/internal/dto"
	"github.com/voxera-dev/voxera-api/internal/models"
	"github.com/voxera-dev/voxera-api/internal/repository"
)

// ErrResponseExists indicates a response was already recorded for the question.
var ErrResponseExists = errors.New("response already exists for this question")

// ErrInterviewNotInProgress indicates responses can no longer be recorded.
var ErrInterviewNotInProgress = errors.New("interview not in progress")

// ErrQuestionNotInTest indicates the question does not belong to the interview's test.
var ErrQuestionNotInTest = errors.New("question does not belong to this test")

// ResponseService records candidate answers during an interview.
type ResponseService interface {
	Record(ctx context.Context, payload dto.ResponseCreateRequest) (dto.ResponseCreateResult, error)
}

type responseService struct {
	responses  repository.ResponseRepository
	interviews repository.InterviewRepository
	tests      repository.TestRepository
	validator  *validator.Validate
	monitor    MonitorPublisher
	sanitizer  *bluemonday.Policy
	logger     zerolog.Logger
}

// NewResponseService constructs a response service.
func NewResponseService(responseRepo repository.ResponseRepository, interviewRepo repository.InterviewRepository, testRepo repository.TestRepository, validate *validator.Validate, monitor MonitorPublisher, logger zerolog.Logger) ResponseService {
	return &responseService{
		responses:  responseRepo,
		interviews: interviewRepo,
		tests:      testRepo,
		validator:  validate,
		monitor:    monitor,
		sanitizer:  bluemonday.StrictPolicy(),
		logger:     logger.With().Str("component", "response_service").Logger(),
	}
}

func (s *responseService) Record(ctx context.Context, payload dto.ResponseCreateRequest) (dto.ResponseCreateResult, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ResponseCreateResult{}, err
	}

	interview, err := s.interviews.GetByID(ctx, payload.InterviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ResponseCreateResult{}, ErrInterviewNotFound
		}
		return dto.ResponseCreateResult{}, err
	}
	if interview.DeviceID != payload.DeviceID {
		return dto.ResponseCreateResult{}, ErrDeviceMismatch
	}
	if interview.Status != models.InterviewStatusInProgress {
		return dto.ResponseCreateResult{}, ErrInterviewNotInProgress
	}

	test, err := s.tests.GetByID(ctx, interview.TestID)
	if err != nil {
		return dto.ResponseCreateResult{}, err
	}
	if !testHasQuestion(test, payload.QuestionID) {
		return dto.ResponseCreateResult{}, ErrQuestionNotInTest
	}

	exists, err := s.responses.Exists(ctx, payload.InterviewID, payload.QuestionID)
	if err != nil {
		return dto.ResponseCreateResult{}, err
	}
	if exists {
		return dto.ResponseCreateResult{}, ErrResponseExists
	}

	response := models.Response{
		InterviewID: payload.InterviewID,
		QuestionID:  payload.QuestionID,
		Transcript:  s.sanitizer.Sanitize(strings.TrimSpace(payload.Transcript)),
		AudioURL:    strings.TrimSpace(payload.AudioURL),
	}
	if err := s.responses.Create(ctx, &response); err != nil {
		return dto.ResponseCreateResult{}, err
	}

	if s.monitor != nil {
		s.monitor.Publish(dto.MonitorEvent{
			Type:        dto.MonitorEventResponseRecorded,
			TestID:      interview.TestID,
			InterviewID: interview.ID,
			QuestionID:  payload.QuestionID,
		})
	}

	s.logger.Info().Uint("interview_id", interview.ID).Uint("question_id", payload.QuestionID).Msg("response recorded")
	return dto.ResponseCreateResult{ResponseID: response.ID}, nil
}

func testHasQuestion(test models.Test, questionID uint) bool {
	for _, question := range test.Questions {
		if question.ID == questionID {
			return true
		}
	}
	return false
}
