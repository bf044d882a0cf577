package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/voxera-dev/voxera-api/internal/dto"
	"github.com/voxera-dev/voxera-api/internal/models"
	"github.com/voxera-dev/voxera-api/internal/repository"
)

// ErrInterviewNotFound indicates the interview cannot be located.
var ErrInterviewNotFound = errors.New("interview not found")

// ErrDeviceMismatch indicates the caller's device does not own the interview.
var ErrDeviceMismatch = errors.New("unauthorized device")

// ErrInvalidAccessCode indicates no startable test matches the access code.
var ErrInvalidAccessCode = errors.New("invalid access code")

// ErrTestNotStartable indicates the test exists but is not accepting interviews.
var ErrTestNotStartable = errors.New("test is not active")

// InterviewService exposes candidate session operations.
type InterviewService interface {
	Start(ctx context.Context, payload dto.InterviewStartRequest) (dto.InterviewStartResponse, error)
	UpdateStatus(ctx context.Context, id uint, payload dto.InterviewUpdateRequest) (dto.InterviewResponse, error)
	Get(ctx context.Context, id uint) (dto.InterviewResponse, error)
}

type interviewService struct {
	interviews repository.InterviewRepository
	tests      repository.TestRepository
	reports    repository.ReportRepository
	validator  *validator.Validate
	monitor    MonitorPublisher
	sanitizer  *bluemonday.Policy
	logger     zerolog.Logger
}

// NewInterviewService constructs an interview service.
func NewInterviewService(interviewRepo repository.InterviewRepository, testRepo repository.TestRepository, reportRepo repository.ReportRepository, validate *validator.Validate, monitor MonitorPublisher, logger zerolog.Logger) InterviewService {
	return &interviewService{
		interviews: interviewRepo,
		tests:      testRepo,
		reports:    reportRepo,
		validator:  validate,
		monitor:    monitor,
		sanitizer:  bluemonday.StrictPolicy(),
		logger:     logger.With().Str("component", "interview_service").Logger(),
	}
}

func (s *interviewService) Start(ctx context.Context, payload dto.InterviewStartRequest) (dto.InterviewStartResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.InterviewStartResponse{}, err
	}

	test, err := s.tests.GetByAccessCode(ctx, strings.ToUpper(strings.TrimSpace(payload.AccessCode)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.InterviewStartResponse{}, ErrInvalidAccessCode
		}
		return dto.InterviewStartResponse{}, err
	}
	if !test.IsActive() {
		return dto.InterviewStartResponse{}, ErrTestNotStartable
	}

	interview := models.Interview{
		TestID:    test.ID,
		DeviceID:  strings.TrimSpace(payload.DeviceID),
		Status:    models.InterviewStatusInProgress,
		StartedAt: time.Now().UTC(),
	}
	if err := s.interviews.Create(ctx, &interview); err != nil {
		return dto.InterviewStartResponse{}, err
	}

	s.publish(dto.MonitorEvent{
		Type:        dto.MonitorEventInterviewStarted,
		TestID:      test.ID,
		InterviewID: interview.ID,
		Status:      interview.Status,
	})

	questions := make([]dto.QuestionResponse, 0, len(test.Questions))
	for _, question := range test.Questions {
		questions = append(questions, dto.NewQuestionResponse(question))
	}

	s.logger.Info().Uint("interview_id", interview.ID).Uint("test_id", test.ID).Msg("interview started")
	return dto.InterviewStartResponse{
		InterviewID:    interview.ID,
		TestTitle:      test.Title,
		TotalQuestions: len(questions),
		Questions:      questions,
	}, nil
}

func (s *interviewService) UpdateStatus(ctx context.Context, id uint, payload dto.InterviewUpdateRequest) (dto.InterviewResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.InterviewResponse{}, err
	}

	interview, err := s.interviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.InterviewResponse{}, ErrInterviewNotFound
		}
		return dto.InterviewResponse{}, err
	}
	if interview.DeviceID != payload.DeviceID {
		return dto.InterviewResponse{}, ErrDeviceMismatch
	}

	interview.Status = payload.Status
	if name := strings.TrimSpace(payload.CandidateName); name != "" {
		interview.CandidateName = s.sanitizer.Sanitize(name)
	}
	if models.IsTerminalInterviewStatus(payload.Status) && interview.CompletedAt == nil {
		now := time.Now().UTC()
		interview.CompletedAt = &now
	}

	if err := s.interviews.Update(ctx, &interview); err != nil {
		return dto.InterviewResponse{}, err
	}

	s.publish(dto.MonitorEvent{
		Type:          dto.MonitorEventStatusChanged,
		TestID:        interview.TestID,
		InterviewID:   interview.ID,
		CandidateName: interview.CandidateName,
		Status:        interview.Status,
	})

	return dto.NewInterviewResponse(interview, nil), nil
}

func (s *interviewService) Get(ctx context.Context, id uint) (dto.InterviewResponse, error) {
	interview, err := s.interviews.GetWithResponses(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.InterviewResponse{}, ErrInterviewNotFound
		}
		return dto.InterviewResponse{}, err
	}

	var report *models.Report
	if stored, err := s.reports.GetByInterview(ctx, id); err == nil {
		report = &stored
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.InterviewResponse{}, err
	}

	return dto.NewInterviewResponse(interview, report), nil
}

func (s *interviewService) publish(event dto.MonitorEvent) {
	if s.monitor != nil {
		s.monitor.Publish(event)
	}
}
