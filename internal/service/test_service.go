package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/voxera-dev/voxera-api/internal/dto"
	"github.com/voxera-dev/voxera-api/internal/models"
	"github.com/voxera-dev/voxera-api/internal/repository"
)

// ErrTestNotFound indicates the test cannot be located.
var ErrTestNotFound = errors.New("test not found")

// ErrTestForbidden indicates the caller does not own the test.
var ErrTestForbidden = errors.New("forbidden")

const accessCodeLength = 6

// TestService exposes test authoring operations for interviewers.
type TestService interface {
	Create(ctx context.Context, ownerID uint, payload dto.TestCreateRequest) (dto.TestResponse, error)
	Get(ctx context.Context, id uint, ownerID uint) (dto.TestResponse, error)
	List(ctx context.Context, ownerID uint) ([]dto.TestResponse, error)
	UpdateStatus(ctx context.Context, id uint, ownerID uint, payload dto.TestUpdateRequest) (dto.TestResponse, error)
}

type testService struct {
	tests     repository.TestRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewTestService constructs a test service.
func NewTestService(testRepo repository.TestRepository, validate *validator.Validate, logger zerolog.Logger) TestService {
	return &testService{
		tests:     testRepo,
		validator: validate,
		logger:    logger.With().Str("component", "test_service").Logger(),
	}
}

func (s *testService) Create(ctx context.Context, ownerID uint, payload dto.TestCreateRequest) (dto.TestResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TestResponse{}, err
	}

	status := payload.Status
	if status == "" {
		status = models.TestStatusActive
	}

	questions := make([]models.Question, 0, len(payload.Questions))
	for i, question := range payload.Questions {
		questions = append(questions, models.Question{
			Content:    strings.TrimSpace(question.Content),
			TimeLimit:  question.TimeLimit,
			OrderIndex: i,
		})
	}

	test := models.Test{
		Title:       strings.TrimSpace(payload.Title),
		AccessCode:  newAccessCode(),
		Status:      status,
		CreatedByID: ownerID,
		Questions:   questions,
	}

	if err := s.tests.Create(ctx, &test); err != nil {
		return dto.TestResponse{}, err
	}

	s.logger.Info().Uint("test_id", test.ID).Int("questions", len(questions)).Msg("test created")
	return dto.NewTestResponse(test), nil
}

func (s *testService) Get(ctx context.Context, id uint, ownerID uint) (dto.TestResponse, error) {
	test, err := s.ownedTest(ctx, id, ownerID)
	if err != nil {
		return dto.TestResponse{}, err
	}
	return dto.NewTestResponse(test), nil
}

func (s *testService) List(ctx context.Context, ownerID uint) ([]dto.TestResponse, error) {
	tests, err := s.tests.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	result := make([]dto.TestResponse, 0, len(tests))
	for _, test := range tests {
		result = append(result, dto.NewTestResponse(test))
	}
	return result, nil
}

func (s *testService) UpdateStatus(ctx context.Context, id uint, ownerID uint, payload dto.TestUpdateRequest) (dto.TestResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TestResponse{}, err
	}

	test, err := s.ownedTest(ctx, id, ownerID)
	if err != nil {
		return dto.TestResponse{}, err
	}

	if err := s.tests.UpdateStatus(ctx, test.ID, payload.Status); err != nil {
		return dto.TestResponse{}, err
	}
	test.Status = payload.Status

	return dto.NewTestResponse(test), nil
}

func (s *testService) ownedTest(ctx context.Context, id uint, ownerID uint) (models.Test, error) {
	test, err := s.tests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Test{}, ErrTestNotFound
		}
		return models.Test{}, err
	}
	if test.CreatedByID != ownerID {
		return models.Test{}, ErrTestForbidden
	}
	return test, nil
}

func newAccessCode() string {
	code := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return code[:accessCodeLength]
}
