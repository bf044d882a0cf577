package service

import (
	"context"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/voxera-dev/voxera-api/internal/dto"
	"github.com/voxera-dev/voxera-api/internal/models"
)

type memoryTestRepo struct {
	tests  map[uint]models.Test
	nextID uint
}

func newMemoryTestRepo() *memoryTestRepo {
	return &memoryTestRepo{tests: make(map[uint]models.Test), nextID: 1}
}

func (m *memoryTestRepo) Create(_ context.Context, test *models.Test) error {
	test.ID = m.nextID
	m.nextID++
	questionID := test.ID * 100
	for i := range test.Questions {
		questionID++
		test.Questions[i].ID = questionID
		test.Questions[i].TestID = test.ID
	}
	m.tests[test.ID] = *test
	return nil
}

func (m *memoryTestRepo) GetByID(_ context.Context, id uint) (models.Test, error) {
	test, ok := m.tests[id]
	if !ok {
		return models.Test{}, gorm.ErrRecordNotFound
	}
	return test, nil
}

func (m *memoryTestRepo) GetByAccessCode(_ context.Context, code string) (models.Test, error) {
	for _, test := range m.tests {
		if test.AccessCode == code {
			return test, nil
		}
	}
	return models.Test{}, gorm.ErrRecordNotFound
}

func (m *memoryTestRepo) ListByOwner(_ context.Context, ownerID uint) ([]models.Test, error) {
	result := make([]models.Test, 0)
	for _, test := range m.tests {
		if test.CreatedByID == ownerID {
			result = append(result, test)
		}
	}
	return result, nil
}

func (m *memoryTestRepo) UpdateStatus(_ context.Context, id uint, status string) error {
	test, ok := m.tests[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	test.Status = status
	m.tests[id] = test
	return nil
}

func newTestServiceForTest(repo *memoryTestRepo) TestService {
	return NewTestService(repo, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())
}

func TestTestServiceCreateAssignsAccessCodeAndOrder(t *testing.T) {
	repo := newMemoryTestRepo()
	svc := newTestServiceForTest(repo)

	created, err := svc.Create(context.Background(), 7, dto.TestCreateRequest{
		Title: "Backend screening",
		Questions: []dto.QuestionCreateRequest{
			{Content: "Explain how goroutines differ from threads", TimeLimit: 120},
			{Content: "Describe your approach to schema migrations", TimeLimit: 180},
		},
	})
	require.NoError(t, err)

	require.Len(t, created.AccessCode, 6)
	require.Equal(t, strings.ToUpper(created.AccessCode), created.AccessCode)
	require.Equal(t, models.TestStatusActive, created.Status)
	require.Len(t, created.Questions, 2)
	require.Equal(t, 0, created.Questions[0].OrderIndex)
	require.Equal(t, 1, created.Questions[1].OrderIndex)
}

func TestTestServiceCreateRejectsEmptyQuestions(t *testing.T) {
	svc := newTestServiceForTest(newMemoryTestRepo())

	_, err := svc.Create(context.Background(), 7, dto.TestCreateRequest{Title: "Empty test"})
	require.Error(t, err)
}

func TestTestServiceGetEnforcesOwnership(t *testing.T) {
	repo := newMemoryTestRepo()
	svc := newTestServiceForTest(repo)

	created, err := svc.Create(context.Background(), 7, dto.TestCreateRequest{
		Title: "Backend screening",
		Questions: []dto.QuestionCreateRequest{
			{Content: "Explain how goroutines differ from threads", TimeLimit: 120},
		},
	})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), created.ID, 8)
	require.ErrorIs(t, err, ErrTestForbidden)

	_, err = svc.Get(context.Background(), 999, 7)
	require.ErrorIs(t, err, ErrTestNotFound)

	fetched, err := svc.Get(context.Background(), created.ID, 7)
	require.NoError(t, err)
	require.Equal(t, created.ID, fetched.ID)
}

func TestTestServiceUpdateStatus(t *testing.T) {
	repo := newMemoryTestRepo()
	svc := newTestServiceForTest(repo)

	created, err := svc.Create(context.Background(), 7, dto.TestCreateRequest{
		Title:  "Backend screening",
		Status: models.TestStatusDraft,
		Questions: []dto.QuestionCreateRequest{
			{Content: "Explain how goroutines differ from threads", TimeLimit: 120},
		},
	})
	require.NoError(t, err)
	require.Equal(t, models.TestStatusDraft, created.Status)

	updated, err := svc.UpdateStatus(context.Background(), created.ID, 7, dto.TestUpdateRequest{Status: models.TestStatusArchived})
	require.NoError(t, err)
	require.Equal(t, models.TestStatusArchived, updated.Status)
	require.Equal(t, models.TestStatusArchived, repo.tests[created.ID].Status)

	_, err = svc.UpdateStatus(context.Background(), created.ID, 7, dto.TestUpdateRequest{Status: "PAUSED"})
	require.Error(t, err)
}
