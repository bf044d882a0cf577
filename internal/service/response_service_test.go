package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/voxera-dev/voxera-api/internal/dto"
	"github.com/voxera-dev/voxera-api/internal/models"
)

type memoryResponseRepo struct {
	responses map[uint]models.Response
	nextID    uint
}

func newMemoryResponseRepo() *memoryResponseRepo {
	return &memoryResponseRepo{responses: make(map[uint]models.Response), nextID: 1}
}

func (m *memoryResponseRepo) Create(_ context.Context, response *models.Response) error {
	response.ID = m.nextID
	m.nextID++
	m.responses[response.ID] = *response
	return nil
}

func (m *memoryResponseRepo) Exists(_ context.Context, interviewID, questionID uint) (bool, error) {
	for _, response := range m.responses {
		if response.InterviewID == interviewID && response.QuestionID == questionID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryResponseRepo) ListByInterview(_ context.Context, interviewID uint) ([]models.Response, error) {
	result := make([]models.Response, 0)
	for _, response := range m.responses {
		if response.InterviewID == interviewID {
			result = append(result, response)
		}
	}
	return result, nil
}

type responseFixture struct {
	svc       ResponseService
	responses *memoryResponseRepo
	interview models.Interview
	question  models.Question
	monitor   *capturingMonitor
}

func newResponseFixture(t *testing.T) responseFixture {
	t.Helper()

	tests := newMemoryTestRepo()
	test := seedActiveTest(tests)

	interviews := newMemoryInterviewRepo()
	interview := models.Interview{TestID: test.ID, DeviceID: "device-1", Status: models.InterviewStatusInProgress}
	require.NoError(t, interviews.Create(context.Background(), &interview))

	responses := newMemoryResponseRepo()
	monitor := &capturingMonitor{}
	svc := NewResponseService(responses, interviews, tests, validator.New(validator.WithRequiredStructEnabled()), monitor, zerolog.Nop())

	return responseFixture{
		svc:       svc,
		responses: responses,
		interview: interview,
		question:  test.Questions[0],
		monitor:   monitor,
	}
}

func TestResponseRecordHappyPath(t *testing.T) {
	fx := newResponseFixture(t)

	result, err := fx.svc.Record(context.Background(), dto.ResponseCreateRequest{
		InterviewID: fx.interview.ID,
		QuestionID:  fx.question.ID,
		DeviceID:    "device-1",
		Transcript:  "Goroutines are scheduled by the runtime, not the OS.",
		AudioURL:    "https://files.test/answer-1.webm",
	})
	require.NoError(t, err)
	require.NotZero(t, result.ResponseID)

	stored := fx.responses.responses[result.ResponseID]
	require.Equal(t, fx.question.ID, stored.QuestionID)
	require.Equal(t, "https://files.test/answer-1.webm", stored.AudioURL)

	require.Len(t, fx.monitor.events, 1)
	require.Equal(t, dto.MonitorEventResponseRecorded, fx.monitor.events[0].Type)
}

func TestResponseRecordSanitizesTranscript(t *testing.T) {
	fx := newResponseFixture(t)

	result, err := fx.svc.Record(context.Background(), dto.ResponseCreateRequest{
		InterviewID: fx.interview.ID,
		QuestionID:  fx.question.ID,
		DeviceID:    "device-1",
		Transcript:  "<b>bold claim</b> about channels",
	})
	require.NoError(t, err)
	require.Equal(t, "bold claim about channels", fx.responses.responses[result.ResponseID].Transcript)
}

func TestResponseRecordRejectsDuplicate(t *testing.T) {
	fx := newResponseFixture(t)

	payload := dto.ResponseCreateRequest{
		InterviewID: fx.interview.ID,
		QuestionID:  fx.question.ID,
		DeviceID:    "device-1",
		Transcript:  "first answer",
	}

	_, err := fx.svc.Record(context.Background(), payload)
	require.NoError(t, err)

	_, err = fx.svc.Record(context.Background(), payload)
	require.ErrorIs(t, err, ErrResponseExists)
}

func TestResponseRecordRejectsWrongDevice(t *testing.T) {
	fx := newResponseFixture(t)

	_, err := fx.svc.Record(context.Background(), dto.ResponseCreateRequest{
		InterviewID: fx.interview.ID,
		QuestionID:  fx.question.ID,
		DeviceID:    "device-2",
		Transcript:  "answer",
	})
	require.ErrorIs(t, err, ErrDeviceMismatch)
}

func TestResponseRecordRejectsFinishedInterview(t *testing.T) {
	fx := newResponseFixture(t)

	interview := fx.interview
	interview.Status = models.InterviewStatusCompleted
	finished := newMemoryInterviewRepo()
	require.NoError(t, finished.Create(context.Background(), &interview))

	tests := newMemoryTestRepo()
	seedActiveTest(tests)
	svc := NewResponseService(newMemoryResponseRepo(), finished, tests, validator.New(validator.WithRequiredStructEnabled()), nil, zerolog.Nop())

	_, err := svc.Record(context.Background(), dto.ResponseCreateRequest{
		InterviewID: interview.ID,
		QuestionID:  fx.question.ID,
		DeviceID:    "device-1",
		Transcript:  "answer",
	})
	require.ErrorIs(t, err, ErrInterviewNotInProgress)
}

func TestResponseRecordRejectsForeignQuestion(t *testing.T) {
	fx := newResponseFixture(t)

	_, err := fx.svc.Record(context.Background(), dto.ResponseCreateRequest{
		InterviewID: fx.interview.ID,
		QuestionID:  9999,
		DeviceID:    "device-1",
		Transcript:  "answer",
	})
	require.ErrorIs(t, err, ErrQuestionNotInTest)
}

func TestResponseRecordUnknownInterview(t *testing.T) {
	fx := newResponseFixture(t)

	_, err := fx.svc.Record(context.Background(), dto.ResponseCreateRequest{
		InterviewID: 424242,
		QuestionID:  fx.question.ID,
		DeviceID:    "device-1",
		Transcript:  "answer",
	})
	require.ErrorIs(t, err, ErrInterviewNotFound)
}
