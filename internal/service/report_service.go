package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/voxera-dev/voxera-api/internal/dto"
	"github.com/voxera-dev/voxera-api/internal/models"
	"github.com/voxera-dev/voxera-api/internal/observability"
	"github.com/voxera-dev/voxera-api/internal/repository"
	"github.com/voxera-dev/voxera-api/pkg/ai"
)

// ErrReportExists indicates the interview already has a report; reports are terminal.
var ErrReportExists = errors.New("report already exists for this interview")

// ErrInterviewNotCompleted indicates the interview is not eligible for evaluation.
var ErrInterviewNotCompleted = errors.New("interview is not completed")

// ErrNoResponses indicates a completed interview carries nothing to evaluate.
var ErrNoResponses = errors.New("interview has no recorded responses")

// ErrReportNotFound indicates no report has been generated for the interview.
var ErrReportNotFound = errors.New("report not found")

// ErrEvaluatorUnavailable indicates no evaluator is configured.
var ErrEvaluatorUnavailable = errors.New("evaluator unavailable")

// ReportService runs the evaluation pipeline for completed interviews and serves
// persisted reports.
type ReportService interface {
	Generate(ctx context.Context, payload dto.ReportCreateRequest) (dto.ReportResponse, error)
	GetForInterview(ctx context.Context, interviewID uint, deviceID string) (dto.ReportResponse, error)
	ListForTest(ctx context.Context, testID uint, ownerID uint) (dto.TestReportsResponse, error)
}

// ReportServiceConfig carries cache and provider knobs.
type ReportServiceConfig struct {
	Provider string
	CacheTTL time.Duration
}

type reportService struct {
	reports    repository.ReportRepository
	interviews repository.InterviewRepository
	tests      repository.TestRepository
	evaluator  ai.Evaluator
	validator  *validator.Validate
	cache      *redis.Client
	monitor    MonitorPublisher
	config     ReportServiceConfig
	logger     zerolog.Logger
	tracer     trace.Tracer
}

// NewReportService constructs a report service. The redis client and monitor
// publisher may be nil; caching and live events are then skipped.
func NewReportService(reportRepo repository.ReportRepository, interviewRepo repository.InterviewRepository, testRepo repository.TestRepository, evaluator ai.Evaluator, validate *validator.Validate, cache *redis.Client, monitor MonitorPublisher, cfg ReportServiceConfig, logger zerolog.Logger) ReportService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.Provider == "" {
		cfg.Provider = "openai"
	}
	return &reportService{
		reports:    reportRepo,
		interviews: interviewRepo,
		tests:      testRepo,
		evaluator:  evaluator,
		validator:  validate,
		cache:      cache,
		monitor:    monitor,
		config:     cfg,
		logger:     logger.With().Str("component", "report_service").Logger(),
		tracer:     otel.Tracer("github.com/voxera-dev/voxera-api/internal/service/report"),
	}
}

// Generate evaluates one completed interview. Eligibility is checked here, before
// the pipeline runs: device ownership, COMPLETED status, recorded responses, and
// no existing report. The report and its scores are persisted atomically; a failed
// evaluation persists nothing.
func (s *reportService) Generate(parent context.Context, payload dto.ReportCreateRequest) (dto.ReportResponse, error) {
	ctx, span := s.tracer.Start(parent, "report.generate", trace.WithAttributes(
		attribute.Int64("interview.id", int64(payload.InterviewID)),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		return dto.ReportResponse{}, err
	}
	if s.evaluator == nil {
		return dto.ReportResponse{}, ErrEvaluatorUnavailable
	}

	interview, err := s.interviews.GetWithResponses(ctx, payload.InterviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ReportResponse{}, ErrInterviewNotFound
		}
		return dto.ReportResponse{}, err
	}
	if interview.DeviceID != payload.DeviceID {
		return dto.ReportResponse{}, ErrDeviceMismatch
	}
	if interview.Status != models.InterviewStatusCompleted {
		return dto.ReportResponse{}, ErrInterviewNotCompleted
	}
	if len(interview.Responses) == 0 {
		return dto.ReportResponse{}, ErrNoResponses
	}

	exists, err := s.reports.ExistsForInterview(ctx, interview.ID)
	if err != nil {
		return dto.ReportResponse{}, err
	}
	if exists {
		return dto.ReportResponse{}, ErrReportExists
	}

	answers := make([]ai.QuestionAnswer, 0, len(interview.Responses))
	for _, response := range interview.Responses {
		answers = append(answers, ai.QuestionAnswer{
			QuestionID: strconv.FormatUint(uint64(response.QuestionID), 10),
			Question:   response.Question.Content,
			Transcript: response.Transcript,
		})
	}

	evaluation, err := s.evaluator.Evaluate(ctx, ai.EvaluationInput{
		CandidateName: interview.CandidateName,
		Answers:       answers,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "evaluation failed")
		return dto.ReportResponse{}, err
	}

	scores := make([]models.Score, 0, len(evaluation.Scores))
	for _, score := range evaluation.Scores {
		questionID, err := strconv.ParseUint(score.QuestionID, 10, 64)
		if err != nil {
			return dto.ReportResponse{}, fmt.Errorf("unexpected question id %q in report: %w", score.QuestionID, err)
		}
		scores = append(scores, models.Score{
			QuestionID: uint(questionID),
			Score:      score.Score,
			Feedback:   score.Feedback,
		})
	}

	report := models.Report{
		InterviewID: interview.ID,
		TotalScore:  evaluation.TotalScore,
		Feedback:    evaluation.Feedback,
		Provider:    s.config.Provider,
		Raw:         datatypes.JSONMap(evaluation.Raw),
		Scores:      scores,
	}
	if err := s.reports.CreateWithScores(ctx, &report); err != nil {
		return dto.ReportResponse{}, err
	}

	s.invalidateCache(ctx, interview.TestID)
	if s.monitor != nil {
		s.monitor.Publish(dto.MonitorEvent{
			Type:          dto.MonitorEventReportCreated,
			TestID:        interview.TestID,
			InterviewID:   interview.ID,
			CandidateName: interview.CandidateName,
			TotalScore:    report.TotalScore,
		})
	}

	span.SetAttributes(attribute.Float64("report.total_score", report.TotalScore))
	s.logger.Info().
		Uint("interview_id", interview.ID).
		Float64("total_score", report.TotalScore).
		Int("scores", len(report.Scores)).
		Msg("report generated")

	return dto.NewReportResponse(report), nil
}

func (s *reportService) GetForInterview(ctx context.Context, interviewID uint, deviceID string) (dto.ReportResponse, error) {
	interview, err := s.interviews.GetByID(ctx, interviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ReportResponse{}, ErrInterviewNotFound
		}
		return dto.ReportResponse{}, err
	}
	if interview.DeviceID != deviceID {
		return dto.ReportResponse{}, ErrDeviceMismatch
	}

	report, err := s.reports.GetByInterview(ctx, interviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ReportResponse{}, ErrReportNotFound
		}
		return dto.ReportResponse{}, err
	}

	return dto.NewReportResponse(report), nil
}

func (s *reportService) ListForTest(ctx context.Context, testID uint, ownerID uint) (dto.TestReportsResponse, error) {
	test, err := s.tests.GetByID(ctx, testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TestReportsResponse{}, ErrTestNotFound
		}
		return dto.TestReportsResponse{}, err
	}
	if test.CreatedByID != ownerID {
		return dto.TestReportsResponse{}, ErrTestForbidden
	}

	if cached, ok := s.cachedReports(ctx, testID); ok {
		return cached, nil
	}

	reports, interviews, err := s.reports.ListByTest(ctx, testID)
	if err != nil {
		return dto.TestReportsResponse{}, err
	}

	byInterview := make(map[uint]models.Report, len(reports))
	for _, report := range reports {
		byInterview[report.InterviewID] = report
	}

	questions := make([]dto.QuestionResponse, 0, len(test.Questions))
	for _, question := range test.Questions {
		questions = append(questions, dto.NewQuestionResponse(question))
	}

	summaries := make([]dto.TestReportSummary, 0, len(interviews))
	for _, interview := range interviews {
		report, ok := byInterview[interview.ID]
		if !ok {
			continue
		}
		responses := make([]dto.AnswerRecordedPayload, 0, len(interview.Responses))
		for _, response := range interview.Responses {
			responses = append(responses, dto.AnswerRecordedPayload{
				ID:         response.ID,
				QuestionID: response.QuestionID,
				Transcript: response.Transcript,
				AudioURL:   response.AudioURL,
			})
		}
		summaries = append(summaries, dto.TestReportSummary{
			Report:        dto.NewReportResponse(report),
			InterviewID:   interview.ID,
			CandidateName: interview.CandidateName,
			StartedAt:     interview.StartedAt,
			CompletedAt:   interview.CompletedAt,
			Responses:     responses,
		})
	}

	result := dto.TestReportsResponse{Questions: questions, Reports: summaries}
	s.storeCache(ctx, testID, result)
	return result, nil
}

func reportCacheKey(testID uint) string {
	return fmt.Sprintf("voxera:test-reports:%d", testID)
}

func (s *reportService) cachedReports(ctx context.Context, testID uint) (dto.TestReportsResponse, bool) {
	if s.cache == nil {
		return dto.TestReportsResponse{}, false
	}

	raw, err := s.cache.Get(ctx, reportCacheKey(testID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("report cache read failed")
		}
		observability.ReportCache().WithLabelValues("miss").Inc()
		return dto.TestReportsResponse{}, false
	}

	var cached dto.TestReportsResponse
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		observability.ReportCache().WithLabelValues("miss").Inc()
		return dto.TestReportsResponse{}, false
	}

	observability.ReportCache().WithLabelValues("hit").Inc()
	return cached, true
}

func (s *reportService) storeCache(ctx context.Context, testID uint, value dto.TestReportsResponse) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, reportCacheKey(testID), payload, s.config.CacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("report cache write failed")
	}
}

func (s *reportService) invalidateCache(ctx context.Context, testID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, reportCacheKey(testID)).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("report cache invalidation failed")
	}
}
