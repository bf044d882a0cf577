package ai

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	evaluationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "voxera",
		Subsystem: "ai",
		Name:      "evaluation_duration_seconds",
		Help:      "Duration of interview evaluation requests",
	}, []string{"outcome"})

	evaluationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "voxera",
		Subsystem: "ai",
		Name:      "evaluation_failures_total",
		Help:      "Number of interview evaluation failures by kind",
	}, []string{"kind"})
)

// DefaultEvaluationTimeout bounds the external service call when the caller supplies none.
const DefaultEvaluationTimeout = 60 * time.Second

// PipelineConfig configures the evaluation pipeline.
type PipelineConfig struct {
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Pipeline converts an interview's raw responses into a validated evaluation report,
// isolating callers from the unstructured, non-deterministic output of the external
// generative service. The pipeline holds no mutable state and is safe for concurrent
// use; re-invoking it with the same input is harmless (the caller enforces
// at-most-one persisted report per interview).
type Pipeline struct {
	generator TextGenerator
	timeout   time.Duration
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewPipeline builds an evaluation pipeline around the provided text generator.
func NewPipeline(generator TextGenerator, cfg PipelineConfig) *Pipeline {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultEvaluationTimeout
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	return &Pipeline{
		generator: generator,
		timeout:   timeout,
		logger:    logger.With().Str("component", "evaluation_pipeline").Logger(),
		tracer:    otel.Tracer("github.com/voxera-dev/voxera-api/pkg/ai"),
	}
}

// Evaluate runs the full pipeline for one interview: prompt construction, bounded
// service invocation, payload extraction, and validation. All-or-nothing: on any
// failure no report is returned and nothing is persisted by this package.
func (p *Pipeline) Evaluate(parent context.Context, input EvaluationInput) (EvaluationReport, error) {
	ctx, span := p.tracer.Start(parent, "ai.evaluate", trace.WithAttributes(
		attribute.Int("interview.answers", len(input.Answers)),
	))
	defer span.End()

	if err := validateInput(input); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return EvaluationReport{}, err
	}

	expectedIDs := make([]string, 0, len(input.Answers))
	for _, answer := range input.Answers {
		expectedIDs = append(expectedIDs, answer.QuestionID)
	}

	prompt := BuildPrompt(input.CandidateName, input.Answers)

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	raw, err := p.generator.Generate(callCtx, prompt)
	if err != nil {
		evaluationDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		mapped := mapGenerateError(callCtx, err)
		p.recordFailure(span, mapped)
		return EvaluationReport{}, mapped
	}
	evaluationDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())

	payload, err := ExtractPayload(raw)
	if err != nil {
		p.recordFailure(span, err)
		return EvaluationReport{}, err
	}

	report, err := ParseReport(payload, expectedIDs)
	if err != nil {
		p.recordFailure(span, err)
		return EvaluationReport{}, err
	}

	if stated, ok := report.Raw["reported_total_score"]; ok {
		p.logger.Warn().
			Interface("reported_total_score", stated).
			Float64("recomputed_total_score", report.TotalScore).
			Msg("service aggregate disagrees with per-question mean")
	}

	span.SetAttributes(attribute.Float64("report.total_score", report.TotalScore))
	return report, nil
}

func validateInput(input EvaluationInput) error {
	if len(input.Answers) == 0 {
		return ErrEmptyInput
	}
	seen := make(map[string]struct{}, len(input.Answers))
	for _, answer := range input.Answers {
		if answer.QuestionID == "" {
			return errors.New("answer missing question id")
		}
		if _, dup := seen[answer.QuestionID]; dup {
			return errors.New("duplicate question id in input")
		}
		seen[answer.QuestionID] = struct{}{}
	}
	return nil
}

func mapGenerateError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &ResponseError{Err: ErrServiceTimeout, Detail: err.Error()}
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return &ResponseError{Err: ErrServiceUnavailable, Detail: err.Error()}
}

func (p *Pipeline) recordFailure(span trace.Span, err error) {
	evaluationFailures.WithLabelValues(failureKind(err)).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	p.logger.Error().Err(err).Msg("evaluation failed")
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, ErrServiceTimeout):
		return "timeout"
	case errors.Is(err, ErrServiceUnavailable):
		return "unavailable"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	case errors.Is(err, ErrSchemaViolation):
		return "schema"
	case errors.Is(err, ErrScoreOutOfRange):
		return "score_range"
	case errors.Is(err, ErrQuestionCoverage):
		return "coverage"
	default:
		return "other"
	}
}
