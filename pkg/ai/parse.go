package ai

import (
	"encoding/json"
	"math"
	"strings"
)

// scoreTolerance bounds the accepted drift between the service-stated aggregate and
// the mean of the per-question scores before the recomputed value takes precedence.
const scoreTolerance = 0.01

type rawScoreEntry struct {
	QuestionID *string         `json:"questionId"`
	Score      json.RawMessage `json:"score"`
	Feedback   *string         `json:"feedback"`
}

type rawEvaluation struct {
	TotalScore      json.RawMessage `json:"totalScore"`
	OverallFeedback *string         `json:"overallFeedback"`
	Feedback        *string         `json:"feedback"`
	Scores          []rawScoreEntry `json:"scores"`
}

// overall returns the overall feedback field; the service emits it under either name.
func (r rawEvaluation) overall() *string {
	if r.OverallFeedback != nil {
		return r.OverallFeedback
	}
	return r.Feedback
}

// ParseReport decodes and validates a stripped service payload against the question
// identifiers the report must cover. Validation short-circuits on the first failure.
// The returned report lists scores in expectedIDs order, matched by identifier, and
// its aggregate is the mean of the per-question scores; when the service-stated
// aggregate drifts beyond the tolerance the recomputed value wins and the stated one
// is preserved under Raw["reported_total_score"].
func ParseReport(payload string, expectedIDs []string) (EvaluationReport, error) {
	var decoded rawEvaluation
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		return EvaluationReport{}, responseError(ErrMalformedResponse, payload, "invalid json: %v", err)
	}

	if decoded.TotalScore == nil {
		return EvaluationReport{}, responseError(ErrSchemaViolation, payload, "missing totalScore")
	}
	overall := decoded.overall()
	if overall == nil {
		return EvaluationReport{}, responseError(ErrSchemaViolation, payload, "missing overallFeedback")
	}
	if len(decoded.Scores) == 0 {
		return EvaluationReport{}, responseError(ErrSchemaViolation, payload, "missing scores")
	}
	for i, entry := range decoded.Scores {
		if entry.QuestionID == nil {
			return EvaluationReport{}, responseError(ErrSchemaViolation, payload, "scores[%d] missing questionId", i)
		}
		if entry.Score == nil {
			return EvaluationReport{}, responseError(ErrSchemaViolation, payload, "scores[%d] missing score", i)
		}
		if entry.Feedback == nil {
			return EvaluationReport{}, responseError(ErrSchemaViolation, payload, "scores[%d] missing feedback", i)
		}
	}

	statedTotal, err := parseScoreValue(decoded.TotalScore, payload, "totalScore")
	if err != nil {
		return EvaluationReport{}, err
	}
	parsedScores := make(map[string]ScoreResult, len(decoded.Scores))
	order := make([]string, 0, len(decoded.Scores))
	for i, entry := range decoded.Scores {
		value, err := parseScoreValue(entry.Score, payload, "scores["+*entry.QuestionID+"]")
		if err != nil {
			return EvaluationReport{}, err
		}
		id := *entry.QuestionID
		if _, seen := parsedScores[id]; seen {
			return EvaluationReport{}, responseError(ErrQuestionCoverage, payload, "duplicate question id %q", id)
		}
		parsedScores[id] = ScoreResult{QuestionID: id, Score: value, Feedback: *decoded.Scores[i].Feedback}
		order = append(order, id)
	}

	expected := make(map[string]struct{}, len(expectedIDs))
	for _, id := range expectedIDs {
		expected[id] = struct{}{}
	}
	for _, id := range order {
		if _, ok := expected[id]; !ok {
			return EvaluationReport{}, responseError(ErrQuestionCoverage, payload, "unexpected question id %q", id)
		}
	}
	if len(parsedScores) != len(expectedIDs) {
		return EvaluationReport{}, responseError(ErrQuestionCoverage, payload, "expected %d scores, got %d", len(expectedIDs), len(parsedScores))
	}

	if strings.TrimSpace(*overall) == "" {
		return EvaluationReport{}, responseError(ErrSchemaViolation, payload, "overallFeedback is empty")
	}
	for _, id := range order {
		if strings.TrimSpace(parsedScores[id].Feedback) == "" {
			return EvaluationReport{}, responseError(ErrSchemaViolation, payload, "feedback for question %q is empty", id)
		}
	}

	scores := make([]ScoreResult, 0, len(expectedIDs))
	sum := 0.0
	for _, id := range expectedIDs {
		scores = append(scores, parsedScores[id])
		sum += parsedScores[id].Score
	}

	report := EvaluationReport{
		TotalScore: statedTotal,
		Feedback:   *overall,
		Scores:     scores,
	}

	mean := sum / float64(len(scores))
	if math.Abs(mean-statedTotal) > scoreTolerance {
		// The service's arithmetic is not load-bearing: prefer the recomputed mean
		// and keep the stated value around for observability.
		report.TotalScore = mean
		report.Raw = map[string]interface{}{"reported_total_score": statedTotal}
	}

	return report, nil
}

func parseScoreValue(raw json.RawMessage, payload, field string) (float64, error) {
	var value float64
	if err := json.Unmarshal(raw, &value); err != nil {
		return 0, responseError(ErrScoreOutOfRange, payload, "%s is not a number", field)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 || value > 10 {
		return 0, responseError(ErrScoreOutOfRange, payload, "%s = %v outside [0,10]", field, value)
	}
	return value, nil
}
