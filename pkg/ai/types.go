package ai

import "context"

// QuestionAnswer pairs one interview question with the candidate's transcribed answer.
// QuestionID is an opaque identifier supplied by the caller; the pipeline never
// interprets it beyond exact-match bookkeeping.
type QuestionAnswer struct {
	QuestionID string
	Question   string
	Transcript string
}

// EvaluationInput is the sole input to the evaluation pipeline: the ordered
// question/answer pairs of one completed interview plus the candidate's display name.
type EvaluationInput struct {
	CandidateName string
	Answers       []QuestionAnswer
}

// ScoreResult carries the grade and feedback for a single question.
type ScoreResult struct {
	QuestionID string  `json:"question_id"`
	Score      float64 `json:"score"`
	Feedback   string  `json:"feedback"`
}

// EvaluationReport is the validated outcome of one evaluation. Scores holds exactly
// one entry per input question, in input order. TotalScore is the arithmetic mean of
// the per-question scores.
type EvaluationReport struct {
	TotalScore float64                `json:"total_score"`
	Feedback   string                 `json:"feedback"`
	Scores     []ScoreResult          `json:"scores"`
	Raw        map[string]interface{} `json:"raw,omitempty"`
}

// TextGenerator is the single I/O boundary with the external generative service:
// a prompt goes out, free-form text comes back.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Evaluator converts a completed interview into a validated evaluation report.
type Evaluator interface {
	Evaluate(ctx context.Context, input EvaluationInput) (EvaluationReport, error)
}

// Transcriber converts recorded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio []byte) (string, error)
}
