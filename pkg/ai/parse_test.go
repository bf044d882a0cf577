package ai

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseReportRoundTrip(t *testing.T) {
	payload := `{
		"totalScore": 7.5,
		"overallFeedback": "Solid fundamentals, shaky on edge cases.",
		"scores": [
			{"questionId": "q-1", "score": 9, "feedback": "Clear and complete."},
			{"questionId": "q-2", "score": 6, "feedback": "Missed the failure mode."}
		]
	}`

	report, err := ParseReport(payload, []string{"q-1", "q-2"})
	require.NoError(t, err)
	require.InDelta(t, 7.5, report.TotalScore, 0.001)
	require.Equal(t, "Solid fundamentals, shaky on edge cases.", report.Feedback)
	require.Len(t, report.Scores, 2)
	require.Equal(t, "q-1", report.Scores[0].QuestionID)
	require.Equal(t, "q-2", report.Scores[1].QuestionID)
	require.Nil(t, report.Raw)
}

func TestParseReportReordersScoresToExpectedOrder(t *testing.T) {
	payload := `{
		"totalScore": 5,
		"overallFeedback": "ok",
		"scores": [
			{"questionId": "q-2", "score": 4, "feedback": "b"},
			{"questionId": "q-1", "score": 6, "feedback": "a"}
		]
	}`

	report, err := ParseReport(payload, []string{"q-1", "q-2"})
	require.NoError(t, err)
	require.Equal(t, "q-1", report.Scores[0].QuestionID)
	require.InDelta(t, 6, report.Scores[0].Score, 0.001)
	require.Equal(t, "q-2", report.Scores[1].QuestionID)
}

func TestParseReportFailureTaxonomy(t *testing.T) {
	expected := []string{"q-1", "q-2"}

	cases := []struct {
		name    string
		payload string
		want    error
	}{
		{
			name:    "not json",
			payload: "the candidate did well overall",
			want:    ErrMalformedResponse,
		},
		{
			name:    "missing total score",
			payload: `{"overallFeedback":"ok","scores":[{"questionId":"q-1","score":5,"feedback":"f"},{"questionId":"q-2","score":5,"feedback":"f"}]}`,
			want:    ErrSchemaViolation,
		},
		{
			name:    "missing overall feedback",
			payload: `{"totalScore":5,"scores":[{"questionId":"q-1","score":5,"feedback":"f"},{"questionId":"q-2","score":5,"feedback":"f"}]}`,
			want:    ErrSchemaViolation,
		},
		{
			name:    "missing scores",
			payload: `{"totalScore":5,"overallFeedback":"ok"}`,
			want:    ErrSchemaViolation,
		},
		{
			name:    "score above range",
			payload: `{"totalScore":5,"overallFeedback":"ok","scores":[{"questionId":"q-1","score":11,"feedback":"f"},{"questionId":"q-2","score":5,"feedback":"f"}]}`,
			want:    ErrScoreOutOfRange,
		},
		{
			name:    "score below range",
			payload: `{"totalScore":5,"overallFeedback":"ok","scores":[{"questionId":"q-1","score":-1,"feedback":"f"},{"questionId":"q-2","score":5,"feedback":"f"}]}`,
			want:    ErrScoreOutOfRange,
		},
		{
			name:    "score not a number",
			payload: `{"totalScore":5,"overallFeedback":"ok","scores":[{"questionId":"q-1","score":"high","feedback":"f"},{"questionId":"q-2","score":5,"feedback":"f"}]}`,
			want:    ErrScoreOutOfRange,
		},
		{
			name:    "duplicate question id",
			payload: `{"totalScore":5,"overallFeedback":"ok","scores":[{"questionId":"q-1","score":5,"feedback":"f"},{"questionId":"q-1","score":5,"feedback":"f"}]}`,
			want:    ErrQuestionCoverage,
		},
		{
			name:    "missing expected question",
			payload: `{"totalScore":5,"overallFeedback":"ok","scores":[{"questionId":"q-1","score":5,"feedback":"f"}]}`,
			want:    ErrQuestionCoverage,
		},
		{
			name:    "unexpected question id",
			payload: `{"totalScore":5,"overallFeedback":"ok","scores":[{"questionId":"q-1","score":5,"feedback":"f"},{"questionId":"q-9","score":5,"feedback":"f"}]}`,
			want:    ErrQuestionCoverage,
		},
		{
			name:    "case differs from expected id",
			payload: `{"totalScore":5,"overallFeedback":"ok","scores":[{"questionId":"Q-1","score":5,"feedback":"f"},{"questionId":"q-2","score":5,"feedback":"f"}]}`,
			want:    ErrQuestionCoverage,
		},
		{
			name:    "empty overall feedback",
			payload: `{"totalScore":5,"overallFeedback":"   ","scores":[{"questionId":"q-1","score":5,"feedback":"f"},{"questionId":"q-2","score":5,"feedback":"f"}]}`,
			want:    ErrSchemaViolation,
		},
		{
			name:    "empty per-question feedback",
			payload: `{"totalScore":5,"overallFeedback":"ok","scores":[{"questionId":"q-1","score":5,"feedback":""},{"questionId":"q-2","score":5,"feedback":"f"}]}`,
			want:    ErrSchemaViolation,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseReport(tc.payload, expected)
			require.ErrorIs(t, err, tc.want)
			require.Equal(t, tc.payload, RawOutput(err))
		})
	}
}

func TestParseReportSingleQuestion(t *testing.T) {
	payload := `{"totalScore":8,"feedback":"ok","scores":[{"questionId":"Q1","score":8,"feedback":"good"}]}`

	report, err := ParseReport(payload, []string{"Q1"})
	require.NoError(t, err)
	require.InDelta(t, 8.0, report.TotalScore, 0.001)
	require.Len(t, report.Scores, 1)
	require.Equal(t, "Q1", report.Scores[0].QuestionID)
	require.Equal(t, "ok", report.Feedback)
}

func TestParseReportPrefersRecomputedAggregate(t *testing.T) {
	payload := `{
		"totalScore": 5,
		"overallFeedback": "ok",
		"scores": [
			{"questionId": "q-1", "score": 7, "feedback": "a"},
			{"questionId": "q-2", "score": 8, "feedback": "b"}
		]
	}`

	report, err := ParseReport(payload, []string{"q-1", "q-2"})
	require.NoError(t, err)
	require.InDelta(t, 7.5, report.TotalScore, 0.001)
	require.Equal(t, 5.0, report.Raw["reported_total_score"])
}

func TestParseReportToleratesSmallAggregateDrift(t *testing.T) {
	payload := `{
		"totalScore": 7.505,
		"overallFeedback": "ok",
		"scores": [
			{"questionId": "q-1", "score": 7, "feedback": "a"},
			{"questionId": "q-2", "score": 8, "feedback": "b"}
		]
	}`

	report, err := ParseReport(payload, []string{"q-1", "q-2"})
	require.NoError(t, err)
	require.InDelta(t, 7.505, report.TotalScore, 0.001)
	require.Nil(t, report.Raw)
}
