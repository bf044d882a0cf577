package ai

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractPayloadStripsFences(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{name: "bare json", raw: `{"a":1}`, want: `{"a":1}`},
		{name: "surrounding whitespace", raw: "\n  {\"a\":1}  \n", want: `{"a":1}`},
		{name: "plain fence", raw: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "json fence", raw: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "fence without newlines", raw: "```json{\"a\":1}```", want: `{"a":1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractPayload(tc.raw)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestExtractPayloadIsIdempotent(t *testing.T) {
	once, err := ExtractPayload("```json\n{\"totalScore\": 7}\n```")
	require.NoError(t, err)

	twice, err := ExtractPayload(once)
	require.NoError(t, err)
	require.Equal(t, once, twice)
}

func TestExtractPayloadRejectsEmptyContent(t *testing.T) {
	for _, raw := range []string{"", "   \n\t", "```json\n```", "``````"} {
		_, err := ExtractPayload(raw)
		require.ErrorIs(t, err, ErrMalformedResponse)
	}
}
