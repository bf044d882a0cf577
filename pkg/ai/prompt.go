package ai

import (
	"fmt"
	"strings"
)

// BuildPrompt renders the grading prompt for one interview. It enumerates every
// question/answer pair in input order and instructs the service to return a raw JSON
// object keyed by the caller-supplied question identifiers. Pure function: identical
// input always yields identical prompt text.
func BuildPrompt(candidateName string, answers []QuestionAnswer) string {
	builder := strings.Builder{}
	builder.WriteString("You are an expert technical interviewer tasked with evaluating candidate responses. ")
	builder.WriteString("Analyze the following interview and provide a structured evaluation.\n\n")

	builder.WriteString("Candidate: ")
	builder.WriteString(candidateName)
	builder.WriteString("\n\nInterview Responses:\n")

	for i, answer := range answers {
		builder.WriteString(fmt.Sprintf("\nQuestion %d (id: %s): %s\n", i+1, answer.QuestionID, answer.Question))
		builder.WriteString("Candidate's Answer: ")
		builder.WriteString(answer.Transcript)
		builder.WriteString("\n")
	}

	builder.WriteString("\nRespond with ONLY a JSON object in the following format (no markdown, no code blocks, no additional text):\n")
	builder.WriteString("{\n")
	builder.WriteString("  \"scores\": [\n")
	builder.WriteString("    {\n")
	builder.WriteString(fmt.Sprintf("      \"questionId\": %q,\n", answers[0].QuestionID))
	builder.WriteString("      \"score\": 8.5,\n")
	builder.WriteString("      \"feedback\": \"Detailed constructive feedback here\"\n")
	builder.WriteString("    }\n")
	builder.WriteString("  ],\n")
	builder.WriteString("  \"totalScore\": 8.5,\n")
	builder.WriteString("  \"overallFeedback\": \"Comprehensive evaluation here\"\n")
	builder.WriteString("}\n\n")

	builder.WriteString("Evaluation Guidelines:\n")
	builder.WriteString("- Score each answer from 0 to 10 inclusive (fractional scores are allowed) based on relevance, clarity, depth, examples, and communication\n")
	builder.WriteString("- Provide specific, constructive feedback for each answer\n")
	builder.WriteString("- Include strengths, improvements, and recommendations in the overall feedback\n")
	builder.WriteString("- The scores array must contain exactly one entry for every question id listed above, using the exact id strings\n")
	builder.WriteString("- The totalScore must be the mathematical average of all individual scores\n")
	builder.WriteString("- Do not include any text outside the JSON object\n\n")
	builder.WriteString("Remember: Return ONLY the JSON object, no markdown formatting or additional text.")

	return builder.String()
}
