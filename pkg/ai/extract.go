package ai

import "strings"

// ExtractPayload reduces raw service output to a candidate JSON string. It trims
// surrounding whitespace and strips one layer of markdown code fencing (``` or
// ```json), leaving the inner content untouched. The transform is idempotent:
// already-stripped text passes through unchanged. No semantic validation happens here.
func ExtractPayload(raw string) (string, error) {
	cleaned := strings.TrimSpace(raw)

	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		// Optional language label on the opening fence.
		if rest, ok := strings.CutPrefix(cleaned, "json"); ok {
			cleaned = rest
		}
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	if cleaned == "" {
		return "", responseError(ErrMalformedResponse, raw, "service returned no content")
	}

	return cleaned, nil
}
