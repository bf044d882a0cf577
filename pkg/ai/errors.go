package ai

import (
	"errors"
	"fmt"
)

// Failure taxonomy for the evaluation pipeline. Transport failures are retryable by
// the caller; response failures are not, and carry the offending raw text for diagnosis.
var (
	// ErrServiceUnavailable indicates the external generative service call failed.
	ErrServiceUnavailable = errors.New("generative service unavailable")
	// ErrServiceTimeout indicates the external generative service did not respond in time.
	ErrServiceTimeout = errors.New("generative service timed out")
	// ErrMalformedResponse indicates the response could not be reduced to parseable JSON.
	ErrMalformedResponse = errors.New("malformed service response")
	// ErrSchemaViolation indicates the response JSON is missing required fields or
	// carries empty feedback.
	ErrSchemaViolation = errors.New("response violates evaluation schema")
	// ErrScoreOutOfRange indicates a score is not a finite number within [0,10].
	ErrScoreOutOfRange = errors.New("score out of range")
	// ErrQuestionCoverage indicates the per-question scores do not cover exactly the
	// expected question identifiers.
	ErrQuestionCoverage = errors.New("question coverage mismatch")
	// ErrEmptyInput indicates the evaluation input violates its invariants.
	ErrEmptyInput = errors.New("evaluation input is empty")
)

// ResponseError wraps a taxonomy error with detail and the raw service output that
// triggered it. The raw text is attached for diagnosis only and must never reach
// end-user responses.
type ResponseError struct {
	Err    error
	Detail string
	Raw    string
}

func (e *ResponseError) Error() string {
	if e.Detail == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Detail)
}

func (e *ResponseError) Unwrap() error {
	return e.Err
}

func responseError(kind error, raw string, format string, args ...interface{}) error {
	return &ResponseError{
		Err:    kind,
		Detail: fmt.Sprintf(format, args...),
		Raw:    raw,
	}
}

// IsRetryable reports whether the failure is transient: re-running the whole
// evaluation with the same input may succeed.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable) || errors.Is(err, ErrServiceTimeout)
}

// IsResponseFailure reports whether the error means the service responded but the
// response could not be turned into a valid report.
func IsResponseFailure(err error) bool {
	return errors.Is(err, ErrMalformedResponse) ||
		errors.Is(err, ErrSchemaViolation) ||
		errors.Is(err, ErrScoreOutOfRange) ||
		errors.Is(err, ErrQuestionCoverage)
}

// RawOutput returns the raw service output attached to the error, if any.
func RawOutput(err error) string {
	var responseErr *ResponseError
	if errors.As(err, &responseErr) {
		return responseErr.Raw
	}
	return ""
}
