package ai

import (
	"errors"
	"net/http"
	"strings"

	cvlensErrors "cvlens/internal/errors"

	"google.golang.org/api/googleapi"
)

// ClassifyError maps an opaque failure from the AI call into a user-facing
// AppError by case-insensitive substring matching on the failure text, in
// priority order: credentials, throttling, missing model, unsupported input,
// transient server failure. Unrecognized messages pass through verbatim so
// the user still sees something actionable. This is best-effort string
// matching, not a structured error contract with the service.
func ClassifyError(err error) *cvlensErrors.AppError {
	if err == nil {
		return nil
	}

	var status int
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		status = apiErr.Code
	}

	msg := err.Error()
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "api key not valid"),
		strings.Contains(lower, "api key"),
		strings.Contains(lower, "api_key"),
		strings.Contains(lower, "credential"),
		status == http.StatusUnauthorized,
		status == http.StatusForbidden:
		return cvlensErrors.NewAIError(cvlensErrors.ErrCodeMissingAPIKey,
			"The AI service rejected the configured API key. Check the Gemini API key and try again.", err)

	case strings.Contains(lower, "rate limit"),
		strings.Contains(lower, "quota"),
		strings.Contains(lower, "resource exhausted"),
		status == http.StatusTooManyRequests:
		return cvlensErrors.NewAIError(cvlensErrors.ErrCodeAIRateLimited,
			"The AI service is receiving too many requests right now. Wait a moment and try again.", err)

	case strings.Contains(lower, "model not found"),
		strings.Contains(lower, "is not found"),
		status == http.StatusNotFound:
		return cvlensErrors.NewAIError(cvlensErrors.ErrCodeAIModelMissing,
			"The configured AI model could not be found. Check the model name in the configuration.", err)

	case strings.Contains(lower, "unsupported mime type"),
		strings.Contains(lower, "unsupported format"),
		strings.Contains(lower, "bad request"),
		status == http.StatusBadRequest:
		return cvlensErrors.NewValidationError(cvlensErrors.ErrCodeUnsupportedFile,
			"The document format was rejected by the AI service. Only PDF files are supported.", err)

	case strings.Contains(lower, "internal error"),
		strings.Contains(lower, "internal server"),
		status >= http.StatusInternalServerError:
		return cvlensErrors.NewAIError(cvlensErrors.ErrCodeAIServiceFailed,
			"The AI service hit a temporary problem. Try again in a few moments.", err)
	}

	if strings.TrimSpace(msg) != "" {
		return cvlensErrors.NewAIError(cvlensErrors.ErrCodeAIServiceFailed, msg, err)
	}
	return cvlensErrors.NewAIError(cvlensErrors.ErrCodeAIServiceFailed,
		"An unexpected error occurred while analyzing the CV.", err)
}
