package ai

import (
	"errors"
	"strings"
	"testing"

	cvlensErrors "cvlens/internal/errors"

	"google.golang.org/api/googleapi"
)

func TestClassifyErrorByMessage(t *testing.T) {
	cases := []struct {
		name       string
		message    string
		wantCode   string
		wantInUser string
	}{
		{"invalid credential", "API key not valid. Please pass a valid API key.", cvlensErrors.ErrCodeMissingAPIKey, "API key"},
		{"throttled", "rate limit exceeded for requests per minute", cvlensErrors.ErrCodeAIRateLimited, "too many requests"},
		{"missing model", "model not found: gemini-9.9-ultra", cvlensErrors.ErrCodeAIModelMissing, "model"},
		{"unsupported input", "Unsupported MIME type: image/tiff", cvlensErrors.ErrCodeUnsupportedFile, "PDF"},
		{"server failure", "internal error encountered", cvlensErrors.ErrCodeAIServiceFailed, "temporary"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			appErr := ClassifyError(errors.New(tc.message))
			if appErr.Code != tc.wantCode {
				t.Errorf("code = %q, want %q", appErr.Code, tc.wantCode)
			}
			if !strings.Contains(appErr.Message, tc.wantInUser) {
				t.Errorf("message %q does not mention %q", appErr.Message, tc.wantInUser)
			}
		})
	}
}

func TestClassifyErrorMatchingIsCaseInsensitive(t *testing.T) {
	appErr := ClassifyError(errors.New("RATE LIMIT EXCEEDED"))
	if appErr.Code != cvlensErrors.ErrCodeAIRateLimited {
		t.Errorf("code = %q, want %q", appErr.Code, cvlensErrors.ErrCodeAIRateLimited)
	}
}

func TestClassifyErrorByHTTPStatus(t *testing.T) {
	cases := []struct {
		status   int
		wantCode string
	}{
		{401, cvlensErrors.ErrCodeMissingAPIKey},
		{429, cvlensErrors.ErrCodeAIRateLimited},
		{404, cvlensErrors.ErrCodeAIModelMissing},
		{400, cvlensErrors.ErrCodeUnsupportedFile},
		{503, cvlensErrors.ErrCodeAIServiceFailed},
	}

	for _, tc := range cases {
		appErr := ClassifyError(&googleapi.Error{Code: tc.status})
		if appErr.Code != tc.wantCode {
			t.Errorf("status %d: code = %q, want %q", tc.status, appErr.Code, tc.wantCode)
		}
	}
}

func TestClassifyErrorPassesUnknownMessageThrough(t *testing.T) {
	appErr := ClassifyError(errors.New("disk on fire"))
	if appErr.Code != cvlensErrors.ErrCodeAIServiceFailed {
		t.Errorf("code = %q, want %q", appErr.Code, cvlensErrors.ErrCodeAIServiceFailed)
	}
	if appErr.Message != "disk on fire" {
		t.Errorf("expected raw message passthrough, got %q", appErr.Message)
	}
}

func TestClassifyErrorNil(t *testing.T) {
	if got := ClassifyError(nil); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}
