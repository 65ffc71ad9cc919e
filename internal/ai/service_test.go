package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"testing"
	"time"

	"cvlens/internal/config"
	cvlensErrors "cvlens/internal/errors"
	"cvlens/internal/types"
)

// Helper functions to create pointers for test values
func timePtr(d time.Duration) *time.Duration { return &d }
func float32Ptr(f float32) *float32          { return &f }
func boolPtr(b bool) *bool                   { return &b }

var testLogger = cvlensErrors.NewLogger(slog.LevelDebug)

// fakeProvider is a stand-in AIProvider that records calls and returns canned output
type fakeProvider struct {
	lastInput types.AnalyzeCVInput
	result    types.AnalysisResult
	usage     *TokenUsage
	err       error
}

func (f *fakeProvider) AnalyzeCV(_ context.Context, input types.AnalyzeCVInput) (types.AnalysisResult, *TokenUsage, error) {
	f.lastInput = input
	return f.result, f.usage, f.err
}

func (f *fakeProvider) GetModelInfo(context.Context) *ModelInfo {
	return &ModelInfo{Name: "fake-model", Available: true}
}

func (f *fakeProvider) Close() error { return nil }

func testEncodedFile() *types.EncodedFile {
	return &types.EncodedFile{
		FileName: "cv.pdf",
		MIMEType: "application/pdf",
		Data:     base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 test")),
	}
}

func TestServiceAnalyzeCVDelegatesToProvider(t *testing.T) {
	fake := &fakeProvider{
		result: types.AnalysisResult{RefinedCVText: "refined"},
		usage:  &TokenUsage{InputTokens: 100, OutputTokens: 200, TotalTokens: 300},
	}
	svc := &Service{Provider: fake, logger: testLogger}

	input := types.AnalyzeCVInput{
		JobDescription: "Senior Go engineer",
		CVFile:         testEncodedFile(),
	}

	result, usage, err := svc.AnalyzeCV(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RefinedCVText != "refined" {
		t.Errorf("unexpected result: %+v", result)
	}
	if usage == nil || usage.TotalTokens != 300 {
		t.Errorf("unexpected token usage: %+v", usage)
	}
	if fake.lastInput.JobDescription != "Senior Go engineer" {
		t.Errorf("provider did not receive the job description, got %q", fake.lastInput.JobDescription)
	}
}

func TestServiceAnalyzeCVRequiresFile(t *testing.T) {
	svc := &Service{Provider: &fakeProvider{}, logger: testLogger}

	_, _, err := svc.AnalyzeCV(context.Background(), types.AnalyzeCVInput{
		JobDescription: "Senior Go engineer",
	})
	if err == nil {
		t.Fatal("expected error for missing CV file")
	}

	var appErr *cvlensErrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != cvlensErrors.ErrCodeInvalidRequest {
		t.Errorf("code = %q, want %q", appErr.Code, cvlensErrors.ErrCodeInvalidRequest)
	}
}

func TestServiceAnalyzeCVPropagatesProviderError(t *testing.T) {
	fake := &fakeProvider{err: cvlensErrors.NewAIError(cvlensErrors.ErrCodeAIRateLimited, "throttled", nil)}
	svc := &Service{Provider: fake, logger: testLogger}

	_, _, err := svc.AnalyzeCV(context.Background(), types.AnalyzeCVInput{
		JobDescription: "role",
		CVFile:         testEncodedFile(),
	})

	var appErr *cvlensErrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != cvlensErrors.ErrCodeAIRateLimited {
		t.Errorf("expected rate limit error to pass through, got %v", err)
	}
}

func TestNewServiceRejectsUnknownProvider(t *testing.T) {
	cfg := &config.OperationAIConfig{
		Provider:         "openai",
		Model:            "test-model",
		Timeout:          timePtr(30 * time.Second),
		Temperature:      float32Ptr(0.5),
		UseSystemPrompts: boolPtr(true),
	}

	_, err := NewService(cfg, "analyze", testLogger)
	if err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}

func TestCircuitBreakerIntegrationWithService(t *testing.T) {
	testOpConfig := &config.OperationAIConfig{
		Provider:         "gemini",
		Model:            "test-model",
		Timeout:          timePtr(30 * time.Second),
		APIKey:           "test-key",
		Temperature:      float32Ptr(0.5),
		UseSystemPrompts: boolPtr(true),
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          true,
			MaxRequests:      5,
			Interval:         30 * time.Second,
			Timeout:          45 * time.Second,
			MinRequests:      2,
			FailureThreshold: 0.8,
		},
	}

	service, err := NewService(testOpConfig, "analyze", testLogger)
	if err != nil {
		t.Fatalf("unexpected error creating service: %v", err)
	}

	if service.config.CircuitBreaker.MaxRequests != 5 {
		t.Errorf("Expected circuit breaker max requests 5, got %d", service.config.CircuitBreaker.MaxRequests)
	}

	geminiProvider, ok := service.Provider.(*GeminiProvider)
	if !ok {
		t.Fatal("Service provider is not of type *GeminiProvider")
	}

	stats := geminiProvider.GetCircuitBreakerStats()

	aiOpsStats, ok := stats["ai_operations"].(map[string]any)
	if !ok {
		t.Fatal("AI operations stats should exist and be a map")
	}
	if name, _ := aiOpsStats["name"].(string); name != "AI-analyze" {
		t.Errorf("Expected circuit breaker name 'AI-analyze', got '%s'", name)
	}

	modelOpsStats, ok := stats["model_operations"].(map[string]any)
	if !ok {
		t.Fatal("Model operations stats should exist and be a map")
	}
	if name, _ := modelOpsStats["name"].(string); name != "AI-Model-analyze" {
		t.Errorf("Expected model circuit breaker name 'AI-Model-analyze', got '%s'", name)
	}

	if overallHealthy, _ := stats["overall_healthy"].(bool); !overallHealthy {
		t.Error("Circuit breaker should be healthy initially")
	}
}
