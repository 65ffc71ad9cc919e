package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"cvlens/internal/ai"
	cvlensErrors "cvlens/internal/errors"
)

// getHealthCheckTimeout returns the configured health check timeout
func (s *Server) getHealthCheckTimeout() time.Duration {
	return s.AppConfig.Observability.HealthCheck.Timeout
}

// healthHandler provides a health check endpoint including AI model status
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status":  "healthy",
		"service": "cvlens",
		"version": s.Version,
	}

	// Check AI model availability
	aiStatus := s.checkAIModelHealth()
	response["ai_model"] = aiStatus

	// Check circuit breaker status
	response["circuit_breaker"] = s.checkCircuitBreakerHealth()

	// Check prompt watcher status
	if s.promptWatcher != nil {
		response["prompt_watcher"] = map[string]any{
			"running":       s.promptWatcher.IsRunning(),
			"watched_files": s.promptWatcher.WatchedFiles(),
		}
	}

	// Determine overall health status
	overallHealthy := true
	if available, exists := aiStatus["available"]; exists {
		if avail, ok := available.(bool); ok && !avail {
			overallHealthy = false
		}
	}

	if !overallHealthy {
		response["status"] = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode health response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// checkAIModelHealth checks the health of the analysis model
func (s *Server) checkAIModelHealth() map[string]any {
	// Use configurable health check timeout
	timeout := s.getHealthCheckTimeout()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	analyzeConfig := s.AppConfig.GetAnalyzeConfig()
	aiService, err := ai.NewService(&analyzeConfig, "analyze", s.Logger)
	if err != nil {
		return map[string]any{
			"available": false,
			"error":     fmt.Sprintf("Failed to create analyze service: %v", err),
		}
	}
	defer func() {
		if closeErr := aiService.Close(); closeErr != nil {
			s.Logger.Debug("Failed to close AI service after health check", "error", closeErr)
		}
	}()

	modelInfo := aiService.Provider.GetModelInfo(ctx)
	return map[string]any{
		"available":  modelInfo.Available,
		"model_name": modelInfo.Name,
		"error":      modelInfo.Error,
	}
}

// checkCircuitBreakerHealth reports circuit breaker status for the analysis service
func (s *Server) checkCircuitBreakerHealth() map[string]any {
	analyzeConfig := s.AppConfig.GetAnalyzeConfig()
	aiService, err := ai.NewService(&analyzeConfig, "analyze", s.Logger)
	if err != nil {
		return map[string]any{
			"available": false,
			"error":     fmt.Sprintf("Failed to create analyze service: %v", err),
		}
	}
	defer func() {
		if closeErr := aiService.Close(); closeErr != nil {
			s.Logger.Debug("Failed to close AI service after health check", "error", closeErr)
		}
	}()

	if provider, ok := aiService.Provider.(*ai.GeminiProvider); ok {
		return provider.GetCircuitBreakerStats()
	}

	return map[string]any{
		"available": true,
		"message":   "Circuit breaker integrated with analyze service",
	}
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"service": "cvlens",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
		},
	}

	// Add rate limiting stats if enabled
	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	// Add configuration info
	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode stats response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	if r.Header.Get("Content-Type") != "application/json" {
		return fmt.Errorf("content-type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	return nil
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   error,
		Message: message,
	}

	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode error response: %v", err)
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}

// writeAppErrorResponse writes a structured error response derived from an AppError
func writeAppErrorResponse(w http.ResponseWriter, err error) {
	var appErr *cvlensErrors.AppError
	if !errors.As(err, &appErr) {
		writeErrorResponse(w, "Internal error", err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusForError(appErr))

	response := ErrorResponse{
		Error:   appErr.Message,
		Code:    appErr.Code,
		Message: appErr.Message,
	}

	if encodeErr := json.NewEncoder(w).Encode(response); encodeErr != nil {
		log.Printf("Failed to encode error response: %v", encodeErr)
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}

// httpStatusForError maps application error codes to HTTP status codes
func httpStatusForError(appErr *cvlensErrors.AppError) int {
	switch appErr.Code {
	case cvlensErrors.ErrCodeInvalidRequest,
		cvlensErrors.ErrCodeUnsupportedFile,
		cvlensErrors.ErrCodeInvalidFormat,
		cvlensErrors.ErrCodeFileNotReadable:
		return http.StatusBadRequest
	case cvlensErrors.ErrCodeMissingAPIKey:
		return http.StatusUnauthorized
	case cvlensErrors.ErrCodeResultNotFound, cvlensErrors.ErrCodeAIModelMissing:
		return http.StatusNotFound
	case cvlensErrors.ErrCodeAIRateLimited:
		return http.StatusTooManyRequests
	case cvlensErrors.ErrCodeAIServiceFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
