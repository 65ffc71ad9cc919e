package ai

import (
	"testing"
	"time"

	"cvlens/internal/config"
)

func analyzeBreakerConfig() *config.OperationAIConfig {
	return &config.OperationAIConfig{
		Provider: "gemini",
		Model:    "gemini-2.0-flash",
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          true,
			MaxRequests:      3,
			Interval:         60 * time.Second,
			Timeout:          60 * time.Second,
			MinRequests:      3,
			FailureThreshold: 0.6,
		},
	}
}

func TestCircuitBreakerConfigurationMapping(t *testing.T) {
	cb := NewAICircuitBreaker("analyze", analyzeBreakerConfig(), nil)
	if cb == nil {
		t.Fatal("Circuit breaker should not be nil")
	}

	stats := cb.GetStats()
	if stats == nil {
		t.Fatal("Circuit breaker stats should not be nil")
	}

	name, ok := stats["name"].(string)
	if !ok {
		t.Fatal("Circuit breaker name not found")
	}
	if name != "AI-analyze" {
		t.Errorf("Expected circuit breaker name 'AI-analyze', got '%s'", name)
	}

	state, ok := stats["state"].(string)
	if !ok {
		t.Fatal("Circuit breaker state not found")
	}
	if state != "closed" {
		t.Errorf("Expected initial state 'closed', got '%s'", state)
	}

	enabled, ok := stats["enabled"].(bool)
	if !ok {
		t.Fatal("Circuit breaker enabled status not found")
	}
	if !enabled {
		t.Error("Circuit breaker should be enabled")
	}

	if !cb.IsHealthy() {
		t.Error("Circuit breaker should be healthy initially")
	}
}

func TestModelCircuitBreakerIndependentFromAIBreaker(t *testing.T) {
	cfg := analyzeBreakerConfig()

	aiCB := NewAICircuitBreaker("analyze", cfg, nil)
	modelCB := NewModelCircuitBreaker("analyze", cfg, nil)

	if aiCB == nil || modelCB == nil {
		t.Fatal("Both circuit breakers should be created when enabled")
	}

	aiStats := aiCB.GetStats()
	modelStats := modelCB.GetModelStats()

	if aiStats["name"] == modelStats["name"] {
		t.Error("AI and model circuit breakers should have distinct names")
	}
	if !modelCB.IsModelHealthy() {
		t.Error("Model circuit breaker should be healthy initially")
	}
}

func TestCircuitBreakerDisabled(t *testing.T) {
	disabledConfig := &config.OperationAIConfig{
		Provider: "gemini",
		Model:    "test-model",
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled: false,
		},
	}

	cb := NewAICircuitBreaker("analyze", disabledConfig, nil)
	if cb != nil {
		t.Fatal("Circuit breaker should be nil when disabled")
	}

	// A nil breaker still executes the wrapped call directly
	var nilCB *AICircuitBreaker
	if !nilCB.IsHealthy() {
		t.Error("Disabled circuit breaker should report healthy")
	}

	stats := nilCB.GetStats()
	if enabled, _ := stats["enabled"].(bool); enabled {
		t.Error("Disabled circuit breaker stats should report enabled=false")
	}
}
