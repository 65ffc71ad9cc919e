package ai

import (
	"context"

	"cvlens/internal/types"
)

// AIProvider interface for different AI implementations
// AnalyzeCV returns token usage information - callers can ignore it if not needed
type AIProvider interface {
	AnalyzeCV(ctx context.Context, input types.AnalyzeCVInput) (types.AnalysisResult, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}
