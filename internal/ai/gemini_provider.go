package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"cvlens/internal/config"
	cvlensErrors "cvlens/internal/errors"
	"cvlens/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"
)

// GeminiProvider implements AIProvider for Google Gemini
type GeminiProvider struct {
	client         *genai.Client
	httpClient     *http.Client
	config         *config.OperationAIConfig
	circuitBreaker *AICircuitBreaker
	modelBreaker   *ModelCircuitBreaker
	logger         *cvlensErrors.Logger
}

// Ensure GeminiProvider implements AIProvider
var _ AIProvider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a new Gemini provider instance for a specific operation
func NewGeminiProvider(cfg *config.OperationAIConfig, operationType string, logger *cvlensErrors.Logger) (*GeminiProvider, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, cvlensErrors.NewAIError(cvlensErrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	// Initialize circuit breaker with operation-specific configuration
	circuitBreaker := NewAICircuitBreaker(operationType, cfg, logger)
	modelBreaker := NewModelCircuitBreaker(operationType, cfg, logger)

	return &GeminiProvider{
		client: client,
		httpClient: &http.Client{
			Timeout: *cfg.Timeout,
		},
		config:         cfg,
		circuitBreaker: circuitBreaker,
		modelBreaker:   modelBreaker,
		logger:         logger,
	}, nil
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{
		Name:      g.config.Model,
		Available: false,
	}

	// Create a timeout context for the model check
	checkCtx, cancel := context.WithTimeout(ctx, getAIModelCheckTimeout())
	defer cancel()

	// Get model information from Gemini API with circuit breaker
	model, err := g.modelBreaker.ExecuteModel(func() (*genai.Model, error) {
		return g.client.Models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)

		g.logger.Warn("Model availability check failed",
			"model", g.config.Model,
			"provider", g.config.Provider,
			"error", err.Error())
		return modelInfo
	}

	// Model is available, populate info
	modelInfo.Available = true
	if model.DisplayName != "" {
		modelInfo.DisplayName = model.DisplayName
	}
	if model.Version != "" {
		modelInfo.Version = model.Version
	}

	g.logger.Debug("Model availability check successful",
		"model", g.config.Model,
		"provider", g.config.Provider,
		"display_name", modelInfo.DisplayName,
		"version", modelInfo.Version)

	return modelInfo
}

// AnalyzeCV implements AIProvider for the CV analysis operation. Exactly one
// request is sent per call; any failure is classified and returned as-is
// rather than retried, since analyses are user-initiated and resubmittable.
func (g *GeminiProvider) AnalyzeCV(ctx context.Context, input types.AnalyzeCVInput) (types.AnalysisResult, *TokenUsage, error) {
	tracer := otel.Tracer("cvlens.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini.analyze_cv")
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
		attribute.Float64("ai.temperature", float64(*g.config.Temperature)),
		attribute.Int("input.job_length", len(input.JobDescription)),
		attribute.String("input.file_mime_type", input.CVFile.MIMEType),
	)

	fileBytes, err := base64.StdEncoding.DecodeString(input.CVFile.Data)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return types.AnalysisResult{}, nil, cvlensErrors.NewValidationError(cvlensErrors.ErrCodeFileNotReadable,
			"The uploaded document could not be decoded", err)
	}

	systemPrompt, userPrompt := g.getAnalyzePrompts(input.JobDescription)
	genaiConfig := g.buildAnalysisSchema()
	if *g.config.UseSystemPrompts && systemPrompt != "" {
		genaiConfig.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(fileBytes, input.CVFile.MIMEType),
			genai.NewPartFromText(userPrompt),
		}, genai.RoleUser),
	}

	result, err := g.circuitBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.client.Models.GenerateContent(ctx, g.config.Model, contents, genaiConfig)
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return types.AnalysisResult{}, nil, ClassifyError(err)
	}

	output, err := types.DecodeAnalysisResult([]byte(result.Text()))
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return types.AnalysisResult{}, nil, cvlensErrors.NewAIError(cvlensErrors.ErrCodeAIResponseParse,
			"Failed to parse AI analysis response", err)
	}

	tokenUsage := extractTokenUsage(result)
	if tokenUsage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", tokenUsage.InputTokens),
			attribute.Int64("ai.tokens.output", tokenUsage.OutputTokens),
			attribute.Int64("ai.tokens.total", tokenUsage.TotalTokens),
		)
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("output.refined_cv_length", len(output.RefinedCVText)),
		attribute.Int("match.score", output.KeywordAnalysis.MatchScore),
		attribute.String("job_fit.relevance", output.JobFit.Relevance),
	)

	return *output, tokenUsage, nil
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	stats := map[string]any{
		"ai_operations":    g.circuitBreaker.GetStats(),
		"model_operations": g.modelBreaker.GetModelStats(),
	}

	// Overall health - both breakers must be healthy
	aiHealthy := g.circuitBreaker.IsHealthy()
	modelHealthy := g.modelBreaker.IsModelHealthy()
	stats["overall_healthy"] = aiHealthy && modelHealthy

	return stats
}

// Close implements AIProvider interface
func (g *GeminiProvider) Close() error {
	// Gemini client doesn't have a Close method in current single-shot usage
	return nil
}

// buildAnalysisSchema creates the strict output schema for CV analysis requests
func (g *GeminiProvider) buildAnalysisSchema() *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"refinedCvText": {Type: genai.TypeString},
				"parsedCvData": {
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"candidateName": {Type: genai.TypeString},
						"contactInfo":   {Type: genai.TypeString},
						"summary":       {Type: genai.TypeString},
						"skillsExtracted": {
							Type:  genai.TypeArray,
							Items: &genai.Schema{Type: genai.TypeString},
						},
						"education": {
							Type:  genai.TypeArray,
							Items: &genai.Schema{Type: genai.TypeString},
						},
						"experience": {
							Type:  genai.TypeArray,
							Items: &genai.Schema{Type: genai.TypeString},
						},
						"certifications": {
							Type:  genai.TypeArray,
							Items: &genai.Schema{Type: genai.TypeString},
						},
					},
					Required: []string{"candidateName", "contactInfo", "summary", "skillsExtracted", "education", "experience"},
				},
				"keywordAnalysis": {
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"matchedKeywords": {
							Type:  genai.TypeArray,
							Items: &genai.Schema{Type: genai.TypeString},
						},
						"missingKeywords": {
							Type:  genai.TypeArray,
							Items: &genai.Schema{Type: genai.TypeString},
						},
						"matchScore": {Type: genai.TypeInteger},
						"scoreBreakdown": {
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"skillsScore":     {Type: genai.TypeInteger},
								"experienceScore": {Type: genai.TypeInteger},
								"educationScore":  {Type: genai.TypeInteger},
							},
							Required: []string{"skillsScore", "experienceScore", "educationScore"},
						},
					},
					Required: []string{"matchedKeywords", "missingKeywords", "matchScore", "scoreBreakdown"},
				},
				"jobFit": {
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"relevance": {
							Type: genai.TypeString,
							Enum: []string{"High", "Medium", "Low"},
						},
						"hiringProbability": {Type: genai.TypeInteger},
						"recommendations": {
							Type:  genai.TypeArray,
							Items: &genai.Schema{Type: genai.TypeString},
						},
						"suggestedCvImprovements": {
							Type: genai.TypeArray,
							Items: &genai.Schema{
								Type: genai.TypeObject,
								Properties: map[string]*genai.Schema{
									"sectionToImprove": {Type: genai.TypeString},
									"suggestedText":    {Type: genai.TypeString},
								},
								Required: []string{"sectionToImprove", "suggestedText"},
							},
						},
						"cvTrimmingSuggestions": {
							Type: genai.TypeArray,
							Items: &genai.Schema{
								Type: genai.TypeObject,
								Properties: map[string]*genai.Schema{
									"textToRemove":     {Type: genai.TypeString},
									"reason":           {Type: genai.TypeString},
									"rephrasedExample": {Type: genai.TypeString},
								},
								Required: []string{"textToRemove", "reason"},
							},
						},
					},
					Required: []string{"relevance", "hiringProbability", "recommendations", "suggestedCvImprovements", "cvTrimmingSuggestions"},
				},
			},
			Required: []string{"refinedCvText", "parsedCvData", "keywordAnalysis", "jobFit"},
		},
	}

	// Apply temperature configuration if set
	if *g.config.Temperature > 0 {
		config.Temperature = g.config.Temperature
	}

	return config
}

// getAnalyzePrompts returns system and user prompts for CV analysis
func (g *GeminiProvider) getAnalyzePrompts(jobDescription string) (string, string) {
	systemPrompt := g.getSystemPrompt()
	userPrompt := g.getUserPrompt()

	// Format user prompt with dynamic content; the CV itself travels as an
	// inline document part, not prompt text
	formattedUserPrompt := fmt.Sprintf(userPrompt, jobDescription)

	return systemPrompt, formattedUserPrompt
}

// getSystemPrompt returns the appropriate system prompt
func (g *GeminiProvider) getSystemPrompt() string {
	loadedPrompts := config.GetPromptsForOperation("analyze")
	return resolvePrompt(
		loadedPrompts.SystemPrompts.AnalyzeCV,
		g.config.CustomPrompts.SystemPrompts.AnalyzeCV,
		DefaultSystemPrompts.AnalyzeCV,
	)
}

// getUserPrompt returns the appropriate user prompt template
func (g *GeminiProvider) getUserPrompt() string {
	loadedPrompts := config.GetPromptsForOperation("analyze")
	return resolvePrompt(
		loadedPrompts.UserPrompts.AnalyzeCV,
		g.config.CustomPrompts.UserPrompts.AnalyzeCV,
		DefaultUserPrompts.AnalyzeCV,
	)
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// extractTokenUsage extracts token usage information from Gemini API response
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}

// getAIModelCheckTimeout returns the configured AI model check timeout
func getAIModelCheckTimeout() time.Duration {
	return 10 * time.Second
}

// resolvePrompt selects the correct prompt string based on a clear priority order:
// 1. A prompt loaded from a file.
// 2. A prompt defined directly in the configuration.
// 3. A hardcoded default prompt.
func resolvePrompt(loadedFromFile, fromConfig, fromDefault string) string {
	if loadedFromFile != "" {
		return loadedFromFile
	}
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}
