package cli

import (
	"context"
	"fmt"

	"cvlens/internal/ai"
	"cvlens/internal/common"
	"cvlens/internal/types"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [cv-pdf] [job-description-file]",
	Short: "Analyze a CV against a job description",
	Long: `Analyze a CV (PDF) against a job description in a single AI pass.

The analysis includes:
- ATS-style parsed CV data (skills, education, experience, certifications)
- Keyword match scoring with per-category breakdown
- Matched and missing keywords
- Job fit evaluation with hiring probability and recommendations
- Copy-paste CV additions and trimming suggestions
- A refined, rewritten CV text`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if analyzeConfig.OutputFormat == "" {
			analyzeConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(analyzeConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runAnalyze,
}

var analyzeConfig common.CommandConfig

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	// Add completion for format flag
	_ = analyzeCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	// Create AI service for the analysis
	analyzeAIConfig := cfg.GetAnalyzeConfig()
	aiService, err := ai.NewService(&analyzeAIConfig, "analyze", logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}
	defer func() {
		if closeErr := aiService.Close(); closeErr != nil {
			logger.Debug("Failed to close AI service", "error", closeErr)
		}
	}()

	analyzeOperation := func(ctx context.Context, input types.AnalyzeCVInput) (types.AnalysisResult, *ai.TokenUsage, error) {
		return aiService.AnalyzeCV(ctx, input)
	}

	err = common.RunAnalyzeCommand(
		cmd.Context(),
		logger,
		analyzeConfig,
		args[0],
		args[1],
		cfg.App.MaxFileSize,
		analyzeOperation,
	)

	if err != nil {
		return fmt.Errorf("failed to analyze CV: %w", err)
	}
	logger.Info("CV analysis completed successfully")
	return nil
}
