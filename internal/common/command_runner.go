package common

import (
	"context"
	"fmt"
	"os"

	"cvlens/internal/ai"
	"cvlens/internal/encode"
	"cvlens/internal/errors"
	"cvlens/internal/types"
)

// AnalyzeFunc is the AI operation signature the CLI runs.
type AnalyzeFunc func(context.Context, types.AnalyzeCVInput) (types.AnalysisResult, *ai.TokenUsage, error)

// RunAnalyzeCommand encapsulates the CLI analysis flow: read and validate
// the CV document and the job description, run the analysis, report token
// usage, and write the formatted result.
func RunAnalyzeCommand(
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	cvPath, jobPath string,
	maxFileSize int64,
	analyze AnalyzeFunc,
) error {
	fileProcessor := NewFileProcessor(logger)
	outputHandler := NewOutputHandler(logger)

	cvData, err := fileProcessor.ReadBinaryFile(cvPath)
	if err != nil {
		return err
	}

	cvFile, err := encode.EncodeUpload(cvPath, "", cvData, maxFileSize)
	if err != nil {
		return err
	}

	jobContents, err := fileProcessor.ValidateAndReadFiles(jobPath)
	if err != nil {
		return err
	}

	input := types.AnalyzeCVInput{
		JobDescription: jobContents[0],
		CVFile:         cvFile,
	}

	logger.Info("Starting CV analysis",
		"cv_file", cvPath,
		"cv_size", len(cvData),
		"job_length", len(input.JobDescription),
		"output_format", cmdConfig.OutputFormat)

	result, tokenUsage, err := analyze(ctx, input)
	if err != nil {
		return err
	}

	// Report token usage
	if tokenUsage != nil {
		if logger != nil {
			logger.Info("AI token usage", "input_tokens", tokenUsage.InputTokens, "output_tokens", tokenUsage.OutputTokens, "total_tokens", tokenUsage.TotalTokens)
		} else {
			fmt.Fprintf(os.Stderr, "AI token usage: input=%d, output=%d, total=%d\n", tokenUsage.InputTokens, tokenUsage.OutputTokens, tokenUsage.TotalTokens)
		}
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}
