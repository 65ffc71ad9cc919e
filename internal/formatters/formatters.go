package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"cvlens/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "AnalysisResult", &AnalysisTextFormatter{})
	registry.RegisterFormatter("markdown", "AnalysisResult", &AnalysisMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.AnalysisResult, *types.AnalysisResult:
		return "AnalysisResult"
	default:
		return "any"
	}
}

func toAnalysisResult(data any) (*types.AnalysisResult, error) {
	switch v := data.(type) {
	case types.AnalysisResult:
		return &v, nil
	case *types.AnalysisResult:
		return v, nil
	default:
		return nil, fmt.Errorf("expected AnalysisResult, got %T", data)
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// AnalysisTextFormatter handles text formatting for CV analysis results
type AnalysisTextFormatter struct{}

func (atf *AnalysisTextFormatter) Format(data any) (string, error) {
	result, err := toAnalysisResult(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("=== PARSED CV DATA ===\n")
	output.WriteString(fmt.Sprintf("Candidate: %s\n", result.ParsedCVData.CandidateName))
	output.WriteString(fmt.Sprintf("Contact: %s\n\n", result.ParsedCVData.ContactInfo))
	output.WriteString("Summary:\n")
	output.WriteString(result.ParsedCVData.Summary)
	output.WriteString("\n\n")
	writeTextList(&output, "Skills", result.ParsedCVData.SkillsExtracted)
	writeTextList(&output, "Education", result.ParsedCVData.Education)
	writeTextList(&output, "Experience", result.ParsedCVData.Experience)
	writeTextList(&output, "Certifications", result.ParsedCVData.Certifications)

	output.WriteString("=== KEYWORD ANALYSIS ===\n")
	output.WriteString(fmt.Sprintf("Match Score: %d/100\n", result.KeywordAnalysis.MatchScore))
	output.WriteString(fmt.Sprintf("  Skills: %d/100, Experience: %d/100, Education: %d/100\n\n",
		result.KeywordAnalysis.ScoreBreakdown.SkillsScore,
		result.KeywordAnalysis.ScoreBreakdown.ExperienceScore,
		result.KeywordAnalysis.ScoreBreakdown.EducationScore))
	writeTextList(&output, "Matched Keywords", result.KeywordAnalysis.MatchedKeywords)
	writeTextList(&output, "Missing Keywords", result.KeywordAnalysis.MissingKeywords)

	output.WriteString("=== JOB FIT ===\n")
	output.WriteString(fmt.Sprintf("Relevance: %s\n", result.JobFit.Relevance))
	output.WriteString(fmt.Sprintf("Hiring Probability: %d/100\n\n", result.JobFit.HiringProbability))
	writeTextList(&output, "Recommendations", result.JobFit.Recommendations)

	if len(result.JobFit.SuggestedCVImprovements) > 0 {
		output.WriteString("Suggested CV Additions:\n")
		for _, improvement := range result.JobFit.SuggestedCVImprovements {
			output.WriteString(fmt.Sprintf("- [%s] %s\n", improvement.SectionToImprove, improvement.SuggestedText))
		}
		output.WriteString("\n")
	}

	if len(result.JobFit.CVTrimmingSuggestions) > 0 {
		output.WriteString("Trimming Suggestions:\n")
		for _, trim := range result.JobFit.CVTrimmingSuggestions {
			output.WriteString(fmt.Sprintf("- Remove: %s\n  Reason: %s\n", trim.TextToRemove, trim.Reason))
			if trim.RephrasedExample != "" {
				output.WriteString(fmt.Sprintf("  Rephrased: %s\n", trim.RephrasedExample))
			}
		}
		output.WriteString("\n")
	}

	output.WriteString("=== REFINED CV ===\n\n")
	output.WriteString(result.RefinedCVText)
	output.WriteString("\n")

	return output.String(), nil
}

func (atf *AnalysisTextFormatter) SupportedType() string {
	return "AnalysisResult"
}

func writeTextList(output *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	output.WriteString(title + ":\n")
	for _, item := range items {
		output.WriteString(fmt.Sprintf("- %s\n", item))
	}
	output.WriteString("\n")
}

// AnalysisMarkdownFormatter handles markdown formatting for CV analysis results
type AnalysisMarkdownFormatter struct{}

func (amf *AnalysisMarkdownFormatter) Format(data any) (string, error) {
	result, err := toAnalysisResult(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("# CV Analysis\n\n")

	output.WriteString("## Parsed CV Data\n\n")
	output.WriteString(fmt.Sprintf("**Candidate:** %s\n\n", result.ParsedCVData.CandidateName))
	output.WriteString(fmt.Sprintf("**Contact:** %s\n\n", result.ParsedCVData.ContactInfo))
	output.WriteString(result.ParsedCVData.Summary)
	output.WriteString("\n\n")
	writeMarkdownList(&output, "Skills", result.ParsedCVData.SkillsExtracted)
	writeMarkdownList(&output, "Education", result.ParsedCVData.Education)
	writeMarkdownList(&output, "Experience", result.ParsedCVData.Experience)
	writeMarkdownList(&output, "Certifications", result.ParsedCVData.Certifications)

	output.WriteString("## Keyword Analysis\n\n")
	output.WriteString(fmt.Sprintf("**Match Score:** %d/100\n\n", result.KeywordAnalysis.MatchScore))
	output.WriteString(fmt.Sprintf("| Skills | Experience | Education |\n|---|---|---|\n| %d | %d | %d |\n\n",
		result.KeywordAnalysis.ScoreBreakdown.SkillsScore,
		result.KeywordAnalysis.ScoreBreakdown.ExperienceScore,
		result.KeywordAnalysis.ScoreBreakdown.EducationScore))
	writeMarkdownList(&output, "Matched Keywords", result.KeywordAnalysis.MatchedKeywords)
	writeMarkdownList(&output, "Missing Keywords", result.KeywordAnalysis.MissingKeywords)

	output.WriteString("## Job Fit\n\n")
	output.WriteString(fmt.Sprintf("**Relevance:** %s\n\n", result.JobFit.Relevance))
	output.WriteString(fmt.Sprintf("**Hiring Probability:** %d/100\n\n", result.JobFit.HiringProbability))
	writeMarkdownList(&output, "Recommendations", result.JobFit.Recommendations)

	if len(result.JobFit.SuggestedCVImprovements) > 0 {
		output.WriteString("### Suggested CV Additions\n\n")
		for _, improvement := range result.JobFit.SuggestedCVImprovements {
			output.WriteString(fmt.Sprintf("- **%s:** %s\n", improvement.SectionToImprove, improvement.SuggestedText))
		}
		output.WriteString("\n")
	}

	if len(result.JobFit.CVTrimmingSuggestions) > 0 {
		output.WriteString("### Trimming Suggestions\n\n")
		for _, trim := range result.JobFit.CVTrimmingSuggestions {
			output.WriteString(fmt.Sprintf("- **Remove:** %s (%s)\n", trim.TextToRemove, trim.Reason))
			if trim.RephrasedExample != "" {
				output.WriteString(fmt.Sprintf("  - Rephrased: %s\n", trim.RephrasedExample))
			}
		}
		output.WriteString("\n")
	}

	output.WriteString("## Refined CV\n\n")
	output.WriteString(result.RefinedCVText)
	output.WriteString("\n")

	return output.String(), nil
}

func (amf *AnalysisMarkdownFormatter) SupportedType() string {
	return "AnalysisResult"
}

func writeMarkdownList(output *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	output.WriteString("### " + title + "\n\n")
	for _, item := range items {
		output.WriteString(fmt.Sprintf("- %s\n", item))
	}
	output.WriteString("\n")
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
