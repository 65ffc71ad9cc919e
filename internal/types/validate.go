package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeAnalysisResult parses raw JSON from the AI service (or a stored share
// record) into an AnalysisResult, validating the payload at the boundary
// instead of trusting it at every render call site. All four top-level fields
// are required; missing optional arrays are normalized to empty slices so the
// renderer never has to nil-check them.
func DecodeAnalysisResult(data []byte) (*AnalysisResult, error) {
	// Probe the top level first so a missing field reports as a validation
	// failure rather than a zero value sliding through.
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("malformed analysis payload: %w", err)
	}

	var missing []string
	for _, field := range []string{"refinedCvText", "parsedCvData", "keywordAnalysis", "jobFit"} {
		raw, ok := probe[field]
		if !ok || string(raw) == "null" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("analysis payload missing required fields: %s", strings.Join(missing, ", "))
	}

	var result AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("malformed analysis payload: %w", err)
	}

	result.normalize()
	return &result, nil
}

// normalize replaces nil optional arrays with empty slices.
func (r *AnalysisResult) normalize() {
	if r.ParsedCVData.SkillsExtracted == nil {
		r.ParsedCVData.SkillsExtracted = []string{}
	}
	if r.ParsedCVData.Education == nil {
		r.ParsedCVData.Education = []string{}
	}
	if r.ParsedCVData.Experience == nil {
		r.ParsedCVData.Experience = []string{}
	}
	if r.ParsedCVData.Certifications == nil {
		r.ParsedCVData.Certifications = []string{}
	}
	if r.KeywordAnalysis.MatchedKeywords == nil {
		r.KeywordAnalysis.MatchedKeywords = []string{}
	}
	if r.KeywordAnalysis.MissingKeywords == nil {
		r.KeywordAnalysis.MissingKeywords = []string{}
	}
	if r.JobFit.Recommendations == nil {
		r.JobFit.Recommendations = []string{}
	}
	if r.JobFit.SuggestedCVImprovements == nil {
		r.JobFit.SuggestedCVImprovements = []CVImprovement{}
	}
	if r.JobFit.CVTrimmingSuggestions == nil {
		r.JobFit.CVTrimmingSuggestions = []TrimmingSuggestion{}
	}
}
