package types

import (
	"strings"
	"testing"
)

const fullPayload = `{
	"refinedCvText": "JANE DOE\nSoftware Engineer",
	"parsedCvData": {
		"candidateName": "Jane Doe",
		"contactInfo": "jane@example.com",
		"summary": "Engineer with 5 years of backend experience",
		"skillsExtracted": ["Go", "PostgreSQL"],
		"education": ["BSc Computer Science"],
		"experience": ["Backend Engineer at Acme"],
		"certifications": []
	},
	"keywordAnalysis": {
		"matchedKeywords": ["Go", "REST"],
		"missingKeywords": ["Kubernetes"],
		"matchScore": 72,
		"scoreBreakdown": {"skillsScore": 80, "experienceScore": 70, "educationScore": 65}
	},
	"jobFit": {
		"relevance": "High",
		"hiringProbability": 75,
		"recommendations": ["Add Kubernetes experience", "Quantify achievements", "Lead with impact"],
		"suggestedCvImprovements": [{"sectionToImprove": "Skills", "suggestedText": "Kubernetes (CKA in progress)"}],
		"cvTrimmingSuggestions": [{"textToRemove": "References available on request", "reason": "Wastes space"}]
	}
}`

func TestDecodeAnalysisResult(t *testing.T) {
	result, err := DecodeAnalysisResult([]byte(fullPayload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.ParsedCVData.CandidateName != "Jane Doe" {
		t.Errorf("expected candidate name 'Jane Doe', got %q", result.ParsedCVData.CandidateName)
	}
	if result.KeywordAnalysis.MatchScore != 72 {
		t.Errorf("expected match score 72, got %d", result.KeywordAnalysis.MatchScore)
	}
	if result.JobFit.Relevance != RelevanceHigh {
		t.Errorf("expected relevance High, got %q", result.JobFit.Relevance)
	}
	if len(result.JobFit.Recommendations) != 3 {
		t.Errorf("expected 3 recommendations, got %d", len(result.JobFit.Recommendations))
	}
}

func TestDecodeAnalysisResultMissingTopLevelField(t *testing.T) {
	cases := []string{"refinedCvText", "parsedCvData", "keywordAnalysis", "jobFit"}

	for _, field := range cases {
		t.Run(field, func(t *testing.T) {
			payload := fullPayload
			// Drop the field by renaming it so the rest of the payload stays valid.
			payload = strings.Replace(payload, `"`+field+`"`, `"`+field+`Gone"`, 1)

			_, err := DecodeAnalysisResult([]byte(payload))
			if err == nil {
				t.Fatalf("expected error for missing %s", field)
			}
			if !strings.Contains(err.Error(), field) {
				t.Errorf("error should name the missing field %s, got: %v", field, err)
			}
		})
	}
}

func TestDecodeAnalysisResultNullRequiredField(t *testing.T) {
	payload := strings.Replace(fullPayload, `"refinedCvText": "JANE DOE\nSoftware Engineer"`, `"refinedCvText": null`, 1)
	if _, err := DecodeAnalysisResult([]byte(payload)); err == nil {
		t.Fatal("expected error for null refinedCvText")
	}
}

func TestDecodeAnalysisResultMalformedJSON(t *testing.T) {
	if _, err := DecodeAnalysisResult([]byte("{not json")); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestDecodeAnalysisResultNormalizesMissingArrays(t *testing.T) {
	payload := `{
		"refinedCvText": "text",
		"parsedCvData": {"candidateName": "A", "contactInfo": "B", "summary": "C"},
		"keywordAnalysis": {"matchScore": 50, "scoreBreakdown": {"skillsScore": 50, "experienceScore": 50, "educationScore": 50}},
		"jobFit": {"relevance": "Medium", "hiringProbability": 40}
	}`

	result, err := DecodeAnalysisResult([]byte(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.ParsedCVData.SkillsExtracted == nil || len(result.ParsedCVData.SkillsExtracted) != 0 {
		t.Error("skillsExtracted should normalize to an empty slice")
	}
	if result.KeywordAnalysis.MatchedKeywords == nil {
		t.Error("matchedKeywords should normalize to an empty slice")
	}
	if result.JobFit.SuggestedCVImprovements == nil {
		t.Error("suggestedCvImprovements should normalize to an empty slice")
	}
	if result.JobFit.CVTrimmingSuggestions == nil {
		t.Error("cvTrimmingSuggestions should normalize to an empty slice")
	}
}

func TestAppStateReadyToSubmit(t *testing.T) {
	file := &EncodedFile{MIMEType: "application/pdf", Data: "JVBERi0="}

	cases := []struct {
		name  string
		state AppState
		want  bool
	}{
		{"both inputs present", AppState{CVFile: file, JobDescription: "Backend engineer role"}, true},
		{"no file", AppState{JobDescription: "Backend engineer role"}, false},
		{"empty description", AppState{CVFile: file}, false},
		{"whitespace-only description", AppState{CVFile: file, JobDescription: "   \n\t "}, false},
		{"nothing held", AppState{}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.state.ReadyToSubmit(); got != tc.want {
				t.Errorf("ReadyToSubmit() = %v, want %v", got, tc.want)
			}
		})
	}
}
