package types

import "strings"

// EncodedFile is a binary document represented as a MIME type plus base64
// content, ready for inline transport to the AI service. Immutable once created.
type EncodedFile struct {
	FileName string `json:"fileName,omitempty"`
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"` // base64-encoded bytes
}

// AnalyzeCVInput represents the input for one CV analysis
type AnalyzeCVInput struct {
	JobDescription string       `json:"jobDescription"`
	CVFile         *EncodedFile `json:"cvFile"`
}

// ParsedCVData is the ATS-style structured view of the uploaded CV
type ParsedCVData struct {
	CandidateName   string   `json:"candidateName"`
	ContactInfo     string   `json:"contactInfo"`
	Summary         string   `json:"summary"`
	SkillsExtracted []string `json:"skillsExtracted"`
	Education       []string `json:"education"`
	Experience      []string `json:"experience"`
	Certifications  []string `json:"certifications"`
}

// ScoreBreakdown holds the per-category match sub-scores (each 0-100)
type ScoreBreakdown struct {
	SkillsScore     int `json:"skillsScore"`
	ExperienceScore int `json:"experienceScore"`
	EducationScore  int `json:"educationScore"`
}

// KeywordAnalysis compares CV keywords against the job description
type KeywordAnalysis struct {
	MatchedKeywords []string       `json:"matchedKeywords"`
	MissingKeywords []string       `json:"missingKeywords"`
	MatchScore      int            `json:"matchScore"` // 0-100
	ScoreBreakdown  ScoreBreakdown `json:"scoreBreakdown"`
}

// CVImprovement is a concrete copy-paste addition tied to a CV section
type CVImprovement struct {
	SectionToImprove string `json:"sectionToImprove"`
	SuggestedText    string `json:"suggestedText"`
}

// TrimmingSuggestion recommends removing or condensing CV content
type TrimmingSuggestion struct {
	TextToRemove     string `json:"textToRemove"`
	Reason           string `json:"reason"`
	RephrasedExample string `json:"rephrasedExample,omitempty"`
}

// JobFit is the overall hiring evaluation for the CV against the job
type JobFit struct {
	Relevance               string               `json:"relevance"` // High, Medium, or Low
	HiringProbability       int                  `json:"hiringProbability"`
	Recommendations         []string             `json:"recommendations"`
	SuggestedCVImprovements []CVImprovement      `json:"suggestedCvImprovements"`
	CVTrimmingSuggestions   []TrimmingSuggestion `json:"cvTrimmingSuggestions"`
}

// AnalysisResult is the full structured output of one analysis. All four
// top-level fields must be present for rendering; never mutated in place.
type AnalysisResult struct {
	RefinedCVText   string          `json:"refinedCvText"`
	ParsedCVData    ParsedCVData    `json:"parsedCvData"`
	KeywordAnalysis KeywordAnalysis `json:"keywordAnalysis"`
	JobFit          JobFit          `json:"jobFit"`
}

// Relevance tiers as produced by the analysis schema.
const (
	RelevanceHigh   = "High"
	RelevanceMedium = "Medium"
	RelevanceLow    = "Low"
)

// AppState holds the mutable application state owned by the app shell:
// the held file, the job description, the current result and theme, and
// whether the shell is in read-only shared-link mode.
type AppState struct {
	CVFile         *EncodedFile
	JobDescription string
	Result         *AnalysisResult
	Theme          string
	ViewOnly       bool
}

// ReadyToSubmit reports whether one analysis can be submitted: a non-nil
// encoded file is held and the job description is non-empty after trimming.
func (s *AppState) ReadyToSubmit() bool {
	return s.CVFile != nil && strings.TrimSpace(s.JobDescription) != ""
}
