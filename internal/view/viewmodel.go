package view

import (
	"strings"

	"cvlens/internal/types"
)

// ScoreTier classifies a 0-100 score into the three-tier color policy used
// by every progress bar: >=70 high, 40-69 medium, <40 low.
type ScoreTier string

const (
	TierHigh   ScoreTier = "high"
	TierMedium ScoreTier = "medium"
	TierLow    ScoreTier = "low"
)

// TierFor returns the tier for a 0-100 score.
func TierFor(score int) ScoreTier {
	switch {
	case score >= 70:
		return TierHigh
	case score >= 40:
		return TierMedium
	default:
		return TierLow
	}
}

// Score pairs a 0-100 value with its tier and the color the tier maps to
// under the active theme.
type Score struct {
	Label string
	Value int
	Tier  ScoreTier
	Color string
}

// Gauge describes the half-ring job-fit visualization: the filled fraction
// is a fixed mapping from the relevance tier, not a continuous score.
type Gauge struct {
	Label   string // centered overlay text
	Caption string
	Percent int // filled fraction of the half ring, 0-100
	Color   string
}

// Remainder is the unfilled fraction of the half ring.
func (g Gauge) Remainder() int {
	return 100 - g.Percent
}

// KeywordChart carries the two bar values for the matched/missing chart.
// Axis ticks are integer-only since the values are counts.
type KeywordChart struct {
	MatchedCount int
	MissingCount int
}

// Model is the complete, render-ready description of one results view.
// Building it is pure: the same result and theme always produce the same
// model, and chart/DOM side effects stay in the presentation layer.
type Model struct {
	Theme    Theme
	ViewOnly bool

	// ShowShare is false in read-only shared mode; the share action is
	// omitted entirely rather than disabled.
	ShowShare bool

	CandidateName  string
	ContactInfo    string
	Summary        string
	Skills         []string
	Education      []string
	Experience     []string
	Certifications []string

	MatchScore      Score
	SkillsScore     Score
	ExperienceScore Score
	EducationScore  Score

	KeywordChart    KeywordChart
	MatchedKeywords []string
	MissingKeywords []string

	Relevance         string
	Gauge             Gauge
	HiringProbability Score
	Recommendations   []string
	Improvements      []types.CVImprovement
	Trimming          []types.TrimmingSuggestion

	RefinedCVText string
}

// Build constructs the view model for one analysis result under one theme.
func Build(result *types.AnalysisResult, theme Theme, viewOnly bool) Model {
	return Model{
		Theme:     theme,
		ViewOnly:  viewOnly,
		ShowShare: !viewOnly,

		CandidateName:  orNA(result.ParsedCVData.CandidateName),
		ContactInfo:    orNA(result.ParsedCVData.ContactInfo),
		Summary:        orNA(result.ParsedCVData.Summary),
		Skills:         result.ParsedCVData.SkillsExtracted,
		Education:      result.ParsedCVData.Education,
		Experience:     result.ParsedCVData.Experience,
		Certifications: result.ParsedCVData.Certifications,

		MatchScore:      scoreFor("Overall Match", result.KeywordAnalysis.MatchScore, theme),
		SkillsScore:     scoreFor("Skills", result.KeywordAnalysis.ScoreBreakdown.SkillsScore, theme),
		ExperienceScore: scoreFor("Experience", result.KeywordAnalysis.ScoreBreakdown.ExperienceScore, theme),
		EducationScore:  scoreFor("Education", result.KeywordAnalysis.ScoreBreakdown.EducationScore, theme),

		KeywordChart: KeywordChart{
			MatchedCount: len(result.KeywordAnalysis.MatchedKeywords),
			MissingCount: len(result.KeywordAnalysis.MissingKeywords),
		},
		MatchedKeywords: result.KeywordAnalysis.MatchedKeywords,
		MissingKeywords: result.KeywordAnalysis.MissingKeywords,

		Relevance:         orNA(result.JobFit.Relevance),
		Gauge:             gaugeFor(result.JobFit.Relevance, theme),
		HiringProbability: scoreFor("Hiring Probability", result.JobFit.HiringProbability, theme),
		Recommendations:   result.JobFit.Recommendations,
		Improvements:      result.JobFit.SuggestedCVImprovements,
		Trimming:          result.JobFit.CVTrimmingSuggestions,

		RefinedCVText: result.RefinedCVText,
	}
}

// scoreFor builds a Score with the three-tier color policy applied.
func scoreFor(label string, value int, theme Theme) Score {
	tier := TierFor(value)
	return Score{
		Label: label,
		Value: value,
		Tier:  tier,
		Color: tierColor(tier, theme),
	}
}

func tierColor(tier ScoreTier, theme Theme) string {
	switch tier {
	case TierHigh:
		return theme.Success
	case TierMedium:
		return theme.Warning
	default:
		return theme.Danger
	}
}

// gaugeFor maps the relevance enum onto the fixed half-ring fill: High 85%,
// Medium 50%, Low 15%, anything unrecognized 0% in the neutral color.
func gaugeFor(relevance string, theme Theme) Gauge {
	g := Gauge{
		Label:   orNA(relevance),
		Caption: "Relevance",
	}

	switch strings.ToLower(strings.TrimSpace(relevance)) {
	case "high":
		g.Percent = 85
		g.Color = theme.Success
	case "medium":
		g.Percent = 50
		g.Color = theme.Warning
	case "low":
		g.Percent = 15
		g.Color = theme.Danger
	default:
		g.Percent = 0
		g.Color = theme.Neutral
	}

	return g
}

// orNA substitutes "N/A" for missing text so empty fields render as a
// placeholder instead of a blank.
func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
