package store

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	cvlensErrors "cvlens/internal/errors"
	"cvlens/internal/types"
)

var testLogger = cvlensErrors.NewLogger(slog.LevelError)

func newTestStore(t *testing.T) *ResultStore {
	t.Helper()
	s, err := NewResultStore(t.TempDir(), testLogger)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return s
}

func sampleResult() *types.AnalysisResult {
	return &types.AnalysisResult{
		RefinedCVText: "Jane Doe\nSenior Engineer",
		ParsedCVData: types.ParsedCVData{
			CandidateName:   "Jane Doe",
			ContactInfo:     "jane@example.com",
			Summary:         "Backend engineer",
			SkillsExtracted: []string{"Go", "PostgreSQL"},
			Education:       []string{"BSc Computer Science"},
			Experience:      []string{"Acme Corp, 2019-2024"},
			Certifications:  []string{},
		},
		KeywordAnalysis: types.KeywordAnalysis{
			MatchedKeywords: []string{"Go"},
			MissingKeywords: []string{"Kubernetes"},
			MatchScore:      72,
			ScoreBreakdown: types.ScoreBreakdown{
				SkillsScore:     80,
				ExperienceScore: 70,
				EducationScore:  65,
			},
		},
		JobFit: types.JobFit{
			Relevance:               "High",
			HiringProbability:       75,
			Recommendations:         []string{"Add Kubernetes experience"},
			SuggestedCVImprovements: []types.CVImprovement{},
			CVTrimmingSuggestions:   []types.TrimmingSuggestion{},
		},
	}
}

func TestCurrentResultReplacedWholesale(t *testing.T) {
	s := newTestStore(t)

	if s.Current() != nil {
		t.Fatal("expected no current result initially")
	}

	first := sampleResult()
	s.SetCurrent(first)
	if s.Current() != first {
		t.Error("expected first result to be current")
	}

	second := sampleResult()
	s.SetCurrent(second)
	if s.Current() != second {
		t.Error("expected second result to replace the first")
	}
}

func TestPersistAndLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	original := sampleResult()

	id, err := s.PersistForSharing(original)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !regexp.MustCompile(`^analysis-\d+-[a-z0-9]{7}$`).MatchString(id) {
		t.Errorf("unexpected share id format: %q", id)
	}

	loaded, err := s.LoadByID(id)
	if err != nil {
		t.Fatalf("unexpected error loading shared result: %v", err)
	}
	if loaded.ParsedCVData.CandidateName != "Jane Doe" {
		t.Errorf("round trip lost data: %+v", loaded.ParsedCVData)
	}
	if loaded.KeywordAnalysis.MatchScore != 72 {
		t.Errorf("round trip lost match score: %d", loaded.KeywordAnalysis.MatchScore)
	}
}

func TestPersistNilResult(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.PersistForSharing(nil); err == nil {
		t.Fatal("expected error persisting nil result")
	}
}

func TestLoadByIDNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.LoadByID("analysis-1700000000000-abc1234")
	var appErr *cvlensErrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != cvlensErrors.ErrCodeResultNotFound {
		t.Errorf("code = %q, want %q", appErr.Code, cvlensErrors.ErrCodeResultNotFound)
	}
}

func TestLoadByIDCorruptRecord(t *testing.T) {
	dir := t.TempDir()
	s, err := NewResultStore(dir, testLogger)
	if err != nil {
		t.Fatal(err)
	}

	id := "analysis-1700000000000-abc1234"
	if err := os.WriteFile(filepath.Join(dir, id+".json"), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err = s.LoadByID(id)
	var appErr *cvlensErrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != cvlensErrors.ErrCodeResultCorrupt {
		t.Errorf("code = %q, want %q", appErr.Code, cvlensErrors.ErrCodeResultCorrupt)
	}
}

func TestLoadByIDRejectsMalformedIdentifier(t *testing.T) {
	s := newTestStore(t)

	for _, id := range []string{"", "../../etc/passwd", "analysis-x-y!", "other-123-abc"} {
		if _, err := s.LoadByID(id); err == nil {
			t.Errorf("expected rejection for id %q", id)
		}
	}
}

func TestThemeRoundTrip(t *testing.T) {
	s := newTestStore(t)

	theme, err := s.LoadTheme()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if theme != "" {
		t.Errorf("expected empty theme before save, got %q", theme)
	}

	if err := s.SaveTheme("ocean"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	theme, err = s.LoadTheme()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if theme != "ocean" {
		t.Errorf("theme = %q, want %q", theme, "ocean")
	}
}
