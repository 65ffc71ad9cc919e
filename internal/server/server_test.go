package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cvlens/internal/config"
	cvlensErrors "cvlens/internal/errors"
	"cvlens/internal/observability"
	"cvlens/internal/store"
	"cvlens/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAppConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		App: config.AppConfig{
			LogLevel:      "info",
			DefaultFormat: "json",
			MaxFileSize:   10 << 20,
			DataDir:       t.TempDir(),
			DefaultTheme:  "dark",
		},
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := testAppConfig(t)
	logger := cvlensErrors.NewLogger(slog.LevelError)

	resultStore, err := store.NewResultStore(cfg.App.DataDir, logger)
	require.NoError(t, err)

	return NewServer(cfg, ServerConfig{
		Host:           "127.0.0.1",
		Port:           "8080",
		Version:        "test",
		MaxRequestSize: 10 << 20,
	}, resultStore, logger)
}

// disabledObservability builds a no-op manager so handlers can be exercised
// without exporters.
func disabledObservability(t *testing.T) *observability.ObservabilityManager {
	t.Helper()
	om, err := observability.NewObservabilityManager(observability.ObservabilityConfig{Enabled: false}, nil)
	require.NoError(t, err)
	return om
}

func serverTestResult() *types.AnalysisResult {
	return &types.AnalysisResult{
		RefinedCVText: "Jane Doe\nStaff Engineer with a decade of Go experience.",
		ParsedCVData: types.ParsedCVData{
			CandidateName:   "Jane Doe",
			ContactInfo:     "jane@example.com",
			Summary:         "Staff engineer.",
			SkillsExtracted: []string{"Go"},
			Education:       []string{"BSc Computer Science"},
			Experience:      []string{"Staff Engineer at Example Corp"},
		},
		KeywordAnalysis: types.KeywordAnalysis{
			MatchedKeywords: []string{"Go", "Kubernetes"},
			MissingKeywords: []string{"Terraform"},
			MatchScore:      78,
			ScoreBreakdown: types.ScoreBreakdown{
				SkillsScore:     80,
				ExperienceScore: 75,
				EducationScore:  70,
			},
		},
		JobFit: types.JobFit{
			Relevance:         types.RelevanceHigh,
			HiringProbability: 72,
			Recommendations:   []string{"Add Terraform experience", "Quantify impact", "Lead with Go"},
		},
	}
}

func TestPageHandlerInteractiveMode(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.pageHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Analyze your CV")
	assert.Contains(t, body, `name="cvFile"`)
	assert.Contains(t, body, `name="jobDescription"`)
}

func TestPageHandlerUnknownPathIs404(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	s.pageHandler(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPageHandlerSharedResult(t *testing.T) {
	s := newTestServer(t)

	analysisID, err := s.Store.PersistForSharing(serverTestResult())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/?analysisId="+analysisID, nil)
	rec := httptest.NewRecorder()
	s.pageHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Jane Doe")
	assert.Contains(t, body, "read-only")
	// The submit form and share action are absent in view-only mode
	assert.NotContains(t, body, "Analyze your CV")
	assert.NotContains(t, body, "share-btn")
}

func TestPageHandlerSharedResultNotFound(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/?analysisId=analysis-1712345678901-ab12cd3", nil)
	rec := httptest.NewRecorder()
	s.pageHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No shared analysis exists")
}

func TestPageHandlerSampleQueryPrefillsForm(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/?sample=1", nil)
	rec := httptest.NewRecorder()
	s.pageHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Senior Backend Engineer")
}

func TestShareHandlerWithoutResult(t *testing.T) {
	s := newTestServer(t)
	handler := s.createShareHandler(disabledObservability(t))

	req := httptest.NewRequest(http.MethodPost, "/share", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShareHandlerReturnsLink(t *testing.T) {
	s := newTestServer(t)
	s.Store.SetCurrent(serverTestResult())
	handler := s.createShareHandler(disabledObservability(t))

	req := httptest.NewRequest(http.MethodPost, "/share", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ShareResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.AnalysisID, "analysis-"))
	assert.Contains(t, resp.ShareURL, "/?analysisId="+resp.AnalysisID)

	// The persisted record loads back
	loaded, err := s.Store.LoadByID(resp.AnalysisID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", loaded.ParsedCVData.CandidateName)
}

func TestShareHandlerUsesConfiguredBaseURL(t *testing.T) {
	s := newTestServer(t)
	s.BaseURL = "https://cv.example.com"
	s.Store.SetCurrent(serverTestResult())
	handler := s.createShareHandler(disabledObservability(t))

	req := httptest.NewRequest(http.MethodPost, "/share", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ShareResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.ShareURL, "https://cv.example.com/?analysisId="))
}

func TestThemeHandlerPersistsAndRedirects(t *testing.T) {
	s := newTestServer(t)

	form := strings.NewReader("theme=ocean")
	req := httptest.NewRequest(http.MethodPost, "/theme", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.themeHandler(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == themeCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "theme cookie should be set")
	assert.Equal(t, "ocean", cookie.Value)

	name, err := s.Store.LoadTheme()
	require.NoError(t, err)
	assert.Equal(t, "ocean", name)
}

func TestThemeHandlerRejectsUnknownTheme(t *testing.T) {
	s := newTestServer(t)

	form := strings.NewReader("theme=neon")
	req := httptest.NewRequest(http.MethodPost, "/theme", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.themeHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResolveThemePrefersCookie(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.Store.SaveTheme("light"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: themeCookie, Value: "sunset"})
	assert.Equal(t, "sunset", s.resolveTheme(req).Name)
}

func TestResolveThemeFallsBackToStoreThenDefault(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "dark", s.resolveTheme(req).Name)

	require.NoError(t, s.Store.SaveTheme("ocean"))
	assert.Equal(t, "ocean", s.resolveTheme(req).Name)
}

func TestSamplePDFHandler(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/sample.pdf", nil)
	rec := httptest.NewRecorder()
	s.samplePDFHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF-"))
}

func TestExportHandlerCurrentResult(t *testing.T) {
	s := newTestServer(t)
	s.Store.SetCurrent(serverTestResult())
	handler := s.createExportHandler(disabledObservability(t))

	req := httptest.NewRequest(http.MethodGet, "/export", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Refined_CV.pdf")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF-"))
}

func TestExportHandlerWithoutResult(t *testing.T) {
	s := newTestServer(t)
	handler := s.createExportHandler(disabledObservability(t))

	req := httptest.NewRequest(http.MethodGet, "/export", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportHandlerSharedResultNotFound(t *testing.T) {
	s := newTestServer(t)
	handler := s.createExportHandler(disabledObservability(t))

	req := httptest.NewRequest(http.MethodGet, "/export?analysisId=analysis-1712345678901-ab12cd3", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	s := newTestServer(t)
	middleware := s.requestIDMiddleware()

	var seen string
	handler := middleware(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(requestIDHeader)
	})

	t.Run("generates when absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler(rec, req)

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get(requestIDHeader))
	})

	t.Run("honors client-supplied ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(requestIDHeader, "client-id-1")
		rec := httptest.NewRecorder()
		handler(rec, req)

		assert.Equal(t, "client-id-1", seen)
		assert.Equal(t, "client-id-1", rec.Header().Get(requestIDHeader))
	})
}

func TestAuthMiddleware(t *testing.T) {
	s := newTestServer(t)
	s.APIKeys = map[string]bool{"secret-key-123": true}

	called := false
	handler := s.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	t.Run("missing key rejected", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
		rec := httptest.NewRecorder()
		handler(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})

	t.Run("header key accepted", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
		req.Header.Set("X-API-Key", "secret-key-123")
		rec := httptest.NewRecorder()
		handler(rec, req)

		assert.True(t, called)
	})

	t.Run("bearer token accepted", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
		req.Header.Set("Authorization", "Bearer secret-key-123")
		rec := httptest.NewRecorder()
		handler(rec, req)

		assert.True(t, called)
	})

	t.Run("wrong key rejected", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
		req.Header.Set("X-API-Key", "wrong")
		rec := httptest.NewRecorder()
		handler(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})
}

func TestHTTPStatusForError(t *testing.T) {
	cases := []struct {
		code string
		err  *cvlensErrors.AppError
		want int
	}{
		{"invalid request", cvlensErrors.NewValidationError(cvlensErrors.ErrCodeInvalidRequest, "m", nil), http.StatusBadRequest},
		{"unsupported file", cvlensErrors.NewValidationError(cvlensErrors.ErrCodeUnsupportedFile, "m", nil), http.StatusBadRequest},
		{"missing api key", cvlensErrors.NewAIError(cvlensErrors.ErrCodeMissingAPIKey, "m", nil), http.StatusUnauthorized},
		{"result not found", cvlensErrors.NewStorageError(cvlensErrors.ErrCodeResultNotFound, "m", nil), http.StatusNotFound},
		{"model not found", cvlensErrors.NewAIError(cvlensErrors.ErrCodeAIModelMissing, "m", nil), http.StatusNotFound},
		{"rate limited", cvlensErrors.NewAIError(cvlensErrors.ErrCodeAIRateLimited, "m", nil), http.StatusTooManyRequests},
		{"service failed", cvlensErrors.NewAIError(cvlensErrors.ErrCodeAIServiceFailed, "m", nil), http.StatusBadGateway},
		{"corrupt record", cvlensErrors.NewStorageError(cvlensErrors.ErrCodeResultCorrupt, "m", nil), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			assert.Equal(t, tc.want, httpStatusForError(tc.err))
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "abcdefgh****", maskAPIKey("abcdefghijklmnop"))
}

func TestRateLimiterAllowsBurstThenBlocks(t *testing.T) {
	logger := cvlensErrors.NewLogger(slog.LevelError)
	limiter := NewRateLimiter(60, 0, 2, logger)
	defer limiter.Close()

	assert.True(t, limiter.Allow("ip:10.0.0.1"))
	assert.True(t, limiter.Allow("ip:10.0.0.1"))
	assert.False(t, limiter.Allow("ip:10.0.0.1"), "burst capacity exhausted")

	// Other keys are tracked independently
	assert.True(t, limiter.Allow("ip:10.0.0.2"))

	stats := limiter.GetStats()
	assert.Equal(t, 2, stats["active_limiters"])
}

func TestGetClientIP(t *testing.T) {
	cases := []struct {
		name    string
		remote  string
		headers map[string]string
		want    string
	}{
		{"remote addr", "203.0.113.5:4321", nil, "203.0.113.5"},
		{"x-forwarded-for", "10.0.0.1:1234", map[string]string{"X-Forwarded-For": "198.51.100.7, 10.0.0.1"}, "198.51.100.7"},
		{"x-real-ip", "10.0.0.1:1234", map[string]string{"X-Real-IP": "198.51.100.9"}, "198.51.100.9"},
		{"invalid forwarded falls through", "203.0.113.5:4321", map[string]string{"X-Forwarded-For": "not-an-ip"}, "203.0.113.5"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remote
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tc.want, getClientIP(req))
		})
	}
}

func TestBuildTLSConfig(t *testing.T) {
	s := newTestServer(t)

	t.Run("disabled", func(t *testing.T) {
		s.TLSConfig = config.TLSConfig{Mode: "disabled"}
		cfg, err := s.buildTLSConfig()
		require.NoError(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("server mode requires files", func(t *testing.T) {
		s.TLSConfig = config.TLSConfig{Mode: "server"}
		_, err := s.buildTLSConfig()
		assert.Error(t, err)
	})

	t.Run("server mode with files", func(t *testing.T) {
		s.TLSConfig = config.TLSConfig{Mode: "server", CertFile: "cert.pem", KeyFile: "key.pem", MinVersion: "1.3"}
		cfg, err := s.buildTLSConfig()
		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Equal(t, uint16(0x0304), cfg.MinVersion)
	})

	t.Run("unknown mode", func(t *testing.T) {
		s.TLSConfig = config.TLSConfig{Mode: "mutual"}
		_, err := s.buildTLSConfig()
		assert.Error(t, err)
	})
}
