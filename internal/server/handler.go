package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cvlens/internal/ai"
	"cvlens/internal/encode"
	cvlensErrors "cvlens/internal/errors"
	"cvlens/internal/export"
	"cvlens/internal/observability"
	"cvlens/internal/sample"
	"cvlens/internal/types"
	"cvlens/internal/view"

	"go.opentelemetry.io/otel/attribute"
)

// pageHandler renders the main page: interactive mode by default, read-only
// mode when an analysisId query parameter selects a shared result.
func (s *Server) pageHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data := s.newPageData(r)

	if analysisID := r.URL.Query().Get("analysisId"); analysisID != "" {
		s.renderSharedResult(w, data, analysisID)
		return
	}

	if r.URL.Query().Get("sample") == "1" {
		data.JobDescription = sample.SampleJobDescription
		data.UseSample = true
	}

	s.renderPage(w, data)
}

// renderSharedResult loads a persisted analysis and renders it read-only.
// Not-found and corrupt records get distinct messages.
func (s *Server) renderSharedResult(w http.ResponseWriter, data *PageData, analysisID string) {
	data.ViewOnly = true
	data.AnalysisID = analysisID

	result, err := s.Store.LoadByID(analysisID)
	if err != nil {
		s.Logger.LogError(err, "Failed to load shared analysis", "analysis_id", analysisID)
		data.ErrorMessage, data.ErrorCode = messageForError(err)
		s.renderPage(w, data)
		return
	}

	model := view.Build(result, data.Theme, true)
	data.Result = &model
	s.renderPage(w, data)
}

// createAnalyzeHandler handles the form submit: encode the upload, run one
// analysis request, and render the result or the classified error inline.
func (s *Server) createAnalyzeHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		ctx := r.Context()
		tracer := om.Tracer("cvlens.api")
		ctx, span := tracer.Start(ctx, "web.analyze")
		defer span.End()

		data := s.newPageData(r)

		input, err := s.collectAnalyzeInput(r)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			data.ErrorMessage, data.ErrorCode = messageForError(err)
			data.JobDescription = r.FormValue("jobDescription")
			s.renderPage(w, data)
			return
		}
		data.JobDescription = input.JobDescription

		span.SetAttributes(
			attribute.Int("request.job_length", len(input.JobDescription)),
			attribute.String("request.file_name", input.CVFile.FileName),
			attribute.String("operation", "analyze"),
		)

		result, err := s.runAnalysis(ctx, om, input)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "ai_processing"))
			data.ErrorMessage, data.ErrorCode = messageForError(err)
			s.renderPage(w, data)
			return
		}

		s.Store.SetCurrent(&result)

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("match_score", result.KeywordAnalysis.MatchScore),
			attribute.String("relevance", result.JobFit.Relevance),
		)

		model := view.Build(&result, data.Theme, false)
		data.Result = &model
		s.renderPage(w, data)
	}
}

// collectAnalyzeInput reads the multipart form into a validated analysis input.
// The sample checkbox substitutes the built-in CV and, when the description is
// blank, the built-in job description.
func (s *Server) collectAnalyzeInput(r *http.Request) (types.AnalyzeCVInput, error) {
	maxMemory := s.MaxRequestSize
	if maxMemory <= 0 {
		maxMemory = 10 << 20
	}
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return types.AnalyzeCVInput{}, cvlensErrors.NewValidationError(cvlensErrors.ErrCodeInvalidRequest,
			"Could not read the submitted form", err)
	}

	state := types.AppState{
		JobDescription: r.FormValue("jobDescription"),
	}

	if r.FormValue("useSample") == "1" {
		sampleFile, err := sample.CV()
		if err != nil {
			return types.AnalyzeCVInput{}, err
		}
		state.CVFile = sampleFile
		if strings.TrimSpace(state.JobDescription) == "" {
			state.JobDescription = sample.SampleJobDescription
		}
	} else {
		file, header, err := r.FormFile("cvFile")
		if err == nil {
			defer func() {
				if closeErr := file.Close(); closeErr != nil {
					s.Logger.Debug("Failed to close uploaded file", "error", closeErr)
				}
			}()

			fileData, readErr := io.ReadAll(file)
			if readErr != nil {
				return types.AnalyzeCVInput{}, cvlensErrors.NewIOError(cvlensErrors.ErrCodeFileNotReadable,
					"The selected file could not be read", readErr)
			}

			encoded, encErr := encode.EncodeUpload(header.Filename, header.Header.Get("Content-Type"),
				fileData, s.AppConfig.App.MaxFileSize)
			if encErr != nil {
				// Rejection clears the held file; this request holds nothing
				return types.AnalyzeCVInput{}, encErr
			}
			state.CVFile = encoded
		}
	}

	if !state.ReadyToSubmit() {
		return types.AnalyzeCVInput{}, cvlensErrors.NewValidationError(cvlensErrors.ErrCodeInvalidRequest,
			"A CV file and a job description are both required", nil)
	}

	return types.AnalyzeCVInput{
		JobDescription: state.JobDescription,
		CVFile:         state.CVFile,
	}, nil
}

// runAnalysis performs exactly one AI request with tracking and token metrics
func (s *Server) runAnalysis(ctx context.Context, om *observability.ObservabilityManager, input types.AnalyzeCVInput) (types.AnalysisResult, error) {
	analyzeConfig := s.AppConfig.GetAnalyzeConfig()
	aiService, err := ai.NewService(&analyzeConfig, "analyze", s.Logger)
	if err != nil {
		return types.AnalysisResult{}, err
	}
	defer func() {
		if closeErr := aiService.Close(); closeErr != nil {
			s.Logger.Debug("Failed to close AI service", "error", closeErr)
		}
	}()

	metrics := om.GetMetrics()
	var result types.AnalysisResult
	err = metrics.TrackAIOperationWithTokens(ctx, "analyze", func(ctx context.Context) *observability.AIOperationResult {
		output, tokenUsage, aiErr := aiService.AnalyzeCV(ctx, input)
		result = output
		return &observability.AIOperationResult{
			Error:      aiErr,
			TokenUsage: (*observability.TokenUsage)(tokenUsage),
		}
	})

	if err != nil {
		metrics.RecordBusinessMetric(ctx, "analysis_completed", false)
		return types.AnalysisResult{}, err
	}

	metrics.RecordBusinessMetric(ctx, "analysis_completed", true,
		attribute.Int("match_score", result.KeywordAnalysis.MatchScore),
		attribute.String("relevance", result.JobFit.Relevance))

	return result, nil
}

// createShareHandler persists the current result and returns the share link
func (s *Server) createShareHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		result := s.Store.Current()
		if result == nil {
			writeErrorResponse(w, "Nothing to share", "Run an analysis before sharing", http.StatusBadRequest)
			return
		}

		analysisID, err := s.Store.PersistForSharing(result)
		metrics := om.GetMetrics()
		if err != nil {
			s.Logger.LogError(err, "Failed to persist analysis for sharing")
			metrics.RecordBusinessMetric(r.Context(), "result_shared", false)
			writeAppErrorResponse(w, err)
			return
		}

		metrics.RecordBusinessMetric(r.Context(), "result_shared", true)

		response := ShareResponse{
			AnalysisID: analysisID,
			ShareURL:   s.shareURLFor(r, analysisID),
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			s.Logger.LogError(err, "Failed to encode share response")
		}
	}
}

// themeHandler persists the chosen theme and redirects back to the page
func (s *Server) themeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := strings.ToLower(strings.TrimSpace(r.FormValue("theme")))
	if !view.IsValidTheme(name) {
		writeErrorResponse(w, "Unknown theme", fmt.Sprintf("No theme named %q", name), http.StatusBadRequest)
		return
	}

	if err := s.Store.SaveTheme(name); err != nil {
		// The cookie still carries the choice for this browser
		s.Logger.LogError(err, "Failed to persist theme", "theme", name)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     themeCookie,
		Value:    name,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
	})

	target := r.Referer()
	if target == "" {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// samplePDFHandler serves the built-in sample CV document
func (s *Server) samplePDFHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	pdfBytes, err := sample.CVPDF()
	if err != nil {
		s.Logger.LogError(err, "Failed to build sample CV")
		writeAppErrorResponse(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="sample-cv.pdf"`)
	if _, err := w.Write(pdfBytes); err != nil {
		s.Logger.LogError(err, "Failed to write sample CV response")
	}
}

// createExportHandler serves the refined CV of the current (or a shared)
// result as a downloadable PDF.
func (s *Server) createExportHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var result *types.AnalysisResult
		if analysisID := r.URL.Query().Get("analysisId"); analysisID != "" {
			loaded, err := s.Store.LoadByID(analysisID)
			if err != nil {
				writeAppErrorResponse(w, err)
				return
			}
			result = loaded
		} else {
			result = s.Store.Current()
		}

		metrics := om.GetMetrics()
		if result == nil {
			writeErrorResponse(w, "Nothing to export", "Run an analysis before downloading the refined CV", http.StatusBadRequest)
			return
		}

		pdfBytes, err := export.RefinedCVPDF(result.RefinedCVText)
		if err != nil {
			metrics.RecordBusinessMetric(r.Context(), "cv_exported", false)
			writeAppErrorResponse(w, err)
			return
		}

		metrics.RecordBusinessMetric(r.Context(), "cv_exported", true)

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, export.DefaultFileName))
		if _, err := w.Write(pdfBytes); err != nil {
			s.Logger.LogError(err, "Failed to write refined CV response")
		}
	}
}

// createAPIAnalyzeHandler is the JSON equivalent of the form submit. The
// uploaded document arrives base64-encoded and is re-validated before use.
func (s *Server) createAPIAnalyzeHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		ctx := r.Context()
		tracer := om.Tracer("cvlens.api")
		ctx, span := tracer.Start(ctx, "api.analyze")
		defer span.End()

		var req AnalyzeRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.JobDescription) == "" {
			err := fmt.Errorf("missing job description")
			span.RecordError(err)
			writeErrorResponse(w, "Missing job description", "jobDescription field is required", http.StatusBadRequest)
			return
		}
		if req.CVFile == nil || req.CVFile.Data == "" {
			err := fmt.Errorf("missing CV file")
			span.RecordError(err)
			writeErrorResponse(w, "Missing CV file", "cvFile with base64 data is required", http.StatusBadRequest)
			return
		}

		encoded, err := reencodeAPIUpload(req.CVFile, s.AppConfig.App.MaxFileSize)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeAppErrorResponse(w, err)
			return
		}

		span.SetAttributes(
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "analyze"),
		)

		input := types.AnalyzeCVInput{
			JobDescription: req.JobDescription,
			CVFile:         encoded,
		}

		result, err := s.runAnalysis(ctx, om, input)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "ai_processing"))
			writeAppErrorResponse(w, err)
			return
		}

		s.Store.SetCurrent(&result)

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("match_score", result.KeywordAnalysis.MatchScore),
			attribute.String("relevance", result.JobFit.Relevance),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// reencodeAPIUpload decodes the client-supplied base64 document and runs it
// through the same acceptance checks as a browser upload.
func reencodeAPIUpload(file *types.EncodedFile, maxSize int64) (*types.EncodedFile, error) {
	data, err := encode.DecodeData(file)
	if err != nil {
		return nil, err
	}
	return encode.EncodeUpload(file.FileName, file.MIMEType, data, maxSize)
}

// messageForError extracts the user-facing message and code of a classified error
func messageForError(err error) (message, code string) {
	var appErr *cvlensErrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message, appErr.Code
	}
	return err.Error(), ""
}
