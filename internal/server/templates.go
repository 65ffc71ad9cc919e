package server

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"cvlens/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

// PageData is everything the page template needs for one render
type PageData struct {
	Version string

	Theme  view.Theme
	Themes []view.Theme

	// ViewOnly is true when rendering a shared result link
	ViewOnly   bool
	AnalysisID string

	// Form prefills for the interactive mode
	JobDescription string
	UseSample      bool

	// One of ErrorMessage or Result is set after a submit
	ErrorMessage string
	ErrorCode    string
	Result       *view.Model
}

// renderPage writes the full page. Render failures at this point can only be
// reported to the log since the response may be partially written.
func (s *Server) renderPage(w http.ResponseWriter, data *PageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		s.Logger.LogError(err, "Failed to render page template")
	}
}

// newPageData builds the base page data with the theme resolved for this request
func (s *Server) newPageData(r *http.Request) *PageData {
	return &PageData{
		Version: s.Version,
		Theme:   s.resolveTheme(r),
		Themes:  view.Themes(),
	}
}

// themeCookie persists the theme choice per browser session
const themeCookie = "cvlens_theme"

// resolveTheme picks the theme for a request: cookie first, then the value
// persisted in the data directory, then the configured default.
func (s *Server) resolveTheme(r *http.Request) view.Theme {
	if c, err := r.Cookie(themeCookie); err == nil && view.IsValidTheme(c.Value) {
		return view.ThemeByName(c.Value)
	}

	if s.Store != nil {
		if name, err := s.Store.LoadTheme(); err == nil && view.IsValidTheme(name) {
			return view.ThemeByName(name)
		}
	}

	return view.ThemeByName(s.AppConfig.App.DefaultTheme)
}

// shareURLFor builds the externally visible URL for a persisted analysis
func (s *Server) shareURLFor(r *http.Request, analysisID string) string {
	base := s.BaseURL
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s", scheme, r.Host)
	}
	return fmt.Sprintf("%s/?analysisId=%s", base, analysisID)
}
