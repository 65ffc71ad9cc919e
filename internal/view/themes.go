package view

import "strings"

// Theme holds the color tokens one named theme contributes to rendering.
// Themes affect only presentation, never the analysis result itself.
type Theme struct {
	Name       string
	Label      string
	Background string
	Surface    string
	Text       string
	Muted      string
	Grid       string
	Accent     string
	Success    string
	Warning    string
	Danger     string
	Neutral    string
}

// DefaultThemeName is the baseline theme applied before any persisted choice.
const DefaultThemeName = "dark"

var themes = []Theme{
	{
		Name:       "dark",
		Label:      "Dark",
		Background: "#0f172a",
		Surface:    "#1e293b",
		Text:       "#e2e8f0",
		Muted:      "#94a3b8",
		Grid:       "#334155",
		Accent:     "#38bdf8",
		Success:    "#4ade80",
		Warning:    "#facc15",
		Danger:     "#f87171",
		Neutral:    "#64748b",
	},
	{
		Name:       "light",
		Label:      "Light",
		Background: "#f8fafc",
		Surface:    "#ffffff",
		Text:       "#0f172a",
		Muted:      "#475569",
		Grid:       "#cbd5e1",
		Accent:     "#0284c7",
		Success:    "#16a34a",
		Warning:    "#ca8a04",
		Danger:     "#dc2626",
		Neutral:    "#94a3b8",
	},
	{
		Name:       "ocean",
		Label:      "Ocean",
		Background: "#042f3c",
		Surface:    "#0b4a5c",
		Text:       "#d6f3ff",
		Muted:      "#7fc4d8",
		Grid:       "#16607a",
		Accent:     "#2dd4bf",
		Success:    "#34d399",
		Warning:    "#fbbf24",
		Danger:     "#fb7185",
		Neutral:    "#5e8a99",
	},
	{
		Name:       "sunset",
		Label:      "Sunset",
		Background: "#2b1028",
		Surface:    "#46203f",
		Text:       "#ffe4e6",
		Muted:      "#d8a7b1",
		Grid:       "#5f2d52",
		Accent:     "#fb923c",
		Success:    "#a3e635",
		Warning:    "#fde047",
		Danger:     "#f43f5e",
		Neutral:    "#8d6b84",
	},
}

// Themes returns the available themes in display order.
func Themes() []Theme {
	out := make([]Theme, len(themes))
	copy(out, themes)
	return out
}

// ThemeByName looks a theme up case-insensitively, falling back to the
// default theme for unknown names.
func ThemeByName(name string) Theme {
	for _, t := range themes {
		if strings.EqualFold(t.Name, name) {
			return t
		}
	}
	return themes[0]
}

// IsValidTheme reports whether name matches one of the known themes.
func IsValidTheme(name string) bool {
	for _, t := range themes {
		if strings.EqualFold(t.Name, name) {
			return true
		}
	}
	return false
}
