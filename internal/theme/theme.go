// Package theme describes the light and dark colour palettes served to
// clients together with the persisted dark mode preference.
package theme

// Palette is the set of named colours a client renders with.
type Palette struct {
	Primary       string `json:"primary"`
	Secondary     string `json:"secondary"`
	Success       string `json:"success"`
	Danger        string `json:"danger"`
	Warning       string `json:"warning"`
	Info          string `json:"info"`
	Background    string `json:"background"`
	Surface       string `json:"surface"`
	Text          string `json:"text"`
	TextSecondary string `json:"textSecondary"`
	Border        string `json:"border"`
}

var (
	Light = Palette{
		Primary:       "#007bff",
		Secondary:     "#6c757d",
		Success:       "#28a745",
		Danger:        "#dc3545",
		Warning:       "#ffc107",
		Info:          "#17a2b8",
		Background:    "#ffffff",
		Surface:       "#f8f9fa",
		Text:          "#212529",
		TextSecondary: "#6c757d",
		Border:        "#dee2e6",
	}
	Dark = Palette{
		Primary:       "#0d6efd",
		Secondary:     "#6c757d",
		Success:       "#198754",
		Danger:        "#dc3545",
		Warning:       "#ffc107",
		Info:          "#0dcaf0",
		Background:    "#121212",
		Surface:       "#1e1e1e",
		Text:          "#ffffff",
		TextSecondary: "#adb5bd",
		Border:        "#495057",
	}
)

// Theme is the active preference and the palette it selects.
type Theme struct {
	IsDarkMode bool    `json:"isDarkMode"`
	Colors     Palette `json:"colors"`
}

// New returns the theme for the given dark mode flag.
func New(dark bool) Theme {
	if dark {
		return Theme{IsDarkMode: true, Colors: Dark}
	}
	return Theme{IsDarkMode: false, Colors: Light}
}

// Toggled returns the opposite theme.
func (t Theme) Toggled() Theme {
	return New(!t.IsDarkMode)
}
