package theme

// Color identifies one of the built-in display themes a form can be
// branded with.
type Color string

const (
	Purple Color = "purple"
	Blue   Color = "blue"
	Green  Color = "green"
	Orange Color = "orange"
	Pink   Color = "pink"
)

// Palette is the fixed bundle of display colors resolved from a theme
// identifier. Gradient values are CSS gradient expressions, passed through
// to the rendering layer untouched.
type Palette struct {
	Name           string `json:"name"`
	Primary        string `json:"primary"`
	Secondary      string `json:"secondary"`
	Accent         string `json:"accent"`
	Background     string `json:"background"`
	CardBg         string `json:"cardBg"`
	TextPrimary    string `json:"textPrimary"`
	TextSecondary  string `json:"textSecondary"`
	Border         string `json:"border"`
	Gradient       string `json:"gradient"`
	ButtonGradient string `json:"buttonGradient"`
}

var palettes = map[Color]Palette{
	Purple: {
		Name:           "Purple Dream",
		Primary:        "#9333ea",
		Secondary:      "#ec4899",
		Accent:         "#6366f1",
		Background:     "linear-gradient(to bottom right, #faf5ff, #fce7f3, #eef2ff)",
		CardBg:         "#ffffff",
		TextPrimary:    "#1f2937",
		TextSecondary:  "#6b7280",
		Border:         "#e9d5ff",
		Gradient:       "linear-gradient(to right, #9333ea, #ec4899)",
		ButtonGradient: "linear-gradient(to right, #9333ea, #ec4899)",
	},
	Blue: {
		Name:           "Ocean Blue",
		Primary:        "#2563eb",
		Secondary:      "#0ea5e9",
		Accent:         "#3b82f6",
		Background:     "linear-gradient(to bottom right, #eff6ff, #e0f2fe, #dbeafe)",
		CardBg:         "#ffffff",
		TextPrimary:    "#1f2937",
		TextSecondary:  "#6b7280",
		Border:         "#bfdbfe",
		Gradient:       "linear-gradient(to right, #2563eb, #0ea5e9)",
		ButtonGradient: "linear-gradient(to right, #2563eb, #0ea5e9)",
	},
	Green: {
		Name:           "Fresh Green",
		Primary:        "#059669",
		Secondary:      "#10b981",
		Accent:         "#14b8a6",
		Background:     "linear-gradient(to bottom right, #ecfdf5, #d1fae5, #ccfbf1)",
		CardBg:         "#ffffff",
		TextPrimary:    "#1f2937",
		TextSecondary:  "#6b7280",
		Border:         "#a7f3d0",
		Gradient:       "linear-gradient(to right, #059669, #10b981)",
		ButtonGradient: "linear-gradient(to right, #059669, #10b981)",
	},
	Orange: {
		Name:           "Sunset Orange",
		Primary:        "#ea580c",
		Secondary:      "#f97316",
		Accent:         "#fb923c",
		Background:     "linear-gradient(to bottom right, #fff7ed, #ffedd5, #fed7aa)",
		CardBg:         "#ffffff",
		TextPrimary:    "#1f2937",
		TextSecondary:  "#6b7280",
		Border:         "#fed7aa",
		Gradient:       "linear-gradient(to right, #ea580c, #f97316)",
		ButtonGradient: "linear-gradient(to right, #ea580c, #f97316)",
	},
	Pink: {
		Name:           "Sweet Pink",
		Primary:        "#db2777",
		Secondary:      "#ec4899",
		Accent:         "#f472b6",
		Background:     "linear-gradient(to bottom right, #fdf2f8, #fce7f3, #fbcfe8)",
		CardBg:         "#ffffff",
		TextPrimary:    "#1f2937",
		TextSecondary:  "#6b7280",
		Border:         "#fbcfe8",
		Gradient:       "linear-gradient(to right, #db2777, #ec4899)",
		ButtonGradient: "linear-gradient(to right, #db2777, #ec4899)",
	},
}

// Colors resolves a theme identifier to its palette. Unknown or empty
// identifiers fall back to purple.
func Colors(c Color) Palette {
	if p, ok := palettes[c]; ok {
		return p
	}
	return palettes[Purple]
}

// Valid reports whether c names a built-in theme.
func Valid(c Color) bool {
	_, ok := palettes[c]
	return ok
}
