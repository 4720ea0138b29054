package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/startychat/internal/models"
)

// TUITheme defines the color scheme for the TUI interface
type TUITheme struct {
	Name string

	// Base colors
	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	// Text colors
	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

// Palettes for the two page modes.
var (
	// DarkTheme is the default palette.
	DarkTheme = TUITheme{
		Name: string(models.ThemeDark),

		Background: lipgloss.Color("#242424"),
		Surface:    lipgloss.Color("#383838"),
		Border:     lipgloss.Color("#444444"),

		Primary:   lipgloss.Color("#4285f4"),
		Secondary: lipgloss.Color("#9ece6a"),
		Accent:    lipgloss.Color("#e8491d"),
		Warning:   lipgloss.Color("#e0af68"),
		Error:     lipgloss.Color("#f7768e"),

		Text:     lipgloss.Color("#e3e3e3"),
		TextDim:  lipgloss.Color("#a6a6a6"),
		TextMute: lipgloss.Color("#5f6368"),
	}

	// LightTheme mirrors DarkTheme for light terminals.
	LightTheme = TUITheme{
		Name: string(models.ThemeLight),

		Background: lipgloss.Color("#ffffff"),
		Surface:    lipgloss.Color("#e9eef6"),
		Border:     lipgloss.Color("#c4c7c5"),

		Primary:   lipgloss.Color("#1a73e8"),
		Secondary: lipgloss.Color("#188038"),
		Accent:    lipgloss.Color("#e8491d"),
		Warning:   lipgloss.Color("#b06000"),
		Error:     lipgloss.Color("#d93025"),

		Text:     lipgloss.Color("#222222"),
		TextDim:  lipgloss.Color("#5f6368"),
		TextMute: lipgloss.Color("#9aa0a6"),
	}
)

// PaletteFor returns the palette of a page theme.
func PaletteFor(theme models.Theme) TUITheme {
	if theme.IsLight() {
		return LightTheme
	}
	return DarkTheme
}
