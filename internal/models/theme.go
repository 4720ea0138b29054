package models

// Theme is the persisted color preference.
type Theme string

const (
	ThemeDark  Theme = "dark_mode"
	ThemeLight Theme = "light_mode"
)

// ThemeFromStored maps a stored value to a Theme. Anything other than
// light_mode means dark, which is the page default.
func ThemeFromStored(value string) Theme {
	if Theme(value) == ThemeLight {
		return ThemeLight
	}
	return ThemeDark
}

// IsLight reports whether the light palette is active.
func (t Theme) IsLight() bool {
	return t == ThemeLight
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t.IsLight() {
		return ThemeDark
	}
	return ThemeLight
}

// Label is the toggle control text: the icon name of the mode a click
// switches to.
func (t Theme) Label() string {
	if t.IsLight() {
		return string(ThemeDark)
	}
	return string(ThemeLight)
}

// GlamourStyle returns the glamour standard style for the theme.
func (t Theme) GlamourStyle() string {
	if t.IsLight() {
		return "light"
	}
	return "dark"
}
