// Package render turns chatbot replies into styled terminal output.
package render

import "github.com/diogo/startychat/internal/models"

// Options configures how a reply is rendered.
type Options struct {
	// Width is the word-wrap column (default: 80)
	Width int

	// Theme selects the glamour style matching the page theme
	Theme models.Theme

	// StylePath replaces the theme style when set (GLAMOUR_STYLE)
	StylePath string

	// EnableEmoji converts :emoji: to unicode characters
	EnableEmoji bool

	// PreserveNewLines keeps the line breaks of the reply
	PreserveNewLines bool
}

// DefaultOptions returns the options for a dark page at 80 columns.
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Theme:            models.ThemeDark,
		EnableEmoji:      true,
		PreserveNewLines: true,
	}
}

// WithWidth returns Options with the specified width.
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// WithTheme returns Options styled for the given page theme.
func (o Options) WithTheme(theme models.Theme) Options {
	o.Theme = theme
	return o
}

// WithEmoji returns Options with emoji support enabled/disabled.
func (o Options) WithEmoji(enabled bool) Options {
	o.EnableEmoji = enabled
	return o
}

// WithPreserveNewLines returns Options with newline preservation enabled/disabled.
func (o Options) WithPreserveNewLines(enabled bool) Options {
	o.PreserveNewLines = enabled
	return o
}

// Style is the glamour style name or path the renderer loads.
func (o Options) Style() string {
	if o.StylePath != "" {
		return o.StylePath
	}
	return o.Theme.GlamourStyle()
}
