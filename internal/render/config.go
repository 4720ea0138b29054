package render

import (
	"os"

	"github.com/diogo/startychat/internal/config"
	"github.com/diogo/startychat/internal/models"
)

// OptionsFor builds render options from the markdown settings and the
// active page theme. GLAMOUR_STYLE, when set, wins over the theme.
func OptionsFor(md config.MarkdownConfig, theme models.Theme) Options {
	opts := DefaultOptions().
		WithTheme(theme).
		WithEmoji(md.EnableEmoji).
		WithPreserveNewLines(md.PreserveNewLines)
	opts.StylePath = os.Getenv("GLAMOUR_STYLE")
	return opts
}
