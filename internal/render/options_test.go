package render

import (
	"testing"

	"github.com/diogo/startychat/internal/config"
	"github.com/diogo/startychat/internal/models"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.Width != 80 {
		t.Errorf("expected Width=80, got %d", opts.Width)
	}
	if opts.Theme != models.ThemeDark {
		t.Errorf("expected dark theme, got %s", opts.Theme)
	}
	if opts.Style() != "dark" {
		t.Errorf("expected Style()='dark', got %s", opts.Style())
	}
	if !opts.EnableEmoji || !opts.PreserveNewLines {
		t.Errorf("emoji and newlines should default on: %+v", opts)
	}
}

func TestOptions_Style(t *testing.T) {
	tests := []struct {
		name  string
		opts  Options
		style string
	}{
		{"dark page", DefaultOptions(), "dark"},
		{"light page", DefaultOptions().WithTheme(models.ThemeLight), "light"},
		{"unknown theme", DefaultOptions().WithTheme("sepia"), "dark"},
		{"override", Options{Theme: models.ThemeLight, StylePath: "notty"}, "notty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.opts.Style(); got != tt.style {
				t.Errorf("Style() = %s, want %s", got, tt.style)
			}
		})
	}
}

func TestOptions_Chaining(t *testing.T) {
	opts := DefaultOptions().
		WithWidth(100).
		WithTheme(models.ThemeLight).
		WithEmoji(false).
		WithPreserveNewLines(false)

	if opts.Width != 100 {
		t.Errorf("expected Width=100, got %d", opts.Width)
	}
	if opts.Theme != models.ThemeLight {
		t.Errorf("expected light theme, got %s", opts.Theme)
	}
	if opts.EnableEmoji || opts.PreserveNewLines {
		t.Errorf("emoji and newlines should be off: %+v", opts)
	}
}

func TestOptionsFor(t *testing.T) {
	t.Setenv("GLAMOUR_STYLE", "")

	md := config.MarkdownConfig{EnableEmoji: false, PreserveNewLines: true}

	opts := OptionsFor(md, models.ThemeLight)
	if opts.Style() != "light" {
		t.Errorf("Style() = %s, want light", opts.Style())
	}
	if opts.EnableEmoji {
		t.Error("EnableEmoji should follow config")
	}
	if !opts.PreserveNewLines {
		t.Error("PreserveNewLines should follow config")
	}

	if OptionsFor(md, models.ThemeDark).Style() != "dark" {
		t.Error("dark theme should use the dark style")
	}
}

func TestOptionsFor_EnvOverride(t *testing.T) {
	t.Setenv("GLAMOUR_STYLE", "notty")

	opts := OptionsFor(config.DefaultMarkdownConfig(), models.ThemeLight)
	if opts.Style() != "notty" {
		t.Errorf("Style() = %s, want notty", opts.Style())
	}
	if opts.Theme != models.ThemeLight {
		t.Errorf("theme should still be recorded, got %s", opts.Theme)
	}
}
