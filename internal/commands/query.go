package commands

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	apierrors "github.com/diogo/startychat/internal/errors"
	"github.com/diogo/startychat/internal/models"
	"github.com/diogo/startychat/internal/render"
)

// Gradient colors for animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#4285f4"), // Blue
	lipgloss.Color("#9b72cb"), // Purple
	lipgloss.Color("#d96570"), // Rose
	lipgloss.Color("#f4b400"), // Yellow
	lipgloss.Color("#0f9d58"), // Green
	lipgloss.Color("#00acc1"), // Teal
}

var (
	colorText     = lipgloss.Color("#e3e3e3")
	colorTextDim  = lipgloss.Color("#9aa0a6")
	colorTextMute = lipgloss.Color("#5f6368")
	colorSuccess  = lipgloss.Color("#81c995")
	colorPrimary  = lipgloss.Color("#8ab4f8")
	colorError    = lipgloss.Color("#f28b82")
)

// Styles matching the chat TUI
var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	dimStyle     = lipgloss.NewStyle().Foreground(colorTextDim)
)

// spinner handles the animated loading indicator
type spinner struct {
	out     io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool // Flag to prevent double-close
}

// newSpinner creates a new animated spinner
func newSpinner(out io.Writer, message string) *spinner {
	return &spinner{
		out:     out,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.out, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

	spinIdx := s.frame % len(chars)
	spinColor := gradientColors[s.frame%len(gradientColors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[spinIdx])

	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := gradientColors[(s.frame+i)%len(gradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(colorText).Render(s.message)

	fmt.Fprintf(s.out, "\r\033[K%s %s %s", spinnerChar, msg, dots.String())
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and shows success message
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	checkmark := successStyle.Bold(true).Render("✓")
	fmt.Fprintf(s.out, "%s %s\n", checkmark, successStyle.Render(message))
}

// stopWithError stops the spinner and shows error
func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// runQuery sends a single message and prints the reply. On a terminal the
// reply is rendered as markdown and revealed word by word; otherwise the
// raw text is printed.
func runQuery(cmd *cobra.Command, deps *Dependencies, f *flags, prompt string) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return fmt.Errorf("prompt cannot be empty")
	}

	cfg := loadConfig(deps, f)
	logger := cliLogger(cfg)
	defer func() { _ = logger.Sync() }()

	client, err := deps.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	decorated := !f.raw && deps.IsTerminal()

	var spin *spinner
	if decorated {
		spin = newSpinner(deps.Stderr, "Waiting for Starty")
		spin.start()
	}

	startTime := time.Now()
	reply, err := client.SendMessage(cmd.Context(), prompt)
	if err != nil {
		if decorated {
			spin.stopWithError()
		}
		fmt.Fprintln(deps.Stderr, formatErrorMessage(err, "Request failed"))
		return fmt.Errorf("request failed: %w", err)
	}
	if decorated {
		spin.stopWithSuccess("Done")
	}
	logger.Debug("reply received",
		zap.Duration("took", time.Since(startTime)),
		zap.Int("length", len(reply)))

	// Output to file if specified
	if f.output != "" {
		if err := os.WriteFile(f.output, []byte(reply), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if decorated {
			fmt.Fprintln(deps.Stderr, successStyle.Render(fmt.Sprintf("✓ Response saved to %s", f.output)))
		}
		return nil
	}

	if !decorated {
		fmt.Fprintln(deps.Stdout, reply)
		return nil
	}

	contentWidth := deps.TerminalWidth() - 4
	if contentWidth < 40 {
		contentWidth = 40
	}
	if contentWidth > 120 {
		contentWidth = 120
	}

	opts := render.OptionsFor(cfg.Markdown, storedTheme(deps)).WithWidth(contentWidth)
	rendered := render.Reply(reply, opts)

	fmt.Fprintln(deps.Stdout, assistantLabelStyle.Render("✦ Starty"))
	revealWords(deps.Stdout, rendered, cfg.RevealInterval(), deps.Sleep)
	fmt.Fprintln(deps.Stdout)

	return nil
}

// storedTheme returns the theme saved by the interactive chat.
func storedTheme(deps *Dependencies) models.Theme {
	store, err := deps.OpenStore()
	if err != nil {
		return models.ThemeDark
	}
	value, _ := store.GetItem(models.KeyThemeColor)
	return models.ThemeFromStored(value)
}

// revealWords writes text one space-separated word at a time, pausing
// interval after each word that has visible characters.
func revealWords(w io.Writer, text string, interval time.Duration, sleep func(time.Duration)) {
	words := strings.Split(text, " ")
	for i, word := range words {
		if i > 0 {
			fmt.Fprint(w, " ")
		}
		fmt.Fprint(w, word)

		if interval <= 0 || sleep == nil || i == len(words)-1 {
			continue
		}
		if strings.TrimSpace(ansi.Strip(word)) != "" {
			sleep(interval)
		}
	}
}

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %s", context, apierrors.UserMessage(err))))

	// Extract additional context from structured errors
	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	// Provide helpful hints based on error type
	switch {
	case apierrors.IsNetworkError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Check your internet connection and try again"))
	case stderrors.Is(err, apierrors.ErrInvalidResponse):
		sb.WriteString(dimStyle.Render("\n  Hint: Check that --service-url points to the chat endpoint"))
	case stderrors.Is(err, apierrors.ErrPartialLoad):
		sb.WriteString(dimStyle.Render("\n  Hint: Check --components-url or unset it to use the bundled components"))
	}

	return sb.String()
}
