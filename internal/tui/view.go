package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/startychat/internal/loader"
	"github.com/diogo/startychat/internal/models"
	"github.com/diogo/startychat/internal/render"
)

// View renders the TUI
func (m *Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4

	var messagesContent string
	if len(m.entries) == 0 {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}
	messagesPanel := messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTop(contentWidth),
		messagesPanel,
		m.renderBottom(contentWidth),
	)
}

// renderTop renders the navigation line, load errors and the header panel.
func (m *Model) renderTop(width int) string {
	sections := []string{m.renderNav(width)}
	if m.err != nil {
		sections = append(sections, FormatError(m.err))
	}
	if !m.headerHidden {
		sections = append(sections, m.renderHeader(width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderNav(width int) string {
	nav := m.doc.Query(".sidebar")
	if nav == nil {
		return navStyle.Width(width).Render(" ")
	}
	items := strings.Split(nav.ReadableText(), "\n")
	return navStyle.Width(width).Render(strings.Join(items, " · "))
}

// titleRow is the screen row of the page title inside the header panel.
func (m *Model) titleRow() int {
	row := lipgloss.Height(m.renderNav(m.width - 4))
	if m.err != nil {
		row += lipgloss.Height(FormatError(m.err))
	}
	// Top border of the header panel
	return row + 1
}

func (m *Model) renderHeader(width int) string {
	title := m.doc.Query(models.SelectorTitle)
	if title == nil {
		var status string
		if m.loaded {
			status = hintStyle.Render("header unavailable")
		} else {
			status = m.spinner.View() + hintStyle.Render(" Loading components...")
		}
		return headerStyle.Width(width).Render(status)
	}

	style := titleStyle
	if title.HasClass(loader.HighlightClass) {
		style = titleHighlightStyle
	}
	lines := []string{style.Render(title.Text())}

	if subtitle := m.doc.Query(".subtitle"); subtitle != nil {
		lines = append(lines, subtitleStyle.Render(subtitle.Text()))
	}
	if btn := m.doc.Query(models.SelectorGreetingBtn); btn != nil {
		line := suggestionKeyStyle.Render("Ctrl+G") + " " + suggestionTextStyle.Render(btn.Text())
		if greeting := m.doc.Text(models.SelectorGreetingText); greeting != "" {
			line += "  " + greetingStyle.Render(greeting)
		}
		lines = append(lines, line)
	}

	if chips := m.doc.QueryAll(models.SelectorSuggestion); len(chips) > 0 {
		lines = append(lines, "")
		for i, chip := range chips {
			if i >= 9 {
				break
			}
			text := chip.ReadableText()
			if t := chip.Query(models.SelectorSuggestText); t != nil {
				text = t.Text()
			}
			lines = append(lines,
				suggestionKeyStyle.Render(fmt.Sprintf("Alt+%d", i+1))+" "+
					suggestionTextStyle.Render(text))
		}
	}

	return headerStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// renderBottom renders the input panel and the status bar.
func (m *Model) renderBottom(width int) string {
	var inputContent string
	switch {
	case m.confirm != nil:
		inputContent = confirmStyle.Render(m.confirm.prompt + " (y/n)")
	case m.typingVisible:
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
	default:
		inputContent = hintStyle.Render("Start typing to chat, or pick a suggestion with Alt+1..9")
	}

	sections := []string{
		inputPanelStyle.Width(width).Render(inputContent),
		m.renderStatusBar(width),
	}
	if m.status != "" {
		sections = append(sections, feedbackStyle.Render(m.status))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderWelcome renders the welcome screen when no messages exist
func (m *Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		titleStyle.Width(width).Align(lipgloss.Center).Render("✦"),
		"",
		subtitleStyle.Width(width).Align(lipgloss.Center).Render("Start a conversation by typing a message below"),
	)

	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	return strings.Repeat("\n", topPadding) + content
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m *Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Ctrl+T", m.themeLabel},
		{"Ctrl+D", "Delete"},
		{"Ctrl+Y", "Copy"},
		{"Esc", "Quit"},
	}

	var items []string
	for _, s := range shortcuts {
		item := lipgloss.JoinHorizontal(
			lipgloss.Center,
			statusKeyStyle.Render(s.key),
			statusDescStyle.Render(" "+s.desc),
		)
		items = append(items, item)
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Center, strings.Join(items, "  │  "))
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// updateViewport refreshes the viewport content with styled entries
func (m *Model) updateViewport() {
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6
	opts := render.OptionsFor(m.cfg.Markdown, m.theme).WithWidth(bubbleWidth - 4)

	for i, e := range m.entries {
		if i > 0 {
			content.WriteString("\n")
		}

		if !e.IsIncoming() {
			label := userLabelStyle.Render("⬤ You")
			bubble := userBubbleStyle.Width(bubbleWidth).Render(e.Text)
			content.WriteString(label + "\n" + bubble)
			content.WriteString("\n")
			continue
		}

		label := assistantLabelStyle.Render("✦ Starty")
		if e.Copied {
			label += feedbackStyle.Render("  ✓ copied")
		}

		var bubble string
		switch {
		case e.Loading:
			bubble = assistantBubbleStyle.Width(bubbleWidth).Render(
				m.spinner.View() + hintStyle.Render(" thinking..."))
		case e.Errored:
			bubble = errorBubbleStyle.Width(bubbleWidth).Render(e.Text)
		case e.Typing:
			// Markdown is rendered once the whole reply is revealed.
			bubble = assistantBubbleStyle.Width(bubbleWidth).Render(e.Text)
		default:
			bubble = assistantBubbleStyle.Width(bubbleWidth).Render(render.Reply(e.Text, opts))
		}
		content.WriteString(label + "\n" + bubble)
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
	m.viewport.GotoBottom()
}
