package tui

import (
	"context"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/diogo/startychat/internal/chat"
	"github.com/diogo/startychat/internal/config"
	"github.com/diogo/startychat/internal/dom"
	"github.com/diogo/startychat/internal/events"
	"github.com/diogo/startychat/internal/loader"
	"github.com/diogo/startychat/internal/logging"
	"github.com/diogo/startychat/internal/models"
	"github.com/diogo/startychat/internal/retry"
	"github.com/diogo/startychat/web"
)

// Message types for the TUI
type (
	componentsLoadedMsg struct {
		report loader.Report
		err    error
	}
	watchErrMsg struct {
		err error
	}
)

// StoreWatcher reports storage changes made by other processes.
type StoreWatcher interface {
	Watch(ctx context.Context, logger *zap.Logger, onChange func(keys []string)) error
}

// Deps holds what the chat page needs from the outside.
type Deps struct {
	Client    chat.Client
	Source    loader.Source
	Store     chat.Store
	Watcher   StoreWatcher
	Clipboard chat.Clipboard
	Config    config.Config
	Logger    *zap.Logger
}

// Option configures a Model.
type Option func(*Model)

// WithScheduler runs the chat callbacks on s instead of the program loop.
func WithScheduler(s events.Scheduler) Option {
	return func(m *Model) {
		m.sched = s
	}
}

type confirmPrompt struct {
	prompt string
	answer func(bool)
}

// Model is the terminal page. It draws what the orchestrator renders and
// schedules the orchestrator's callbacks on the program loop.
type Model struct {
	cfg    config.Config
	logger *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc

	doc     *dom.Document
	loader  *loader.Loader
	orch    *chat.Orchestrator
	sched   events.Scheduler
	watcher StoreWatcher
	detach  func()

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// Page state, as drawn by the orchestrator
	entries       []models.Entry
	theme         models.Theme
	themeLabel    string
	typingVisible bool
	headerHidden  bool
	confirm       *confirmPrompt
	hovering      bool

	// Component loading
	loaded bool
	report loader.Report
	err    error

	status   string
	spinning bool
	dirty    bool

	// Dimensions
	ready  bool
	width  int
	height int

	// Posted functions waiting for Update
	qmu   sync.Mutex
	queue []func()
	send  func(tea.Msg)
}

var (
	_ chat.UI          = (*Model)(nil)
	_ events.Scheduler = (*Model)(nil)
	_ tea.Model        = (*Model)(nil)
)

// NewModel builds the page, the loader and the chat orchestrator. Nothing
// is fetched until Init.
func NewModel(deps Deps, opts ...Option) (*Model, error) {
	doc, err := dom.Parse(web.Index())
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	logger := logging.OrNop(deps.Logger)

	m := &Model{
		cfg:        deps.Config,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
		doc:        doc,
		watcher:    deps.Watcher,
		textarea:   newTextarea(),
		spinner:    newSpinner(),
		theme:      models.ThemeDark,
		themeLabel: models.ThemeDark.Label(),
	}
	m.sched = m
	for _, opt := range opts {
		opt(m)
	}

	chatOpts := []chat.Option{
		chat.WithReplyDelay(deps.Config.ReplyDelay()),
		chat.WithRevealInterval(deps.Config.RevealInterval()),
		chat.WithLogger(logger),
		chat.WithContext(ctx),
	}
	if deps.Clipboard != nil {
		chatOpts = append(chatOpts, chat.WithClipboard(deps.Clipboard))
	}
	m.orch = chat.New(m, deps.Client, deps.Store, m.sched, chatOpts...)

	bus := events.NewBus()
	m.loader = loader.New(deps.Source, doc, bus,
		loader.WithLogger(logger),
		loader.WithHook(loader.BasicScripts),
	)

	policy := retry.NewLinearPolicy(deps.Config.InitRetries, deps.Config.InitBackoff())
	m.detach = m.orch.Attach(bus, doc, policy, deps.Config.InitFallback())

	return m, nil
}

func newTextarea() textarea.Model {
	ta := textarea.New()
	ta.Placeholder = "Enter a prompt here"
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()
	styleTextarea(&ta)
	return ta
}

func styleTextarea(ta *textarea.Model) {
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle
}

func newSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle
	return s
}

// Init loads the components and starts watching storage.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textarea.Blink,
		m.loadComponents(),
		drainCmd,
	}
	if m.watcher != nil {
		cmds = append(cmds, m.watchStorage())
	}
	return tea.Batch(cmds...)
}

func (m *Model) loadComponents() tea.Cmd {
	return func() tea.Msg {
		report, err := m.loader.LoadDefault(m.ctx)
		return componentsLoadedMsg{report: report, err: err}
	}
}

// watchStorage blocks until the model is closed.
func (m *Model) watchStorage() tea.Cmd {
	return func() tea.Msg {
		err := m.watcher.Watch(m.ctx, m.logger, func(keys []string) {
			if !relevantKeys(keys) {
				return
			}
			m.sched.Post(m.reload)
		})
		if err != nil {
			return watchErrMsg{err: err}
		}
		return nil
	}
}

func relevantKeys(keys []string) bool {
	for _, k := range keys {
		if k == models.KeySavedChats || k == models.KeyThemeColor {
			return true
		}
	}
	return false
}

func (m *Model) reload() {
	if m.orch.Reload() {
		m.status = "chat updated from another window"
	}
}

// Close stops background work. It is safe to call more than once.
func (m *Model) Close() {
	m.cancel()
	if m.detach != nil {
		m.detach()
		m.detach = nil
	}
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		contentWidth := m.width - 4
		if !m.ready {
			m.viewport = viewport.New(contentWidth, 5)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
		}
		m.textarea.SetWidth(contentWidth - 4)
		m.dirty = true

	case drainMsg:
		m.drain()

	case componentsLoadedMsg:
		m.loaded = true
		m.report = msg.report
		m.err = msg.err
		if msg.err != nil {
			m.logger.Warn("components failed to load", zap.Error(msg.err))
		}

	case watchErrMsg:
		m.logger.Warn("storage watch stopped", zap.Error(msg.err))

	case spinner.TickMsg:
		if m.hasLoading() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
			m.dirty = true
		} else {
			m.spinning = false
		}

	case tea.MouseMsg:
		m.hover(msg.Y)
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		m.status = ""
		if cmd, handled := m.handleKey(msg); handled {
			cmds = append(cmds, cmd)
			break
		}
		switch msg.Type {
		case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)
		default:
			if !m.typingVisible && (msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace) {
				m.typingVisible = true
			}
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if m.hasLoading() && !m.spinning {
		m.spinning = true
		cmds = append(cmds, m.spinner.Tick)
	}
	m.refresh()

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	key := msg.String()

	if m.confirm != nil {
		switch key {
		case "ctrl+c":
			return m.quit(), true
		case "y", "Y", "enter":
			m.answer(true)
		case "n", "N", "esc":
			m.answer(false)
		}
		return nil, true
	}

	switch key {
	case "ctrl+c", "esc":
		return m.quit(), true

	case "enter":
		if !m.dispatch(models.SelectorTypingForm, models.EventSubmit) {
			m.status = "chat is not ready yet"
		}
		return nil, true

	case "ctrl+t":
		m.dispatch(models.SelectorThemeToggle, models.EventClick)
		return nil, true

	case "ctrl+d":
		m.dispatch(models.SelectorDeleteChat, models.EventClick)
		return nil, true

	case "ctrl+y":
		if err := m.orch.CopyLast(); err != nil {
			m.status = err.Error()
		} else {
			m.status = "reply copied to clipboard"
		}
		return nil, true

	case "ctrl+g":
		m.dispatch(models.SelectorGreetingBtn, models.EventClick)
		return nil, true
	}

	if n, ok := suggestionKey(key); ok {
		chips := m.doc.QueryAll(models.SelectorSuggestion)
		if n <= len(chips) {
			chips[n-1].Dispatch(models.EventClick)
		}
		return nil, true
	}

	return nil, false
}

// suggestionKey maps alt+1 through alt+9 to a chip number.
func suggestionKey(key string) (int, bool) {
	digit, ok := strings.CutPrefix(key, "alt+")
	if !ok || len(digit) != 1 || digit[0] < '1' || digit[0] > '9' {
		return 0, false
	}
	return int(digit[0] - '0'), true
}

// dispatch fires event on the first element matching selector and reports
// whether anything was listening.
func (m *Model) dispatch(selector, event string) bool {
	el := m.doc.Query(selector)
	if el == nil {
		return false
	}
	return el.Dispatch(event) > 0
}

func (m *Model) answer(ok bool) {
	fn := m.confirm.answer
	m.confirm = nil
	if fn != nil {
		fn(ok)
	}
}

// hover moves the pointer over or off the page title.
func (m *Model) hover(y int) {
	over := !m.headerHidden && m.doc.Query(models.SelectorTitle) != nil && y == m.titleRow()
	if over == m.hovering {
		return
	}
	m.hovering = over
	event := models.EventMouseOut
	if over {
		event = models.EventMouseOver
	}
	m.dispatch(models.SelectorTitle, event)
}

func (m *Model) quit() tea.Cmd {
	m.Close()
	return tea.Quit
}

func (m *Model) hasLoading() bool {
	for _, e := range m.entries {
		if e.Loading {
			return true
		}
	}
	return false
}

// refresh resizes the viewport to the space left by the other sections and
// redraws the transcript when it changed.
func (m *Model) refresh() {
	if !m.ready {
		return
	}

	contentWidth := m.width - 4
	top := lipgloss.Height(m.renderTop(contentWidth))
	bottom := lipgloss.Height(m.renderBottom(contentWidth))

	// Messages panel border and padding
	vpHeight := m.height - top - bottom - 4
	if vpHeight < 3 {
		vpHeight = 3
	}
	if vpHeight != m.viewport.Height {
		m.viewport.Height = vpHeight
		m.dirty = true
	}

	if m.dirty {
		m.updateViewport()
		m.dirty = false
	}
}

// Input implements chat.UI.
func (m *Model) Input() string {
	return m.textarea.Value()
}

// ResetInput implements chat.UI.
func (m *Model) ResetInput() {
	m.textarea.Reset()
}

// RenderTranscript implements chat.UI.
func (m *Model) RenderTranscript(entries []models.Entry) {
	m.entries = append([]models.Entry(nil), entries...)
	m.dirty = true
}

// RenderEntry implements chat.UI.
func (m *Model) RenderEntry(entry models.Entry) {
	m.dirty = true
	for i := range m.entries {
		if m.entries[i].ID == entry.ID {
			m.entries[i] = entry
			return
		}
	}
	m.entries = append(m.entries, entry)
}

// ApplyTheme implements chat.UI.
func (m *Model) ApplyTheme(theme models.Theme, label string) {
	m.theme = theme
	m.themeLabel = label
	UpdateTheme(theme)
	styleTextarea(&m.textarea)
	m.spinner.Style = loadingStyle
	m.dirty = true
}

// ShowTypingArea implements chat.UI.
func (m *Model) ShowTypingArea(visible bool) {
	m.typingVisible = visible
}

// HideHeader implements chat.UI.
func (m *Model) HideHeader(hidden bool) {
	m.headerHidden = hidden
	if hidden {
		m.hovering = false
	}
}

// Confirm implements chat.UI.
func (m *Model) Confirm(prompt string, answer func(bool)) {
	m.confirm = &confirmPrompt{prompt: prompt, answer: answer}
}

// Run starts the chat TUI
func Run(deps Deps) error {
	m, err := NewModel(deps)
	if err != nil {
		return err
	}
	defer m.Close()

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	m.SetSender(p.Send)

	_, err = p.Run()
	return err
}
