// Package chat binds the page controls and drives the exchange with the
// chat service: submissions, the word-by-word reveal of replies, the theme
// and the saved transcript.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/diogo/startychat/internal/dom"
	apierrors "github.com/diogo/startychat/internal/errors"
	"github.com/diogo/startychat/internal/events"
	"github.com/diogo/startychat/internal/models"
	"github.com/diogo/startychat/internal/retry"
)

// Page classes mirrored on the document body.
const (
	ClassLightMode  = "light_mode"
	ClassHideHeader = "hide-header"
)

// ErrNoClipboard is returned by Copy when no clipboard is configured.
var ErrNoClipboard = errors.New("clipboard not available")

// requiredControls must all be present before the chat can bind.
var requiredControls = []string{
	models.SelectorTypingForm,
	models.SelectorChatList,
	models.SelectorThemeToggle,
	models.SelectorDeleteChat,
}

// MissingControls returns the selectors of required chat controls that are
// absent from doc.
func MissingControls(doc *dom.Document) []string {
	var missing []string
	for _, sel := range requiredControls {
		if doc.Query(sel) == nil {
			missing = append(missing, sel)
		}
	}
	return missing
}

// State is the orchestrator's view of the chat.
type State struct {
	Draft   string
	Busy    bool
	Theme   models.Theme
	Entries []models.Entry
}

// Orchestrator owns the chat state. All of its methods must run on the
// scheduler's thread.
type Orchestrator struct {
	ui        UI
	client    Client
	store     Store
	sched     events.Scheduler
	clipboard Clipboard
	logger    *zap.Logger
	ctx       context.Context
	newID     func() string

	replyDelay     time.Duration
	revealInterval time.Duration
	copyFeedback   time.Duration

	state       State
	doc         *dom.Document
	initialized bool
	// reveals counts reply animations still running.
	reveals int
	// epoch changes on every clear so a pending reply placeholder is not
	// added to the emptied list.
	epoch int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithReplyDelay sets the pause before the reply placeholder appears.
func WithReplyDelay(d time.Duration) Option {
	return func(o *Orchestrator) { o.replyDelay = d }
}

// WithRevealInterval sets the pause between revealed words.
func WithRevealInterval(d time.Duration) Option {
	return func(o *Orchestrator) { o.revealInterval = d }
}

// WithCopyFeedback sets how long an entry shows as copied.
func WithCopyFeedback(d time.Duration) Option {
	return func(o *Orchestrator) { o.copyFeedback = d }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClipboard enables the copy control.
func WithClipboard(c Clipboard) Option {
	return func(o *Orchestrator) { o.clipboard = c }
}

// WithContext sets the context chat requests run under.
func WithContext(ctx context.Context) Option {
	return func(o *Orchestrator) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// WithIDGenerator replaces the entry id source.
func WithIDGenerator(fn func() string) Option {
	return func(o *Orchestrator) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// New creates an Orchestrator. It does nothing until Init or Attach.
func New(ui UI, client Client, store Store, sched events.Scheduler, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		ui:             ui,
		client:         client,
		store:          store,
		sched:          sched,
		logger:         zap.NewNop(),
		ctx:            context.Background(),
		newID:          uuid.NewString,
		replyDelay:     models.DefaultReplyDelay,
		revealInterval: models.DefaultRevealInterval,
		copyFeedback:   models.DefaultCopyFeedback,
		state:          State{Theme: models.ThemeDark},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State returns a copy of the current state.
func (o *Orchestrator) State() State {
	s := o.state
	s.Entries = append([]models.Entry(nil), o.state.Entries...)
	return s
}

// Initialized reports whether Init has succeeded.
func (o *Orchestrator) Initialized() bool {
	return o.initialized
}

// Attach initializes the chat when the page announces readiness, retrying
// under policy while controls are missing. If readiness has not led to an
// initialized chat after fallback, one more Init is attempted regardless.
// The returned function stops listening for readiness.
func (o *Orchestrator) Attach(bus *events.Bus, doc *dom.Document, policy retry.Policy, fallback time.Duration) func() {
	unsubscribe := bus.Subscribe(models.EventComponentsLoaded, func(events.Event) {
		o.sched.Post(func() {
			o.logger.Info("components loaded, initializing chat")
			o.initWithRetry(doc, policy)
		})
	})

	if fallback > 0 {
		o.sched.AfterFunc(fallback, func() {
			if o.initialized {
				return
			}
			o.logger.Warn("components-loaded was not received, initializing anyway")
			if err := o.Init(doc); err != nil {
				o.logger.Error("fallback initialization failed", zap.Error(err))
			}
		})
	}

	return unsubscribe
}

func (o *Orchestrator) initWithRetry(doc *dom.Document, policy retry.Policy) {
	onRetry := policy.OnRetry
	policy.OnRetry = func(attempt int, err error) {
		o.logger.Info("retrying chat initialization",
			zap.Int("attempt", attempt+1), zap.Error(err))
		if onRetry != nil {
			onRetry(attempt, err)
		}
	}

	retry.Run(o.sched, policy, func() error {
		return o.Init(doc)
	}, func(err error) {
		if err != nil {
			o.logger.Error("could not initialize chat after several attempts", zap.Error(err))
			return
		}
		o.logger.Info("chat initialized")
	})
}

// Init binds the page controls and restores the saved transcript and theme.
// It fails with a MissingControlError when a required control is absent.
// Once it has succeeded, further calls do nothing.
func (o *Orchestrator) Init(doc *dom.Document) error {
	if o.initialized {
		return nil
	}
	if doc == nil {
		return apierrors.NewMissingControlError(requiredControls...)
	}

	if missing := MissingControls(doc); len(missing) > 0 {
		return apierrors.NewMissingControlError(missing...)
	}

	o.doc = doc
	o.ui.ShowTypingArea(false)

	doc.Query(models.SelectorTypingForm).On(models.EventSubmit, o.Submit)
	doc.Query(models.SelectorThemeToggle).On(models.EventClick, o.ToggleTheme)
	doc.Query(models.SelectorDeleteChat).On(models.EventClick, o.RequestClear)
	for _, chip := range doc.QueryAll(models.SelectorSuggestion) {
		text := chip.Query(models.SelectorSuggestText)
		if text == nil {
			continue
		}
		chip.On(models.EventClick, func() {
			o.Suggest(text.Text())
		})
	}

	o.restore()
	o.initialized = true
	return nil
}

// Submit sends the contents of the typing input.
func (o *Orchestrator) Submit() {
	o.submit(o.ui.Input())
}

// Suggest sends the text of a suggestion chip.
func (o *Orchestrator) Suggest(text string) {
	o.submit(text)
}

func (o *Orchestrator) submit(text string) {
	message := strings.TrimSpace(text)
	if message == "" || o.state.Busy {
		return
	}

	o.state.Draft = message
	o.state.Busy = true
	o.ui.ShowTypingArea(true)

	outgoing := models.Entry{ID: o.newID(), Direction: models.Outgoing, Text: message}
	o.state.Entries = append(o.state.Entries, outgoing)
	o.ui.RenderEntry(outgoing)

	o.ui.ResetInput()
	o.setHeaderHidden(true)

	epoch := o.epoch
	o.sched.AfterFunc(o.replyDelay, func() {
		if epoch != o.epoch {
			o.state.Busy = false
			return
		}
		o.request(message)
	})
}

// request shows the reply placeholder and sends message off the UI thread.
func (o *Orchestrator) request(message string) {
	placeholder := models.Entry{ID: o.newID(), Direction: models.Incoming, Loading: true}
	o.state.Entries = append(o.state.Entries, placeholder)
	o.ui.RenderEntry(placeholder)

	id := placeholder.ID
	ctx := o.ctx
	client := o.client
	o.sched.Go(func() func() {
		reply, err := client.SendMessage(ctx, message)
		return func() {
			o.settle(id, reply, err)
		}
	})
}

// settle applies the outcome of a chat request.
func (o *Orchestrator) settle(id, reply string, err error) {
	o.state.Busy = false

	entry := o.entry(id)
	if entry == nil {
		o.logger.Debug("reply for a cleared entry dropped", zap.String("id", id))
		return
	}
	entry.Loading = false

	if err != nil {
		o.logger.Warn("chat request failed", zap.Error(err))
		entry.Errored = true
		entry.Text = models.ErrorPrefix + apierrors.UserMessage(err)
		o.ui.RenderEntry(*entry)
		return
	}

	entry.Typing = true
	o.ui.RenderEntry(*entry)
	o.reveals++
	o.reveal(id, strings.Split(reply, " "), 0)
}

// reveal appends words[i] after one interval, then schedules the next.
func (o *Orchestrator) reveal(id string, words []string, i int) {
	o.sched.AfterFunc(o.revealInterval, func() {
		entry := o.entry(id)
		if entry == nil {
			o.reveals--
			return
		}

		if i > 0 {
			entry.Text += " "
		}
		entry.Text += words[i]

		if i+1 < len(words) {
			o.ui.RenderEntry(*entry)
			o.reveal(id, words, i+1)
			return
		}

		entry.Typing = false
		o.reveals--
		o.ui.RenderEntry(*entry)
		o.persist()
	})
}

// ToggleTheme flips between light and dark mode and saves the choice.
func (o *Orchestrator) ToggleTheme() {
	o.state.Theme = o.state.Theme.Toggle()
	if err := o.store.SetItem(models.KeyThemeColor, string(o.state.Theme)); err != nil {
		o.logger.Error("failed to save theme", zap.Error(err))
	}
	o.applyTheme()
}

// RequestClear asks for confirmation, then clears the transcript.
func (o *Orchestrator) RequestClear() {
	o.ui.Confirm(models.ConfirmDeleteChats, func(ok bool) {
		if ok {
			o.Clear()
		}
	})
}

// Clear erases the saved transcript and empties the chat list.
func (o *Orchestrator) Clear() {
	if err := o.store.RemoveItem(models.KeySavedChats); err != nil {
		o.logger.Error("failed to remove saved chats", zap.Error(err))
	}
	o.epoch++
	o.ui.ShowTypingArea(false)
	o.restore()
}

// Copy writes the text of an entry to the clipboard and flags it as copied
// for a moment.
func (o *Orchestrator) Copy(id string) error {
	entry := o.entry(id)
	if entry == nil {
		return fmt.Errorf("entry %s not found", id)
	}
	if o.clipboard == nil {
		return ErrNoClipboard
	}
	if err := o.clipboard.WriteAll(entry.Text); err != nil {
		return fmt.Errorf("failed to copy: %w", err)
	}

	entry.Copied = true
	o.ui.RenderEntry(*entry)

	o.sched.AfterFunc(o.copyFeedback, func() {
		if e := o.entry(id); e != nil {
			e.Copied = false
			o.ui.RenderEntry(*e)
		}
	})
	return nil
}

// CopyLast copies the most recent settled reply.
func (o *Orchestrator) CopyLast() error {
	for i := len(o.state.Entries) - 1; i >= 0; i-- {
		e := o.state.Entries[i]
		if e.IsIncoming() && !e.Loading {
			return o.Copy(e.ID)
		}
	}
	return fmt.Errorf("no reply to copy")
}

// Reload re-reads storage after it changed outside this process. It is
// skipped while a request or reveal is in progress and reports whether it
// ran.
func (o *Orchestrator) Reload() bool {
	if !o.initialized || o.state.Busy || o.reveals > 0 {
		return false
	}
	o.restore()
	return true
}

// restore loads the transcript and theme from storage.
func (o *Orchestrator) restore() {
	saved, _ := o.store.GetItem(models.KeySavedChats)
	hasSaved := saved != ""
	if hasSaved {
		o.ui.ShowTypingArea(true)
	}

	stored, _ := o.store.GetItem(models.KeyThemeColor)
	o.state.Theme = models.ThemeFromStored(stored)
	o.applyTheme()

	entries, err := ParseTranscript(saved)
	if err != nil {
		o.logger.Warn("saved chats are unreadable", zap.Error(err))
		entries = nil
	}
	o.state.Entries = entries
	o.ui.RenderTranscript(o.State().Entries)
	o.setHeaderHidden(hasSaved)
}

// persist saves the chat list as it is now.
func (o *Orchestrator) persist() {
	if err := o.store.SetItem(models.KeySavedChats, MarshalTranscript(o.state.Entries)); err != nil {
		o.logger.Error("failed to save chats", zap.Error(err))
	}
}

func (o *Orchestrator) applyTheme() {
	label := o.state.Theme.Label()
	if o.doc != nil {
		if body := o.doc.Query("body"); body != nil {
			body.ToggleClassTo(ClassLightMode, o.state.Theme.IsLight())
		}
		if toggle := o.doc.Query(models.SelectorThemeToggle); toggle != nil {
			toggle.SetText(label)
		}
	}
	o.ui.ApplyTheme(o.state.Theme, label)
}

func (o *Orchestrator) setHeaderHidden(hidden bool) {
	if o.doc != nil {
		if body := o.doc.Query("body"); body != nil {
			body.ToggleClassTo(ClassHideHeader, hidden)
		}
	}
	o.ui.HideHeader(hidden)
}

func (o *Orchestrator) entry(id string) *models.Entry {
	for i := range o.state.Entries {
		if o.state.Entries[i].ID == id {
			return &o.state.Entries[i]
		}
	}
	return nil
}
