package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// drainMsg asks Update to run the functions posted to the model.
type drainMsg struct{}

// Post implements events.Scheduler. fn runs inside Update, so it may touch
// the model and the page freely.
func (m *Model) Post(fn func()) {
	if fn == nil {
		return
	}
	m.qmu.Lock()
	m.queue = append(m.queue, fn)
	send := m.send
	m.qmu.Unlock()

	// Send blocks until the program reads the message, and Post is often
	// called from inside Update.
	if send != nil {
		go send(drainMsg{})
	}
}

// AfterFunc implements events.Scheduler.
func (m *Model) AfterFunc(d time.Duration, fn func()) {
	time.AfterFunc(d, func() {
		m.Post(fn)
	})
}

// Go implements events.Scheduler. work runs on its own goroutine and its
// continuation is posted back to the UI.
func (m *Model) Go(work func() func()) {
	go func() {
		m.Post(work())
	}()
}

// SetSender connects the model to a running program. Until it is called,
// posted functions wait for the drain command returned by Init.
func (m *Model) SetSender(send func(tea.Msg)) {
	m.qmu.Lock()
	m.send = send
	pending := len(m.queue)
	m.qmu.Unlock()

	if send != nil && pending > 0 {
		go send(drainMsg{})
	}
}

// drain runs posted functions, including ones they post, until none remain.
func (m *Model) drain() {
	for {
		m.qmu.Lock()
		if len(m.queue) == 0 {
			m.qmu.Unlock()
			return
		}
		fn := m.queue[0]
		m.queue = m.queue[1:]
		m.qmu.Unlock()

		fn()
	}
}

func drainCmd() tea.Msg {
	return drainMsg{}
}
