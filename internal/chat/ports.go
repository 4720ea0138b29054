package chat

import (
	"context"

	"github.com/diogo/startychat/internal/models"
)

// UI is what the orchestrator draws on. Every method is called on the UI
// thread.
type UI interface {
	// Input returns the current contents of the typing input.
	Input() string
	ResetInput()
	RenderTranscript(entries []models.Entry)
	// RenderEntry redraws one entry, appending it if it is new.
	RenderEntry(entry models.Entry)
	ApplyTheme(theme models.Theme, label string)
	ShowTypingArea(visible bool)
	HideHeader(hidden bool)
	// Confirm asks a yes/no question; answer runs on the UI thread.
	Confirm(prompt string, answer func(bool))
}

// Client sends a message to the chat service.
type Client interface {
	SendMessage(ctx context.Context, message string) (string, error)
}

// Store is the local key/value storage.
type Store interface {
	GetItem(key string) (string, bool)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

// Clipboard receives copied entry text.
type Clipboard interface {
	WriteAll(text string) error
}
