// Package models contains data types and constants shared by the startychat packages.
package models

import "time"

// Endpoints and paths
const (
	DefaultServiceURL = "https://startybot-1.onrender.com/chat"

	// ComponentPathFormat is joined to the components base URL.
	ComponentPathFormat = "components/%s.html"
)

// Local storage keys
const (
	KeySavedChats = "saved-chats"
	KeyThemeColor = "themeColor"
)

// Page selectors the chat binds to
const (
	SelectorTypingForm   = ".typing-form"
	SelectorTypingInput  = ".typing-input"
	SelectorTypingArea   = ".typing-area"
	SelectorChatList     = ".chat-list"
	SelectorThemeToggle  = "#theme-toggle-button"
	SelectorDeleteChat   = "#delete-chat-button"
	SelectorSuggestion   = ".suggestion"
	SelectorSuggestText  = ".text"
	SelectorGreetingBtn  = "#saludoBtn"
	SelectorGreetingText = "#mensaje"
	SelectorTitle        = "h1"
)

// Event names
const (
	EventComponentsLoaded = "components-loaded"
	EventSubmit           = "submit"
	EventClick            = "click"
	EventMouseOver        = "mouseover"
	EventMouseOut         = "mouseout"
)

// Timing defaults
const (
	DefaultReplyDelay     = 500 * time.Millisecond
	DefaultRevealInterval = 75 * time.Millisecond
	DefaultCopyFeedback   = time.Second
	DefaultInitRetries    = 3
	DefaultInitBackoff    = 300 * time.Millisecond
	DefaultInitFallback   = 3 * time.Second
)

// Default user-facing strings
const (
	ConfirmDeleteChats = "Are you sure you want to delete all the chats?"
	GreetingText       = "Thanks for visiting our page!"
	ErrorPrefix        = "Error: "
)
