package commands

import (
	"io"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/diogo/startychat/internal/api"
	"github.com/diogo/startychat/internal/chat"
	"github.com/diogo/startychat/internal/config"
	"github.com/diogo/startychat/internal/storage"
	"github.com/diogo/startychat/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(deps tui.Deps) error
}

// Store is the local storage used by the commands.
type Store interface {
	chat.Store
	Keys() []string
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// NewClient builds the chat service client for the effective config.
	NewClient func(cfg config.Config, logger *zap.Logger) (api.ChatClientInterface, error)

	// OpenStore opens the local key/value storage.
	OpenStore func() (Store, error)

	// TUI is the terminal user interface.
	TUI TUIInterface

	Clipboard chat.Clipboard

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// StdinPiped reports whether a prompt can be read from Stdin.
	StdinPiped func() bool
	// IsTerminal reports whether Stdout is a terminal.
	IsTerminal func() bool
	// TerminalWidth returns the width of Stdout.
	TerminalWidth func() int

	Sleep func(time.Duration)
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(deps tui.Deps) error {
	return tui.Run(deps)
}

// systemClipboard writes to the OS clipboard.
type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewClient: newClient,
		OpenStore: func() (Store, error) {
			return storage.DefaultStore()
		},
		TUI:           &DefaultTUI{},
		Clipboard:     systemClipboard{},
		Stdin:         os.Stdin,
		Stdout:        os.Stdout,
		Stderr:        os.Stderr,
		StdinPiped:    stdinPiped,
		IsTerminal:    isStdoutTTY,
		TerminalWidth: getTerminalWidth,
		Sleep:         time.Sleep,
	}
}

func newClient(cfg config.Config, logger *zap.Logger) (api.ChatClientInterface, error) {
	client, err := api.NewClient(
		api.WithServiceURL(cfg.ServiceURL),
		api.WithComponentsURL(cfg.ComponentsURL),
		api.WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second),
		api.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// stdinPiped returns true if stdin is not a terminal
func stdinPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
