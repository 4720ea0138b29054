package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/startychat/internal/config"
	"github.com/diogo/startychat/internal/loader"
	"github.com/diogo/startychat/internal/logging"
	"github.com/diogo/startychat/internal/tui"
)

// NewChatCmd creates the interactive chat command
func NewChatCmd(deps *Dependencies, f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session with Starty.

The transcript and theme are saved between runs and shared with other
windows. Press Esc or Ctrl+C to end the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(deps, f)
		},
	}
}

func runChat(deps *Dependencies, f *flags) error {
	cfg := loadConfig(deps, f)

	// The alternate screen owns the terminal, so logs go to a file.
	logger := zap.NewNop()
	if logPath, err := config.GetLogPath(); err == nil {
		if _, err := config.EnsureConfigDir(); err == nil {
			if l, err := logging.New(cfg.Verbose, logPath); err == nil {
				logger = l
			}
		}
	}
	defer func() { _ = logger.Sync() }()

	client, err := deps.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	store, err := deps.OpenStore()
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}

	tuiDeps := tui.Deps{
		Client:    client,
		Source:    loader.NewSource(client),
		Store:     store,
		Clipboard: deps.Clipboard,
		Config:    cfg,
		Logger:    logger,
	}
	if watcher, ok := store.(tui.StoreWatcher); ok {
		tuiDeps.Watcher = watcher
	}

	logger.Info("starting chat",
		zap.String("service_url", cfg.ServiceURL),
		zap.String("components_url", cfg.ComponentsURL))

	return deps.TUI.RunChat(tuiDeps)
}
