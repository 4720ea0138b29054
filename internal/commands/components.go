package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/startychat/internal/chat"
	"github.com/diogo/startychat/internal/dom"
	"github.com/diogo/startychat/internal/events"
	"github.com/diogo/startychat/internal/loader"
	"github.com/diogo/startychat/internal/models"
	"github.com/diogo/startychat/internal/retry"
	"github.com/diogo/startychat/web"
)

// NewComponentsCmd creates the command that checks the page components.
func NewComponentsCmd(deps *Dependencies, f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "components",
		Short: "Load the page components and report their status",
		Long: `Load every page component the way the chat does and report which ones
mounted, whether the page announced readiness and whether the chat
controls are present.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runComponents(cmd, deps, f)
		},
	}
}

func runComponents(cmd *cobra.Command, deps *Dependencies, f *flags) error {
	cfg := loadConfig(deps, f)
	logger := cliLogger(cfg)
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

	doc, err := dom.Parse(web.Index())
	if err != nil {
		return err
	}

	// The chat is attached on its own loop, the way the interactive page
	// runs it, so readiness drives a real initialization.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	loop := events.NewLoop()
	go loop.Run(ctx)

	bus := events.NewBus()
	var readiness *models.ReadinessEvent
	bus.Subscribe(models.EventComponentsLoaded, func(e events.Event) {
		if payload, ok := e.Payload.(models.ReadinessEvent); ok {
			readiness = &payload
		}
	})

	orch := chat.New(headlessUI{}, client, store, loop,
		chat.WithLogger(logger),
		chat.WithContext(ctx),
	)
	policy := retry.NewLinearPolicy(cfg.InitRetries, cfg.InitBackoff())
	detach := orch.Attach(bus, doc, policy, 0)
	defer detach()

	source := loader.NewSource(client)
	fmt.Fprintf(deps.Stdout, "Components from %s\n", source)

	l := loader.New(source, doc, bus, loader.WithLogger(logger))
	report, loadErr := l.LoadDefault(ctx)

	for _, r := range report.Results {
		if r.Loaded {
			fmt.Fprintf(deps.Stdout, "  %s %-8s #%s\n", successStyle.Render("✓"), r.Fragment.Name, r.Fragment.Container)
			continue
		}
		reason := "not loaded"
		if r.Err != nil {
			reason = r.Err.Error()
		}
		fmt.Fprintf(deps.Stdout, "  %s %-8s %s\n", errorStyle.Render("✗"), r.Fragment.Name, dimStyle.Render(reason))
	}

	if readiness != nil {
		fmt.Fprintf(deps.Stdout, "Readiness: %s (%d components)\n",
			successStyle.Render(models.EventComponentsLoaded), len(readiness.Components))
	} else {
		fmt.Fprintf(deps.Stdout, "Readiness: %s\n", errorStyle.Render("not announced"))
	}

	if missing := chat.MissingControls(doc); len(missing) > 0 {
		fmt.Fprintf(deps.Stdout, "Chat controls: %s %v\n", errorStyle.Render("missing"), missing)
	} else {
		fmt.Fprintf(deps.Stdout, "Chat controls: %s\n", successStyle.Render("ok"))
	}

	// Readiness posted the initialization before LoadDefault returned.
	var state chat.State
	initialized := false
	loop.Sync(func() {
		initialized = orch.Initialized()
		state = orch.State()
	})
	if initialized {
		fmt.Fprintf(deps.Stdout, "Chat: %s (%d saved messages, %s)\n",
			successStyle.Render("initialized"), len(state.Entries), state.Theme)
	} else {
		fmt.Fprintf(deps.Stdout, "Chat: %s\n", errorStyle.Render("not initialized"))
	}

	if loadErr != nil {
		fmt.Fprintln(deps.Stderr, formatErrorMessage(loadErr, "Load failed"))
		return loadErr
	}
	return nil
}

// headlessUI is the chat UI port for commands that drive the chat without
// drawing it.
type headlessUI struct{}

var _ chat.UI = headlessUI{}

func (headlessUI) Input() string                       { return "" }
func (headlessUI) ResetInput()                         {}
func (headlessUI) RenderTranscript([]models.Entry)     {}
func (headlessUI) RenderEntry(models.Entry)            {}
func (headlessUI) ApplyTheme(models.Theme, string)     {}
func (headlessUI) ShowTypingArea(bool)                 {}
func (headlessUI) HideHeader(bool)                     {}
func (headlessUI) Confirm(_ string, answer func(bool)) { answer(false) }
