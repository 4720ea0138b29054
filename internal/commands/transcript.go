package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/startychat/internal/chat"
	"github.com/diogo/startychat/internal/models"
)

// NewTranscriptCmd creates the transcript command group.
func NewTranscriptCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcript",
		Short: "Show or delete the saved chat",
		Long:  `Inspect the chat transcript kept in local storage between sessions.`,
	}

	cmd.AddCommand(newTranscriptShowCmd(deps))
	cmd.AddCommand(newTranscriptClearCmd(deps))
	return cmd
}

func newTranscriptShowCmd(deps *Dependencies) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the saved chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := deps.OpenStore()
			if err != nil {
				return fmt.Errorf("failed to open storage: %w", err)
			}

			saved, _ := store.GetItem(models.KeySavedChats)
			if raw {
				fmt.Fprintln(deps.Stdout, saved)
				return nil
			}

			entries, err := chat.ParseTranscript(saved)
			if err != nil {
				return fmt.Errorf("saved chats are unreadable: %w", err)
			}
			if len(entries) == 0 {
				fmt.Fprintln(deps.Stdout, "No saved chats.")
				return nil
			}

			for _, e := range entries {
				fmt.Fprintln(deps.Stdout, formatEntry(e))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print the stored markup")
	return cmd
}

func formatEntry(e models.Entry) string {
	if !e.IsIncoming() {
		return dimStyle.Render("You:") + " " + e.Text
	}
	if e.Errored {
		return assistantLabelStyle.Render("Starty:") + " " + errorStyle.Render(e.Text)
	}
	return assistantLabelStyle.Render("Starty:") + " " + e.Text
}

func newTranscriptClearCmd(deps *Dependencies) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the saved chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm(deps, models.ConfirmDeleteChats) {
				fmt.Fprintln(deps.Stdout, "Nothing deleted.")
				return nil
			}

			store, err := deps.OpenStore()
			if err != nil {
				return fmt.Errorf("failed to open storage: %w", err)
			}
			if err := store.RemoveItem(models.KeySavedChats); err != nil {
				return fmt.Errorf("failed to delete chats: %w", err)
			}

			fmt.Fprintln(deps.Stdout, successStyle.Render("✓ Chats deleted"))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking")
	return cmd
}

// confirm asks a yes/no question on Stdin. Anything but y or yes is no.
func confirm(deps *Dependencies, prompt string) bool {
	fmt.Fprintf(deps.Stderr, "%s [y/N] ", prompt)

	line, err := bufio.NewReader(deps.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
