package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/startychat/internal/models"
)

// NewThemeCmd creates the theme command.
func NewThemeCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show the saved color theme",
		Long: `Show the color theme shared with the interactive chat. Use
'startychat theme toggle' to switch between dark and light mode.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := deps.OpenStore()
			if err != nil {
				return fmt.Errorf("failed to open storage: %w", err)
			}
			value, _ := store.GetItem(models.KeyThemeColor)
			fmt.Fprintln(deps.Stdout, models.ThemeFromStored(value))
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Switch between dark and light mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := deps.OpenStore()
			if err != nil {
				return fmt.Errorf("failed to open storage: %w", err)
			}
			value, _ := store.GetItem(models.KeyThemeColor)
			theme := models.ThemeFromStored(value).Toggle()

			if err := store.SetItem(models.KeyThemeColor, string(theme)); err != nil {
				return fmt.Errorf("failed to save theme: %w", err)
			}
			fmt.Fprintln(deps.Stdout, theme)
			return nil
		},
	})

	return cmd
}
