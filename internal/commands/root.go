// Package commands provides CLI commands for startychat.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/startychat/internal/config"
	"github.com/diogo/startychat/internal/logging"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// flags holds the values of the global and root flags.
type flags struct {
	serviceURL    string
	componentsURL string
	verbose       bool

	file   string
	output string
	raw    bool
}

// rootCmd represents the base command
var rootCmd = NewRootCmd(NewDependencies())

// NewRootCmd builds the command tree.
func NewRootCmd(deps *Dependencies) *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "startychat [prompt]",
		Short: "Terminal client for the Starty startup assistant",
		Long: `startychat talks to the Starty chat service from the terminal.
It renders the page components, keeps the transcript between runs and
shares the theme preference with the interactive chat.

Examples:
  startychat chat                       Start interactive chat
  startychat "How do I find investors?" Send a single message
  startychat -f prompt.md               Read the message from a file
  cat prompt.md | startychat            Read the message from stdin
  startychat components                 Check that the components load
  startychat transcript show            Print the saved chat
  startychat theme toggle               Switch between dark and light mode`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Check for version flag
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "startychat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			prompt, ok, err := readPrompt(deps, f, args)
			if err != nil {
				return err
			}
			if !ok {
				// No input - show help
				return cmd.Help()
			}
			return runQuery(cmd, deps, f, prompt)
		},
	}

	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)
	cmd.SetIn(deps.Stdin)

	// Global flags
	cmd.PersistentFlags().StringVar(&f.serviceURL, "service-url", "", "Chat service endpoint")
	cmd.PersistentFlags().StringVar(&f.componentsURL, "components-url", "",
		"Base URL serving components/<name>.html (bundled components when empty)")
	cmd.PersistentFlags().BoolVar(&f.verbose, "verbose", false, "Enable debug logging")

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Save response to file")
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "Read prompt from file")
	cmd.Flags().BoolVarP(&f.raw, "raw", "r", false, "Print the reply as plain text")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	// Add subcommands
	cmd.AddCommand(NewChatCmd(deps, f))
	cmd.AddCommand(NewComponentsCmd(deps, f))
	cmd.AddCommand(NewTranscriptCmd(deps))
	cmd.AddCommand(NewThemeCmd(deps))
	cmd.AddCommand(NewConfigCmd(deps, f))

	return cmd
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// readPrompt returns the prompt from the file flag, stdin or the
// positional argument, in that order, and whether one was given.
func readPrompt(deps *Dependencies, f *flags, args []string) (string, bool, error) {
	// Check for file input
	if f.file != "" {
		data, err := os.ReadFile(f.file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	// Check for stdin
	if deps.StdinPiped != nil && deps.StdinPiped() {
		data, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), true, nil
	}

	// Check for positional argument
	if len(args) > 0 {
		return args[0], true, nil
	}

	return "", false, nil
}

// loadConfig loads the configuration and applies the global flags over it.
// A broken config file is reported and the defaults are used.
func loadConfig(deps *Dependencies, f *flags) config.Config {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "Warning: %v\n", err)
	}

	if f.serviceURL != "" {
		cfg.ServiceURL = f.serviceURL
	}
	if f.componentsURL != "" {
		cfg.ComponentsURL = f.componentsURL
	}
	if f.verbose {
		cfg.Verbose = true
	}
	return cfg
}

// cliLogger returns the stderr logger for one-shot commands.
func cliLogger(cfg config.Config) *zap.Logger {
	logger, err := logging.NewCLI(cfg.Verbose)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
