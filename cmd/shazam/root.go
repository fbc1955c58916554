// Root command definition for shazam CLI
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soroush/shazam/internal/config"
	"github.com/soroush/shazam/internal/ui"
)

// Execute runs the root command - this is the main entry point
func Execute() error {
	rootCmd := newRootCmd()
	return rootCmd.Execute()
}

// newRootCmd creates and configures the root command
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "shazam [prompt]",
		Short: "AI-powered shell command generator",
		Long: `Shazam converts natural language into a single shell command, checks it
against dangerous patterns and runs it after you confirm.

Examples:
  shazam "list all python files"
  shazam -r "show disk usage"
  shazam --setup
  shazam --config model_params.temperature=0.2`,
		Args:          cobra.ArbitraryArgs,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runMain,
	}

	addRootFlags(rootCmd)

	rootCmd.PersistentFlags().StringVar(&configFile, "config-file", "", "Configuration file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().BoolVar(&debugLogs, "debug", false, "Write debug logs to the log file")

	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(modelsCmd())
	rootCmd.AddCommand(initCmd())

	return rootCmd
}

// addRootFlags adds command-line flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&autoRun, "run", "r", false, "Automatically execute the generated command")
	cmd.Flags().BoolVar(&runSetup, "setup", false, "Run the setup wizard")
	cmd.Flags().StringVar(&configFlag, "config", "", "Show (key) or set (key=value) a configuration value")
}

// runMain handles the root command execution (single prompt mode)
func runMain(cmd *cobra.Command, args []string) error {
	a, err := initializeApp()
	if err != nil {
		return err
	}
	defer a.close()

	if runSetup || a.store.IsFirstRun() {
		_, err := config.RunWizard(a.store, os.Stdin, os.Stdout)
		return err
	}

	if configFlag != "" {
		return handleConfigFlag(os.Stdout, a.store, configFlag)
	}

	if len(args) == 0 {
		ui.PrintError("Please provide a prompt or use --help for usage information")
		return nil
	}

	return a.processPrompt(strings.Join(args, " "))
}

// handleConfigFlag reads (key) or writes (key=value) one configuration value
func handleConfigFlag(w io.Writer, store *config.Store, arg string) error {
	key, raw, isSet := strings.Cut(arg, "=")
	key = strings.TrimSpace(key)

	if !isSet {
		fmt.Fprintf(w, "%s: %v\n", key, store.Get(key, nil))
		return nil
	}

	value := config.ParseValue(raw)
	if err := store.Set(key, value); err != nil {
		return fmt.Errorf("error setting configuration: %w", err)
	}
	fmt.Fprintf(w, "%s Configuration updated: %s = %v\n", ui.Success("✓"), key, store.Get(key, value))
	return nil
}
