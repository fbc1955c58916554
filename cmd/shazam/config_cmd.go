// Config command for shazam CLI
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/soroush/shazam/internal/config"
	"github.com/soroush/shazam/internal/shell"
	"github.com/soroush/shazam/internal/ui"
)

// configCmd returns the config subcommand
func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.Load(configFile)
			if err != nil {
				return err
			}
			return showConfig(os.Stdout, store)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get [key]",
		Short: "Show a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.Load(configFile)
			if err != nil {
				return err
			}
			if !store.IsKnownKey(args[0]) {
				return fmt.Errorf("unknown key: %s", args[0])
			}
			return handleConfigFlag(os.Stdout, store, args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set [key] [value]",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.Load(configFile)
			if err != nil {
				return err
			}
			return handleConfigFlag(os.Stdout, store, args[0]+"="+args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.Load(configFile)
			if err != nil {
				return err
			}
			result, err := config.ValidateStore(store)
			if err != nil {
				return err
			}
			if !result.IsValid() || result.HasWarnings() {
				fmt.Print(result.String())
			}
			if result.IsValid() {
				fmt.Println(ui.Success("✓"), "Configuration is valid")
				return nil
			}
			return fmt.Errorf("configuration has errors")
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.Load(configFile)
			if err != nil {
				return err
			}
			status := ""
			if store.IsFirstRun() {
				status = ui.Dim(" (not created yet)")
			}
			fmt.Printf("Config file: %s%s\n", store.Path(), status)
			return nil
		},
	})

	return cmd
}

// showConfig prints the effective configuration as YAML plus the detected
// environment
func showConfig(w io.Writer, store *config.Store) error {
	cfg, err := store.Config()
	if err != nil {
		return err
	}
	if cfg.Provider.APIKey != "" {
		cfg.Provider.APIKey = maskSecret(cfg.Provider.APIKey)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	sys := shell.GetSystemContext()
	fmt.Fprintf(w, "# %s\n", store.Path())
	fmt.Fprint(w, string(data))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "# Environment: %s, shell %s, user %s\n", sys.OS, sys.Shell, sys.Username)
	return nil
}

// maskSecret keeps the first and last characters of a secret
func maskSecret(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:3] + "..." + s[len(s)-4:]
}
