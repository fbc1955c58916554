// Init command for shazam CLI
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/soroush/shazam/internal/config"
)

// initCmd returns the init subcommand
func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize shazam with interactive setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.Load(configFile)
			if err != nil {
				return err
			}
			_, err = config.RunWizard(store, os.Stdin, os.Stdout)
			return err
		},
	}
}
