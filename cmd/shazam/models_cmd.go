// Models command for shazam CLI
package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/soroush/shazam/internal/ai"
	"github.com/soroush/shazam/internal/config"
)

// modelsCmd returns the models subcommand
func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List available models",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			store, err := config.Load(configFile)
			if err != nil {
				return err
			}
			snap, err := store.Snapshot()
			if err != nil {
				return err
			}

			provider, err := newProvider(snap)
			if err != nil {
				return err
			}

			models, err := provider.ListModels(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("Available models for %s:\n", provider.Name())
			current := ai.ModelName(provider)
			for _, m := range models {
				marker := " "
				if m == current {
					marker = "*"
				}
				fmt.Printf(" %s %s\n", marker, m)
			}

			fmt.Println("\nRecommended models:")
			recommended := ai.RecommendedModels()
			names := make([]string, 0, len(recommended))
			for name := range recommended {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Printf("  %s: %s\n", name, strings.Join(recommended[name], ", "))
			}

			return nil
		},
	}
}
