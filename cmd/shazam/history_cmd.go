// History command for shazam CLI
package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soroush/shazam/internal/history"
	"github.com/soroush/shazam/internal/types"
	"github.com/soroush/shazam/internal/ui"
)

// withHistory runs fn with the history store, failing when history is off
func withHistory(fn func(store *history.Store) error) error {
	a, err := initializeApp()
	if err != nil {
		return err
	}
	defer a.close()

	if a.history == nil {
		return fmt.Errorf("history is not enabled")
	}
	return fn(a.history)
}

// historyCmd returns the history subcommand
func historyCmd() *cobra.Command {
	var limit int
	var state string

	list := func(cmd *cobra.Command, args []string) error {
		return withHistory(func(store *history.Store) error {
			entries, err := store.List(limit, 0, strings.ToUpper(state))
			if err != nil {
				return err
			}
			printEntries(entries)
			return nil
		})
	}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "View command history",
		RunE:  list,
	}
	cmd.PersistentFlags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show")
	cmd.Flags().StringVar(&state, "state", "", "Only show entries that ended in this state (succeeded, failed, cancelled)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Show recent command history",
		RunE:  list,
	}
	listCmd.Flags().StringVar(&state, "state", "", "Only show entries that ended in this state (succeeded, failed, cancelled)")
	cmd.AddCommand(listCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "search [query]",
		Short: "Search history by prompt or command",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(func(store *history.Store) error {
				entries, err := store.Search(strings.Join(args, " "), limit)
				if err != nil {
					return err
				}
				printEntries(entries)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show history statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(func(store *history.Store) error {
				stats, err := store.Stats()
				if err != nil {
					return err
				}

				fmt.Printf("Total Commands: %d\n", stats.Total)
				fmt.Printf("Executed: %d\n", stats.Executed)
				fmt.Printf("Dangerous: %d\n", stats.Dangerous)
				fmt.Printf("By State: %s\n", formatCounts(stats.ByState))
				fmt.Printf("By Model: %s\n", formatCounts(stats.ByModel))
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete all history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(func(store *history.Store) error {
				if err := store.Clear(); err != nil {
					return err
				}
				ui.PrintSuccess("History cleared")
				return nil
			})
		},
	})

	return cmd
}

func printEntries(entries []*types.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Println(ui.Dim("No history yet."))
		return
	}
	for _, entry := range entries {
		ui.PrintHistoryEntry(entry)
		fmt.Println()
	}
}

// formatCounts renders a count map in a stable order
func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, counts[k])
	}
	return strings.Join(parts, ", ")
}
