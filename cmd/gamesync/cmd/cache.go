package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/playshelf/gamesync/internal/cache"
)

// NewCacheCommand creates the cache maintenance command group.
func NewCacheCommand(a App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the on-disk cache",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), a.CacheDir())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "prune",
		Short: "Remove cached records and owned lists",
		Long: `Prune removes the refetchable cache files. The denylist and the
name-mismatch ledger carry human decisions and are left in place.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store := cache.New(a.CacheDir(), a.Logger())
			if err := store.Prune(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cache pruned")
			return nil
		},
	})

	return cmd
}
