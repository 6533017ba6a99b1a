package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/playshelf/gamesync"
)

// NewSyncCommand creates the sync command.
func NewSyncCommand(a App) *cobra.Command {
	var (
		noCache    bool
		dryRun     bool
		skipUpsert bool
	)

	cmd := &cobra.Command{
		Use:   "sync <account-id> [account-id...]",
		Short: "Synchronize the library for one or more accounts",
		Long: `Sync pulls the owned-games list for each account, enriches every game
through the storefront, review-statistics, and time-to-beat layers, and
upserts the merged records into the configured collection.

The first account listed is the primary account: its playtime wins
conflicts and is the only playtime pushed to the collection.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if noCache {
				a.SetNoCache(true)
			}

			client, err := a.Client()
			if err != nil {
				return err
			}

			accounts := make([]gamesync.Account, 0, len(args))
			for i, id := range args {
				accounts = append(accounts, gamesync.Account{ID: id, Primary: i == 0})
			}

			opts := []gamesync.SyncOption{gamesync.WithAccounts(accounts...)}
			if dryRun {
				opts = append(opts, gamesync.WithDryRun())
			}
			if skipUpsert {
				opts = append(opts, gamesync.WithSkipUpsert())
			}

			result, err := client.Sync(cmd.Context(), opts...)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Synchronized %d games (%d fetched, %d from cache, %d skipped)\n",
				len(result.Records), result.Fetched, result.FromCache, len(result.Failures))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "refetch every layer even when cached")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "reconcile and report without writing to the collection")
	cmd.Flags().BoolVar(&skipUpsert, "skip-upsert", false, "reconcile and cache but skip the collection write")

	return cmd
}
