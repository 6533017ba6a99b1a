package app

import (
	"github.com/spf13/cobra"

	"github.com/playshelf/gamesync/cmd/gamesync/cmd"
)

// Ensure App satisfies the command dependency interface at compile time.
var _ cmd.App = (*App)(nil)

// NewSyncCommand creates the sync command with app dependencies.
func (a *App) NewSyncCommand() *cobra.Command {
	return cmd.NewSyncCommand(a)
}

// NewCacheCommand creates the cache command with app dependencies.
func (a *App) NewCacheCommand() *cobra.Command {
	return cmd.NewCacheCommand(a)
}

// NewVersionCommand creates the version command with app dependencies.
func (a *App) NewVersionCommand() *cobra.Command {
	return cmd.NewVersionCommand(a)
}
