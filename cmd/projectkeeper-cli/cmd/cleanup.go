package cmd

import (
	"github.com/spf13/cobra"

	"projectkeeper/internal/application/commands"
)

var (
	cleanupYes bool
	syncYes    bool
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove index entries whose directory is gone",
	Long: `Remove stale entries from the project index. Storage folders are left
alone; use orphans and merge-orphan for those.

Without --yes the plan is printed and nothing changes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cleanup := commands.NewCleanupCommand(GetEngine(), cleanupYes)

		w := cmd.OutOrStdout()
		if ok, err := confirmOrPlan(w, cleanupYes, func() (*commands.PlanResult, error) {
			return cleanup.Plan(cmd.Context())
		}); !ok {
			return err
		}
		return printResult(w, cleanup.Execute(cmd.Context()))
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Add untracked projects found in storage to the index",
	Long: `Scan every storage folder, work out which project it belongs to, and add
missing projects, folders and working days to the index. Sync never removes
entries.

Without --yes the plan is printed and nothing changes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sync := commands.NewSyncCommand(GetEngine(), syncYes)

		w := cmd.OutOrStdout()
		if ok, err := confirmOrPlan(w, syncYes, func() (*commands.PlanResult, error) {
			return sync.Plan(cmd.Context())
		}); !ok {
			return err
		}
		return printResult(w, sync.Execute(cmd.Context()))
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(syncCmd)
	cleanupCmd.Flags().BoolVarP(&cleanupYes, "yes", "y", false, "apply the cleanup")
	syncCmd.Flags().BoolVarP(&syncYes, "yes", "y", false, "apply the sync")
}
