package cmd

import (
	"github.com/spf13/cobra"

	"projectkeeper/internal/application/commands"
	"projectkeeper/internal/domain"
)

var planMode string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what an operation would do without doing it",
	Long: `Compute an operation plan and print it. Nothing is locked, backed up or
changed.

Examples:
  projectkeeper-cli plan move /work/old /work/new
  projectkeeper-cli plan merge-orphan -work-old /work/new
  projectkeeper-cli plan cleanup
  projectkeeper-cli plan sync`,
}

var planMoveCmd = &cobra.Command{
	Use:   "move <old-path> <new-path>",
	Short: "Plan a project move",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := domain.ParseMergeMode(planMode)
		if err != nil {
			return err
		}
		res, err := commands.NewMoveProjectCommand(GetEngine(), args[0], args[1], mode, false).Plan(cmd.Context())
		if err != nil {
			return err
		}
		return printPlan(cmd.OutOrStdout(), res)
	},
}

var planMergeOrphanCmd = &cobra.Command{
	Use:   "merge-orphan <folder-id> <target-path>",
	Short: "Plan merging an orphaned folder into a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := commands.NewMergeOrphanCommand(GetEngine(), args[0], args[1], false).Plan(cmd.Context())
		if err != nil {
			return err
		}
		return printPlan(cmd.OutOrStdout(), res)
	},
}

var planCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Plan removing stale index entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := commands.NewCleanupCommand(GetEngine(), false).Plan(cmd.Context())
		if err != nil {
			return err
		}
		return printPlan(cmd.OutOrStdout(), res)
	},
}

var planSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Plan rebuilding the index from storage folders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := commands.NewSyncCommand(GetEngine(), false).Plan(cmd.Context())
		if err != nil {
			return err
		}
		return printPlan(cmd.OutOrStdout(), res)
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.AddCommand(planMoveCmd)
	planCmd.AddCommand(planMergeOrphanCmd)
	planCmd.AddCommand(planCleanupCmd)
	planCmd.AddCommand(planSyncCmd)

	planMoveCmd.Flags().StringVar(&planMode, "mode", string(domain.MergeModeMerge), "what to do when the destination folder exists (merge or clean)")
}
