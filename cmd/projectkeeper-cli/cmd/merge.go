package cmd

import (
	"github.com/spf13/cobra"

	"projectkeeper/internal/application/commands"
)

var mergeYes bool

var mergeOrphanCmd = &cobra.Command{
	Use:   "merge-orphan <folder-id> <target-path>",
	Short: "Fold an orphaned storage folder into a live project",
	Long: `Merge the sessions of an orphaned storage folder into the folder of an
existing project. The orphan is renamed with a .merged.bak suffix, never
deleted, and the history log is rewritten to point at the target.

Examples:
  projectkeeper-cli orphans
  projectkeeper-cli merge-orphan -work-old-name /work/new-name --yes`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		merge := commands.NewMergeOrphanCommand(GetEngine(), args[0], args[1], mergeYes)

		w := cmd.OutOrStdout()
		if ok, err := confirmOrPlan(w, mergeYes, func() (*commands.PlanResult, error) {
			return merge.Plan(cmd.Context())
		}); !ok {
			return err
		}
		return printResult(w, merge.Execute(cmd.Context()))
	},
}

func init() {
	rootCmd.AddCommand(mergeOrphanCmd)
	mergeOrphanCmd.Flags().BoolVarP(&mergeYes, "yes", "y", false, "apply the merge")
}
