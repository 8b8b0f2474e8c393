package cmd

import (
	"github.com/spf13/cobra"

	"projectkeeper/internal/application/commands"
	"projectkeeper/internal/domain"
)

var (
	moveMode string
	moveYes  bool
)

var moveCmd = &cobra.Command{
	Use:   "move <old-path> <new-path>",
	Short: "Move a project and all of its metadata",
	Long: `Move a project directory and carry its metadata along: storage folders
under projects/, file-history, todos, shell-snapshots and debug, the index
entry, the notes file and every path recorded in the history log.

When the destination already has a storage folder, --mode decides what
happens: merge folds the source in (newer files win), clean replaces it.

Without --yes the plan is printed and nothing changes.

Examples:
  projectkeeper-cli move /work/old /work/new
  projectkeeper-cli move /work/old /work/new --mode clean --yes`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := domain.ParseMergeMode(moveMode)
		if err != nil {
			return err
		}
		move := commands.NewMoveProjectCommand(GetEngine(), args[0], args[1], mode, moveYes)

		w := cmd.OutOrStdout()
		if ok, err := confirmOrPlan(w, moveYes, func() (*commands.PlanResult, error) {
			return move.Plan(cmd.Context())
		}); !ok {
			return err
		}
		return printResult(w, move.Execute(cmd.Context()))
	},
}

func init() {
	rootCmd.AddCommand(moveCmd)
	moveCmd.Flags().StringVar(&moveMode, "mode", string(domain.MergeModeMerge), "what to do when the destination folder exists (merge or clean)")
	moveCmd.Flags().BoolVarP(&moveYes, "yes", "y", false, "apply the move")
}
