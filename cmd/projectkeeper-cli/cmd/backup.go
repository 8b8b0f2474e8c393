package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"projectkeeper/internal/application/commands"
)

var historyLimit int

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List backups, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		backups, err := commands.NewListBackupsCommand(GetEngine()).Execute(cmd.Context())
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(w, backups)
		}
		if len(backups) == 0 {
			fmt.Fprintln(w, "No backups")
			return nil
		}
		for _, b := range backups {
			fmt.Fprintf(w, "%s  %s  %d file(s)\n", headColor.Sprint(b.Name), b.CreatedAt.Format("2006-01-02 15:04:05"), len(b.Files))
		}
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <backup>",
	Short: "Copy a backup's files back into place",
	Long: `Restore every file in a backup directory to where it came from. The
backup may be given by name (as shown by backups) or as a path.

Examples:
  projectkeeper-cli restore 20260114_093012`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := commands.NewRestoreBackupCommand(GetEngine(), args[0]).Execute(cmd.Context())

		w := cmd.OutOrStdout()
		if jsonOutput {
			if perr := printJSON(w, res); perr != nil {
				return perr
			}
			return err
		}
		if err != nil {
			return err
		}
		if res.Success {
			okColor.Fprint(w, "✓ ")
		} else {
			failColor.Fprint(w, "✗ ")
		}
		fmt.Fprintln(w, res.Message)
		for _, p := range res.RestoredPaths {
			dimColor.Fprintf(w, "    %s\n", p)
		}
		for _, s := range res.Skipped {
			warnColor.Fprintf(w, "    skipped %s\n", s)
		}
		if !res.Success {
			return fmt.Errorf("restore incomplete")
		}
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent operations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := commands.NewHistoryCommand(GetEngine(), historyLimit).Execute(cmd.Context())
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(w, entries)
		}
		if len(entries) == 0 {
			fmt.Fprintln(w, "No recorded operations")
			return nil
		}
		for _, e := range entries {
			mark := okColor.Sprint("✓")
			if !e.Success {
				mark = failColor.Sprint("✗")
			}
			fmt.Fprintf(w, "%s %s %-12s %s\n", mark, e.StartedAt.Local().Format("2006-01-02 15:04:05"), e.Operation, e.Message)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupsCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of operations to show")
}
