package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"projectkeeper/internal/application/commands"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked projects and their health",
	Long: `List every project in the index with whether its directory still exists,
whether it has a notes file, and any issues found.

Examples:
  projectkeeper-cli list
  projectkeeper-cli list --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		projects, err := commands.NewListProjectsCommand(GetEngine()).Execute(cmd.Context())
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(w, projects)
		}
		if len(projects) == 0 {
			fmt.Fprintln(w, "No tracked projects")
			return nil
		}
		for _, p := range projects {
			mark := okColor.Sprint("✓")
			if len(p.Issues) > 0 {
				mark = warnColor.Sprint("!")
			}
			notes := ""
			if p.HasNotesFile {
				notes = dimColor.Sprint(" [notes]")
			}
			fmt.Fprintf(w, "%s %s %s%s\n", mark, headColor.Sprint(p.Name), p.OriginalPath, notes)
			for _, issue := range p.Issues {
				warnColor.Fprintf(w, "    %s\n", issue)
			}
		}
		return nil
	},
}

var orphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "List storage folders no live project owns",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		orphans, err := commands.NewFindOrphansCommand(GetEngine()).Execute(cmd.Context())
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(w, orphans)
		}
		if len(orphans) == 0 {
			fmt.Fprintln(w, "No orphaned folders")
			return nil
		}
		for _, o := range orphans {
			recorded := o.AuthoritativePath
			if recorded == "" {
				recorded = dimColor.Sprintf("~%s (guessed)", o.DecodedPathBestEffort)
			}
			fmt.Fprintf(w, "%s  %s\n", headColor.Sprint(o.FolderName), recorded)
			dimColor.Fprintf(w, "    %d files, %s in %s\n", o.FileCount, formatBytes(o.TotalSizeBytes), strings.Join(o.SubdirsPresent, ", "))
		}
		return nil
	},
}

var staleCmd = &cobra.Command{
	Use:   "stale",
	Short: "List index entries whose directory is gone",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stale, err := commands.NewFindStaleCommand(GetEngine()).Execute(cmd.Context())
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(w, stale)
		}
		if len(stale) == 0 {
			fmt.Fprintln(w, "No stale entries")
			return nil
		}
		for _, s := range stale {
			fmt.Fprintf(w, "%s %s\n", warnColor.Sprint("!"), s.CanonicalKey)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(orphansCmd)
	rootCmd.AddCommand(staleCmd)
}
