package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"projectkeeper/internal/application"
	"projectkeeper/internal/bootstrap"
)

var (
	configPath string
	claudeDir  string
	logLevel   string
	jsonOutput bool
	current    *bootstrap.Runtime
)

var rootCmd = &cobra.Command{
	Use:   "projectkeeper-cli",
	Short: "Keep Claude project metadata consistent with the filesystem",
	Long: `projectkeeper-cli inspects and repairs the metadata Claude keeps per
project directory: session storage folders, the project index, the history
log and per-project notes.

Read commands (list, orphans, stale, plan, backups, history) never touch disk.
Mutating commands (move, merge-orphan, cleanup, sync, restore) take a lock,
back up every file they rewrite, and require --yes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		closeRuntime()
		rt, err := bootstrap.Start(bootstrap.Options{
			ConfigPath: configPath,
			ClaudeDir:  claudeDir,
			LogLevel:   logLevel,
		})
		if err != nil {
			return err
		}
		current = rt
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeRuntime()
	},
}

// Execute runs the root command
func Execute() {
	err := rootCmd.Execute()
	closeRuntime()
	if err != nil {
		fmt.Fprintln(os.Stderr, failColor.Sprint("Error: ")+err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default <claude dir>/memory/projectkeeper.yaml)")
	rootCmd.PersistentFlags().StringVar(&claudeDir, "claude-dir", "", "storage root (default $PROJECTKEEPER_CLAUDE_DIR or ~/.claude)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
}

// GetEngine returns the initialized engine
func GetEngine() *application.Engine {
	return current.Engine
}

func closeRuntime() {
	if current != nil {
		current.Close()
		current = nil
	}
}
