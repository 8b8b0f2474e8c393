package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"projectkeeper/internal/adapters/editor"
	"projectkeeper/internal/adapters/tui"
	"projectkeeper/internal/bootstrap"
)

func main() {
	configFlag := flag.String("config", "", "config file (default <claude dir>/memory/projectkeeper.yaml)")
	claudeDirFlag := flag.String("claude-dir", "", "storage root (default $PROJECTKEEPER_CLAUDE_DIR or ~/.claude)")
	flag.Parse()

	// the alt screen owns stdout; keep logs to warnings on stderr
	rt, err := bootstrap.Start(bootstrap.Options{
		ConfigPath: *configFlag,
		ClaudeDir:  *claudeDirFlag,
		LogLevel:   "warn",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	app := tui.NewApp(rt.Engine, editor.NewOpener())
	p := tea.NewProgram(app, tea.WithAltScreen())

	_, err = p.Run()
	rt.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
