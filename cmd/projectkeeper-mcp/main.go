package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	mcpadapter "projectkeeper/internal/adapters/mcp"
	"projectkeeper/internal/bootstrap"
)

const version = "0.1.0"

func main() {
	configFlag := flag.String("config", "", "config file (default <claude dir>/memory/projectkeeper.yaml)")
	claudeDirFlag := flag.String("claude-dir", "", "storage root (default $PROJECTKEEPER_CLAUDE_DIR or ~/.claude)")
	logLevelFlag := flag.String("log-level", "", "log level (debug, info, warn, error)")
	flag.Parse()

	// logs go to stderr; stdout carries the protocol
	rt, err := bootstrap.Start(bootstrap.Options{
		ConfigPath: *configFlag,
		ClaudeDir:  *claudeDirFlag,
		LogLevel:   *logLevelFlag,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "projectkeeper-mcp: %v\n", err)
		os.Exit(1)
	}
	defer rt.Close()

	mcpServer := server.NewMCPServer(
		"projectkeeper-mcp",
		version,
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, rt.Engine)
	mcpadapter.RegisterWriteTools(mcpServer, rt.Engine)

	rt.Logger.Info("serving MCP on stdio",
		zap.String("claudeDir", rt.Config.Paths.ClaudeDir),
		zap.Bool("journal", rt.Engine.Journal != nil))

	if err := server.ServeStdio(mcpServer); err != nil {
		rt.Logger.Error("server stopped", zap.Error(err))
		rt.Close()
		os.Exit(1)
	}
}
