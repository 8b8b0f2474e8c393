package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"projectkeeper/internal/application"
	"projectkeeper/internal/application/commands"
	"projectkeeper/internal/domain"
)

const confirmDescription = "Must be true to apply. Call the matching plan_ tool first and show the plan to the user."

// RegisterWriteTools adds the tools that mutate disk. Each one refuses to run
// unless confirmed is true.
func RegisterWriteTools(s *server.MCPServer, engine *application.Engine) {
	s.AddTool(executeMoveTool(), executeMoveHandler(engine))
	s.AddTool(executeMergeOrphanTool(), executeMergeOrphanHandler(engine))
	s.AddTool(executeCleanupTool(), executeCleanupHandler(engine))
	s.AddTool(executeSyncTool(), executeSyncHandler(engine))
	s.AddTool(restoreBackupTool(), restoreBackupHandler(engine))
}

// --- execute_move ---

func executeMoveTool() mcp.Tool {
	return mcp.NewTool("execute_move",
		mcp.WithDescription("Move a project and its metadata: storage folders, index entry, notes file, history log paths and the working directory itself. Every rewritten file is backed up first."),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithString("old_path",
			mcp.Description("Absolute path the project currently lives at (or used to)"),
			mcp.Required(),
		),
		mcp.WithString("new_path",
			mcp.Description("Absolute path the project should live at"),
			mcp.Required(),
		),
		mcp.WithString("mode",
			mcp.Description("What to do when the destination already has a storage folder: merge (default) or clean"),
			mcp.Enum(string(domain.MergeModeMerge), string(domain.MergeModeClean)),
		),
		mcp.WithBoolean("confirmed",
			mcp.Description(confirmDescription),
			mcp.Required(),
		),
	)
}

func executeMoveHandler(engine *application.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		move, err := moveCommand(engine, req, req.GetBool("confirmed", false))
		if err != nil {
			return toolError(err)
		}
		return executorResult(move.Execute(ctx))
	}
}

// --- execute_merge_orphan ---

func executeMergeOrphanTool() mcp.Tool {
	return mcp.NewTool("execute_merge_orphan",
		mcp.WithDescription("Merge an orphaned storage folder into an existing project. The orphan is renamed with a .merged.bak suffix, never deleted."),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithString("folder_id",
			mcp.Description("Name of the orphaned storage folder, as returned by find_orphans"),
			mcp.Required(),
		),
		mcp.WithString("target_path",
			mcp.Description("Absolute path of the existing project to merge into"),
			mcp.Required(),
		),
		mcp.WithBoolean("confirmed",
			mcp.Description(confirmDescription),
			mcp.Required(),
		),
	)
}

func executeMergeOrphanHandler(engine *application.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		merge := mergeCommand(engine, req, req.GetBool("confirmed", false))
		return executorResult(merge.Execute(ctx))
	}
}

// --- execute_cleanup ---

func executeCleanupTool() mcp.Tool {
	return mcp.NewTool("execute_cleanup",
		mcp.WithDescription("Remove stale entries from the project index. Storage folders are not touched."),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithBoolean("confirmed",
			mcp.Description(confirmDescription),
			mcp.Required(),
		),
	)
}

func executeCleanupHandler(engine *application.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cleanup := commands.NewCleanupCommand(engine, req.GetBool("confirmed", false))
		return executorResult(cleanup.Execute(ctx))
	}
}

// --- execute_sync ---

func executeSyncTool() mcp.Tool {
	return mcp.NewTool("execute_sync",
		mcp.WithDescription("Add untracked projects, folders and working days found in storage to the index. Never removes entries."),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithBoolean("confirmed",
			mcp.Description(confirmDescription),
			mcp.Required(),
		),
	)
}

func executeSyncHandler(engine *application.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sync := commands.NewSyncCommand(engine, req.GetBool("confirmed", false))
		return executorResult(sync.Execute(ctx))
	}
}

// --- restore_backup ---

func restoreBackupTool() mcp.Tool {
	return mcp.NewTool("restore_backup",
		mcp.WithDescription("Copy every file in a backup back to where it came from."),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithString("backup",
			mcp.Description("Backup name as returned by list_backups, or an absolute path"),
			mcp.Required(),
		),
	)
}

func restoreBackupHandler(engine *application.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		backup := req.GetString("backup", "")
		res, err := commands.NewRestoreBackupCommand(engine, backup).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		result, err := jsonResult(res)
		if err == nil && !res.Success {
			result.IsError = true
		}
		return result, err
	}
}

// --- helpers ---

func moveCommand(engine *application.Engine, req mcp.CallToolRequest, confirmed bool) (*commands.MoveProjectCommand, error) {
	mode, err := domain.ParseMergeMode(req.GetString("mode", ""))
	if err != nil {
		return nil, err
	}
	return commands.NewMoveProjectCommand(engine,
		req.GetString("old_path", ""),
		req.GetString("new_path", ""),
		mode,
		confirmed,
	), nil
}

func mergeCommand(engine *application.Engine, req mcp.CallToolRequest, confirmed bool) *commands.MergeOrphanCommand {
	return commands.NewMergeOrphanCommand(engine,
		req.GetString("folder_id", ""),
		req.GetString("target_path", ""),
		confirmed,
	)
}

// executorResult returns the uniform result shape. Failures are flagged as
// tool errors but keep the shape so callers can read backupPath.
func executorResult(res *application.Result) (*mcp.CallToolResult, error) {
	result, err := jsonResult(res)
	if err == nil && !res.Success {
		result.IsError = true
	}
	return result, err
}
