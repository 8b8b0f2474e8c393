package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"projectkeeper/internal/application"
	"projectkeeper/internal/application/commands"
	"projectkeeper/internal/domain"
)

// RegisterReadTools adds the tools that never mutate disk: listings and plans.
func RegisterReadTools(s *server.MCPServer, engine *application.Engine) {
	s.AddTool(listProjectsTool(), listProjectsHandler(engine))
	s.AddTool(findOrphansTool(), findOrphansHandler(engine))
	s.AddTool(findStaleTool(), findStaleHandler(engine))
	s.AddTool(planMoveTool(), planMoveHandler(engine))
	s.AddTool(planMergeOrphanTool(), planMergeOrphanHandler(engine))
	s.AddTool(planCleanupTool(), planCleanupHandler(engine))
	s.AddTool(planSyncTool(), planSyncHandler(engine))
	s.AddTool(listBackupsTool(), listBackupsHandler(engine))
	s.AddTool(historyTool(), historyHandler(engine))
}

// --- list_projects ---

func listProjectsTool() mcp.Tool {
	return mcp.NewTool("list_projects",
		mcp.WithDescription("List tracked projects with their storage folders, working days, whether the directory exists, the notes file, and any issues."),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func listProjectsHandler(engine *application.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projects, err := commands.NewListProjectsCommand(engine).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return jsonResult(projects)
	}
}

// --- find_orphans ---

func findOrphansTool() mcp.Tool {
	return mcp.NewTool("find_orphans",
		mcp.WithDescription("Find storage folders that no tracked, existing project owns. Each result carries the path recorded in its session catalog when one is known."),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func findOrphansHandler(engine *application.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		orphans, err := commands.NewFindOrphansCommand(engine).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return jsonResult(orphans)
	}
}

// --- find_stale_entries ---

func findStaleTool() mcp.Tool {
	return mcp.NewTool("find_stale_entries",
		mcp.WithDescription("Find index entries whose project directory no longer exists."),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func findStaleHandler(engine *application.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stale, err := commands.NewFindStaleCommand(engine).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return jsonResult(stale)
	}
}

// --- plan_move ---

func planMoveTool() mcp.Tool {
	return mcp.NewTool("plan_move",
		mcp.WithDescription("Dry run of execute_move. Returns the plan and the validation it would face. Nothing is changed."),
		mcp.WithReadOnlyHintAnnotation(true),
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
	)
}

func planMoveHandler(engine *application.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		move, err := moveCommand(engine, req, false)
		if err != nil {
			return toolError(err)
		}
		return planResult(move.Plan(ctx))
	}
}

// --- plan_merge_orphan ---

func planMergeOrphanTool() mcp.Tool {
	return mcp.NewTool("plan_merge_orphan",
		mcp.WithDescription("Dry run of execute_merge_orphan. Nothing is changed."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("folder_id",
			mcp.Description("Name of the orphaned storage folder, as returned by find_orphans"),
			mcp.Required(),
		),
		mcp.WithString("target_path",
			mcp.Description("Absolute path of the existing project to merge into"),
			mcp.Required(),
		),
	)
}

func planMergeOrphanHandler(engine *application.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		merge := mergeCommand(engine, req, false)
		return planResult(merge.Plan(ctx))
	}
}

// --- plan_cleanup ---

func planCleanupTool() mcp.Tool {
	return mcp.NewTool("plan_cleanup",
		mcp.WithDescription("Dry run of execute_cleanup: which stale index entries would be removed."),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func planCleanupHandler(engine *application.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return planResult(commands.NewCleanupCommand(engine, false).Plan(ctx))
	}
}

// --- plan_sync ---

func planSyncTool() mcp.Tool {
	return mcp.NewTool("plan_sync",
		mcp.WithDescription("Dry run of execute_sync: which projects, folders and working days would be added to the index."),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func planSyncHandler(engine *application.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return planResult(commands.NewSyncCommand(engine, false).Plan(ctx))
	}
}

// --- list_backups ---

func listBackupsTool() mcp.Tool {
	return mcp.NewTool("list_backups",
		mcp.WithDescription("List backup directories, newest first, with the files each one holds."),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func listBackupsHandler(engine *application.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		backups, err := commands.NewListBackupsCommand(engine).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return jsonResult(backups)
	}
}

// --- operation_history ---

func historyTool() mcp.Tool {
	return mcp.NewTool("operation_history",
		mcp.WithDescription("List recent executed operations, newest first."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of operations to return (default 20)"),
		),
	)
}

func historyHandler(engine *application.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := req.GetInt("limit", 20)
		if limit <= 0 {
			return toolError(fmt.Errorf("limit must be positive, got %d", limit))
		}
		entries, err := commands.NewHistoryCommand(engine, limit).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return jsonResult(entries)
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(fmt.Errorf("failed to encode result: %w", err))
	}
	return mcp.NewToolResultText(string(data)), nil
}

func planResult(res *commands.PlanResult, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return toolError(err)
	}
	return jsonResult(res)
}
