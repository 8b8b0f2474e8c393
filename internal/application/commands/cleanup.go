package commands

import (
	"context"

	"projectkeeper/internal/application"
	"projectkeeper/internal/domain"
)

// CleanupCommand removes stale entries from the index. Storage folders are
// never touched.
type CleanupCommand struct {
	engine    *application.Engine
	Confirmed bool
}

// NewCleanupCommand creates a new CleanupCommand
func NewCleanupCommand(engine *application.Engine, confirmed bool) *CleanupCommand {
	return &CleanupCommand{engine: engine, Confirmed: confirmed}
}

// Plan computes the cleanup without executing it
func (c *CleanupCommand) Plan(ctx context.Context) (*PlanResult, error) {
	plan, err := c.engine.Surveyor.PlanCleanup()
	if err != nil {
		return nil, err
	}
	return &PlanResult{Plan: plan}, nil
}

// Execute runs the cleanup
func (c *CleanupCommand) Execute(ctx context.Context) *application.Result {
	plan, err := c.engine.Surveyor.PlanCleanup()
	if err != nil {
		return failed(domain.OperationCleanup, err)
	}
	return c.engine.Executor.Execute(ctx, plan, c.Confirmed, nil)
}

// SyncCommand adds every project discoverable from storage to the index
type SyncCommand struct {
	engine    *application.Engine
	Confirmed bool
}

// NewSyncCommand creates a new SyncCommand
func NewSyncCommand(engine *application.Engine, confirmed bool) *SyncCommand {
	return &SyncCommand{engine: engine, Confirmed: confirmed}
}

// Plan computes the sync without executing it
func (c *SyncCommand) Plan(ctx context.Context) (*PlanResult, error) {
	plan, err := c.engine.Surveyor.PlanSync()
	if err != nil {
		return nil, err
	}
	return &PlanResult{Plan: plan}, nil
}

// Execute runs the sync. Sync only adds.
func (c *SyncCommand) Execute(ctx context.Context) *application.Result {
	plan, err := c.engine.Surveyor.PlanSync()
	if err != nil {
		return failed(domain.OperationSync, err)
	}
	return c.engine.Executor.Execute(ctx, plan, c.Confirmed, nil)
}
