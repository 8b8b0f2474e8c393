package commands

import (
	"context"

	"projectkeeper/internal/application"
	"projectkeeper/internal/domain"
)

// MergeOrphanCommand folds an orphaned storage folder into a live project
type MergeOrphanCommand struct {
	engine     *application.Engine
	FolderID   string
	TargetPath string
	Confirmed  bool
}

// NewMergeOrphanCommand creates a new MergeOrphanCommand
func NewMergeOrphanCommand(engine *application.Engine, folderID, targetPath string, confirmed bool) *MergeOrphanCommand {
	return &MergeOrphanCommand{
		engine:     engine,
		FolderID:   folderID,
		TargetPath: targetPath,
		Confirmed:  confirmed,
	}
}

// Validate checks the arguments without touching disk
func (c *MergeOrphanCommand) Validate() error {
	if err := application.ValidateFolderID("folderID", c.FolderID); err != nil {
		return err
	}
	return application.ValidateAbsolutePath("targetPath", c.TargetPath)
}

// Plan computes the merge without executing it
func (c *MergeOrphanCommand) Plan(ctx context.Context) (*PlanResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	plan, err := c.engine.Surveyor.PlanMergeOrphan(c.FolderID, c.TargetPath)
	if err != nil {
		return nil, err
	}
	v := c.engine.Validator.ValidateMergeOrphan(c.FolderID, c.TargetPath)
	return &PlanResult{Plan: plan, Validation: &v}, nil
}

// Execute runs the merge. Merged sources are renamed, never deleted.
func (c *MergeOrphanCommand) Execute(ctx context.Context) *application.Result {
	if err := c.Validate(); err != nil {
		return failed(domain.OperationMergeOrphan, err)
	}
	plan, err := c.engine.Surveyor.PlanMergeOrphan(c.FolderID, c.TargetPath)
	if err != nil {
		return failed(domain.OperationMergeOrphan, err)
	}
	return c.engine.Executor.Execute(ctx, plan, c.Confirmed, func() domain.ValidationResult {
		return c.engine.Validator.ValidateMergeOrphan(c.FolderID, c.TargetPath)
	})
}
