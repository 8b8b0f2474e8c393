package commands

import (
	"context"

	"projectkeeper/internal/application"
	"projectkeeper/internal/domain"
)

// MoveProjectCommand relocates a project and all of its metadata
type MoveProjectCommand struct {
	engine    *application.Engine
	OldPath   string
	NewPath   string
	Mode      domain.MergeMode
	Confirmed bool
}

// NewMoveProjectCommand creates a new MoveProjectCommand
func NewMoveProjectCommand(engine *application.Engine, oldPath, newPath string, mode domain.MergeMode, confirmed bool) *MoveProjectCommand {
	return &MoveProjectCommand{
		engine:    engine,
		OldPath:   oldPath,
		NewPath:   newPath,
		Mode:      mode,
		Confirmed: confirmed,
	}
}

// Validate checks the arguments without touching disk
func (c *MoveProjectCommand) Validate() error {
	if err := application.ValidateAbsolutePath("oldPath", c.OldPath); err != nil {
		return err
	}
	if err := application.ValidateAbsolutePath("newPath", c.NewPath); err != nil {
		return err
	}
	if _, err := domain.ParseMergeMode(string(c.Mode)); err != nil {
		return &application.ValidationError{Field: "mode", Message: err.Error()}
	}
	return nil
}

// Plan computes the move without executing it
func (c *MoveProjectCommand) Plan(ctx context.Context) (*PlanResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	plan, err := c.engine.Surveyor.PlanMove(c.OldPath, c.NewPath, c.Mode)
	if err != nil {
		return nil, err
	}
	v := c.engine.Validator.ValidateMove(c.OldPath, c.NewPath)
	return &PlanResult{Plan: plan, Validation: &v}, nil
}

// Execute runs the move. Without confirmation nothing is touched.
func (c *MoveProjectCommand) Execute(ctx context.Context) *application.Result {
	if err := c.Validate(); err != nil {
		return failed(domain.OperationMove, err)
	}
	plan, err := c.engine.Surveyor.PlanMove(c.OldPath, c.NewPath, c.Mode)
	if err != nil {
		return failed(domain.OperationMove, err)
	}
	return c.engine.Executor.Execute(ctx, plan, c.Confirmed, func() domain.ValidationResult {
		return c.engine.Validator.ValidateMove(c.OldPath, c.NewPath)
	})
}

func failed(op domain.Operation, err error) *application.Result {
	return &application.Result{Operation: op, Message: err.Error(), Err: err}
}
