package commands

import (
	"context"

	"projectkeeper/internal/application"
	"projectkeeper/internal/domain"
)

// ListProjectsCommand lists every tracked project with its health
type ListProjectsCommand struct {
	engine *application.Engine
}

// NewListProjectsCommand creates a new ListProjectsCommand
func NewListProjectsCommand(engine *application.Engine) *ListProjectsCommand {
	return &ListProjectsCommand{engine: engine}
}

// Execute runs the list projects command
func (c *ListProjectsCommand) Execute(ctx context.Context) ([]domain.ProjectStatus, error) {
	idx, err := c.engine.Discovery.LoadIndex()
	if err != nil {
		return nil, err
	}
	return c.engine.Discovery.ProjectStatuses(idx), nil
}

// FindOrphansCommand lists storage folders no tracked project owns
type FindOrphansCommand struct {
	engine *application.Engine
}

// NewFindOrphansCommand creates a new FindOrphansCommand
func NewFindOrphansCommand(engine *application.Engine) *FindOrphansCommand {
	return &FindOrphansCommand{engine: engine}
}

// Execute runs the find orphans command
func (c *FindOrphansCommand) Execute(ctx context.Context) ([]domain.OrphanInfo, error) {
	idx, err := c.engine.Discovery.LoadIndex()
	if err != nil {
		return nil, err
	}
	return c.engine.Discovery.FindOrphans(idx)
}

// FindStaleCommand lists index entries whose path no longer exists
type FindStaleCommand struct {
	engine *application.Engine
}

// NewFindStaleCommand creates a new FindStaleCommand
func NewFindStaleCommand(engine *application.Engine) *FindStaleCommand {
	return &FindStaleCommand{engine: engine}
}

// Execute runs the find stale command
func (c *FindStaleCommand) Execute(ctx context.Context) ([]domain.StaleEntry, error) {
	idx, err := c.engine.Discovery.LoadIndex()
	if err != nil {
		return nil, err
	}
	return c.engine.Discovery.FindStaleEntries(idx), nil
}
