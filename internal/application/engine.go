package application

import (
	"go.uber.org/zap"

	"projectkeeper/internal/domain"
	"projectkeeper/internal/ports"
)

// Engine bundles the services every surface (CLI, MCP, TUI) drives
type Engine struct {
	Layout    domain.Layout
	Storage   ports.Storage
	Vault     ports.BackupVault
	Journal   ports.Journal
	Discovery *Discovery
	Validator *Validator
	Surveyor  *Surveyor
	Executor  *Executor
}

// NewEngine wires the application services over deps
func NewEngine(layout domain.Layout, deps ExecutorDeps, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	discovery := NewDiscovery(deps.Index, deps.Storage, layout, logger.Named("discovery"))
	return &Engine{
		Layout:    layout,
		Storage:   deps.Storage,
		Vault:     deps.Vault,
		Journal:   deps.Journal,
		Discovery: discovery,
		Validator: NewValidator(deps.Storage, layout),
		Surveyor:  NewSurveyor(discovery, deps.Storage, layout),
		Executor:  NewExecutor(deps, layout, logger.Named("executor")),
	}
}

// Close releases resources held by the engine's adapters
func (e *Engine) Close() error {
	if e.Journal != nil {
		return e.Journal.Close()
	}
	return nil
}
