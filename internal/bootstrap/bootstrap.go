// Package bootstrap wires configuration, logging and adapters into an
// application.Engine for the cmd binaries.
package bootstrap

import (
	"fmt"

	"go.uber.org/zap"

	"projectkeeper/internal/adapters/filesystem"
	"projectkeeper/internal/adapters/lock"
	"projectkeeper/internal/adapters/sqlite"
	"projectkeeper/internal/application"
	"projectkeeper/internal/config"
	"projectkeeper/internal/logging"
	"projectkeeper/internal/ports"
)

// Options are the overrides a binary collects from its flags
type Options struct {
	ConfigPath string
	ClaudeDir  string
	LogLevel   string
}

// Runtime is what a binary needs once started
type Runtime struct {
	Config *config.Config
	Logger *zap.Logger
	Engine *application.Engine
}

// Start loads configuration, builds the logger and wires the engine
func Start(opts Options) (*Runtime, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.ClaudeDir != "" {
		cfg.OverrideClaudeDir(opts.ClaudeDir)
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return &Runtime{
		Config: cfg,
		Logger: logger,
		Engine: NewEngine(cfg, logger),
	}, nil
}

// NewEngine builds the adapters described by cfg. A journal that cannot be
// opened is logged and skipped.
func NewEngine(cfg *config.Config, logger *zap.Logger) *application.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	layout := cfg.Layout()

	deps := application.ExecutorDeps{
		Index:   filesystem.NewIndexStore(layout.IndexFile()),
		Storage: filesystem.NewStorage(layout, cfg.Rewrite.StreamThreshold, logger.Named("storage")),
		Merger:  filesystem.NewCatalogMerger(logger.Named("merger")),
		Vault:   filesystem.NewVault(layout, logger.Named("vault")),
		Locker: lock.New(layout.LockPath(), lock.Options{
			Timeout:         cfg.Lock.Timeout,
			PollInterval:    cfg.Lock.PollInterval,
			StaleAge:        cfg.Lock.StaleAge,
			MaxStaleRetries: cfg.Lock.MaxStaleRetries,
		}, logger.Named("lock")),
		Journal: openJournal(cfg.Journal, logger),
	}

	return application.NewEngine(layout, deps, logger)
}

// openJournal returns a nil interface, not a typed nil, when there is no journal
func openJournal(cfg config.JournalConfig, logger *zap.Logger) ports.Journal {
	if cfg.Disabled {
		return nil
	}
	journal, err := sqlite.Open(cfg.Path)
	if err != nil {
		logger.Warn("operation journal unavailable", zap.String("path", cfg.Path), zap.Error(err))
		return nil
	}
	return journal
}

// Close releases the engine and flushes the logger
func (r *Runtime) Close() {
	if err := r.Engine.Close(); err != nil {
		r.Logger.Warn("failed to close engine", zap.Error(err))
	}
	_ = r.Logger.Sync()
}
