package config

import (
	"time"

	"projectkeeper/internal/domain"
	"projectkeeper/internal/logging"
)

// Config holds every tunable of the engine
type Config struct {
	Paths   PathsConfig    `koanf:"paths"`
	Lock    LockConfig     `koanf:"lock"`
	Rewrite RewriteConfig  `koanf:"rewrite"`
	Journal JournalConfig  `koanf:"journal"`
	Log     logging.Config `koanf:"log"`
}

// PathsConfig locates the storage layout
type PathsConfig struct {
	ClaudeDir string `koanf:"claude_dir" validate:"required"`
	MemoryDir string `koanf:"memory_dir" validate:"required"`
}

// LockConfig tunes the cross-process lock.
// StaleAge is only consulted when the owner's liveness cannot be determined.
type LockConfig struct {
	Timeout         time.Duration `koanf:"timeout" validate:"gt=0"`
	PollInterval    time.Duration `koanf:"poll_interval" validate:"gt=0,ltefield=Timeout"`
	StaleAge        time.Duration `koanf:"stale_age" validate:"gt=0"`
	MaxStaleRetries int           `koanf:"max_stale_retries" validate:"gte=1,lte=100"`
}

// RewriteConfig tunes history rewriting. Files at or above StreamThreshold
// bytes are rewritten line by line instead of in memory.
type RewriteConfig struct {
	StreamThreshold int64 `koanf:"stream_threshold" validate:"gt=0"`
}

// JournalConfig controls the operation journal
type JournalConfig struct {
	Disabled bool   `koanf:"disabled"`
	Path     string `koanf:"path" validate:"required_unless=Disabled true"`
}

// Layout returns the storage layout for these paths
func (c *Config) Layout() domain.Layout {
	return domain.NewLayout(c.Paths.ClaudeDir, c.Paths.MemoryDir)
}
