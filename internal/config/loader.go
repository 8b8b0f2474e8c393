// Package config loads projectkeeper settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"projectkeeper/internal/logging"
)

const (
	envPrefix         = "PROJECTKEEPER_"
	maxConfigFileSize = 1024 * 1024
	journalFileName   = ".projectkeeper.db"
)

var validate = validator.New()

// Load reads configuration from a YAML file, then overrides it with
// PROJECTKEEPER_* environment variables, then fills defaults.
//
// An empty configPath means DefaultConfigPath(). A missing file is not an error.
//
// Environment variables map onto keys by splitting on the first underscore
// after the prefix:
//
//	PROJECTKEEPER_LOCK_TIMEOUT        -> lock.timeout
//	PROJECTKEEPER_PATHS_CLAUDE_DIR    -> paths.claude_dir
//	PROJECTKEEPER_REWRITE_STREAM_THRESHOLD -> rewrite.stream_threshold
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath == "" {
		configPath = DefaultConfigPath()
	}
	configPath = ExpandHome(configPath)

	content, err := readConfigFile(configPath)
	if err != nil {
		return nil, err
	}
	if content != nil {
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is overridden, rooted at claudeDir
func Default(claudeDir string) *Config {
	cfg := &Config{Paths: PathsConfig{ClaudeDir: claudeDir}}
	applyDefaults(cfg)
	return cfg
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if !filepath.IsAbs(c.Paths.ClaudeDir) {
		return fmt.Errorf("paths.claude_dir must be absolute, got %q", c.Paths.ClaudeDir)
	}
	return c.Log.Validate()
}

func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	section, field, ok := strings.Cut(lower, "_")
	if !ok {
		return lower
	}
	return section + "." + field
}

func readConfigFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path %s is a directory", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Paths.ClaudeDir == "" {
		cfg.Paths.ClaudeDir = ClaudeDir()
	}
	cfg.Paths.ClaudeDir = ExpandHome(cfg.Paths.ClaudeDir)
	if cfg.Paths.MemoryDir == "" {
		cfg.Paths.MemoryDir = filepath.Join(cfg.Paths.ClaudeDir, "memory")
	}
	cfg.Paths.MemoryDir = ExpandHome(cfg.Paths.MemoryDir)

	if cfg.Lock.Timeout == 0 {
		cfg.Lock.Timeout = 30 * time.Second
	}
	if cfg.Lock.PollInterval == 0 {
		cfg.Lock.PollInterval = 100 * time.Millisecond
	}
	if cfg.Lock.StaleAge == 0 {
		cfg.Lock.StaleAge = 5 * time.Minute
	}
	if cfg.Lock.MaxStaleRetries == 0 {
		cfg.Lock.MaxStaleRetries = 3
	}

	if cfg.Rewrite.StreamThreshold == 0 {
		cfg.Rewrite.StreamThreshold = 10 * 1024 * 1024
	}

	if cfg.Journal.Path == "" {
		cfg.Journal.Path = filepath.Join(cfg.Paths.MemoryDir, journalFileName)
	}
	cfg.Journal.Path = ExpandHome(cfg.Journal.Path)

	if cfg.Log.Level == "" {
		cfg.Log.Level = logging.DefaultLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = logging.FormatConsole
	}
}

// OverrideClaudeDir points the config at another storage root. Paths that
// were derived from the previous root follow it; explicitly configured ones
// are kept.
func (c *Config) OverrideClaudeDir(dir string) {
	dir = ExpandHome(dir)
	oldMemory := filepath.Join(c.Paths.ClaudeDir, "memory")
	oldJournal := filepath.Join(c.Paths.MemoryDir, journalFileName)

	c.Paths.ClaudeDir = dir
	if c.Paths.MemoryDir == oldMemory {
		c.Paths.MemoryDir = filepath.Join(dir, "memory")
	}
	if c.Journal.Path == oldJournal {
		c.Journal.Path = filepath.Join(c.Paths.MemoryDir, journalFileName)
	}
}
