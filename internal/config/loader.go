package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/fyrsmithlabs/taskd/internal/assignment"
	"github.com/fyrsmithlabs/taskd/internal/roster"
)

const maxConfigFileSize = 1024 * 1024 // 1MB

const envPrefix = "TASKD_"

// Load reads configuration from a YAML file, then overrides with
// environment variables.
//
// Precedence (highest to lowest):
//  1. Environment variables (TASKD_SERVER_PORT, TASKD_ENGINE_MATCH_MODE, ...)
//  2. YAML config file
//  3. Defaults
//
// An empty configPath falls back to ~/.config/taskd/config.yaml; a
// missing file is not an error. Existing files must not be readable by
// group or others and may not exceed 1MB.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(home, ".config", "taskd", "config.yaml")
	}

	if _, err := os.Stat(configPath); err == nil {
		// Open once and validate through the descriptor to avoid a
		// TOCTOU race between stat and read.
		f, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
		if err := validateConfigFileProperties(info); err != nil {
			return nil, fmt.Errorf("config file validation failed: %w", err)
		}

		content, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Environment variables are uppercased with underscore separators:
	// TASKD_SERVER_PORT -> server.port, TASKD_ENGINE_MATCH_MODE ->
	// engine.match_mode. The first underscore after the prefix splits
	// section from field; later underscores stay in the field name.
	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
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

func envTransform(s string) string {
	lower := toLowerSnake(s[len(envPrefix):])
	for i := 0; i < len(lower); i++ {
		if lower[i] == '_' {
			return lower[:i] + "." + lower[i+1:]
		}
	}
	return lower
}

func toLowerSnake(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

// EnsureConfigDir creates ~/.config/taskd with owner-only permissions.
func EnsureConfigDir() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	dir := filepath.Join(home, ".config", "taskd")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", dir, err)
	}
	return nil
}

func validateConfigFileProperties(info os.FileInfo) error {
	// Windows has a different permission model.
	if runtime.GOOS != "windows" {
		perm := info.Mode().Perm()
		if perm&0077 != 0 {
			return fmt.Errorf("insecure config file permissions: %v (expected 0600 or 0400)", perm)
		}
	}
	if info.Size() > maxConfigFileSize {
		return fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Store.Path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Store.Path = filepath.Join(home, ".local", "share", "taskd")
		} else {
			cfg.Store.Path = "taskd-data"
		}
	}

	if cfg.Engine.MatchMode == "" {
		cfg.Engine.MatchMode = string(assignment.MatchExactName)
	}
	if cfg.Engine.ScoringMode == "" {
		cfg.Engine.ScoringMode = string(assignment.ScoreWeightedContinuous)
	}
	if cfg.Engine.WorkloadMode == "" {
		cfg.Engine.WorkloadMode = string(roster.WorkloadIntegerCount)
	}
	if cfg.Engine.Capacity == 0 {
		cfg.Engine.Capacity = roster.DefaultCapacity
	}
	if cfg.Engine.UrgencyWindowDays == 0 {
		cfg.Engine.UrgencyWindowDays = 2
	}

	if cfg.Advisory.MaxTokens == 0 {
		cfg.Advisory.MaxTokens = 512
	}
	if cfg.Advisory.TimeoutSeconds == 0 {
		cfg.Advisory.TimeoutSeconds = 30
	}
	if cfg.Advisory.RateLimit == 0 {
		cfg.Advisory.RateLimit = 2
	}

	if cfg.Transcribe.TimeoutSeconds == 0 {
		cfg.Transcribe.TimeoutSeconds = 120
	}
	if cfg.Transcribe.MaxRetries == 0 {
		cfg.Transcribe.MaxRetries = 3
	}
	if cfg.Transcribe.RateLimit == 0 {
		cfg.Transcribe.RateLimit = 1
	}

	if cfg.Segment.Mode == "" {
		cfg.Segment.Mode = "sentence"
	}
}
