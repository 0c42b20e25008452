// Package config loads prox settings from YAML files and the environment.
//
// Precedence, lowest to highest:
//  1. Built-in defaults
//  2. User config (~/.config/prox/config.yaml)
//  3. Project config (./.prox.yaml)
//  4. An explicit --config file
//  5. PROX_* environment variables
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/corey/prox/internal/domain/proximity"
)

// ProjectFile is the per-directory config file name.
const ProjectFile = ".prox.yaml"

// Config is the complete prox configuration.
type Config struct {
	Search  SearchConfig  `yaml:"search" json:"search"`
	Files   FilesConfig   `yaml:"files" json:"files"`
	Watch   WatchConfig   `yaml:"watch" json:"watch"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// SearchConfig holds kernel tuning and per-query defaults.
type SearchConfig struct {
	// Gap is the default gap limit when --gap is not given.
	Gap int `yaml:"gap" json:"gap"`
	// GapMetric is "chars" or "words".
	GapMetric       string `yaml:"gap_metric" json:"gap_metric"`
	CaseInsensitive bool   `yaml:"case_insensitive" json:"case_insensitive"`

	MaxMatches int `yaml:"max_matches" json:"max_matches"`
	// MaxGap may lower, never raise, the kernel's ceiling of 1,000,000.
	MaxGap    int    `yaml:"max_gap" json:"max_gap"`
	ChunkSize int    `yaml:"chunk_size" json:"chunk_size"`
	Algorithm string `yaml:"algorithm" json:"algorithm"` // auto, naive, skip, automaton
	// Workers > 1 enables parallel linking inside one search.
	Workers        int `yaml:"workers" json:"workers"`
	MemoryBudgetMB int `yaml:"memory_budget_mb" json:"memory_budget_mb"` // 0 = unlimited
}

// FilesConfig controls multi-file searches.
type FilesConfig struct {
	Workers       int `yaml:"workers" json:"workers"`
	MaxFileSizeMB int `yaml:"max_file_size_mb" json:"max_file_size_mb"`
}

// WatchConfig controls `prox watch`.
type WatchConfig struct {
	Debounce string `yaml:"debounce" json:"debounce"`
}

// LoggingConfig mirrors logging.Config in file form.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	File   string `yaml:"file" json:"file"`
	Format string `yaml:"format" json:"format"` // json or text
}

// NewConfig returns a Config with default values.
func NewConfig() *Config {
	return &Config{
		Search: SearchConfig{
			Gap:        10,
			GapMetric:  "chars",
			MaxMatches: proximity.DefaultMaxMatches,
			MaxGap:     proximity.MaxGapLimit,
			ChunkSize:  proximity.DefaultChunkSize,
			Algorithm:  "auto",
			Workers:    1,
		},
		Files: FilesConfig{
			Workers:       runtime.NumCPU(),
			MaxFileSizeMB: 256,
		},
		Watch: WatchConfig{
			Debounce: "100ms",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// UserFile returns the per-user config path, or "" when there is no home directory.
func UserFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "prox", "config.yaml")
}

// Load builds the effective config. explicit may be empty.
func Load(explicit string) (*Config, error) {
	cfg := NewConfig()

	if user := UserFile(); user != "" {
		if err := cfg.mergeFile(user, false); err != nil {
			return nil, err
		}
	}
	if err := cfg.mergeFile(ProjectFile, false); err != nil {
		return nil, err
	}
	if explicit != "" {
		if err := cfg.mergeFile(explicit, true); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFile overlays the YAML at path onto cfg. Missing optional files are skipped.
func (c *Config) mergeFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides settings from PROX_* environment variables.
func (c *Config) applyEnv() error {
	ints := []struct {
		key string
		dst *int
	}{
		{"PROX_MAX_MATCHES", &c.Search.MaxMatches},
		{"PROX_CHUNK_SIZE", &c.Search.ChunkSize},
		{"PROX_WORKERS", &c.Search.Workers},
		{"PROX_FILE_WORKERS", &c.Files.Workers},
	}
	for _, e := range ints {
		v := os.Getenv(e.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", e.key, err)
		}
		*e.dst = n
	}
	if v := os.Getenv("PROX_ALGORITHM"); v != "" {
		c.Search.Algorithm = v
	}
	if v := os.Getenv("PROX_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return nil
}

// Validate rejects settings the kernel or CLI cannot honour.
func (c *Config) Validate() error {
	var errs []error
	if c.Search.Gap < 0 {
		errs = append(errs, fmt.Errorf("search.gap: %d is negative", c.Search.Gap))
	}
	if _, err := proximity.ParseGapMetric(c.Search.GapMetric); err != nil {
		errs = append(errs, fmt.Errorf("search.gap_metric: %w", err))
	}
	if _, err := proximity.ParseAlgorithm(c.Search.Algorithm); err != nil {
		errs = append(errs, fmt.Errorf("search.algorithm: %w", err))
	}
	if c.Search.MaxMatches <= 0 {
		errs = append(errs, fmt.Errorf("search.max_matches: must be positive, got %d", c.Search.MaxMatches))
	}
	if c.Search.MaxGap <= 0 || c.Search.MaxGap > proximity.MaxGapLimit {
		errs = append(errs, fmt.Errorf("search.max_gap: must be in 1..%d, got %d", proximity.MaxGapLimit, c.Search.MaxGap))
	}
	if c.Search.Gap > c.Search.MaxGap {
		errs = append(errs, fmt.Errorf("search.gap: %d exceeds max_gap %d", c.Search.Gap, c.Search.MaxGap))
	}
	if c.Search.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("search.chunk_size: must be positive, got %d", c.Search.ChunkSize))
	}
	if c.Search.Workers <= 0 {
		errs = append(errs, fmt.Errorf("search.workers: must be positive, got %d", c.Search.Workers))
	}
	if c.Search.MemoryBudgetMB < 0 {
		errs = append(errs, fmt.Errorf("search.memory_budget_mb: %d is negative", c.Search.MemoryBudgetMB))
	}
	if c.Files.Workers <= 0 {
		errs = append(errs, fmt.Errorf("files.workers: must be positive, got %d", c.Files.Workers))
	}
	if c.Files.MaxFileSizeMB <= 0 {
		errs = append(errs, fmt.Errorf("files.max_file_size_mb: must be positive, got %d", c.Files.MaxFileSizeMB))
	}
	if _, err := time.ParseDuration(c.Watch.Debounce); err != nil {
		errs = append(errs, fmt.Errorf("watch.debounce: %w", err))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("logging.format: want json or text, got %q", c.Logging.Format))
	}
	return errors.Join(errs...)
}

// EngineOptions translates the search section into kernel options.
// The automaton matcher factory is wired by the app layer.
func (c *Config) EngineOptions() ([]proximity.Option, error) {
	alg, err := proximity.ParseAlgorithm(c.Search.Algorithm)
	if err != nil {
		return nil, err
	}
	return []proximity.Option{
		proximity.WithMaxMatches(c.Search.MaxMatches),
		proximity.WithMaxGap(c.Search.MaxGap),
		proximity.WithChunkSize(c.Search.ChunkSize),
		proximity.WithAlgorithm(alg),
		proximity.WithWorkers(c.Search.Workers),
		proximity.WithMemoryBudget(int64(c.Search.MemoryBudgetMB) << 20),
	}, nil
}

// DebounceDuration returns the parsed watch debounce.
func (c *Config) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 0
	}
	return d
}

// MaxFileSize returns files.max_file_size_mb in bytes.
func (c *Config) MaxFileSize() int64 { return int64(c.Files.MaxFileSizeMB) << 20 }

// YAML renders the config for `prox config`.
func (c *Config) YAML() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
