package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/protolens/protolens/pkg/diagnostics"
	"github.com/protolens/protolens/pkg/observability"
)

// DefaultFileName is the workspace configuration file looked up relative to
// the workspace root when no explicit path is given.
const DefaultFileName = "protolens.yaml"

// Config holds all application configuration
type Config struct {
	// Workspace configuration
	Workspace WorkspaceConfig `yaml:"workspace"`

	// Diagnostics rule enablement and severity overrides
	Diagnostics diagnostics.Config `yaml:"diagnostics"`

	// Renumbering configuration
	Renumber RenumberConfig `yaml:"renumber"`

	// Breaking-change baseline store configuration
	Breaking BreakingConfig `yaml:"breaking"`

	// Watcher configuration
	Watcher WatcherConfig `yaml:"watcher"`

	// Observability configuration
	Observability ObservabilityConfig `yaml:"observability"`
}

// WorkspaceConfig holds file discovery configuration
type WorkspaceConfig struct {
	// Roots are the directories scanned for proto files.
	Roots []string `yaml:"roots"`

	// IncludePaths are extra directories consulted during import resolution,
	// in addition to paths derived from the workspace itself.
	IncludePaths []string `yaml:"include_paths"`

	// ExcludeGlobs are doublestar patterns for files to skip during scans.
	ExcludeGlobs []string `yaml:"exclude"`
}

// RenumberConfig holds field renumbering configuration
type RenumberConfig struct {
	Start     int `yaml:"start"`
	Increment int `yaml:"increment"`
}

// BreakingConfig holds baseline store configuration
type BreakingConfig struct {
	BaselineMaxEntries int      `yaml:"baseline_max_entries"`
	BaselineTTL        Duration `yaml:"baseline_ttl"`
}

// WatcherConfig holds filesystem watcher configuration
type WatcherConfig struct {
	// Debounce is how long the watcher coalesces bursts of change events
	// before triggering a rescan.
	Debounce Duration `yaml:"debounce"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel       string `yaml:"log_level"`
	MetricsEnabled bool   `yaml:"metrics"`
}

// ParsedLogLevel converts the configured log level string to a LogLevel.
func (o ObservabilityConfig) ParsedLogLevel() observability.LogLevel {
	return observability.ParseLogLevel(o.LogLevel)
}

// Duration wraps time.Duration so YAML values like "500ms" parse directly.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// DefaultConfig returns the configuration used when no file or environment
// overrides are present.
func DefaultConfig() *Config {
	return &Config{
		Workspace: WorkspaceConfig{
			Roots: []string{"."},
		},
		Diagnostics: *diagnostics.DefaultConfig(),
		Renumber: RenumberConfig{
			Start:     1,
			Increment: 1,
		},
		Breaking: BreakingConfig{
			BaselineMaxEntries: 1024,
			BaselineTTL:        Duration(4 * time.Hour),
		},
		Watcher: WatcherConfig{
			Debounce: Duration(250 * time.Millisecond),
		},
		Observability: ObservabilityConfig{
			LogLevel:       "info",
			MetricsEnabled: true,
		},
	}
}

// LoadConfig loads configuration from an optional YAML file and environment
// variables. Environment variables take precedence over the file. An empty
// path means "use protolens.yaml if present"; a missing explicit path is an
// error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// Optional default file, fall through to env-only config.
	default:
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// applyEnv overlays environment variables on top of the loaded config
func (c *Config) applyEnv() {
	if roots := getEnvList("PROTOLENS_WORKSPACE_ROOTS"); len(roots) > 0 {
		c.Workspace.Roots = roots
	}
	if paths := getEnvList("PROTOLENS_INCLUDE_PATHS"); len(paths) > 0 {
		c.Workspace.IncludePaths = paths
	}
	if globs := getEnvList("PROTOLENS_EXCLUDE"); len(globs) > 0 {
		c.Workspace.ExcludeGlobs = globs
	}

	c.Renumber.Start = getEnvInt("PROTOLENS_RENUMBER_START", c.Renumber.Start)
	c.Renumber.Increment = getEnvInt("PROTOLENS_RENUMBER_INCREMENT", c.Renumber.Increment)

	c.Breaking.BaselineMaxEntries = getEnvInt("PROTOLENS_BASELINE_MAX_ENTRIES", c.Breaking.BaselineMaxEntries)
	if ttl := getEnvDuration("PROTOLENS_BASELINE_TTL", 0); ttl > 0 {
		c.Breaking.BaselineTTL = Duration(ttl)
	}

	if debounce := getEnvDuration("PROTOLENS_WATCH_DEBOUNCE", 0); debounce > 0 {
		c.Watcher.Debounce = Duration(debounce)
	}

	if level := getEnv("PROTOLENS_LOG_LEVEL", ""); level != "" {
		c.Observability.LogLevel = level
	}
	if metrics := getEnv("PROTOLENS_METRICS_ENABLED", ""); metrics != "" {
		c.Observability.MetricsEnabled = strings.ToLower(metrics) == "true" || metrics == "1"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if len(c.Workspace.Roots) == 0 {
		return fmt.Errorf("at least one workspace root is required")
	}
	for _, root := range c.Workspace.Roots {
		if root == "" {
			return fmt.Errorf("workspace roots must not be empty strings")
		}
	}

	if c.Renumber.Start < 0 {
		return fmt.Errorf("renumber start must not be negative")
	}
	if c.Renumber.Increment < 1 {
		return fmt.Errorf("renumber increment must be at least 1")
	}

	if c.Breaking.BaselineMaxEntries < 1 {
		return fmt.Errorf("baseline max entries must be at least 1")
	}
	if c.Breaking.BaselineTTL <= 0 {
		return fmt.Errorf("baseline TTL must be positive")
	}

	if c.Watcher.Debounce <= 0 {
		return fmt.Errorf("watcher debounce must be positive")
	}

	for rule, severity := range c.Diagnostics.Severities {
		switch severity {
		case diagnostics.SeverityError, diagnostics.SeverityWarning,
			diagnostics.SeverityInfo, diagnostics.SeverityHint:
		default:
			return fmt.Errorf("invalid severity %q for rule %q", severity, rule)
		}
	}

	return nil
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvList returns a comma-separated environment variable as a slice
func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
