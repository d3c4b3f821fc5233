// Package config loads pipeline tuning parameters from a YAML file with
// environment-variable overrides. A .env file in the working directory is
// honored if present, so local setups can override limits without exporting
// variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment override variables. Each, when set, takes precedence over the
// corresponding YAML field.
const (
	EnvMaxTokens        = "ATTENTION_MAX_TOKENS"
	EnvMaxMemoryEntries = "ATTENTION_MAX_MEMORY_ENTRIES"
	EnvMaxHistoryTurns  = "ATTENTION_MAX_HISTORY_TURNS"
	EnvCharsPerToken    = "ATTENTION_CHARS_PER_TOKEN"
)

// Config holds the tuning parameters for one enhancer instance.
type Config struct {
	// MaxTokens is the context budget enforced by the budget stage.
	MaxTokens int `yaml:"max_tokens"`

	// MaxMemoryEntries caps how many memory entries the retrieval stage
	// injects per run.
	MaxMemoryEntries int `yaml:"max_memory_entries"`

	// MaxHistoryTurns caps the synthetic conversation history length.
	MaxHistoryTurns int `yaml:"max_history_turns"`

	// CharsPerToken is the heuristic estimator's character-to-token ratio.
	CharsPerToken int `yaml:"chars_per_token"`

	// WorkflowChangeCapability is the capability name the workflow
	// injection stage tells the agent to invoke to request a change to its
	// own workflow.
	WorkflowChangeCapability string `yaml:"workflow_change_capability"`
}

// Default returns the configuration used when no file or overrides are
// present.
func Default() *Config {
	return &Config{
		MaxTokens:                32000,
		MaxMemoryEntries:         8,
		MaxHistoryTurns:          12,
		CharsPerToken:            4,
		WorkflowChangeCapability: "request_workflow_change",
	}
}

// Load reads configuration from the given YAML file, then applies
// environment overrides. A missing file is not an error: defaults plus
// overrides are returned. An unparseable file is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("config: read %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	// Best effort: a missing .env file is the normal case.
	_ = godotenv.Load()

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideInt(EnvMaxTokens, &cfg.MaxTokens)
	overrideInt(EnvMaxMemoryEntries, &cfg.MaxMemoryEntries)
	overrideInt(EnvMaxHistoryTurns, &cfg.MaxHistoryTurns)
	overrideInt(EnvCharsPerToken, &cfg.CharsPerToken)
}

func overrideInt(name string, dst *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	if n, err := strconv.Atoi(v); err == nil {
		*dst = n
	}
}

// Validate checks that every limit is usable.
func (c *Config) Validate() error {
	if c.MaxTokens <= 0 {
		return fmt.Errorf("config: max_tokens must be positive, got %d", c.MaxTokens)
	}
	if c.MaxMemoryEntries <= 0 {
		return fmt.Errorf("config: max_memory_entries must be positive, got %d", c.MaxMemoryEntries)
	}
	if c.MaxHistoryTurns <= 0 {
		return fmt.Errorf("config: max_history_turns must be positive, got %d", c.MaxHistoryTurns)
	}
	if c.CharsPerToken <= 0 {
		return fmt.Errorf("config: chars_per_token must be positive, got %d", c.CharsPerToken)
	}
	if c.WorkflowChangeCapability == "" {
		return fmt.Errorf("config: workflow_change_capability must not be empty")
	}
	return nil
}
