package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Config represents the application configuration
type Config struct {
	Backend       BackendConfig       `yaml:"backend"`
	Analysis      AnalysisConfig      `yaml:"analysis"`
	Notifications NotificationsConfig `yaml:"notifications"`
	State         StateConfig         `yaml:"state"`
}

// BackendConfig represents the remote compliance service configuration
type BackendConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// AnalysisConfig tunes the analysis run and its progress feedback
type AnalysisConfig struct {
	ProgressIntervalSeconds int      `yaml:"progress_interval_seconds"`
	Stages                  []string `yaml:"stages"`
}

// NotificationsConfig tunes the ephemeral notification queue
type NotificationsConfig struct {
	AutoDismissSeconds int `yaml:"auto_dismiss_seconds"`
}

// StateConfig locates the local state directory (company id, run log)
type StateConfig struct {
	Dir string `yaml:"dir"`
}

// DefaultStages is the fixed stage sequence shown while an analysis is in
// flight. It is cosmetic only and unrelated to actual backend progress.
var DefaultStages = []string{
	"Analyzing latest FSSAI amendments...",
	"Cross-referencing with your company profile...",
	"Evaluating product compliance requirements...",
	"Assessing labelling and packaging norms...",
	"Generating actionable compliance roadmap...",
}

// LoadConfig loads configuration from a YAML file, then layers .env and
// environment overrides on top
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()
	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Backend.TimeoutSeconds <= 0 {
		c.Backend.TimeoutSeconds = 120
	}
	if c.Analysis.ProgressIntervalSeconds <= 0 {
		c.Analysis.ProgressIntervalSeconds = 2
	}
	if len(c.Analysis.Stages) == 0 {
		c.Analysis.Stages = DefaultStages
	}
	if c.Notifications.AutoDismissSeconds <= 0 {
		c.Notifications.AutoDismissSeconds = 5
	}
	if c.State.Dir == "" {
		c.State.Dir = ".vigilo"
	}
}

func (c *Config) applyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("VIGILO_BACKEND_URL"); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv("VIGILO_STATE_DIR"); v != "" {
		c.State.Dir = v
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend base URL is required")
	}

	return nil
}
