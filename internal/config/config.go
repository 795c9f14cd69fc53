// Package config loads mapforge configuration from mapforge.yaml, overlaying
// file values onto built-in defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mapforge/mapforge/internal/llm"
	"github.com/mapforge/mapforge/internal/refine"
)

// AgentConfig configures one agent's provider and model.
type AgentConfig struct {
	Provider string `yaml:"provider"` // anthropic, openai, or script
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url,omitempty"`
}

// LoopConfig holds the refinement loop settings in the config file.
type LoopConfig struct {
	MaxIterations   int     `yaml:"max_iterations"`
	ActorTemp       float64 `yaml:"actor_temperature"`
	CriticTemp      float64 `yaml:"critic_temperature"`
	ActorMaxTokens  int     `yaml:"actor_max_tokens"`
	CriticMaxTokens int     `yaml:"critic_max_tokens"`
	TurnRetries     int     `yaml:"turn_retries"`
	ActorTimeout    string  `yaml:"actor_timeout"`  // Duration string like "2m"
	CriticTimeout   string  `yaml:"critic_timeout"` // Duration string like "90s"
}

// RetryConfig holds the provider retry settings in the config file.
type RetryConfig struct {
	MaxRetries         int `yaml:"max_retries"`
	MaxConcurrentCalls int `yaml:"max_concurrent_calls"`
	RequestsPerMinute  int `yaml:"requests_per_minute"`
}

// Config is the full mapforge configuration.
type Config struct {
	Actor  AgentConfig `yaml:"actor"`
	Critic AgentConfig `yaml:"critic"`
	Loop   LoopConfig  `yaml:"loop"`
	Retry  RetryConfig `yaml:"retry"`

	// CatalogPath points at a YAML tool catalogue. Empty means the
	// built-in default catalogue.
	CatalogPath string `yaml:"catalog,omitempty"`

	// DatabasePath is where run history is stored.
	DatabasePath string `yaml:"database"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	loop := refine.DefaultConfig()
	return &Config{
		Actor:  AgentConfig{Provider: llm.ProviderAnthropic, Model: "claude-sonnet-4-5"},
		Critic: AgentConfig{Provider: llm.ProviderAnthropic, Model: "claude-sonnet-4-5"},
		Loop: LoopConfig{
			MaxIterations:   3,
			ActorTemp:       loop.ActorTemperature,
			CriticTemp:      loop.CriticTemperature,
			ActorMaxTokens:  loop.ActorMaxTokens,
			CriticMaxTokens: loop.CriticMaxTokens,
			TurnRetries:     loop.TurnRetries,
			ActorTimeout:    "2m",
			CriticTimeout:   "2m",
		},
		Retry: RetryConfig{
			MaxRetries:         3,
			MaxConcurrentCalls: 3,
		},
		DatabasePath: ".mapforge/runs.db",
		LogLevel:     "info",
	}
}

// Load reads a config file and overlays it onto the defaults. A missing file
// is not an error; the defaults are returned unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Loop.MaxIterations < 0 {
		return fmt.Errorf("loop.max_iterations must not be negative")
	}
	if c.Loop.ActorTemp < 0 || c.Loop.ActorTemp > 1 {
		return fmt.Errorf("loop.actor_temperature must be in [0, 1]")
	}
	if c.Loop.CriticTemp < 0 || c.Loop.CriticTemp > 1 {
		return fmt.Errorf("loop.critic_temperature must be in [0, 1]")
	}
	if _, err := c.parseTimeout(c.Loop.ActorTimeout); err != nil {
		return fmt.Errorf("loop.actor_timeout: %w", err)
	}
	if _, err := c.parseTimeout(c.Loop.CriticTimeout); err != nil {
		return fmt.Errorf("loop.critic_timeout: %w", err)
	}
	return nil
}

func (c *Config) parseTimeout(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

// RefineConfig converts the file representation into the engine's Config.
func (c *Config) RefineConfig() (refine.Config, error) {
	actorTimeout, err := c.parseTimeout(c.Loop.ActorTimeout)
	if err != nil {
		return refine.Config{}, fmt.Errorf("loop.actor_timeout: %w", err)
	}
	criticTimeout, err := c.parseTimeout(c.Loop.CriticTimeout)
	if err != nil {
		return refine.Config{}, fmt.Errorf("loop.critic_timeout: %w", err)
	}
	return refine.Config{
		ActorTemperature:  c.Loop.ActorTemp,
		CriticTemperature: c.Loop.CriticTemp,
		ActorMaxTokens:    c.Loop.ActorMaxTokens,
		CriticMaxTokens:   c.Loop.CriticMaxTokens,
		TurnRetries:       c.Loop.TurnRetries,
		ActorTimeout:      actorTimeout,
		CriticTimeout:     criticTimeout,
	}, nil
}

// RetryOptions converts the file representation into the llm retry config.
func (c *Config) RetryOptions() llm.RetryConfig {
	rc := llm.DefaultRetryConfig()
	if c.Retry.MaxRetries > 0 {
		rc.MaxRetries = c.Retry.MaxRetries
	}
	rc.MaxConcurrentCalls = c.Retry.MaxConcurrentCalls
	rc.RequestsPerMinute = c.Retry.RequestsPerMinute
	return rc
}
