// Package config loads AgentCore configuration from defaults, an optional
// YAML file and AGENTCORE_ environment variables, in that order of
// precedence. The agent section is hot-swappable at runtime through
// Agent.UpdateConfig; the watcher in this package feeds reloads into it.
package config

import (
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment overrides. A double underscore
// separates nesting levels, e.g. AGENTCORE_AGENT__EXECUTION_INTERVAL.
const EnvPrefix = "AGENTCORE_"

// Config is the full configuration tree.
type Config struct {
	Log    LogConfig    `koanf:"log"`
	Model  ModelConfig  `koanf:"model"`
	Agent  AgentConfig  `koanf:"agent"`
	Memory MemoryConfig `koanf:"memory"`
}

// LogConfig controls the default logger.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

// ModelConfig selects and tunes the model provider.
type ModelConfig struct {
	Provider  string          `koanf:"provider"` // openai, anthropic, mock
	Name      string          `koanf:"name"`
	APIKey    string          `koanf:"api_key"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
}

// RateLimitConfig bounds outbound model calls.
type RateLimitConfig struct {
	Enabled bool    `koanf:"enabled"`
	RPS     float64 `koanf:"rps"`
	Burst   int     `koanf:"burst"`
}

// AgentConfig is the hot-swappable runtime section. Swapping it never
// requires an agent restart; the execution loop reads it every cycle.
type AgentConfig struct {
	// ExecutionInterval is the suspension between proactive cycles.
	ExecutionInterval time.Duration `koanf:"execution_interval"`

	// EnableLogging toggles per-message and per-tick logging.
	EnableLogging bool `koanf:"enable_logging"`

	// Properties carries free-form agent properties.
	Properties map[string]any `koanf:"properties"`
}

// MemoryConfig sizes the bounded message history.
type MemoryConfig struct {
	Capacity int `koanf:"capacity"`
}

// DefaultAgentConfig returns the runtime section defaults.
func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		ExecutionInterval: time.Second,
		EnableLogging:     true,
		Properties:        map[string]any{},
	}
}

// Default returns the full default configuration.
func Default() *Config {
	return &Config{
		Log:    LogConfig{Level: "info", Format: "text"},
		Model:  ModelConfig{Provider: "openai", Name: "gpt-4o-mini", RateLimit: RateLimitConfig{RPS: 1, Burst: 1}},
		Agent:  DefaultAgentConfig(),
		Memory: MemoryConfig{Capacity: 1000},
	}
}

// Load reads configuration, layering file values over defaults and
// environment variables over both. An empty path skips the file layer.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Defaults
	k.Set("log.level", "info")
	k.Set("log.format", "text")
	k.Set("model.provider", "openai")
	k.Set("model.name", "gpt-4o-mini")
	k.Set("model.rate_limit.enabled", false)
	k.Set("model.rate_limit.rps", 1.0)
	k.Set("model.rate_limit.burst", 1)
	k.Set("agent.execution_interval", "1s")
	k.Set("agent.enable_logging", true)
	k.Set("memory.capacity", 1000)

	// 1. Load from file
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// 2. Load from ENV (AGENTCORE_AGENT__EXECUTION_INTERVAL -> agent.execution_interval)
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, EnvPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	if cfg.Agent.Properties == nil {
		cfg.Agent.Properties = map[string]any{}
	}

	return &cfg, nil
}
