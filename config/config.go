package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the full server configuration: YAML file under environment
// variable overrides (STRIDE_SERVER_ADDR -> server.addr).
type Config struct {
	Server ServerConfig `koanf:"server"`
	Model  ModelConfig  `koanf:"model"`
	Agent  AgentConfig  `koanf:"agent"`
	Log    LogConfig    `koanf:"log"`
}

type ServerConfig struct {
	Addr string `koanf:"addr"`
}

type ModelConfig struct {
	Provider string `koanf:"provider"` // openai, anthropic, mock
	Name     string `koanf:"name"`
	APIKey   string `koanf:"api_key"`
	BaseURL  string `koanf:"base_url"`
}

type AgentConfig struct {
	MaxSteps         int    `koanf:"max_steps"`
	PlanningInterval int    `koanf:"planning_interval"`
	StreamOutputs    bool   `koanf:"stream_outputs"`
	TemplatesPath    string `koanf:"templates_path"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

const envPrefix = "STRIDE_"

// Load builds the configuration from defaults, an optional YAML file and
// STRIDE_ prefixed environment variables, in that order of precedence
// (later wins).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	k.Set("server.addr", ":8080")
	k.Set("model.provider", "openai")
	k.Set("model.name", "gpt-4o-mini")
	k.Set("agent.max_steps", 6)
	k.Set("agent.planning_interval", 1)
	k.Set("agent.stream_outputs", true)
	k.Set("log.level", "info")
	k.Set("log.format", "text")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, envPrefix)), "_", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("load env config: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the agent constructor would refuse anyway, so
// a misconfigured server fails at startup rather than on first request.
func (c *Config) Validate() error {
	if c.Agent.MaxSteps < 1 {
		return fmt.Errorf("config: agent.max_steps must be >= 1, got %d", c.Agent.MaxSteps)
	}
	if c.Agent.PlanningInterval < 1 {
		return fmt.Errorf("config: agent.planning_interval must be >= 1, got %d", c.Agent.PlanningInterval)
	}
	switch c.Model.Provider {
	case "openai", "anthropic", "mock":
	default:
		return fmt.Errorf("config: unknown model provider %q", c.Model.Provider)
	}
	return nil
}
