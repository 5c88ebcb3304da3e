// Package config provides the YAML configuration surface of LeadMesh.
// A single file configures the server, the NLP provider, the session store,
// logging and the agents to instantiate at startup. Values support
// environment variable references in ${VAR}, ${VAR:-default} and $VAR form.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration document.
type Config struct {
	Server   ServerConfig  `yaml:"server,omitempty"`
	NLP      NLPConfig     `yaml:"nlp,omitempty"`
	Sessions SessionConfig `yaml:"sessions,omitempty"`
	Logging  LoggingConfig `yaml:"logging,omitempty"`
	Agents   []AgentConfig `yaml:"agents,omitempty"`
}

// ServerConfig configures the HTTP gateway.
type ServerConfig struct {
	Addr           string   `yaml:"addr,omitempty"`
	ReadTimeout    Duration `yaml:"read_timeout,omitempty"`
	WriteTimeout   Duration `yaml:"write_timeout,omitempty"`
	EnableMetrics  bool     `yaml:"enable_metrics,omitempty"`
	MetricsPath    string   `yaml:"metrics_path,omitempty"`
	RequestLogging bool     `yaml:"request_logging,omitempty"`
}

// NLPConfig selects and configures the language-understanding provider.
type NLPConfig struct {
	// Provider is one of "keyword", "openai" or "anthropic".
	Provider string `yaml:"provider,omitempty"`
	// Model overrides the provider's default model name.
	Model string `yaml:"model,omitempty"`
	// APIKey authenticates hosted providers. Usually set via ${OPENAI_API_KEY}
	// or ${ANTHROPIC_API_KEY} references.
	APIKey      string  `yaml:"api_key,omitempty"`
	Temperature float64 `yaml:"temperature,omitempty"`
	// CacheTTL enables the caching decorator when positive.
	CacheTTL Duration `yaml:"cache_ttl,omitempty"`
}

// SessionConfig selects and configures the session store backend.
type SessionConfig struct {
	// Backend is "memory" or "redis".
	Backend string      `yaml:"backend,omitempty"`
	TTL     Duration    `yaml:"ttl,omitempty"`
	Redis   RedisConfig `yaml:"redis,omitempty"`
}

// RedisConfig holds connection settings for the Redis session backend.
type RedisConfig struct {
	Addr     string `yaml:"addr,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn" or "error".
	Level string `yaml:"level,omitempty"`
	// Format is "json" or "text".
	Format    string `yaml:"format,omitempty"`
	AddSource bool   `yaml:"add_source,omitempty"`
}

// AgentConfig declares one agent instantiated at startup via the
// orchestrator's type registry.
type AgentConfig struct {
	Type        string         `yaml:"type"`
	Name        string         `yaml:"name,omitempty"`
	Description string         `yaml:"description,omitempty"`
	Extra       map[string]any `yaml:"extra,omitempty"`
}

// DefaultConfig returns the baseline configuration used when no file is
// provided.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills unset fields with their defaults.
func (c *Config) SetDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = Duration(15 * time.Second)
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = Duration(30 * time.Second)
	}
	if c.Server.MetricsPath == "" {
		c.Server.MetricsPath = "/metrics"
	}
	if c.NLP.Provider == "" {
		c.NLP.Provider = "keyword"
	}
	if c.Sessions.Backend == "" {
		c.Sessions.Backend = "memory"
	}
	if c.Sessions.TTL == 0 {
		c.Sessions.TTL = Duration(24 * time.Hour)
	}
	if c.Sessions.Redis.Addr == "" {
		c.Sessions.Redis.Addr = "localhost:6379"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	switch c.NLP.Provider {
	case "keyword", "openai", "anthropic":
	default:
		return fmt.Errorf("nlp: unknown provider %q", c.NLP.Provider)
	}
	switch c.Sessions.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("sessions: unknown backend %q", c.Sessions.Backend)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging: unknown level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging: unknown format %q", c.Logging.Format)
	}
	for i, a := range c.Agents {
		if a.Type == "" {
			return fmt.Errorf("agents[%d]: type is required", i)
		}
	}
	return nil
}

// Load reads a configuration file, expands environment variable references,
// applies defaults and validates the result. Call LoadEnvFiles beforehand to
// make .env values available for expansion.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes configuration from raw YAML bytes.
func Parse(data []byte) (*Config, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	expanded, err := yaml.Marshal(ExpandEnvVarsInData(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(expanded, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
