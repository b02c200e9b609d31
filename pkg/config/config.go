package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for blociq-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords, API keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	BaseURL  string `yaml:"base_url" env:"BASE_URL" env-default:""` // Auto-derived from Port if empty
	Version  string `yaml:"-"`                                      // Set at load time, not from config

	// CORS configuration for the Outlook add-in routes.
	// Comma-separated list of allowed origins; "*" allows any origin.
	AllowedOriginsStr string   `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-default:"*"`
	AllowedOrigins    []string `yaml:"-"`

	// AgencyID scopes this deployment. Users auto-created from the
	// X-User-Email header are attached to this agency.
	AgencyID string `yaml:"agency_id" env:"BLOCIQ_AGENCY_ID"`

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// AI provider configuration
	AI AIConfig `yaml:"ai"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"blociq"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"blociq_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MigrationsPath string `yaml:"migrations_path" env:"PGMIGRATIONS_PATH" env-default:"./migrations"`
}

// AIConfig holds LLM provider configuration.
// Provider selects the chat backend: "openai" (default) or "anthropic".
type AIConfig struct {
	Provider string `yaml:"provider" env:"AI_PROVIDER" env-default:"openai"`
	BaseURL  string `yaml:"base_url" env:"AI_BASE_URL" env-default:"https://api.openai.com/v1"`
	Model    string `yaml:"model" env:"BLOCIQ_MODEL" env-default:"gpt-4o"`
	APIKey   string `yaml:"-" env:"OPENAI_API_KEY"` // Secret - not in YAML
	// AnthropicAPIKey is used only when Provider is "anthropic".
	AnthropicAPIKey string `yaml:"-" env:"ANTHROPIC_API_KEY"` // Secret - not in YAML
	// MaxRetries bounds retry-with-backoff attempts around the chat call.
	MaxRetries  int     `yaml:"max_retries" env:"AI_MAX_RETRIES" env-default:"3"`
	Temperature float64 `yaml:"temperature" env:"AI_TEMPERATURE" env-default:"0.2"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	cfg.AllowedOrigins = parseOrigins(cfg.AllowedOriginsStr)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Auto-derive BaseURL from Port if not explicitly set
	if cfg.BaseURL == "" {
		cfg.BaseURL = (&url.URL{
			Scheme: "http",
			Host:   "localhost:" + cfg.Port,
		}).String()
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.AI.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("unknown ai provider %q (expected openai or anthropic)", c.AI.Provider)
	}
	if c.AI.Model == "" {
		return fmt.Errorf("ai model must be set (BLOCIQ_MODEL)")
	}
	if c.AgencyID == "" {
		return fmt.Errorf("agency id must be set (BLOCIQ_AGENCY_ID)")
	}
	if _, err := uuid.Parse(c.AgencyID); err != nil {
		return fmt.Errorf("agency id is not a valid UUID: %w", err)
	}
	return nil
}

// parseOrigins splits the allowed-origins string into trimmed entries.
func parseOrigins(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
