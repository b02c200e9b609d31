package llm

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/blociq/blociq-engine/pkg/config"
)

// NewFromConfig builds the chat client for the configured provider.
// The returned value is the LLMClient interface so callers can inject
// mocks in tests.
func NewFromConfig(cfg *config.AIConfig, logger *zap.Logger) (LLMClient, error) {
	switch cfg.Provider {
	case "anthropic":
		return NewAnthropicClient(cfg.AnthropicAPIKey, cfg.Model, logger)
	case "openai", "":
		return NewClient(&Config{
			Endpoint: cfg.BaseURL,
			Model:    cfg.Model,
			APIKey:   cfg.APIKey,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}
