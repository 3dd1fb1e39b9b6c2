package llm

import (
	"fmt"

	"pathlight-utils/internal/config"
	"pathlight-utils/internal/llm/providers"
)

// Factory creates AI provider instances
type Factory struct {
	config *config.Config
}

// NewFactory creates a new provider factory instance
func NewFactory(cfg *config.Config) *Factory {
	return &Factory{
		config: cfg,
	}
}

// CreateProvider creates an AI provider based on the configuration
func (f *Factory) CreateProvider() (Provider, error) {
	switch f.config.LLM.Provider {
	case "claude":
		return providers.NewClaudeProvider(f.config), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", f.config.LLM.Provider)
	}
}

// GetSupportedProviders returns a list of supported AI providers
func (f *Factory) GetSupportedProviders() []string {
	return []string{"claude"}
}
