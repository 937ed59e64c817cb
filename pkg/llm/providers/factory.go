package providers

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
)

type Factory struct {
	logger *zap.Logger
}

func NewFactory(logger *zap.Logger) ProviderFactory {
	return &Factory{
		logger: logger,
	}
}

func (f *Factory) CreateProvider(config Config) (Provider, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case ProviderGemini:
		return NewGeminiProvider(config, f.logger)
	case ProviderOpenRouter:
		if config.BaseURL == "" {
			config.BaseURL = DefaultOpenRouterBaseURL
		}
		return NewOpenRouterProvider(config, f.logger)
	case ProviderOpenAI:
		if config.BaseURL == "" {
			config.BaseURL = DefaultOpenAIBaseURL
		}
		return NewOpenRouterProvider(config, f.logger)
	case ProviderAnthropic:
		return NewAnthropicProvider(config, f.logger)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", config.Provider)
	}
}

func (f *Factory) GetSupportedProviders() []string {
	return SupportedProviders()
}

// SupportedProviders lists every provider name CreateProvider accepts.
func SupportedProviders() []string {
	return []string{ProviderGemini, ProviderOpenRouter, ProviderOpenAI, ProviderAnthropic}
}
