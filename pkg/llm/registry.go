package llm

import (
	"strings"

	"StockChat/pkg/llm/providers"

	"go.uber.org/zap"
)

type ProviderInfo struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	DefaultModel    string   `json:"default_model"`
	SupportedModels []string `json:"supported_models"`
	RequiredConfig  []string `json:"required_config"`
}

// Registry реестр доступных провайдеров
type Registry struct {
	factory providers.ProviderFactory
	logger  *zap.Logger
}

// NewRegistry создает новый реестр провайдеров
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		factory: providers.NewFactory(logger),
		logger:  logger,
	}
}

// GetAvailableProviders возвращает список доступных провайдеров с их описанием
func (r *Registry) GetAvailableProviders() []ProviderInfo {
	names := r.factory.GetSupportedProviders()
	infos := make([]ProviderInfo, 0, len(names))

	for _, name := range names {
		infos = append(infos, r.GetProviderInfo(name))
	}

	return infos
}

// DefaultModel returns the model used when llm.model is not configured.
func DefaultModel(provider string) string {
	switch strings.ToLower(provider) {
	case providers.ProviderOpenRouter:
		return "google/gemma-3-27b-it:free"
	case providers.ProviderOpenAI:
		return "gpt-4o-mini"
	case providers.ProviderAnthropic:
		return "claude-haiku-4-5"
	default:
		return "gemini-2.0-flash"
	}
}

func (r *Registry) GetProviderInfo(provider string) ProviderInfo {
	name := strings.ToLower(provider)
	info := ProviderInfo{
		Name:           name,
		DefaultModel:   DefaultModel(name),
		RequiredConfig: []string{"api_key", "model"},
	}

	switch name {
	case providers.ProviderGemini:
		info.Description = "Google Gemini models through the Generative AI SDK"
		info.SupportedModels = []string{"gemini-2.0-flash", "gemini-1.5-pro", "gemini-1.5-flash"}
	case providers.ProviderOpenRouter:
		info.Description = "OpenRouter provides access to multiple LLM providers through a unified API"
		info.SupportedModels = []string{
			"google/gemma-3-27b-it:free",
			"anthropic/claude-sonnet-4",
			"openai/gpt-4o",
			"meta/llama-3.1-8b-instruct:free",
		}
	case providers.ProviderOpenAI:
		info.Description = "OpenAI chat completion models"
		info.SupportedModels = []string{"gpt-4o-mini", "gpt-4o"}
	case providers.ProviderAnthropic:
		info.Description = "Anthropic Claude models"
		info.SupportedModels = []string{"claude-haiku-4-5", "claude-sonnet-4-5"}
	default:
		info.Description = "Unknown provider"
		info.SupportedModels = []string{}
	}

	return info
}
