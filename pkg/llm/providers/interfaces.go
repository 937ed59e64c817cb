// pkg/llm/providers/interfaces.go
package providers

import (
	"context"
	"time"
)

// Message представляет сообщение в диалоге (универсальный формат)
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse представляет ответ от LLM (универсальный формат)
type ChatResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Provider интерфейс для LLM провайдеров
type Provider interface {
	// GetName возвращает имя провайдера
	GetName() string

	// ChatCompletion выполняет запрос без стриминга
	ChatCompletion(ctx context.Context, messages []Message) (*ChatResponse, error)

	// GetSupportedModels возвращает список поддерживаемых моделей
	GetSupportedModels() []string

	// ValidateConfig проверяет корректность конфигурации
	ValidateConfig() error

	// Close освобождает ресурсы SDK клиента
	Close() error
}

// Config общая конфигурация для всех провайдеров
type Config struct {
	Provider    string        `mapstructure:"provider"` // "gemini", "openrouter", "openai", "anthropic"
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
}

// ProviderFactory создает провайдеров
type ProviderFactory interface {
	CreateProvider(config Config) (Provider, error)
	GetSupportedProviders() []string
}

const (
	defaultTimeout     = 60 * time.Second
	defaultTemperature = 0.7
	defaultMaxTokens   = 1024
)

func withDefaults(config Config) Config {
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}
	if config.Temperature == 0 {
		config.Temperature = defaultTemperature
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = defaultMaxTokens
	}
	return config
}
