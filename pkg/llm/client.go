package llm

import (
	"context"
	"fmt"
	"strings"

	"StockChat/pkg/llm/providers"

	"go.uber.org/zap"
)

// Client обертка над провайдерами
type Client struct {
	provider providers.Provider
	logger   *zap.Logger
}

// Message совместимый тип (переиспользуем из providers)
type Message = providers.Message

// ChatResponse совместимый тип
type ChatResponse = providers.ChatResponse

// Choice совместимый тип
type Choice = providers.Choice

// Usage совместимый тип
type Usage = providers.Usage

// NewClientWithProvider создает клиент с готовым провайдером
func NewClientWithProvider(provider providers.Provider, logger *zap.Logger) *Client {
	return &Client{
		provider: provider,
		logger:   logger,
	}
}

// ChatCompletion выполняет запрос к LLM (делегирует провайдеру)
func (c *Client) ChatCompletion(ctx context.Context, messages []Message) (*ChatResponse, error) {
	if len(messages) == 0 {
		return nil, ErrEmptyMessages
	}

	c.logger.Debug("Executing chat completion",
		zap.String("provider", c.provider.GetName()),
		zap.Int("messages_count", len(messages)),
	)

	return c.provider.ChatCompletion(ctx, messages)
}

// ExplainStock asks the model for an investor-oriented reading of data.
// The call is made once; failures are wrapped in ErrAIService.
func (c *Client) ExplainStock(ctx context.Context, data string) (string, error) {
	resp, err := c.ChatCompletion(ctx, []Message{
		{Role: "user", Content: buildStockPrompt(data)},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAIService, err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%w: %w", ErrAIService, ErrEmptyResponse)
	}

	c.logger.Debug("Stock explanation generated",
		zap.String("provider", c.provider.GetName()),
		zap.String("model", resp.Model),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)

	return resp.Choices[0].Message.Content, nil
}

// GetProviderName возвращает имя используемого провайдера
func (c *Client) GetProviderName() string {
	return c.provider.GetName()
}

// GetSupportedModels возвращает список поддерживаемых моделей текущего провайдера
func (c *Client) GetSupportedModels() []string {
	return c.provider.GetSupportedModels()
}

// Close закрывает провайдера
func (c *Client) Close() error {
	return c.provider.Close()
}

// ValidateProvider проверяет, поддерживается ли провайдер
func ValidateProvider(providerName string) error {
	for _, p := range providers.SupportedProviders() {
		if strings.EqualFold(p, providerName) {
			return nil
		}
	}
	return fmt.Errorf("unsupported provider '%s'", providerName)
}
