package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
	"go.uber.org/zap"
)

const (
	DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	DefaultOpenAIBaseURL     = "https://api.openai.com/v1"
)

// OpenRouterProvider talks to any OpenAI-compatible chat completions API.
// It serves both the openrouter and openai provider names.
type OpenRouterProvider struct {
	cfg    Config
	client *openai.Client
	logger *zap.Logger
}

func NewOpenRouterProvider(config Config, logger *zap.Logger) (Provider, error) {
	config = withDefaults(config)

	name := strings.ToLower(config.Provider)
	if name == "" {
		name = ProviderOpenRouter
	}
	config.Provider = name

	provider := &OpenRouterProvider{
		cfg:    config,
		logger: logger.With(zap.String("provider", name)),
	}

	if err := provider.ValidateConfig(); err != nil {
		return nil, err
	}

	oaClient := openai.NewClient(
		option.WithBaseURL(config.BaseURL),
		option.WithAPIKey(config.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: config.Timeout}),
		option.WithMaxRetries(0),
	)
	provider.client = &oaClient

	return provider, nil
}

func (p *OpenRouterProvider) GetName() string {
	return p.cfg.Provider
}

func (p *OpenRouterProvider) ValidateConfig() error {
	if p.cfg.BaseURL == "" {
		return fmt.Errorf("base URL is required for %s", p.cfg.Provider)
	}
	if p.cfg.APIKey == "" {
		return fmt.Errorf("API key is required for %s", p.cfg.Provider)
	}
	if p.cfg.Model == "" {
		return fmt.Errorf("model is required for %s", p.cfg.Provider)
	}
	return nil
}

func (p *OpenRouterProvider) GetSupportedModels() []string {
	if p.cfg.Provider == ProviderOpenAI {
		return []string{
			"gpt-4o-mini",
			"gpt-4o",
		}
	}
	return []string{
		"google/gemma-3-27b-it:free",
		"anthropic/claude-sonnet-4",
		"openai/gpt-4o",
		"meta/llama-3.1-8b-instruct:free",
	}
}

func (p *OpenRouterProvider) ChatCompletion(ctx context.Context, messages []Message) (*ChatResponse, error) {
	oaMessages := make([]openai.ChatCompletionMessageParamUnion, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case "system":
			oaMessages[i] = openai.SystemMessage(msg.Content)
		case "assistant":
			oaMessages[i] = openai.AssistantMessage(msg.Content)
		default:
			oaMessages[i] = openai.UserMessage(msg.Content)
		}
	}

	p.logger.Debug("Sending chat completion request",
		zap.String("model", p.cfg.Model),
		zap.Int("messages_count", len(messages)),
	)

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(p.cfg.Model),
		Messages:    oaMessages,
		MaxTokens:   openai.Int(int64(p.cfg.MaxTokens)),
		Temperature: openai.Float(p.cfg.Temperature),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get completion: %w", err)
	}

	return p.convertResponse(resp), nil
}

func (p *OpenRouterProvider) convertResponse(resp *openai.ChatCompletion) *ChatResponse {
	choices := make([]Choice, len(resp.Choices))
	for i, choice := range resp.Choices {
		choices[i] = Choice{
			Index: int(choice.Index),
			Message: Message{
				Role:    "assistant",
				Content: choice.Message.Content,
			},
			FinishReason: choice.FinishReason,
		}
	}

	return &ChatResponse{
		ID:      resp.ID,
		Model:   resp.Model,
		Choices: choices,
		Usage: Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}
}

func (p *OpenRouterProvider) Close() error {
	return nil
}
