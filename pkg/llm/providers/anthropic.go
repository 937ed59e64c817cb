package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
)

type AnthropicProvider struct {
	cfg    Config
	client *anthropic.Client
	logger *zap.Logger
}

func NewAnthropicProvider(config Config, logger *zap.Logger) (Provider, error) {
	config = withDefaults(config)

	provider := &AnthropicProvider{
		cfg:    config,
		logger: logger.With(zap.String("provider", ProviderAnthropic)),
	}

	if err := provider.ValidateConfig(); err != nil {
		return nil, err
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: config.Timeout}),
		option.WithMaxRetries(0),
	}
	if strings.TrimSpace(config.BaseURL) != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	client := anthropic.NewClient(opts...)
	provider.client = &client

	return provider, nil
}

func (p *AnthropicProvider) GetName() string {
	return ProviderAnthropic
}

func (p *AnthropicProvider) ValidateConfig() error {
	if strings.TrimSpace(p.cfg.APIKey) == "" {
		return fmt.Errorf("API key is required for Anthropic")
	}
	if strings.TrimSpace(p.cfg.Model) == "" {
		return fmt.Errorf("model is required for Anthropic")
	}
	return nil
}

func (p *AnthropicProvider) GetSupportedModels() []string {
	return []string{
		"claude-haiku-4-5",
		"claude-sonnet-4-5",
	}
}

func (p *AnthropicProvider) ChatCompletion(ctx context.Context, messages []Message) (*ChatResponse, error) {
	var system []anthropic.TextBlockParam
	var params []anthropic.MessageParam
	for _, msg := range messages {
		switch msg.Role {
		case "system":
			system = append(system, anthropic.TextBlockParam{Text: msg.Content})
		case "assistant":
			params = append(params, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			params = append(params, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}
	if len(params) == 0 {
		return nil, fmt.Errorf("no user message provided")
	}

	p.logger.Debug("Sending Anthropic request",
		zap.String("model", p.cfg.Model),
		zap.Int("messages_count", len(messages)),
	)

	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(p.cfg.Model),
		MaxTokens:   int64(p.cfg.MaxTokens),
		System:      system,
		Messages:    params,
		Temperature: anthropic.Float(p.cfg.Temperature),
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic API error: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return &ChatResponse{
		ID:    resp.ID,
		Model: string(resp.Model),
		Choices: []Choice{{
			Index: 0,
			Message: Message{
				Role:    "assistant",
				Content: text.String(),
			},
			FinishReason: string(resp.StopReason),
		}},
		Usage: Usage{
			PromptTokens:     int(resp.Usage.InputTokens),
			CompletionTokens: int(resp.Usage.OutputTokens),
			TotalTokens:      int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
		},
	}, nil
}

func (p *AnthropicProvider) Close() error {
	return nil
}
