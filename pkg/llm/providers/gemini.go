// pkg/llm/providers/gemini.go
package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

type GeminiProvider struct {
	cfg    Config
	client *genai.Client
	logger *zap.Logger
}

func NewGeminiProvider(config Config, logger *zap.Logger) (Provider, error) {
	config = withDefaults(config)

	provider := &GeminiProvider{
		cfg:    config,
		logger: logger.With(zap.String("provider", ProviderGemini)),
	}

	if err := provider.ValidateConfig(); err != nil {
		return nil, err
	}

	opts := []option.ClientOption{option.WithAPIKey(config.APIKey)}
	if strings.TrimSpace(config.BaseURL) != "" {
		opts = append(opts, option.WithEndpoint(config.BaseURL))
	}

	client, err := genai.NewClient(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	provider.client = client

	return provider, nil
}

func (p *GeminiProvider) GetName() string {
	return ProviderGemini
}

func (p *GeminiProvider) ValidateConfig() error {
	if strings.TrimSpace(p.cfg.APIKey) == "" {
		return fmt.Errorf("API key is required for Gemini")
	}
	if strings.TrimSpace(p.cfg.Model) == "" {
		return fmt.Errorf("model is required for Gemini")
	}
	return nil
}

func (p *GeminiProvider) GetSupportedModels() []string {
	return []string{
		"gemini-2.0-flash",
		"gemini-1.5-pro",
		"gemini-1.5-flash",
	}
}

func (p *GeminiProvider) ChatCompletion(ctx context.Context, messages []Message) (*ChatResponse, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("no messages provided")
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	model := p.client.GenerativeModel(p.cfg.Model)
	model.SetTemperature(float32(p.cfg.Temperature))
	model.SetMaxOutputTokens(int32(p.cfg.MaxTokens))

	// Системные сообщения уходят в SystemInstruction, остальное в историю чата
	var system []genai.Part
	var history []*genai.Content
	for _, msg := range messages {
		switch msg.Role {
		case "system":
			system = append(system, genai.Text(msg.Content))
		case "assistant":
			history = append(history, &genai.Content{Role: "model", Parts: []genai.Part{genai.Text(msg.Content)}})
		default:
			history = append(history, &genai.Content{Role: "user", Parts: []genai.Part{genai.Text(msg.Content)}})
		}
	}
	if len(system) > 0 {
		model.SystemInstruction = &genai.Content{Parts: system}
	}
	if len(history) == 0 {
		return nil, fmt.Errorf("no user message provided")
	}

	last := history[len(history)-1]
	session := model.StartChat()
	session.History = history[:len(history)-1]

	p.logger.Debug("Sending Gemini request",
		zap.String("model", p.cfg.Model),
		zap.Int("messages_count", len(messages)),
	)

	resp, err := session.SendMessage(ctx, last.Parts...)
	if err != nil {
		return nil, fmt.Errorf("gemini API error: %w", err)
	}

	return p.convertResponse(resp), nil
}

func (p *GeminiProvider) convertResponse(resp *genai.GenerateContentResponse) *ChatResponse {
	choices := make([]Choice, 0, len(resp.Candidates))

	for _, candidate := range resp.Candidates {
		var text strings.Builder
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}

		choices = append(choices, Choice{
			Index: int(candidate.Index),
			Message: Message{
				Role:    "assistant",
				Content: text.String(),
			},
			FinishReason: candidate.FinishReason.String(),
		})
	}

	out := &ChatResponse{
		ID:      fmt.Sprintf("gemini-%d", time.Now().UnixNano()),
		Model:   p.cfg.Model,
		Choices: choices,
	}
	if resp.UsageMetadata != nil {
		out.Usage = Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}
	return out
}

func (p *GeminiProvider) Close() error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}
