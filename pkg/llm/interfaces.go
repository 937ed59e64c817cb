package llm

import (
	"context"
)

// LLMClient интерфейс для работы с LLM API
type LLMClient interface {
	ChatCompletion(ctx context.Context, messages []Message) (*ChatResponse, error)
}

// StockExplainer turns a formatted price series into prose.
type StockExplainer interface {
	ExplainStock(ctx context.Context, data string) (string, error)
}

// Verify interface implementation
var _ LLMClient = (*Client)(nil)
var _ StockExplainer = (*Client)(nil)
