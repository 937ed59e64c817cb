package llm

import "errors"

var (
	ErrEmptyMessages = errors.New("messages cannot be empty")
	ErrEmptyResponse = errors.New("model returned no content")
	// ErrAIService wraps every failure of the underlying model provider.
	ErrAIService = errors.New("AI service error")
)
