package chat

import (
	"context"

	"StockChat/internal/storage/models"
)

// ChatService определяет интерфейс для работы с чатами
type ChatService interface {
	CreateSession(ctx context.Context) (*models.ChatSession, error)
	GetSession(ctx context.Context, sessionID string) (*models.ChatSession, error)
	ProcessMessage(ctx context.Context, req ProcessMessageRequest) (*ProcessMessageResponse, error)
	GetHistory(ctx context.Context, sessionID string, limit int) ([]models.Message, error)
	DeleteSession(ctx context.Context, sessionID string) error
	Stats() MetricsSnapshot
}

// Verify interface implementation
var _ ChatService = (*Service)(nil)
