package interfaces

import (
	"context"
	"errors"

	"StockChat/internal/storage/models"
)

// ErrSessionNotFound is returned for any operation on an unknown or expired session.
var ErrSessionNotFound = errors.New("session not found")

type SessionStore interface {
	CreateSession(ctx context.Context) (*models.ChatSession, error)
	GetSession(ctx context.Context, sessionID string) (*models.ChatSession, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

type MessageStore interface {
	// AppendMessage adds msg to the end of the session history.
	AppendMessage(ctx context.Context, sessionID string, msg models.Message) error
	// GetHistory returns the session history in arrival order.
	GetHistory(ctx context.Context, sessionID string) ([]models.Message, error)
}

// ConversationStore combines both interfaces for convenience
type ConversationStore interface {
	SessionStore
	MessageStore
}
