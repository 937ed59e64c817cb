package chat

import (
	"context"
	"fmt"
	"time"

	"StockChat/internal/storage/interfaces"
	"StockChat/internal/storage/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	sessionStore interfaces.SessionStore
	messageStore interfaces.MessageStore
	resolver     *Resolver
	locks        *sessionLocks
	metrics      *SimpleMetrics
	logger       *zap.Logger
}

func NewService(
	sessionStore interfaces.SessionStore,
	messageStore interfaces.MessageStore,
	resolver *Resolver,
	logger *zap.Logger,
) *Service {
	return &Service{
		sessionStore: sessionStore,
		messageStore: messageStore,
		resolver:     resolver,
		locks:        newSessionLocks(),
		metrics:      NewSimpleMetrics(),
		logger:       logger.With(zap.String("component", "chat_service")),
	}
}

type ProcessMessageRequest struct {
	SessionID string
	Message   string
}

type ProcessMessageResponse struct {
	MessageID      string
	SessionID      string
	Intent         Intent
	Outcome        Outcome
	ProcessingTime time.Duration
}

func (s *Service) CreateSession(ctx context.Context) (*models.ChatSession, error) {
	session, err := s.sessionStore.CreateSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("Session created", zap.String("session_id", session.ID))
	return session, nil
}

func (s *Service) GetSession(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	return s.sessionStore.GetSession(ctx, sessionID)
}

// ProcessMessage runs one turn: the message is resolved against the history
// that existed before it, then the user and system turns are appended
// together. Turns on the same session never interleave.
func (s *Service) ProcessMessage(ctx context.Context, req ProcessMessageRequest) (*ProcessMessageResponse, error) {
	startTime := time.Now()

	if err := ValidateProcessMessageRequest(req); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(req.SessionID)
	defer unlock()

	history, err := s.messageStore.GetHistory(ctx, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	intent := Classify(req.Message)

	s.logger.Info("Processing message",
		zap.String("session_id", req.SessionID),
		zap.String("intent", string(intent)),
		zap.Int("message_length", len(req.Message)),
		zap.Int("history_length", len(history)),
	)

	outcome := s.resolver.ResolveIntent(ctx, intent, req.Message, history)

	userMessage := models.Message{
		ID:        uuid.New().String(),
		Role:      models.RoleUser,
		Content:   req.Message,
		Timestamp: time.Now(),
		Metadata:  models.Metadata{Intent: string(intent)},
	}
	if err := s.messageStore.AppendMessage(ctx, req.SessionID, userMessage); err != nil {
		return nil, fmt.Errorf("failed to save user message: %w", err)
	}

	processingTime := time.Since(startTime)

	systemMessage := outcome.Message()
	systemMessage.ID = uuid.New().String()
	systemMessage.Timestamp = time.Now()
	systemMessage.Metadata = models.Metadata{
		Intent:         string(intent),
		ProcessingTime: processingTime,
	}
	if err := s.messageStore.AppendMessage(ctx, req.SessionID, systemMessage); err != nil {
		return nil, fmt.Errorf("failed to save system message: %w", err)
	}

	s.recordMetrics(intent, outcome.Type, processingTime)

	return &ProcessMessageResponse{
		MessageID:      systemMessage.ID,
		SessionID:      req.SessionID,
		Intent:         intent,
		Outcome:        outcome,
		ProcessingTime: processingTime,
	}, nil
}

// GetHistory returns the last limit messages of the session; limit <= 0 means all.
func (s *Service) GetHistory(ctx context.Context, sessionID string, limit int) ([]models.Message, error) {
	messages, err := s.messageStore.GetHistory(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}

	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	return messages, nil
}

func (s *Service) DeleteSession(ctx context.Context, sessionID string) error {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	if err := s.sessionStore.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	s.logger.Info("Session deleted", zap.String("session_id", sessionID))
	return nil
}

func (s *Service) Stats() MetricsSnapshot {
	return s.metrics.Snapshot()
}
