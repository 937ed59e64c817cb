package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"StockChat/internal/service/chat"
	"StockChat/internal/storage/interfaces"
	"StockChat/internal/storage/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

type ChatHandler struct {
	chatService chat.ChatService
	logger      *zap.Logger
}

func NewChatHandler(chatService chat.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

type ChatRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

// ChatResponse is the resolved outcome plus turn bookkeeping.
type ChatResponse struct {
	chat.Outcome
	SessionID      string `json:"session_id"`
	MessageID      string `json:"message_id"`
	Intent         string `json:"intent"`
	ProcessingTime string `json:"processing_time"`
}

type CreateSessionResponse struct {
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

type HistoryResponse struct {
	SessionID string           `json:"session_id"`
	Messages  []models.Message `json:"messages"`
	Total     int              `json:"total"`
}

type SessionResponse struct {
	SessionID string              `json:"session_id"`
	Session   *models.ChatSession `json:"session"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// POST /chat/sessions - создание новой сессии
func (h *ChatHandler) CreateSession(c *gin.Context) {
	session, err := h.chatService.CreateSession(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to create session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to create session",
			Code:    "SESSION_ERROR",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, CreateSessionResponse{
		SessionID: session.ID,
		CreatedAt: session.CreatedAt,
	})
}

// POST /chat - основной эндпоинт для отправки сообщений
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request format",
			Code:    "INVALID_REQUEST",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.chatService.ProcessMessage(c.Request.Context(), chat.ProcessMessageRequest{
		SessionID: req.SessionID,
		Message:   req.Message,
	})
	if err != nil {
		h.writeServiceError(c, req.SessionID, "Failed to process message", err)
		return
	}

	h.logger.Info("Message processed successfully",
		zap.String("session_id", req.SessionID),
		zap.String("message_id", resp.MessageID),
		zap.String("outcome", string(resp.Outcome.Type)),
		zap.Duration("processing_time", resp.ProcessingTime),
	)

	c.JSON(http.StatusOK, ChatResponse{
		Outcome:        resp.Outcome,
		SessionID:      resp.SessionID,
		MessageID:      resp.MessageID,
		Intent:         string(resp.Intent),
		ProcessingTime: resp.ProcessingTime.String(),
	})
}

// GET /chat/:session_id/history - получение истории сообщений
func (h *ChatHandler) GetHistory(c *gin.Context) {
	sessionID := c.Param("session_id")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultHistoryLimit)))
	if err != nil || limit < 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	messages, err := h.chatService.GetHistory(c.Request.Context(), sessionID, limit)
	if err != nil {
		h.writeServiceError(c, sessionID, "Failed to get messages", err)
		return
	}

	c.JSON(http.StatusOK, HistoryResponse{
		SessionID: sessionID,
		Messages:  messages,
		Total:     len(messages),
	})
}

// GET /chat/:session_id - получение информации о сессии
func (h *ChatHandler) GetSession(c *gin.Context) {
	sessionID := c.Param("session_id")

	session, err := h.chatService.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		h.writeServiceError(c, sessionID, "Failed to get session", err)
		return
	}

	c.JSON(http.StatusOK, SessionResponse{
		SessionID: sessionID,
		Session:   session,
	})
}

// DELETE /chat/:session_id - удаление сессии
func (h *ChatHandler) DeleteSession(c *gin.Context) {
	sessionID := c.Param("session_id")

	if err := h.chatService.DeleteSession(c.Request.Context(), sessionID); err != nil {
		h.writeServiceError(c, sessionID, "Failed to delete session", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Session deleted successfully",
		"session_id": sessionID,
	})
}

// GET /metrics - счетчики обработанных ходов
func (h *ChatHandler) GetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.chatService.Stats())
}

func (h *ChatHandler) writeServiceError(c *gin.Context, sessionID, message string, err error) {
	switch {
	case chat.IsInputError(err):
		h.logger.Warn("Request validation failed", zap.Error(err), zap.String("session_id", sessionID))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Validation failed",
			Code:    "VALIDATION_ERROR",
			Details: err.Error(),
		})
	case errors.Is(err, interfaces.ErrSessionNotFound):
		h.logger.Warn("Session not found", zap.String("session_id", sessionID))
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "Session not found",
			Code:    "SESSION_NOT_FOUND",
			Details: sessionID,
		})
	default:
		h.logger.Error(message, zap.Error(err), zap.String("session_id", sessionID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   message,
			Code:    "PROCESSING_ERROR",
			Details: err.Error(),
		})
	}
}
