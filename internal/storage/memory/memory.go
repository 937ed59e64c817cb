package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"StockChat/internal/storage/interfaces"
	"StockChat/internal/storage/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Config struct {
	// SessionTTL is the idle time after which a session is dropped. Zero disables expiry.
	SessionTTL time.Duration
	// MaxSessions bounds the registry. Zero means unbounded.
	MaxSessions int
}

func DefaultConfig() Config {
	return Config{
		SessionTTL:  24 * time.Hour,
		MaxSessions: 10000,
	}
}

type sessionEntry struct {
	session  models.ChatSession
	messages []models.Message
	lastSeen time.Time
}

// MemoryStorage is a process-local session registry. History lives only as
// long as the process and the session TTL.
type MemoryStorage struct {
	sessions map[string]*sessionEntry // sessionID -> session
	config   Config
	now      func() time.Time
	logger   *zap.Logger
	mu       sync.RWMutex
}

func New(config Config, logger *zap.Logger) *MemoryStorage {
	return &MemoryStorage{
		sessions: make(map[string]*sessionEntry),
		config:   config,
		now:      time.Now,
		logger:   logger.With(zap.String("component", "memory_storage")),
	}
}

// SessionStore implementation
func (m *MemoryStorage) CreateSession(ctx context.Context) (*models.ChatSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if m.config.MaxSessions > 0 && len(m.sessions) >= m.config.MaxSessions {
		m.purgeExpiredLocked(now)
		if len(m.sessions) >= m.config.MaxSessions {
			m.evictOldestLocked()
		}
	}

	id := uuid.New().String()
	if _, exists := m.sessions[id]; exists {
		return nil, fmt.Errorf("session %s already exists", id)
	}

	entry := &sessionEntry{
		session: models.ChatSession{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		lastSeen: now,
	}
	m.sessions[id] = entry

	session := entry.session
	return &session, nil
}

func (m *MemoryStorage) GetSession(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.lookupLocked(sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrSessionNotFound, sessionID)
	}

	session := entry.session
	return &session, nil
}

func (m *MemoryStorage) DeleteSession(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.lookupLocked(sessionID); !ok {
		return fmt.Errorf("%w: %s", interfaces.ErrSessionNotFound, sessionID)
	}

	delete(m.sessions, sessionID)
	return nil
}

// MessageStore implementation
func (m *MemoryStorage) AppendMessage(ctx context.Context, sessionID string, msg models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.lookupLocked(sessionID)
	if !ok {
		return fmt.Errorf("%w: %s", interfaces.ErrSessionNotFound, sessionID)
	}

	now := m.now()
	msg.SessionID = sessionID
	entry.messages = append(entry.messages, msg)
	entry.session.MessageCount++
	entry.session.UpdatedAt = now
	entry.lastSeen = now

	return nil
}

func (m *MemoryStorage) GetHistory(ctx context.Context, sessionID string) ([]models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.lookupLocked(sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrSessionNotFound, sessionID)
	}
	entry.lastSeen = m.now()

	history := make([]models.Message, len(entry.messages))
	copy(history, entry.messages)
	return history, nil
}

// Len reports the number of live sessions, expired ones included until the next sweep.
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions)
}

// RunJanitor removes expired sessions every interval until ctx is done.
func (m *MemoryStorage) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 || m.config.SessionTTL <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := m.PurgeExpired(); removed > 0 {
				m.logger.Info("Expired sessions removed", zap.Int("removed", removed))
			}
		}
	}
}

// PurgeExpired drops every session idle for longer than the TTL.
func (m *MemoryStorage) PurgeExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.purgeExpiredLocked(m.now())
}

func (m *MemoryStorage) lookupLocked(sessionID string) (*sessionEntry, bool) {
	entry, exists := m.sessions[sessionID]
	if !exists || m.expired(entry, m.now()) {
		return nil, false
	}
	return entry, true
}

func (m *MemoryStorage) expired(entry *sessionEntry, now time.Time) bool {
	return m.config.SessionTTL > 0 && now.Sub(entry.lastSeen) > m.config.SessionTTL
}

func (m *MemoryStorage) purgeExpiredLocked(now time.Time) int {
	removed := 0
	for id, entry := range m.sessions {
		if m.expired(entry, now) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

func (m *MemoryStorage) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, entry := range m.sessions {
		if oldestID == "" || entry.lastSeen.Before(oldest) {
			oldestID = id
			oldest = entry.lastSeen
		}
	}
	if oldestID == "" {
		return
	}

	delete(m.sessions, oldestID)
	m.logger.Warn("Session limit reached, evicted least recently active session",
		zap.String("session_id", oldestID),
		zap.Int("max_sessions", m.config.MaxSessions),
	)
}

// Verify interfaces implementation
var _ interfaces.SessionStore = (*MemoryStorage)(nil)
var _ interfaces.MessageStore = (*MemoryStorage)(nil)
