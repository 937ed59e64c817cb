package chat

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// SimpleMetrics counts processed turns for the metrics endpoint.
type SimpleMetrics struct {
	mu sync.RWMutex

	totalTurns       int64
	byIntent         map[Intent]int64
	byOutcome        map[OutcomeType]int64
	responseTimesSum time.Duration
}

type MetricsSnapshot struct {
	TotalTurns          int64                 `json:"total_turns"`
	ByIntent            map[Intent]int64      `json:"by_intent"`
	ByOutcome           map[OutcomeType]int64 `json:"by_outcome"`
	AverageResponseTime string                `json:"average_response_time"`
}

func NewSimpleMetrics() *SimpleMetrics {
	return &SimpleMetrics{
		byIntent:  make(map[Intent]int64),
		byOutcome: make(map[OutcomeType]int64),
	}
}

func (m *SimpleMetrics) RecordTurn(intent Intent, outcome OutcomeType, responseTime time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalTurns++
	m.byIntent[intent]++
	m.byOutcome[outcome]++
	m.responseTimesSum += responseTime
}

func (m *SimpleMetrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := MetricsSnapshot{
		TotalTurns: m.totalTurns,
		ByIntent:   make(map[Intent]int64, len(m.byIntent)),
		ByOutcome:  make(map[OutcomeType]int64, len(m.byOutcome)),
	}
	for k, v := range m.byIntent {
		snapshot.ByIntent[k] = v
	}
	for k, v := range m.byOutcome {
		snapshot.ByOutcome[k] = v
	}

	var avg time.Duration
	if m.totalTurns > 0 {
		avg = m.responseTimesSum / time.Duration(m.totalTurns)
	}
	snapshot.AverageResponseTime = avg.String()

	return snapshot
}

func (s *Service) recordMetrics(intent Intent, outcome OutcomeType, responseTime time.Duration) {
	s.metrics.RecordTurn(intent, outcome, responseTime)
	s.logger.Info("Turn metrics",
		zap.String("intent", string(intent)),
		zap.String("outcome", string(outcome)),
		zap.Duration("response_time", responseTime),
	)
}
