package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"StockChat/internal/storage/interfaces"
	"StockChat/internal/storage/memory"
	"StockChat/internal/storage/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestService(t *testing.T) (*Service, *resolverFixture) {
	t.Helper()

	f := newResolverFixture()
	storage := memory.New(memory.DefaultConfig(), zap.NewNop())
	return NewService(storage, storage, f.resolver, zap.NewNop()), f
}

func TestServiceProcessMessage(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	session, err := service.CreateSession(ctx)
	require.NoError(t, err)

	resp, err := service.ProcessMessage(ctx, ProcessMessageRequest{
		SessionID: session.ID,
		Message:   "Tell me about Apple",
	})
	require.NoError(t, err)

	assert.Equal(t, session.ID, resp.SessionID)
	assert.Equal(t, IntentCompanyInfo, resp.Intent)
	assert.Equal(t, OutcomeCompanyOptions, resp.Outcome.Type)
	assert.NotEmpty(t, resp.MessageID)

	history, err := service.GetHistory(ctx, session.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)

	assert.Equal(t, models.RoleUser, history[0].Role)
	assert.Equal(t, "Tell me about Apple", history[0].Content)
	assert.Equal(t, string(IntentCompanyInfo), history[0].Metadata.Intent)

	assert.Equal(t, models.RoleSystem, history[1].Role)
	assert.Equal(t, resp.MessageID, history[1].ID)
	assert.Equal(t, "company_options", history[1].Type)
	assert.Equal(t, "Apple", history[1].Content)
	assert.Len(t, history[1].Options, 3)

	stored, err := service.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.MessageCount)
}

func TestServiceUsesPriorHistory(t *testing.T) {
	service, f := newTestService(t)
	ctx := context.Background()

	session, err := service.CreateSession(ctx)
	require.NoError(t, err)

	_, err = service.ProcessMessage(ctx, ProcessMessageRequest{SessionID: session.ID, Message: "pick one"})
	require.NoError(t, err)

	_, err = service.ProcessMessage(ctx, ProcessMessageRequest{SessionID: session.ID, Message: "Tell me about Apple"})
	require.NoError(t, err)

	resp, err := service.ProcessMessage(ctx, ProcessMessageRequest{SessionID: session.ID, Message: "pick one"})
	require.NoError(t, err)
	assert.Equal(t, TextOutcome(msgPickFromOptions), resp.Outcome)

	resp, err = service.ProcessMessage(ctx, ProcessMessageRequest{SessionID: session.ID, Message: "select AAPL"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeStockAnalysis, resp.Outcome.Type)
	assert.Equal(t, []string{"AAPL"}, f.market.symbols)

	history, err := service.GetHistory(ctx, session.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 8)
	assert.Equal(t, msgNeedSymbol, history[1].Content)
	assert.Equal(t, "stock_analysis", history[7].Type)
	assert.Equal(t, "AAPL", history[7].Symbol)
	assert.NotNil(t, history[7].Data)
}

func TestServiceCollaboratorFailureIsStillATurn(t *testing.T) {
	service, f := newTestService(t)
	f.market.err = errors.New("HTTP 500")
	ctx := context.Background()

	session, err := service.CreateSession(ctx)
	require.NoError(t, err)

	resp, err := service.ProcessMessage(ctx, ProcessMessageRequest{SessionID: session.ID, Message: "analyze IBM"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeText, resp.Outcome.Type)
	assert.Contains(t, resp.Outcome.Content, "IBM")

	history, err := service.GetHistory(ctx, session.ID, 0)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestServiceUnknownSession(t *testing.T) {
	service, f := newTestService(t)
	ctx := context.Background()

	_, err := service.ProcessMessage(ctx, ProcessMessageRequest{SessionID: "missing", Message: "Tell me about Apple"})
	assert.ErrorIs(t, err, interfaces.ErrSessionNotFound)
	assert.Empty(t, f.search.queries)

	_, err = service.GetHistory(ctx, "missing", 0)
	assert.ErrorIs(t, err, interfaces.ErrSessionNotFound)

	err = service.DeleteSession(ctx, "missing")
	assert.ErrorIs(t, err, interfaces.ErrSessionNotFound)
}

func TestServiceValidation(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  ProcessMessageRequest
		want error
	}{
		{"empty session", ProcessMessageRequest{Message: "hi"}, ErrEmptySessionID},
		{"long session", ProcessMessageRequest{SessionID: strings.Repeat("x", MaxSessionIDLength+1), Message: "hi"}, ErrInvalidSessionID},
		{"blank message", ProcessMessageRequest{SessionID: "s", Message: "   "}, ErrEmptyMessage},
		{"long message", ProcessMessageRequest{SessionID: "s", Message: strings.Repeat("a", MaxMessageLength+1)}, ErrMessageTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.ProcessMessage(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsInputError(err))
		})
	}

	assert.False(t, IsInputError(interfaces.ErrSessionNotFound))
}

func TestServiceGetHistoryLimit(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	session, err := service.CreateSession(ctx)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := service.ProcessMessage(ctx, ProcessMessageRequest{SessionID: session.ID, Message: fmt.Sprintf("hello %d", i)})
		require.NoError(t, err)
	}

	history, err := service.GetHistory(ctx, session.ID, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "hello 2", history[0].Content)
	assert.Equal(t, msgHelp, history[1].Content)

	all, err := service.GetHistory(ctx, session.ID, 100)
	require.NoError(t, err)
	assert.Len(t, all, 6)
}

func TestServiceDeleteSession(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	session, err := service.CreateSession(ctx)
	require.NoError(t, err)
	require.NoError(t, service.DeleteSession(ctx, session.ID))

	_, err = service.GetSession(ctx, session.ID)
	assert.ErrorIs(t, err, interfaces.ErrSessionNotFound)
}

// slowExplainer reports how many explanations ran at the same time.
type slowExplainer struct {
	active  atomic.Int32
	maxSeen atomic.Int32
}

func (e *slowExplainer) ExplainStock(ctx context.Context, data string) (string, error) {
	n := e.active.Add(1)
	defer e.active.Add(-1)
	for {
		seen := e.maxSeen.Load()
		if n <= seen || e.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	time.Sleep(2 * time.Millisecond)
	return "ok", nil
}

func TestServiceSerializesTurnsPerSession(t *testing.T) {
	explainer := &slowExplainer{}
	storage := memory.New(memory.DefaultConfig(), zap.NewNop())
	resolver := NewResolver(NewExtractor(nil), &fakeMarket{series: makeSeries(3)}, &fakeSearch{}, explainer, DefaultResolverConfig(), zap.NewNop())
	service := NewService(storage, storage, resolver, zap.NewNop())
	ctx := context.Background()

	session, err := service.CreateSession(ctx)
	require.NoError(t, err)

	const turns = 20
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := service.ProcessMessage(ctx, ProcessMessageRequest{
				SessionID: session.ID,
				Message:   fmt.Sprintf("analyze AAPL run %d", i),
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), explainer.maxSeen.Load())

	history, err := service.GetHistory(ctx, session.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 2*turns)
	for i := 0; i < len(history); i += 2 {
		assert.Equal(t, models.RoleUser, history[i].Role)
		assert.Equal(t, models.RoleSystem, history[i+1].Role)
	}

	assert.Equal(t, 0, service.locks.len())
}

func TestServiceStats(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	session, err := service.CreateSession(ctx)
	require.NoError(t, err)

	for _, msg := range []string{"hello", "Tell me about Apple", "analyze AAPL"} {
		_, err := service.ProcessMessage(ctx, ProcessMessageRequest{SessionID: session.ID, Message: msg})
		require.NoError(t, err)
	}

	stats := service.Stats()
	assert.Equal(t, int64(3), stats.TotalTurns)
	assert.Equal(t, int64(1), stats.ByIntent[IntentGeneralQuery])
	assert.Equal(t, int64(1), stats.ByOutcome[OutcomeCompanyOptions])
	assert.Equal(t, int64(1), stats.ByOutcome[OutcomeStockAnalysis])
	assert.NotEmpty(t, stats.AverageResponseTime)
}
