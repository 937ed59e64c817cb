package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"StockChat/internal/storage/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeMarket struct {
	mu      sync.Mutex
	series  *models.StockSeries
	err     error
	symbols []string
}

func (f *fakeMarket) FetchDailySeries(ctx context.Context, symbol string) (*models.StockSeries, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.symbols = append(f.symbols, symbol)
	if f.err != nil {
		return nil, f.err
	}
	return f.series, nil
}

type fakeSearch struct {
	mu      sync.Mutex
	matches []models.CompanyMatch
	err     error
	queries []string
}

func (f *fakeSearch) SearchCompanies(ctx context.Context, query string) ([]models.CompanyMatch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.matches, nil
}

type fakeExplainer struct {
	mu     sync.Mutex
	reply  string
	err    error
	inputs []string
}

func (f *fakeExplainer) ExplainStock(ctx context.Context, data string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, data)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func makeSeries(days int) *models.StockSeries {
	series := &models.StockSeries{
		MetaData:   map[string]string{"2. Symbol": "AAPL"},
		TimeSeries: make(map[string]models.DailyBar, days),
	}
	for i := 1; i <= days; i++ {
		series.TimeSeries[fmt.Sprintf("2024-01-%02d", i)] = models.DailyBar{
			Open:   "100.0",
			High:   "110.0",
			Low:    "90.0",
			Close:  fmt.Sprintf("%d.0", 100+i),
			Volume: "1000",
		}
	}
	return series
}

func makeMatches(n int) []models.CompanyMatch {
	matches := make([]models.CompanyMatch, n)
	for i := range matches {
		matches[i] = models.CompanyMatch{
			Symbol: fmt.Sprintf("AP%c", 'A'+i),
			Name:   fmt.Sprintf("Apple %d", i),
		}
	}
	return matches
}

type resolverFixture struct {
	market    *fakeMarket
	search    *fakeSearch
	explainer *fakeExplainer
	resolver  *Resolver
}

func newResolverFixture() *resolverFixture {
	f := &resolverFixture{
		market:    &fakeMarket{series: makeSeries(10)},
		search:    &fakeSearch{matches: makeMatches(3)},
		explainer: &fakeExplainer{reply: "Apple stock rose steadily."},
	}
	f.resolver = NewResolver(NewExtractor(nil), f.market, f.search, f.explainer, DefaultResolverConfig(), zap.NewNop())
	return f
}

func TestResolveCompanyInfo(t *testing.T) {
	f := newResolverFixture()

	outcome := f.resolver.Resolve(context.Background(), "Tell me about Apple", nil)

	assert.Equal(t, OutcomeCompanyOptions, outcome.Type)
	assert.Equal(t, "Apple", outcome.Query)
	assert.Len(t, outcome.Options, 3)
	assert.Equal(t, []string{"Apple"}, f.search.queries)
	assert.Empty(t, f.market.symbols)
}

func TestResolveCompanyInfoTruncatesOptions(t *testing.T) {
	f := newResolverFixture()
	f.search.matches = makeMatches(12)

	outcome := f.resolver.Resolve(context.Background(), "Tell me about Apple", nil)

	require.Equal(t, OutcomeCompanyOptions, outcome.Type)
	assert.Equal(t, makeMatches(12)[:5], outcome.Options)
}

func TestResolveCompanyInfoNoMatches(t *testing.T) {
	f := newResolverFixture()
	f.search.matches = nil

	outcome := f.resolver.Resolve(context.Background(), "Tell me about Zzyzx", nil)

	assert.Equal(t, OutcomeText, outcome.Type)
	assert.Equal(t, "I couldn't find any company matching 'Zzyzx'. Could you try with a different name?", outcome.Content)
}

func TestResolveCompanyInfoSearchError(t *testing.T) {
	f := newResolverFixture()
	f.search.err = errors.New("connection refused")

	outcome := f.resolver.Resolve(context.Background(), "Tell me about Apple", nil)

	assert.Equal(t, OutcomeText, outcome.Type)
	assert.Contains(t, outcome.Content, "Apple")
	assert.Contains(t, outcome.Content, "connection refused")
}

func TestResolveCompanyInfoWithoutName(t *testing.T) {
	f := newResolverFixture()

	outcome := f.resolver.Resolve(context.Background(), "information on", nil)

	assert.Equal(t, TextOutcome(msgNeedCompany), outcome)
	assert.Empty(t, f.search.queries)
}

func TestResolveStockAnalysis(t *testing.T) {
	f := newResolverFixture()

	outcome := f.resolver.Resolve(context.Background(), "analyze AAPL", nil)

	require.Equal(t, OutcomeStockAnalysis, outcome.Type)
	assert.Equal(t, "AAPL", outcome.Symbol)
	assert.Equal(t, "Apple stock rose steadily.", outcome.Explanation)
	assert.Same(t, f.market.series, outcome.Data)

	require.Len(t, f.explainer.inputs, 1)
	var input struct {
		Symbol     string                     `json:"symbol"`
		RecentData map[string]models.DailyBar `json:"recent_data"`
	}
	require.NoError(t, json.Unmarshal([]byte(f.explainer.inputs[0]), &input))
	assert.Equal(t, "AAPL", input.Symbol)
	assert.Len(t, input.RecentData, 7)
	assert.Contains(t, input.RecentData, "2024-01-10")
	assert.Contains(t, input.RecentData, "2024-01-04")
	assert.NotContains(t, input.RecentData, "2024-01-03")
	assert.Contains(t, f.explainer.inputs[0], "\n  \"symbol\": \"AAPL\"")
}

func TestResolveStockAnalysisShortSeries(t *testing.T) {
	f := newResolverFixture()
	f.market.series = makeSeries(3)

	outcome := f.resolver.Resolve(context.Background(), "How is MSFT doing", nil)

	require.Equal(t, OutcomeStockAnalysis, outcome.Type)
	var input struct {
		RecentData map[string]models.DailyBar `json:"recent_data"`
	}
	require.NoError(t, json.Unmarshal([]byte(f.explainer.inputs[0]), &input))
	assert.Len(t, input.RecentData, 3)
}

func TestResolveStockAnalysisFallsBackToCompanySearch(t *testing.T) {
	f := newResolverFixture()
	f.resolver = NewResolver(
		NewExtractor(NewGazetteerRecognizer([]string{"Tesla"})),
		f.market, f.search, f.explainer, DefaultResolverConfig(), zap.NewNop(),
	)

	outcome := f.resolver.Resolve(context.Background(), "how is tesla doing", nil)

	assert.Equal(t, OutcomeCompanyOptions, outcome.Type)
	assert.Equal(t, "tesla", outcome.Query)
	assert.Empty(t, f.market.symbols)
}

func TestResolveStockAnalysisWithoutTarget(t *testing.T) {
	f := newResolverFixture()

	outcome := f.resolver.Resolve(context.Background(), "give me some analysis", nil)

	assert.Equal(t, TextOutcome(msgNeedStock), outcome)
}

func TestResolveStockAnalysisCollaboratorErrors(t *testing.T) {
	t.Run("market data", func(t *testing.T) {
		f := newResolverFixture()
		f.market.err = errors.New("HTTP 503")

		outcome := f.resolver.Resolve(context.Background(), "analyze AAPL", nil)

		assert.Equal(t, OutcomeText, outcome.Type)
		assert.Equal(t, "I had trouble retrieving data for AAPL. Error: HTTP 503", outcome.Content)
		assert.Empty(t, f.explainer.inputs)
	})

	t.Run("explainer", func(t *testing.T) {
		f := newResolverFixture()
		f.explainer.err = errors.New("quota exceeded")

		outcome := f.resolver.Resolve(context.Background(), "analyze AAPL", nil)

		assert.Equal(t, OutcomeText, outcome.Type)
		assert.Contains(t, outcome.Content, "AAPL")
		assert.Contains(t, outcome.Content, "quota exceeded")
		assert.Len(t, f.explainer.inputs, 1)
	})
}

func TestResolveSelectStock(t *testing.T) {
	f := newResolverFixture()

	outcome := f.resolver.Resolve(context.Background(), "select AAPL", nil)

	assert.Equal(t, OutcomeStockAnalysis, outcome.Type)
	assert.Equal(t, []string{"AAPL"}, f.market.symbols)
}

func TestResolveSelectStockWithoutSymbol(t *testing.T) {
	f := newResolverFixture()

	t.Run("no pending options", func(t *testing.T) {
		outcome := f.resolver.Resolve(context.Background(), "pick the second one", nil)
		assert.Equal(t, TextOutcome(msgNeedSymbol), outcome)
	})

	t.Run("pending options", func(t *testing.T) {
		history := []models.Message{
			{Role: models.RoleUser, Content: "Tell me about Apple"},
			CompanyOptionsOutcome("Apple", makeMatches(2)).Message(),
		}
		outcome := f.resolver.Resolve(context.Background(), "pick the second one", history)
		assert.Equal(t, TextOutcome(msgPickFromOptions), outcome)
	})

	assert.Empty(t, f.market.symbols)
}

func TestResolveGeneralQuery(t *testing.T) {
	f := newResolverFixture()

	outcome := f.resolver.Resolve(context.Background(), "hello", nil)

	assert.Equal(t, TextOutcome(msgHelp), outcome)
	assert.Empty(t, f.search.queries)
	assert.Empty(t, f.market.symbols)
}

func TestOutcomeMessage(t *testing.T) {
	options := CompanyOptionsOutcome("Apple", makeMatches(2)).Message()
	assert.Equal(t, models.RoleSystem, options.Role)
	assert.Equal(t, "company_options", options.Type)
	assert.Equal(t, "Apple", options.Content)
	assert.Len(t, options.Options, 2)

	series := makeSeries(1)
	analysis := StockAnalysisOutcome("AAPL", series, "fine").Message()
	assert.Equal(t, "stock_analysis", analysis.Type)
	assert.Equal(t, "fine", analysis.Content)
	assert.Equal(t, "AAPL", analysis.Symbol)
	assert.Same(t, series, analysis.Data)

	text := TextOutcome("hi").Message()
	assert.Equal(t, "text", text.Type)
	assert.Equal(t, "hi", text.Content)
}
