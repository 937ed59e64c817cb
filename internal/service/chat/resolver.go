package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"StockChat/internal/storage/models"

	"go.uber.org/zap"
)

// MarketData fetches the daily price series of a ticker.
type MarketData interface {
	FetchDailySeries(ctx context.Context, symbol string) (*models.StockSeries, error)
}

// CompanySearch looks up companies by name.
type CompanySearch interface {
	SearchCompanies(ctx context.Context, query string) ([]models.CompanyMatch, error)
}

// Explainer produces a prose explanation of formatted stock data.
type Explainer interface {
	ExplainStock(ctx context.Context, data string) (string, error)
}

const (
	msgNeedCompany     = "I couldn't identify a company name in your message. Could you specify which company you're interested in?"
	msgNoCompanyMatch  = "I couldn't find any company matching '%s'. Could you try with a different name?"
	msgSearchFailed    = "I encountered an error while searching for '%s': %v"
	msgPickFromOptions = "Please specify which company you'd like to select by providing the stock symbol (e.g., AAPL for Apple)."
	msgNeedSymbol      = "I couldn't identify a stock symbol in your message. Please specify which stock you're interested in."
	msgNeedStock       = "I couldn't identify which stock you'd like to analyze. Please specify a company name or stock symbol."
	msgDataFailed      = "I had trouble retrieving data for %s. Error: %v"
	msgHelp            = "I can help you find information about companies and analyze stocks. Try asking about a specific company like 'Tell me about Apple' or 'How is TSLA stock performing?'"
)

type ResolverConfig struct {
	// MaxOptions caps the company_options list.
	MaxOptions int
	// RecentDays is how many of the latest daily bars go to the explainer.
	RecentDays int
}

func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		MaxOptions: 5,
		RecentDays: 7,
	}
}

// Resolver decides what to answer for a message given the turns before it.
// It calls the collaborators but never writes to the session.
type Resolver struct {
	extractor *Extractor
	market    MarketData
	search    CompanySearch
	explainer Explainer
	config    ResolverConfig
	logger    *zap.Logger
}

func NewResolver(
	extractor *Extractor,
	market MarketData,
	search CompanySearch,
	explainer Explainer,
	config ResolverConfig,
	logger *zap.Logger,
) *Resolver {
	if config.MaxOptions <= 0 {
		config.MaxOptions = DefaultResolverConfig().MaxOptions
	}
	if config.RecentDays <= 0 {
		config.RecentDays = DefaultResolverConfig().RecentDays
	}

	return &Resolver{
		extractor: extractor,
		market:    market,
		search:    search,
		explainer: explainer,
		config:    config,
		logger:    logger.With(zap.String("component", "resolver")),
	}
}

// Resolve classifies message and resolves it against history.
func (r *Resolver) Resolve(ctx context.Context, message string, history []models.Message) Outcome {
	return r.ResolveIntent(ctx, Classify(message), message, history)
}

// ResolveIntent runs the dialogue step for an already classified message.
// Collaborator failures come back as text outcomes, never as errors.
func (r *Resolver) ResolveIntent(ctx context.Context, intent Intent, message string, history []models.Message) Outcome {
	switch intent {
	case IntentCompanyInfo:
		company, ok := r.extractor.ExtractCompany(message)
		if !ok {
			return TextOutcome(msgNeedCompany)
		}
		return r.searchCompany(ctx, company)

	case IntentSelectStock:
		symbol, ok := r.extractor.ExtractSymbol(message)
		if !ok {
			if hasPendingOptions(history) {
				return TextOutcome(msgPickFromOptions)
			}
			return TextOutcome(msgNeedSymbol)
		}
		return r.analyzeStock(ctx, symbol)

	case IntentStockAnalysis:
		if symbol, ok := r.extractor.ExtractSymbol(message); ok {
			return r.analyzeStock(ctx, symbol)
		}
		if company, ok := r.extractor.ExtractCompany(message); ok {
			return r.searchCompany(ctx, company)
		}
		return TextOutcome(msgNeedStock)

	default:
		return TextOutcome(msgHelp)
	}
}

func (r *Resolver) searchCompany(ctx context.Context, company string) Outcome {
	r.logger.Debug("Searching company", zap.String("company", company))

	matches, err := r.search.SearchCompanies(ctx, company)
	if err != nil {
		r.logger.Warn("Company search failed", zap.String("company", company), zap.Error(err))
		return TextOutcome(fmt.Sprintf(msgSearchFailed, company, err))
	}

	if len(matches) == 0 {
		return TextOutcome(fmt.Sprintf(msgNoCompanyMatch, company))
	}

	if len(matches) > r.config.MaxOptions {
		matches = matches[:r.config.MaxOptions]
	}
	return CompanyOptionsOutcome(company, matches)
}

type explainInput struct {
	Symbol     string                     `json:"symbol"`
	RecentData map[string]models.DailyBar `json:"recent_data"`
}

func (r *Resolver) analyzeStock(ctx context.Context, symbol string) Outcome {
	r.logger.Debug("Getting stock data", zap.String("symbol", symbol))

	series, err := r.market.FetchDailySeries(ctx, symbol)
	if err != nil {
		r.logger.Warn("Stock data fetch failed", zap.String("symbol", symbol), zap.Error(err))
		return TextOutcome(fmt.Sprintf(msgDataFailed, symbol, err))
	}

	input := explainInput{
		Symbol:     symbol,
		RecentData: make(map[string]models.DailyBar, r.config.RecentDays),
	}
	for _, bar := range series.Recent(r.config.RecentDays) {
		input.RecentData[bar.Date] = bar.DailyBar
	}

	payload, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return TextOutcome(fmt.Sprintf(msgDataFailed, symbol, err))
	}

	explanation, err := r.explainer.ExplainStock(ctx, string(payload))
	if err != nil {
		r.logger.Warn("Stock explanation failed", zap.String("symbol", symbol), zap.Error(err))
		return TextOutcome(fmt.Sprintf(msgDataFailed, symbol, err))
	}

	return StockAnalysisOutcome(symbol, series, explanation)
}

// hasPendingOptions reports whether an earlier system turn offered a
// disambiguation list.
func hasPendingOptions(history []models.Message) bool {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == models.RoleSystem && len(history[i].Options) > 0 {
			return true
		}
	}
	return false
}
