// Package companysearch resolves company names to ticker symbols using the
// Financial Modeling Prep search API.
package companysearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"StockChat/internal/storage/models"

	"go.uber.org/zap"
)

const DefaultBaseURL = "https://financialmodelingprep.com/stable"

type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("fmp: unexpected status %d: %s", e.StatusCode, e.Body)
}

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type FMPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewFMPClient(config Config, logger *zap.Logger) *FMPClient {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &FMPClient{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		apiKey:     config.APIKey,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logger.With(zap.String("component", "fmp")),
	}
}

func (c *FMPClient) Name() string {
	return "FinancialModelingPrep"
}

// SearchCompanies returns matches for query in the order the API ranks them.
func (c *FMPClient) SearchCompanies(ctx context.Context, query string) ([]models.CompanyMatch, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search-name?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("fmp request: %w", err)
	}

	c.logger.Debug("Searching companies", zap.String("query", query))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fmp search: %w", redactURL(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("FMP API error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("query", query),
		)
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var matches []models.CompanyMatch
	if err := json.NewDecoder(resp.Body).Decode(&matches); err != nil {
		return nil, fmt.Errorf("fmp decode: %w", err)
	}

	return matches, nil
}

// redactURL drops the request URL from transport errors since it carries the API key.
func redactURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
