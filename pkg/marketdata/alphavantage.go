// Package marketdata fetches daily price series from AlphaVantage.
package marketdata

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

const DefaultBaseURL = "https://www.alphavantage.co"

var ErrNoTimeSeries = errors.New("response has no daily time series")

// HTTPError is returned when AlphaVantage answers with a non-2xx status.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("alphavantage: unexpected status %d: %s", e.StatusCode, e.Body)
}

// APIError is an error reported inside a 200 response body, e.g. an
// unknown symbol or an exhausted quota.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return "alphavantage: " + e.Message
}

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type AlphaVantageClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewAlphaVantageClient(config Config, logger *zap.Logger) *AlphaVantageClient {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &AlphaVantageClient{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		apiKey:     config.APIKey,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logger.With(zap.String("component", "alphavantage")),
	}
}

func (c *AlphaVantageClient) Name() string {
	return "AlphaVantage"
}

// FetchDailySeries returns the TIME_SERIES_DAILY payload for symbol.
func (c *AlphaVantageClient) FetchDailySeries(ctx context.Context, symbol string) (*models.StockSeries, error) {
	params := url.Values{}
	params.Set("function", "TIME_SERIES_DAILY")
	params.Set("symbol", symbol)
	params.Set("apikey", c.apiKey)

	endpoint := c.baseURL + "/query?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("alphavantage request: %w", err)
	}

	c.logger.Debug("Fetching daily series", zap.String("symbol", symbol))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alphavantage fetch: %w", redactURL(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("AlphaVantage API error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("symbol", symbol),
		)
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var raw avDailyResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("alphavantage decode: %w", err)
	}

	if msg := raw.inBandError(); msg != "" {
		return nil, &APIError{Message: msg}
	}
	if len(raw.TimeSeries) == 0 {
		return nil, fmt.Errorf("alphavantage %s: %w", symbol, ErrNoTimeSeries)
	}

	return &models.StockSeries{
		MetaData:   raw.MetaData,
		TimeSeries: raw.TimeSeries,
	}, nil
}

type avDailyResponse struct {
	MetaData     map[string]string          `json:"Meta Data"`
	TimeSeries   map[string]models.DailyBar `json:"Time Series (Daily)"`
	ErrorMessage string                     `json:"Error Message"`
	Note         string                     `json:"Note"`
	Information  string                     `json:"Information"`
}

func (r avDailyResponse) inBandError() string {
	switch {
	case r.ErrorMessage != "":
		return r.ErrorMessage
	case r.Note != "":
		return r.Note
	case r.Information != "" && len(r.TimeSeries) == 0:
		return r.Information
	}
	return ""
}

// redactURL drops the request URL from transport errors since it carries the API key.
func redactURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
