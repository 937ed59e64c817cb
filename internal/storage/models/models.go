package models

import (
	"sort"
	"time"
)

// Message is one entry of a session's history. Messages are never modified
// after they are appended.
type Message struct {
	ID        string         `json:"id"`
	SessionID string         `json:"session_id"`
	Role      string         `json:"role"` // user, system
	Type      string         `json:"type,omitempty"`
	Content   string         `json:"content"`
	Options   []CompanyMatch `json:"options,omitempty"`
	Symbol    string         `json:"symbol,omitempty"`
	Data      *StockSeries   `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  Metadata       `json:"metadata,omitempty"`
}

const (
	RoleUser   = "user"
	RoleSystem = "system"
)

type Metadata struct {
	Intent         string        `json:"intent,omitempty"`
	ProcessingTime time.Duration `json:"processing_time,omitempty"`
}

type ChatSession struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
}

// CompanyMatch is a single hit from the company search API.
type CompanyMatch struct {
	Symbol           string `json:"symbol"`
	Name             string `json:"name"`
	Currency         string `json:"currency,omitempty"`
	Exchange         string `json:"exchange,omitempty"`
	ExchangeFullName string `json:"exchangeFullName,omitempty"`
}

// StockSeries mirrors the TIME_SERIES_DAILY payload of the market data API.
type StockSeries struct {
	MetaData   map[string]string   `json:"Meta Data,omitempty"`
	TimeSeries map[string]DailyBar `json:"Time Series (Daily)"`
}

type DailyBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

type DatedBar struct {
	Date string
	DailyBar
}

// Recent returns at most n bars, most recent date first. Dates are ISO
// formatted so lexical order is chronological.
func (s *StockSeries) Recent(n int) []DatedBar {
	if s == nil || n <= 0 {
		return nil
	}

	dates := make([]string, 0, len(s.TimeSeries))
	for date := range s.TimeSeries {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	if len(dates) > n {
		dates = dates[:n]
	}

	bars := make([]DatedBar, len(dates))
	for i, date := range dates {
		bars[i] = DatedBar{Date: date, DailyBar: s.TimeSeries[date]}
	}
	return bars
}
