package chat

import (
	"StockChat/internal/storage/models"
)

type OutcomeType string

const (
	OutcomeText           OutcomeType = "text"
	OutcomeCompanyOptions OutcomeType = "company_options"
	OutcomeStockAnalysis  OutcomeType = "stock_analysis"
)

// Outcome is the result of one resolved turn. Only the fields belonging to
// Type are set.
type Outcome struct {
	Type OutcomeType `json:"type"`

	// text
	Content string `json:"content,omitempty"`

	// company_options
	Query   string                `json:"query,omitempty"`
	Options []models.CompanyMatch `json:"options,omitempty"`

	// stock_analysis
	Symbol      string              `json:"symbol,omitempty"`
	Data        *models.StockSeries `json:"data,omitempty"`
	Explanation string              `json:"explanation,omitempty"`
}

func TextOutcome(content string) Outcome {
	return Outcome{Type: OutcomeText, Content: content}
}

func CompanyOptionsOutcome(query string, options []models.CompanyMatch) Outcome {
	return Outcome{Type: OutcomeCompanyOptions, Query: query, Options: options}
}

func StockAnalysisOutcome(symbol string, data *models.StockSeries, explanation string) Outcome {
	return Outcome{Type: OutcomeStockAnalysis, Symbol: symbol, Data: data, Explanation: explanation}
}

// Message converts the outcome into the system turn stored in history.
func (o Outcome) Message() models.Message {
	msg := models.Message{
		Role:    models.RoleSystem,
		Type:    string(o.Type),
		Content: o.Content,
	}

	switch o.Type {
	case OutcomeCompanyOptions:
		msg.Content = o.Query
		msg.Options = o.Options
	case OutcomeStockAnalysis:
		msg.Content = o.Explanation
		msg.Symbol = o.Symbol
		msg.Data = o.Data
	}

	return msg
}
