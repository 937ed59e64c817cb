package handlers

import (
	"errors"
	"net/http"
	"strings"

	"StockChat/internal/service/chat"
	"StockChat/internal/storage/models"
	"StockChat/pkg/companysearch"
	"StockChat/pkg/marketdata"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StocksHandler exposes the collaborators directly, without a session.
type StocksHandler struct {
	market chat.MarketData
	search chat.CompanySearch
	logger *zap.Logger
}

func NewStocksHandler(market chat.MarketData, search chat.CompanySearch, logger *zap.Logger) *StocksHandler {
	return &StocksHandler{
		market: market,
		search: search,
		logger: logger,
	}
}

type CompaniesResponse struct {
	Query   string                `json:"query"`
	Results []models.CompanyMatch `json:"results"`
	Total   int                   `json:"total"`
}

// GET /stocks/:symbol - дневные котировки как есть
func (h *StocksHandler) GetStock(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))

	series, err := h.market.FetchDailySeries(c.Request.Context(), symbol)
	if err != nil {
		h.writeCollaboratorError(c, "Failed to fetch stock data", err, zap.String("symbol", symbol))
		return
	}

	c.JSON(http.StatusOK, series)
}

// GET /companies?query= - поиск компаний по названию
func (h *StocksHandler) SearchCompanies(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "query parameter is required",
			Code:  "MISSING_QUERY",
		})
		return
	}

	matches, err := h.search.SearchCompanies(c.Request.Context(), query)
	if err != nil {
		h.writeCollaboratorError(c, "Failed to search companies", err, zap.String("query", query))
		return
	}

	c.JSON(http.StatusOK, CompaniesResponse{
		Query:   query,
		Results: matches,
		Total:   len(matches),
	})
}

func (h *StocksHandler) writeCollaboratorError(c *gin.Context, message string, err error, fields ...zap.Field) {
	h.logger.Warn(message, append(fields, zap.Error(err))...)

	code := "UPSTREAM_ERROR"
	var (
		avHTTP  *marketdata.HTTPError
		fmpHTTP *companysearch.HTTPError
		avAPI   *marketdata.APIError
	)
	switch {
	case errors.Is(err, marketdata.ErrNoTimeSeries):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   message,
			Code:    "NO_DATA",
			Details: err.Error(),
		})
		return
	case errors.As(err, &avHTTP), errors.As(err, &fmpHTTP):
		code = "UPSTREAM_HTTP_ERROR"
	case errors.As(err, &avAPI):
		code = "UPSTREAM_API_ERROR"
	}

	c.JSON(http.StatusBadGateway, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: err.Error(),
	})
}
