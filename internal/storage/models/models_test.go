package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockSeriesRecent(t *testing.T) {
	payload := `{
		"Meta Data": {"2. Symbol": "IBM"},
		"Time Series (Daily)": {
			"2024-01-03": {"1. open": "3", "2. high": "3", "3. low": "3", "4. close": "3", "5. volume": "30"},
			"2024-01-05": {"1. open": "5", "2. high": "5", "3. low": "5", "4. close": "5", "5. volume": "50"},
			"2024-01-04": {"1. open": "4", "2. high": "4", "3. low": "4", "4. close": "4", "5. volume": "40"}
		}
	}`

	var series StockSeries
	require.NoError(t, json.Unmarshal([]byte(payload), &series))
	assert.Equal(t, "IBM", series.MetaData["2. Symbol"])

	recent := series.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "2024-01-05", recent[0].Date)
	assert.Equal(t, "5", recent[0].Close)
	assert.Equal(t, "2024-01-04", recent[1].Date)

	assert.Len(t, series.Recent(10), 3)
	assert.Empty(t, series.Recent(0))

	var nilSeries *StockSeries
	assert.Empty(t, nilSeries.Recent(5))
}
