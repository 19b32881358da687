package alphavantage

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/wonny/stockpulse/backend/internal/contracts"
	"github.com/wonny/stockpulse/backend/internal/marketdata"
)

type dailyBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

type dailyResponse struct {
	notice
	Series map[string]dailyBar `json:"Time Series (Daily)"`
}

// compactSize is the number of bars outputsize=compact returns
const compactSize = 100

// History fetches TIME_SERIES_DAILY, sorts oldest first, and keeps the last days bars
func (c *Client) History(ctx context.Context, symbol string, days int) (contracts.History, error) {
	size := "compact"
	if days > compactSize {
		size = "full"
	}

	var resp dailyResponse
	if err := c.query(ctx, "TIME_SERIES_DAILY", symbol, map[string][]string{"outputsize": {size}}, &resp); err != nil {
		return nil, fmt.Errorf("history %s: %w", symbol, err)
	}
	if err := resp.notice.err(); err != nil {
		return nil, fmt.Errorf("history %s: %w", symbol, err)
	}
	if len(resp.Series) == 0 {
		return nil, fmt.Errorf("history %s: %w", symbol, marketdata.ErrNotFound)
	}

	history := make(contracts.History, 0, len(resp.Series))
	for date, bar := range resp.Series {
		ts, err := time.Parse("2006-01-02", date)
		if err != nil {
			continue
		}
		closePrice := parseNumber(bar.Close)
		if closePrice == nil {
			continue
		}
		history = append(history, contracts.PricePoint{
			Timestamp: ts,
			Open:      valueOrZero(parseNumber(bar.Open)),
			High:      valueOrZero(parseNumber(bar.High)),
			Low:       valueOrZero(parseNumber(bar.Low)),
			Close:     *closePrice,
			Volume:    valueOrZero(parseNumber(bar.Volume)),
		})
	}

	sort.Slice(history, func(i, j int) bool {
		return history[i].Timestamp.Before(history[j].Timestamp)
	})
	history = history.Tail(days)

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(history),
	}).Debug("Fetched history")
	return history, nil
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
