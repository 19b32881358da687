package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/wonny/stockpulse/backend/internal/contracts"
	"github.com/wonny/stockpulse/backend/internal/marketdata"
)

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*float64 `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

// History fetches daily bars covering the last days calendar days, oldest first.
// Bars without a close are dropped.
func (c *Client) History(ctx context.Context, symbol string, days int) (contracts.History, error) {
	now := time.Now().UTC()
	params := url.Values{
		"interval": {"1d"},
		"period1":  {strconv.FormatInt(now.AddDate(0, 0, -days).Unix(), 10)},
		"period2":  {strconv.FormatInt(now.Unix(), 10)},
	}

	var resp chartResponse
	path := "/v8/finance/chart/" + url.PathEscape(toYahooSymbol(symbol))
	if err := c.getJSON(ctx, path, params, &resp); err != nil {
		return nil, fmt.Errorf("history %s: %w", symbol, err)
	}
	if err := resp.Chart.Error.err(); err != nil {
		return nil, fmt.Errorf("history %s: %w", symbol, err)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("history %s: %w", symbol, marketdata.ErrNotFound)
	}

	history := parseChart(resp.Chart.Result[0])

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(history),
	}).Debug("Fetched history")
	return history, nil
}

// parseChart zips Yahoo's parallel arrays into bars
func parseChart(r chartResult) contracts.History {
	if len(r.Indicators.Quote) == 0 {
		return contracts.History{}
	}
	q := r.Indicators.Quote[0]

	at := func(series []*float64, i int) float64 {
		if i < len(series) && series[i] != nil {
			return *series[i]
		}
		return 0
	}

	history := make(contracts.History, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		if i >= len(q.Close) || q.Close[i] == nil {
			continue
		}
		history = append(history, contracts.PricePoint{
			Timestamp: time.Unix(ts, 0).UTC(),
			Open:      at(q.Open, i),
			High:      at(q.High, i),
			Low:       at(q.Low, i),
			Close:     *q.Close[i],
			Volume:    at(q.Volume, i),
		})
	}
	return history
}
