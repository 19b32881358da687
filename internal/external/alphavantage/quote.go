package alphavantage

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/stockpulse/backend/internal/contracts"
	"github.com/wonny/stockpulse/backend/internal/marketdata"
)

type globalQuoteResponse struct {
	notice
	GlobalQuote struct {
		Symbol        string `json:"01. symbol"`
		Open          string `json:"02. open"`
		High          string `json:"03. high"`
		Low           string `json:"04. low"`
		Price         string `json:"05. price"`
		Volume        string `json:"06. volume"`
		PreviousClose string `json:"08. previous close"`
		Change        string `json:"09. change"`
		ChangePercent string `json:"10. change percent"`
	} `json:"Global Quote"`
}

// Quote fetches GLOBAL_QUOTE. The change percent arrives as "1.23%".
func (c *Client) Quote(ctx context.Context, symbol string) (*contracts.Quote, error) {
	var resp globalQuoteResponse
	if err := c.query(ctx, "GLOBAL_QUOTE", symbol, nil, &resp); err != nil {
		return nil, fmt.Errorf("quote %s: %w", symbol, err)
	}
	if err := resp.notice.err(); err != nil {
		return nil, fmt.Errorf("quote %s: %w", symbol, err)
	}

	q := resp.GlobalQuote
	if q.Symbol == "" {
		return nil, fmt.Errorf("quote %s: %w", symbol, marketdata.ErrNotFound)
	}

	quote := &contracts.Quote{
		Symbol:        symbol,
		Price:         parseNumber(q.Price),
		Change:        parseNumber(q.Change),
		ChangePercent: parseNumber(q.ChangePercent),
		Volume:        parseNumber(q.Volume),
		High:          parseNumber(q.High),
		Low:           parseNumber(q.Low),
		Open:          parseNumber(q.Open),
		PreviousClose: parseNumber(q.PreviousClose),
		Timestamp:     time.Now().UTC(),
	}

	c.logger.WithField("symbol", symbol).Debug("Fetched quote")
	return quote, nil
}
