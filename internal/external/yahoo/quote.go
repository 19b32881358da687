package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/wonny/stockpulse/backend/internal/contracts"
	"github.com/wonny/stockpulse/backend/internal/marketdata"
)

type quoteResponse struct {
	QuoteResponse struct {
		Result []quoteResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"quoteResponse"`
}

type quoteResult struct {
	Symbol                     string   `json:"symbol"`
	RegularMarketPrice         rawValue `json:"regularMarketPrice"`
	RegularMarketChange        rawValue `json:"regularMarketChange"`
	RegularMarketChangePercent rawValue `json:"regularMarketChangePercent"`
	RegularMarketVolume        rawValue `json:"regularMarketVolume"`
	RegularMarketDayHigh       rawValue `json:"regularMarketDayHigh"`
	RegularMarketDayLow        rawValue `json:"regularMarketDayLow"`
	RegularMarketOpen          rawValue `json:"regularMarketOpen"`
	RegularMarketPreviousClose rawValue `json:"regularMarketPreviousClose"`
}

// Quote fetches the latest quote.
// regularMarketChangePercent is already a percent, no scaling.
func (c *Client) Quote(ctx context.Context, symbol string) (*contracts.Quote, error) {
	ysym := toYahooSymbol(symbol)

	var resp quoteResponse
	if err := c.getJSON(ctx, "/v7/finance/quote", url.Values{"symbols": {ysym}}, &resp); err != nil {
		return nil, fmt.Errorf("quote %s: %w", symbol, err)
	}
	if err := resp.QuoteResponse.Error.err(); err != nil {
		return nil, fmt.Errorf("quote %s: %w", symbol, err)
	}

	for _, r := range resp.QuoteResponse.Result {
		if !strings.EqualFold(r.Symbol, ysym) {
			continue
		}
		quote := &contracts.Quote{
			Symbol:        symbol,
			Price:         first(r.RegularMarketPrice),
			Change:        first(r.RegularMarketChange),
			ChangePercent: first(r.RegularMarketChangePercent),
			Volume:        first(r.RegularMarketVolume),
			High:          first(r.RegularMarketDayHigh),
			Low:           first(r.RegularMarketDayLow),
			Open:          first(r.RegularMarketOpen),
			PreviousClose: first(r.RegularMarketPreviousClose),
			Timestamp:     time.Now().UTC(),
		}

		c.logger.WithField("symbol", symbol).Debug("Fetched quote")
		return quote, nil
	}

	return nil, fmt.Errorf("quote %s: %w", symbol, marketdata.ErrNotFound)
}
