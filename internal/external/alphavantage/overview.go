package alphavantage

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/stockpulse/backend/internal/contracts"
	"github.com/wonny/stockpulse/backend/internal/marketdata"
)

type overviewResponse struct {
	notice
	Symbol               string `json:"Symbol"`
	Name                 string `json:"Name"`
	Description          string `json:"Description"`
	Sector               string `json:"Sector"`
	Industry             string `json:"Industry"`
	MarketCapitalization string `json:"MarketCapitalization"`
	PERatio              string `json:"PERatio"`
	PEGRatio             string `json:"PEGRatio"`
	EPS                  string `json:"EPS"`
	BookValue            string `json:"BookValue"`
	DividendYield        string `json:"DividendYield"`
	ReturnOnEquityTTM    string `json:"ReturnOnEquityTTM"`
	ReturnOnAssetsTTM    string `json:"ReturnOnAssetsTTM"`
	ProfitMargin         string `json:"ProfitMargin"`
	RevenueTTM           string `json:"RevenueTTM"`
	GrossProfitTTM       string `json:"GrossProfitTTM"`
}

// Overview fetches OVERVIEW; yields, returns and margins are fractions upstream
func (c *Client) Overview(ctx context.Context, symbol string) (*contracts.Overview, error) {
	var resp overviewResponse
	if err := c.query(ctx, "OVERVIEW", symbol, nil, &resp); err != nil {
		return nil, fmt.Errorf("overview %s: %w", symbol, err)
	}
	if err := resp.notice.err(); err != nil {
		return nil, fmt.Errorf("overview %s: %w", symbol, err)
	}
	if resp.Symbol == "" {
		return nil, fmt.Errorf("overview %s: %w", symbol, marketdata.ErrNotFound)
	}

	overview := &contracts.Overview{
		Symbol:         symbol,
		Name:           clean(resp.Name),
		Description:    clean(resp.Description),
		Sector:         clean(resp.Sector),
		Industry:       clean(resp.Industry),
		MarketCap:      parseNumber(resp.MarketCapitalization),
		PERatio:        parseNumber(resp.PERatio),
		PEGRatio:       parseNumber(resp.PEGRatio),
		EPS:            parseNumber(resp.EPS),
		BookValue:      parseNumber(resp.BookValue),
		DividendYield:  percent(parseNumber(resp.DividendYield)),
		ROE:            percent(parseNumber(resp.ReturnOnEquityTTM)),
		ROA:            percent(parseNumber(resp.ReturnOnAssetsTTM)),
		ProfitMargin:   percent(parseNumber(resp.ProfitMargin)),
		RevenueTTM:     parseNumber(resp.RevenueTTM),
		GrossProfitTTM: parseNumber(resp.GrossProfitTTM),
		Timestamp:      time.Now().UTC(),
	}

	c.logger.WithField("symbol", symbol).Debug("Fetched overview")
	return overview, nil
}

// clean drops Alpha Vantage's "None" placeholder
func clean(s string) string {
	if s == "None" || s == "-" {
		return ""
	}
	return s
}
