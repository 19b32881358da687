package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/wonny/stockpulse/backend/internal/contracts"
	"github.com/wonny/stockpulse/backend/internal/marketdata"
)

const summaryModules = "price,summaryDetail,defaultKeyStatistics,assetProfile,financialData"

type summaryResponse struct {
	QuoteSummary struct {
		Result []summaryResult `json:"result"`
		Error  *apiError       `json:"error"`
	} `json:"quoteSummary"`
}

type summaryResult struct {
	Price struct {
		ShortName               string   `json:"shortName"`
		LongName                string   `json:"longName"`
		MarketCap               rawValue `json:"marketCap"`
		TrailingPE              rawValue `json:"trailingPE"`
		PEGRatio                rawValue `json:"pegRatio"`
		EPSTrailingTwelveMonths rawValue `json:"epsTrailingTwelveMonths"`
		BookValue               rawValue `json:"bookValue"`
	} `json:"price"`
	SummaryDetail struct {
		MarketCap                   rawValue `json:"marketCap"`
		TrailingPE                  rawValue `json:"trailingPE"`
		DividendYield               rawValue `json:"dividendYield"`
		TrailingAnnualDividendYield rawValue `json:"trailingAnnualDividendYield"`
		ProfitMargins               rawValue `json:"profitMargins"`
	} `json:"summaryDetail"`
	DefaultKeyStatistics struct {
		MarketCap               rawValue `json:"marketCap"`
		TrailingPE              rawValue `json:"trailingPE"`
		PEGRatio                rawValue `json:"pegRatio"`
		TrailingEPS             rawValue `json:"trailingEps"`
		EPSTrailingTwelveMonths rawValue `json:"epsTrailingTwelveMonths"`
		BookValue               rawValue `json:"bookValue"`
		ProfitMargins           rawValue `json:"profitMargins"`
		ReturnOnEquity          rawValue `json:"returnOnEquity"`
		ReturnOnAssets          rawValue `json:"returnOnAssets"`
		RevenueTTM              rawValue `json:"revenueTTM"`
		GrossProfits            rawValue `json:"grossProfits"`
	} `json:"defaultKeyStatistics"`
	AssetProfile struct {
		LongBusinessSummary string `json:"longBusinessSummary"`
		Sector              string `json:"sector"`
		Industry            string `json:"industry"`
	} `json:"assetProfile"`
	FinancialData struct {
		EPSTrailingTwelveMonths rawValue `json:"epsTrailingTwelveMonths"`
		ProfitMargins           rawValue `json:"profitMargins"`
		ReturnOnEquity          rawValue `json:"returnOnEquity"`
		ReturnOnAssets          rawValue `json:"returnOnAssets"`
		TotalRevenue            rawValue `json:"totalRevenue"`
		GrossProfits            rawValue `json:"grossProfits"`
	} `json:"financialData"`
}

// Overview fetches fundamentals from quoteSummary.
// Yahoo reports yields, returns and margins as fractions; they are scaled to percent here.
func (c *Client) Overview(ctx context.Context, symbol string) (*contracts.Overview, error) {
	var resp summaryResponse
	path := "/v10/finance/quoteSummary/" + url.PathEscape(toYahooSymbol(symbol))
	if err := c.getJSON(ctx, path, url.Values{"modules": {summaryModules}}, &resp); err != nil {
		return nil, fmt.Errorf("overview %s: %w", symbol, err)
	}
	if err := resp.QuoteSummary.Error.err(); err != nil {
		return nil, fmt.Errorf("overview %s: %w", symbol, err)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("overview %s: %w", symbol, marketdata.ErrNotFound)
	}

	r := resp.QuoteSummary.Result[0]
	price, detail, stats, fin := r.Price, r.SummaryDetail, r.DefaultKeyStatistics, r.FinancialData

	name := price.ShortName
	if name == "" {
		name = price.LongName
	}

	overview := &contracts.Overview{
		Symbol:         symbol,
		Name:           name,
		Description:    r.AssetProfile.LongBusinessSummary,
		Sector:         r.AssetProfile.Sector,
		Industry:       r.AssetProfile.Industry,
		MarketCap:      first(price.MarketCap, detail.MarketCap, stats.MarketCap),
		PERatio:        first(detail.TrailingPE, stats.TrailingPE, price.TrailingPE),
		PEGRatio:       first(stats.PEGRatio, price.PEGRatio),
		EPS:            first(stats.TrailingEPS, stats.EPSTrailingTwelveMonths, fin.EPSTrailingTwelveMonths, price.EPSTrailingTwelveMonths),
		BookValue:      first(stats.BookValue, price.BookValue),
		DividendYield:  percent(first(detail.DividendYield, detail.TrailingAnnualDividendYield)),
		ROE:            percent(first(fin.ReturnOnEquity, stats.ReturnOnEquity)),
		ROA:            percent(first(fin.ReturnOnAssets, stats.ReturnOnAssets)),
		ProfitMargin:   percent(first(fin.ProfitMargins, detail.ProfitMargins, stats.ProfitMargins)),
		RevenueTTM:     first(fin.TotalRevenue, stats.RevenueTTM),
		GrossProfitTTM: first(fin.GrossProfits, stats.GrossProfits),
		Timestamp:      time.Now().UTC(),
	}

	c.logger.WithField("symbol", symbol).Debug("Fetched overview")
	return overview, nil
}
