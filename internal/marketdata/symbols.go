package marketdata

import (
	"fmt"
	"strings"
)

// DefaultSymbols is the Nifty 50 basket served when SYMBOLS is unset
var DefaultSymbols = []string{
	"RELIANCE.NSE", "TCS.NSE", "HDFCBANK.NSE", "ICICIBANK.NSE", "INFY.NSE",
	"HINDUNILVR.NSE", "ITC.NSE", "KOTAKBANK.NSE", "LT.NSE", "SBIN.NSE",
	"BHARTIARTL.NSE", "AXISBANK.NSE", "BAJFINANCE.NSE", "ASIANPAINT.NSE", "MARUTI.NSE",
	"HCLTECH.NSE", "ULTRACEMCO.NSE", "TITAN.NSE", "SUNPHARMA.NSE", "NESTLEIND.NSE",
	"POWERGRID.NSE", "ONGC.NSE", "NTPC.NSE", "COALINDIA.NSE", "TATASTEEL.NSE",
	"JSWSTEEL.NSE", "GRASIM.NSE", "M&M.NSE", "WIPRO.NSE", "TECHM.NSE",
	"ADANIENT.NSE", "ADANIPORTS.NSE", "TATAMOTORS.NSE", "TATACONSUM.NSE", "BPCL.NSE",
	"HDFCLIFE.NSE", "SBILIFE.NSE", "BRITANNIA.NSE", "DIVISLAB.NSE", "CIPLA.NSE",
	"DRREDDY.NSE", "EICHERMOT.NSE", "HEROMOTOCO.NSE", "BAJAJ-AUTO.NSE", "HINDALCO.NSE",
	"APOLLOHOSP.NSE", "BAJAJFINSV.NSE", "INDUSINDBK.NSE", "UPL.NSE", "TATAPOWER.NSE",
}

// Snapshot kinds, used as cache key prefixes and store discriminators
const (
	KindQuote    = "quote"
	KindOverview = "overview"
	KindHistory  = "history"
)

// NormalizeSymbol trims and upper-cases a user supplied symbol
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// QuoteKey returns the cache key for a quote
func QuoteKey(symbol string) string {
	return fmt.Sprintf("%s:%s", KindQuote, symbol)
}

// OverviewKey returns the cache key for fundamentals
func OverviewKey(symbol string) string {
	return fmt.Sprintf("%s:%s", KindOverview, symbol)
}

// HistoryKey returns the cache key for a history window
func HistoryKey(symbol string, days int) string {
	return fmt.Sprintf("%s:%s:%d", KindHistory, symbol, days)
}
