package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/wonny/stockpulse/backend/internal/marketdata"
	"github.com/wonny/stockpulse/backend/pkg/httputil"
	"github.com/wonny/stockpulse/backend/pkg/logger"
)

// DefaultBaseURL is the public Yahoo Finance query host
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// Client handles communication with Yahoo Finance
// ⭐ SSOT: Yahoo Finance API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Yahoo Finance client
func NewClient(httpClient *httputil.Client, baseURL string, log *logger.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("provider", "yahoo"),
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Name implements marketdata.Provider
func (c *Client) Name() string {
	return "yahoo"
}

// toYahooSymbol maps basket suffixes to Yahoo's exchange suffixes
func toYahooSymbol(symbol string) string {
	upper := strings.ToUpper(symbol)
	switch {
	case strings.HasSuffix(upper, ".NSE"):
		return symbol[:len(symbol)-len(".NSE")] + ".NS"
	case strings.HasSuffix(upper, ".BSE"):
		return symbol[:len(symbol)-len(".BSE")] + ".BO"
	}
	return symbol
}

// getJSON fetches path with params and maps upstream status codes
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, dest interface{}) error {
	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL = fmt.Sprintf("%s?%s", fullURL, params.Encode())
	}

	err := c.httpClient.GetJSON(ctx, fullURL, dest)
	if err == nil {
		return nil
	}

	var statusErr *httputil.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusNotFound:
			return marketdata.ErrNotFound
		case http.StatusTooManyRequests:
			return marketdata.ErrRateLimited
		}
	}
	return fmt.Errorf("yahoo request failed: %w", err)
}

// apiError is the error object Yahoo embeds in every envelope
type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *apiError) err() error {
	if e == nil {
		return nil
	}
	if strings.EqualFold(e.Code, "Not Found") {
		return marketdata.ErrNotFound
	}
	return fmt.Errorf("yahoo error %s: %s", e.Code, e.Description)
}
