package alphavantage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/wonny/stockpulse/backend/internal/marketdata"
	"github.com/wonny/stockpulse/backend/pkg/httputil"
	"github.com/wonny/stockpulse/backend/pkg/logger"
)

// DefaultBaseURL is the Alpha Vantage query endpoint
const DefaultBaseURL = "https://www.alphavantage.co/query"

// Client handles communication with Alpha Vantage
// ⭐ SSOT: Alpha Vantage API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	apiKey     string
}

// NewClient creates a new Alpha Vantage client
func NewClient(httpClient *httputil.Client, baseURL, apiKey string, log *logger.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("provider", "alphavantage"),
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// Name implements marketdata.Provider
func (c *Client) Name() string {
	return "alphavantage"
}

// notice carries the soft errors Alpha Vantage returns with HTTP 200
type notice struct {
	Information  string `json:"Information"`
	Note         string `json:"Note"`
	ErrorMessage string `json:"Error Message"`
}

func (n notice) err() error {
	for _, msg := range []string{n.Information, n.Note} {
		if msg == "" {
			continue
		}
		lower := strings.ToLower(msg)
		if strings.Contains(lower, "rate limit") || strings.Contains(lower, "call frequency") {
			return marketdata.ErrRateLimited
		}
		return fmt.Errorf("alphavantage: %s", msg)
	}
	if n.ErrorMessage != "" {
		return marketdata.ErrNotFound
	}
	return nil
}

// query calls one Alpha Vantage function
func (c *Client) query(ctx context.Context, function, symbol string, extra url.Values, dest interface{}) error {
	params := url.Values{
		"function": {function},
		"symbol":   {symbol},
		"apikey":   {c.apiKey},
	}
	for k, v := range extra {
		params[k] = v
	}

	err := c.httpClient.GetJSON(ctx, fmt.Sprintf("%s?%s", c.baseURL, params.Encode()), dest)
	if err == nil {
		return nil
	}

	var statusErr *httputil.StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusTooManyRequests {
		return marketdata.ErrRateLimited
	}
	return fmt.Errorf("alphavantage request failed: %w", err)
}

// parseNumber reads Alpha Vantage's numeric strings.
// "None", "-" and blanks are absent; a trailing % is stripped.
func parseNumber(s string) *float64 {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" || s == "-" || strings.EqualFold(s, "None") {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// percent scales a fraction to the 0-100 range
func percent(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v * 100
	return &out
}
