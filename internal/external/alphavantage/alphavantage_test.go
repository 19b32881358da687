package alphavantage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stockpulse/backend/internal/marketdata"
	"github.com/wonny/stockpulse/backend/pkg/httputil"
	"github.com/wonny/stockpulse/backend/pkg/logger"
)

var _ marketdata.Provider = (*Client)(nil)

func newTestClient(t *testing.T, body string) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	httpClient := httputil.New(logger.Nop()).WithRetry(1, time.Millisecond)
	return NewClient(httpClient, server.URL, "test-key", logger.Nop())
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want *float64
	}{
		{"123.45", ptr(123.45)},
		{"-0.4982%", ptr(-0.4982)},
		{" 7 ", ptr(7)},
		{"None", nil},
		{"-", nil},
		{"", nil},
		{"abc", nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseNumber(tt.in))
		})
	}
}

func TestQuote(t *testing.T) {
	client := newTestClient(t, `{"Global Quote":{
		"01. symbol":"RELIANCE.BSE","02. open":"2900.00","03. high":"2950.10","04. low":"2890.00",
		"05. price":"2932.55","06. volume":"412300","07. latest trading day":"2026-10-14",
		"08. previous close":"2910.00","09. change":"22.55","10. change percent":"0.7749%"}}`)

	quote, err := client.Quote(context.Background(), "RELIANCE.BSE")
	require.NoError(t, err)

	assert.Equal(t, "RELIANCE.BSE", quote.Symbol)
	assert.Equal(t, 2932.55, *quote.Price)
	assert.Equal(t, 0.7749, *quote.ChangePercent)
	assert.Equal(t, 412300.0, *quote.Volume)
	assert.Equal(t, 2910.0, *quote.PreviousClose)
}

func TestQuote_Empty(t *testing.T) {
	client := newTestClient(t, `{"Global Quote":{}}`)

	_, err := client.Quote(context.Background(), "NOPE.BSE")
	assert.ErrorIs(t, err, marketdata.ErrNotFound)
}

func TestNotices(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"rate limit information", `{"Information":"Our standard API rate limit is 25 requests per day."}`, marketdata.ErrRateLimited},
		{"call frequency note", `{"Note":"Our standard API call frequency is 5 calls per minute."}`, marketdata.ErrRateLimited},
		{"invalid symbol", `{"Error Message":"Invalid API call."}`, marketdata.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.body)

			_, err := client.Quote(context.Background(), "TCS.BSE")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestOverview(t *testing.T) {
	client := newTestClient(t, `{"Symbol":"TCS.BSE","Name":"Tata Consultancy","Sector":"TECHNOLOGY","Industry":"None",
		"MarketCapitalization":"14500000000000","PERatio":"29.8","PEGRatio":"None","EPS":"134.2","BookValue":"-",
		"DividendYield":"0.018","ReturnOnEquityTTM":"0.47","ReturnOnAssetsTTM":"0.25","ProfitMargin":"0.19",
		"RevenueTTM":"2400000000000","GrossProfitTTM":"None"}`)

	overview, err := client.Overview(context.Background(), "TCS.BSE")
	require.NoError(t, err)

	assert.Equal(t, "Tata Consultancy", overview.Name)
	assert.Empty(t, overview.Industry)
	assert.Equal(t, 29.8, *overview.PERatio)
	assert.Nil(t, overview.PEGRatio)
	assert.Nil(t, overview.BookValue)
	assert.InDelta(t, 1.8, *overview.DividendYield, 1e-9)
	assert.InDelta(t, 47.0, *overview.ROE, 1e-9)
	assert.InDelta(t, 25.0, *overview.ROA, 1e-9)
	assert.InDelta(t, 19.0, *overview.ProfitMargin, 1e-9)
	assert.Nil(t, overview.GrossProfitTTM)
}

func TestOverview_EmptyPayload(t *testing.T) {
	client := newTestClient(t, `{}`)

	_, err := client.Overview(context.Background(), "NOPE.BSE")
	assert.ErrorIs(t, err, marketdata.ErrNotFound)
}

func TestHistory_SortsAndTrims(t *testing.T) {
	client := newTestClient(t, `{"Meta Data":{},"Time Series (Daily)":{
		"2026-10-14":{"1. open":"103","2. high":"105","3. low":"102","4. close":"104","5. volume":"1300"},
		"2026-10-12":{"1. open":"101","2. high":"103","3. low":"100","4. close":"102","5. volume":"1100"},
		"2026-10-13":{"1. open":"102","2. high":"104","3. low":"101","4. close":"103","5. volume":"1200"},
		"2026-10-09":{"1. open":"100","2. high":"102","3. low":"99","4. close":"101","5. volume":"1000"}
	}}`)

	history, err := client.History(context.Background(), "LT.BSE", 3)
	require.NoError(t, err)
	require.Len(t, history, 3)

	assert.Equal(t, []float64{102, 103, 104}, history.Closes())
	assert.Equal(t, 1300.0, history[2].Volume)
}

func TestHistory_Empty(t *testing.T) {
	client := newTestClient(t, `{"Meta Data":{}}`)

	_, err := client.History(context.Background(), "LT.BSE", 30)
	assert.ErrorIs(t, err, marketdata.ErrNotFound)
}

func ptr(v float64) *float64 { return &v }
