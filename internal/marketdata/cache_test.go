package marketdata

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stockpulse/backend/internal/contracts"
	"github.com/wonny/stockpulse/backend/pkg/logger"
)

func TestMemoryCache_GetSet(t *testing.T) {
	c := NewMemoryCache(logger.Nop())
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, QuoteKey("TCS.NSE"), &contracts.Quote{Symbol: "TCS.NSE", Price: contracts.Float(10)}, time.Minute))

	var got *contracts.Quote
	found, err := c.Get(ctx, QuoteKey("TCS.NSE"), &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 10.0, *got.Price)

	found, err = c.Get(ctx, QuoteKey("INFY.NSE"), &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryCache_ReturnsCopies(t *testing.T) {
	c := NewMemoryCache(logger.Nop())
	ctx := context.Background()
	history := contracts.History{{Close: 1}, {Close: 2}}
	require.NoError(t, c.Set(ctx, "h", history, time.Minute))

	history[0].Close = 99

	var got contracts.History
	_, err := c.Get(ctx, "h", &got)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got[0].Close)
}

func TestMemoryCache_ExpiryAndSweep(t *testing.T) {
	c := NewMemoryCache(logger.Nop())
	now := time.Date(2026, 3, 1, 9, 15, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", 1, time.Minute))
	require.NoError(t, c.Set(ctx, "long", 2, time.Hour))

	now = now.Add(2 * time.Minute)

	var v int
	found, err := c.Get(ctx, "short", &v)
	require.NoError(t, err)
	assert.False(t, found)

	stats := c.Stats()
	assert.Equal(t, CacheStats{TotalCount: 2, LiveCount: 1, ExpiredCount: 1}, stats)

	assert.Equal(t, 1, c.Sweep())
	assert.Equal(t, 1, c.Len())

	c.Delete("long")
	assert.Zero(t, c.Len())
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "quote:TCS.NSE", QuoteKey("TCS.NSE"))
	assert.Equal(t, "overview:TCS.NSE", OverviewKey("TCS.NSE"))
	assert.Equal(t, "history:TCS.NSE:90", HistoryKey("TCS.NSE", 90))
	assert.Equal(t, "M&M.NSE", NormalizeSymbol("  m&m.nse "))
}
