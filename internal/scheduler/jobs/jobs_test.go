package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/stockpulse/backend/internal/contracts"
	"github.com/wonny/stockpulse/backend/internal/marketdata"
	"github.com/wonny/stockpulse/backend/pkg/logger"
)

type fakeWarmer struct {
	symbols []string
	snaps   []*marketdata.Snapshot
	err     error
	calls   int
}

func (f *fakeWarmer) Symbols() []string { return f.symbols }

func (f *fakeWarmer) RefreshBasket(ctx context.Context) ([]*marketdata.Snapshot, error) {
	f.calls++
	return f.snaps, f.err
}

type countingSweeper struct{ calls int }

func (c *countingSweeper) Sweep() int {
	c.calls++
	return 3
}

func TestWarmupJob(t *testing.T) {
	tests := []struct {
		name    string
		warmer  *fakeWarmer
		wantErr error
	}{
		{
			name:   "all fetched",
			warmer: &fakeWarmer{symbols: []string{"A.NSE"}, snaps: []*marketdata.Snapshot{{Symbol: "A.NSE"}}},
		},
		{
			name:    "nothing fetched",
			warmer:  &fakeWarmer{symbols: []string{"A.NSE", "B.NSE"}},
			wantErr: ErrNothingFetched,
		},
		{
			name:    "cancelled",
			warmer:  &fakeWarmer{symbols: []string{"A.NSE"}, err: context.Canceled},
			wantErr: context.Canceled,
		},
		{
			name:   "empty basket",
			warmer: &fakeWarmer{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := NewWarmupJob(tt.warmer, "0 */1 * * * *", logger.Nop())

			err := job.Run(context.Background())
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, 1, tt.warmer.calls)
		})
	}
}

func TestWarmupJob_Metadata(t *testing.T) {
	job := NewWarmupJob(&fakeWarmer{}, "@every 30s", logger.Nop())

	assert.Equal(t, "basket_warmup", job.Name())
	assert.Equal(t, "@every 30s", job.Schedule())
}

func TestCacheSweepJob(t *testing.T) {
	sweeper := &countingSweeper{}
	job := NewCacheSweepJob(sweeper, logger.Nop())

	assert.Equal(t, "cache_sweep", job.Name())
	assert.Equal(t, "0 */5 * * * *", job.Schedule())
	assert.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, sweeper.calls)
}

func TestCacheSweepJob_MemoryCache(t *testing.T) {
	var _ Sweeper = marketdata.NewMemoryCache(logger.Nop())
}

// countingProvider answers every call for one symbol
type countingProvider struct{ calls int32 }

func (p *countingProvider) Name() string { return "counting" }

func (p *countingProvider) Quote(ctx context.Context, symbol string) (*contracts.Quote, error) {
	atomic.AddInt32(&p.calls, 1)
	return &contracts.Quote{Symbol: symbol, Price: contracts.Float(100)}, nil
}

func (p *countingProvider) Overview(ctx context.Context, symbol string) (*contracts.Overview, error) {
	atomic.AddInt32(&p.calls, 1)
	return &contracts.Overview{Symbol: symbol}, nil
}

func (p *countingProvider) History(ctx context.Context, symbol string, days int) (contracts.History, error) {
	atomic.AddInt32(&p.calls, 1)
	return contracts.History{{Close: 100}}, nil
}

func TestWarmupJob_RefreshesLiveCache(t *testing.T) {
	var _ Warmer = (*marketdata.Service)(nil)

	p := &countingProvider{}
	svc := marketdata.NewService(p, nil, nil, marketdata.Options{Symbols: []string{"TCS.NSE"}}, logger.Nop())
	job := NewWarmupJob(svc, "0 */1 * * * *", logger.Nop())
	ctx := context.Background()

	assert.NoError(t, job.Run(ctx))
	assert.Equal(t, int32(3), atomic.LoadInt32(&p.calls))

	// Second run inside the cache TTL still goes upstream
	assert.NoError(t, job.Run(ctx))
	assert.Equal(t, int32(6), atomic.LoadInt32(&p.calls))

	// Reads are served from what the warmup wrote
	_, err := svc.Quote(ctx, "TCS.NSE")
	assert.NoError(t, err)
	assert.Equal(t, int32(6), atomic.LoadInt32(&p.calls))
}
