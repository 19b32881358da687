package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/wonny/stockpulse/backend/internal/marketdata"
	"github.com/wonny/stockpulse/backend/pkg/logger"
)

// ErrNothingFetched fails a warmup run in which no basket symbol could be fetched
var ErrNothingFetched = errors.New("no basket symbol fetched")

// Warmer is the part of marketdata.Service the warmup job drives
type Warmer interface {
	Symbols() []string
	RefreshBasket(ctx context.Context) ([]*marketdata.Snapshot, error)
}

// WarmupJob refreshes quote, overview and history for the whole basket
// so API requests are served from cache
type WarmupJob struct {
	market   Warmer
	schedule string
	logger   *logger.Logger
}

// NewWarmupJob creates a new basket warmup job
func NewWarmupJob(market Warmer, schedule string, log *logger.Logger) *WarmupJob {
	return &WarmupJob{
		market:   market,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *WarmupJob) Name() string {
	return "basket_warmup"
}

// Schedule returns the cron schedule (WARMUP_CRON)
func (j *WarmupJob) Schedule() string {
	return j.schedule
}

// Run re-fetches every basket snapshot, replacing live cache entries
func (j *WarmupJob) Run(ctx context.Context) error {
	start := time.Now()
	symbols := j.market.Symbols()

	snaps, err := j.market.RefreshBasket(ctx)
	if err != nil {
		return err
	}
	if len(snaps) == 0 && len(symbols) > 0 {
		return ErrNothingFetched
	}

	j.logger.WithFields(map[string]interface{}{
		"requested": len(symbols),
		"fetched":   len(snaps),
		"duration":  time.Since(start),
	}).Info("Basket warmup completed")

	return nil
}
