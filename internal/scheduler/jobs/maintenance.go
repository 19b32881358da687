package jobs

import (
	"context"

	"github.com/wonny/stockpulse/backend/pkg/logger"
)

// Sweeper evicts expired cache entries; marketdata.MemoryCache implements it
type Sweeper interface {
	Sweep() int
}

// CacheSweepJob evicts expired entries from the in-memory cache
type CacheSweepJob struct {
	cache  Sweeper
	logger *logger.Logger
}

// NewCacheSweepJob creates a new cache sweep job
func NewCacheSweepJob(cache Sweeper, log *logger.Logger) *CacheSweepJob {
	return &CacheSweepJob{
		cache:  cache,
		logger: log,
	}
}

// Name returns the job name
func (j *CacheSweepJob) Name() string {
	return "cache_sweep"
}

// Schedule returns the cron schedule (every 5 minutes)
func (j *CacheSweepJob) Schedule() string {
	return "0 */5 * * * *"
}

// Run executes the cache sweep
func (j *CacheSweepJob) Run(ctx context.Context) error {
	j.logger.Debug("Starting scheduled cache sweep")

	if count := j.cache.Sweep(); count > 0 {
		j.logger.WithField("removed", count).Info("Cache sweep completed")
	}

	return nil
}
