package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/wonny/stockpulse/backend/internal/external/alphavantage"
	"github.com/wonny/stockpulse/backend/internal/external/yahoo"
	"github.com/wonny/stockpulse/backend/internal/marketdata"
	"github.com/wonny/stockpulse/backend/internal/marketdata/store"
	"github.com/wonny/stockpulse/backend/internal/recommendation"
	"github.com/wonny/stockpulse/backend/internal/scheduler"
	"github.com/wonny/stockpulse/backend/internal/scheduler/jobs"
	"github.com/wonny/stockpulse/backend/pkg/config"
	"github.com/wonny/stockpulse/backend/pkg/database"
	"github.com/wonny/stockpulse/backend/pkg/httputil"
	"github.com/wonny/stockpulse/backend/pkg/logger"
	"github.com/wonny/stockpulse/backend/pkg/redis"
)

// cachePrefix namespaces every Redis key this service writes
const cachePrefix = "stockpulse"

// runtime holds the dependencies shared by every subcommand
// ⭐ SSOT: 의존성 조립은 여기서만
type runtime struct {
	cfg    *config.Config
	log    *logger.Logger
	redis  *redis.Client
	db     *database.DB
	memory *marketdata.MemoryCache // nil when Redis backs the cache
	market *marketdata.Service
	engine *recommendation.Engine
}

// newRuntime loads config and wires cache, rate limiting, provider and snapshot store
func newRuntime(ctx context.Context) (*runtime, error) {
	// Flags override the environment before config validation runs
	if env != "" {
		_ = os.Setenv("ENV", env)
	}
	if provider != "" {
		_ = os.Setenv("MARKET_PROVIDER", provider)
	}

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	rt := &runtime{
		cfg:    cfg,
		log:    log,
		engine: recommendation.NewDefaultEngine(),
	}

	// 3. Redis (optional)
	rt.redis, err = redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	// 4. HTTP client, cache and upstream rate limit
	httpClient := httputil.New(log)

	var cache marketdata.Cache
	if rt.redis.Enabled() {
		cache = redis.NewCache(rt.redis, cachePrefix)
		limiter := redis.NewRateLimiter(rt.redis, cachePrefix)
		httpClient.WithRateLimiter(limiter, redis.UpstreamRateLimit(cfg.Market.Provider, cfg.Market.UpstreamRatePerSec))
		log.Info("Using Redis cache and shared rate limit")
	} else {
		rt.memory = marketdata.NewMemoryCache(log)
		cache = rt.memory
		httpClient.WithLocalLimit(cfg.Market.UpstreamRatePerSec)
		log.Info("Using in-process cache and rate limit")
	}

	// 5. Upstream provider
	var upstream marketdata.Provider
	switch cfg.Market.Provider {
	case config.ProviderAlphaVantage:
		upstream = alphavantage.NewClient(httpClient, cfg.Market.AlphaVantageBaseURL, cfg.Market.AlphaVantageAPIKey, log)
	default:
		upstream = yahoo.NewClient(httpClient, cfg.Market.YahooBaseURL, log)
	}

	// 6. Snapshot store (optional)
	var snapshots marketdata.SnapshotStore
	if cfg.Database.Enabled() {
		rt.db, err = database.New(ctx, cfg)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("connect to database: %w", err)
		}

		repo := store.NewSnapshotRepository(rt.db.Pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			rt.Close()
			return nil, fmt.Errorf("ensure snapshot schema: %w", err)
		}
		snapshots = repo
		log.Info("Connected to database, stale fallback enabled")
	}

	// 7. Market data service
	rt.market = marketdata.NewService(upstream, cache, snapshots, marketdata.Options{
		CacheTTL:    cfg.Market.CacheTTL,
		HistoryDays: cfg.Market.HistoryDays,
		Concurrency: cfg.Market.FetchConcurrency,
		Symbols:     cfg.Market.Symbols,
	}, log)

	return rt, nil
}

// newScheduler registers the background jobs for this runtime
func (rt *runtime) newScheduler() (*scheduler.Scheduler, error) {
	sched := scheduler.New(rt.log)

	if err := sched.AddJob(jobs.NewWarmupJob(rt.market, rt.cfg.Scheduler.WarmupCron, rt.log)); err != nil {
		return nil, err
	}

	// Redis expires keys itself
	if rt.memory != nil {
		if err := sched.AddJob(jobs.NewCacheSweepJob(rt.memory, rt.log)); err != nil {
			return nil, err
		}
	}

	return sched, nil
}

// Close releases database and Redis connections
func (rt *runtime) Close() {
	if rt.db != nil {
		rt.db.Close()
	}
	if rt.redis != nil {
		if err := rt.redis.Close(); err != nil {
			rt.log.WithError(err).Warn("Failed to close redis")
		}
	}
}
