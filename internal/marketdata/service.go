package marketdata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/stockpulse/backend/internal/contracts"
	"github.com/wonny/stockpulse/backend/pkg/logger"
)

// SnapshotStore keeps the last good upstream payload per (kind, symbol).
// A nil store disables stale fallback.
type SnapshotStore interface {
	Save(ctx context.Context, kind, symbol string, payload interface{}) error
	Load(ctx context.Context, kind, symbol string, dest interface{}) (bool, error)
}

// Options tunes a Service
type Options struct {
	CacheTTL    time.Duration
	HistoryDays int
	Concurrency int
	Symbols     []string // empty = DefaultSymbols
}

// Snapshot is everything known about one symbol at fetch time
type Snapshot struct {
	Symbol   string
	Quote    *contracts.Quote
	Overview *contracts.Overview
	History  contracts.History
}

// Service fronts a Provider with a cache and a last-known-good store
// ⭐ SSOT: upstream 데이터 조회는 이 서비스를 통해서만
type Service struct {
	provider Provider
	cache    Cache
	store    SnapshotStore
	opts     Options
	logger   *logger.Logger
}

// NewService creates a market data service.
// cache may be nil (an in-memory cache is used), store may be nil.
func NewService(provider Provider, cache Cache, store SnapshotStore, opts Options, log *logger.Logger) *Service {
	if cache == nil {
		cache = NewMemoryCache(log)
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Minute
	}
	if opts.HistoryDays <= 0 {
		opts.HistoryDays = 90
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 5
	}
	if len(opts.Symbols) == 0 {
		opts.Symbols = DefaultSymbols
	}

	return &Service{
		provider: provider,
		cache:    cache,
		store:    store,
		opts:     opts,
		logger:   log.WithField("provider", provider.Name()),
	}
}

// ProviderName returns the upstream in use
func (s *Service) ProviderName() string {
	return s.provider.Name()
}

// Symbols returns the configured basket
func (s *Service) Symbols() []string {
	out := make([]string, len(s.opts.Symbols))
	copy(out, s.opts.Symbols)
	return out
}

// Quote returns the current quote for symbol
func (s *Service) Quote(ctx context.Context, symbol string) (*contracts.Quote, error) {
	return s.quote(ctx, symbol, false)
}

// Overview returns fundamentals for symbol
func (s *Service) Overview(ctx context.Context, symbol string) (*contracts.Overview, error) {
	return s.overview(ctx, symbol, false)
}

// History returns daily bars over the configured window, oldest first
func (s *Service) History(ctx context.Context, symbol string) (contracts.History, error) {
	return s.history(ctx, symbol, false)
}

// Snapshot fetches quote, overview and history concurrently.
// Only a missing quote is an error; overview and history degrade to empty.
func (s *Service) Snapshot(ctx context.Context, symbol string) (*Snapshot, error) {
	return s.snapshot(ctx, symbol, false)
}

// SnapshotBasket fetches full snapshots for every basket symbol.
// Symbols without a quote are skipped; order follows the basket.
func (s *Service) SnapshotBasket(ctx context.Context) ([]*Snapshot, error) {
	return s.basket(ctx, false)
}

// RefreshBasket re-fetches every basket snapshot from upstream and rewrites
// the cache, ignoring entries that are still live.
// A symbol whose upstream call fails keeps its cached value.
func (s *Service) RefreshBasket(ctx context.Context) ([]*Snapshot, error) {
	return s.basket(ctx, true)
}

func (s *Service) quote(ctx context.Context, symbol string, refresh bool) (*contracts.Quote, error) {
	var quote *contracts.Quote
	err := s.fetch(ctx, KindQuote, symbol, QuoteKey(symbol), refresh, &quote, func(ctx context.Context) (interface{}, error) {
		return s.provider.Quote(ctx, symbol)
	})
	if err != nil {
		return nil, err
	}
	return quote, nil
}

func (s *Service) overview(ctx context.Context, symbol string, refresh bool) (*contracts.Overview, error) {
	var overview *contracts.Overview
	err := s.fetch(ctx, KindOverview, symbol, OverviewKey(symbol), refresh, &overview, func(ctx context.Context) (interface{}, error) {
		return s.provider.Overview(ctx, symbol)
	})
	if err != nil {
		return nil, err
	}
	return overview, nil
}

func (s *Service) history(ctx context.Context, symbol string, refresh bool) (contracts.History, error) {
	var history contracts.History
	days := s.opts.HistoryDays
	err := s.fetch(ctx, KindHistory, symbol, HistoryKey(symbol, days), refresh, &history, func(ctx context.Context) (interface{}, error) {
		return s.provider.History(ctx, symbol, days)
	})
	if err != nil {
		return nil, err
	}
	return history, nil
}

func (s *Service) snapshot(ctx context.Context, symbol string, refresh bool) (*Snapshot, error) {
	snap := &Snapshot{Symbol: symbol}

	var quoteErr error
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap.Quote, quoteErr = s.quote(gctx, symbol, refresh)
		return nil
	})
	g.Go(func() error {
		overview, err := s.overview(gctx, symbol, refresh)
		if err != nil {
			s.logger.WithError(err).WithField("symbol", symbol).Warn("Overview unavailable")
			return nil
		}
		snap.Overview = overview
		return nil
	})
	g.Go(func() error {
		history, err := s.history(gctx, symbol, refresh)
		if err != nil {
			s.logger.WithError(err).WithField("symbol", symbol).Warn("History unavailable")
			return nil
		}
		snap.History = history
		return nil
	})
	_ = g.Wait()

	if quoteErr != nil {
		return nil, quoteErr
	}
	if snap.Quote == nil {
		return nil, fmt.Errorf("quote %s: %w", symbol, ErrNotFound)
	}
	return snap, nil
}

func (s *Service) basket(ctx context.Context, refresh bool) ([]*Snapshot, error) {
	symbols := s.opts.Symbols
	snaps := make([]*Snapshot, len(symbols))

	s.forEach(ctx, symbols, func(ctx context.Context, i int, symbol string) {
		snap, err := s.snapshot(ctx, symbol, refresh)
		if err != nil {
			s.logger.WithError(err).WithField("symbol", symbol).Warn("Skipping basket symbol")
			return
		}
		snaps[i] = snap
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]*Snapshot, 0, len(symbols))
	for _, snap := range snaps {
		if snap != nil {
			out = append(out, snap)
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"requested": len(symbols),
		"fetched":   len(out),
		"refresh":   refresh,
	}).Debug("Basket snapshot complete")

	return out, nil
}

// forEach runs fn over symbols with at most opts.Concurrency in flight
func (s *Service) forEach(ctx context.Context, symbols []string, fn func(ctx context.Context, i int, symbol string)) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)

	for i, symbol := range symbols {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			fn(gctx, i, symbol)
			return nil
		})
	}
	_ = g.Wait()
}

// fetch implements cache -> provider -> snapshot store for one payload.
// refresh skips the cache read so a live entry is replaced; if upstream then
// fails the live entry is kept. dest must be a pointer; load returns the provider value.
func (s *Service) fetch(
	ctx context.Context,
	kind, symbol, key string,
	refresh bool,
	dest interface{},
	load func(ctx context.Context) (interface{}, error),
) error {
	log := s.logger.WithFields(map[string]interface{}{
		"kind":   kind,
		"symbol": symbol,
	})

	if !refresh {
		found, err := s.cache.Get(ctx, key, dest)
		if err != nil {
			log.WithError(err).Warn("Cache read failed")
		} else if found {
			log.Debug("Cache hit")
			return nil
		}
		log.Debug("Cache miss")
	}

	value, err := load(ctx)
	if err == nil {
		if err := s.cache.Set(ctx, key, value, s.opts.CacheTTL); err != nil {
			log.WithError(err).Warn("Cache write failed")
		}
		if s.store != nil {
			if err := s.store.Save(ctx, kind, symbol, value); err != nil {
				log.WithError(err).Warn("Snapshot save failed")
			}
		}
		return assign(dest, value)
	}

	if errors.Is(err, ErrNotFound) || ctx.Err() != nil {
		return fmt.Errorf("%s %s: %w", kind, symbol, err)
	}

	if refresh {
		if found, cacheErr := s.cache.Get(ctx, key, dest); cacheErr == nil && found {
			log.WithError(err).Warn("Refresh failed, keeping cached value")
			return nil
		}
	}

	if s.store == nil {
		return fmt.Errorf("%s %s: %w", kind, symbol, err)
	}

	stale, loadErr := s.store.Load(ctx, kind, symbol, dest)
	if loadErr != nil {
		log.WithError(loadErr).Warn("Snapshot load failed")
	}
	if stale {
		log.WithError(err).Warn("Upstream failed, serving last known snapshot")
		return nil
	}

	return fmt.Errorf("%s %s: %w", kind, symbol, err)
}

// assign copies a provider value into the typed destination
func assign(dest interface{}, value interface{}) error {
	switch d := dest.(type) {
	case **contracts.Quote:
		v, ok := value.(*contracts.Quote)
		if !ok {
			return fmt.Errorf("unexpected quote type %T", value)
		}
		*d = v
	case **contracts.Overview:
		v, ok := value.(*contracts.Overview)
		if !ok {
			return fmt.Errorf("unexpected overview type %T", value)
		}
		*d = v
	case *contracts.History:
		v, ok := value.(contracts.History)
		if !ok {
			return fmt.Errorf("unexpected history type %T", value)
		}
		*d = v
	default:
		return fmt.Errorf("unsupported destination %T", dest)
	}
	return nil
}
