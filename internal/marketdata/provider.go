package marketdata

import (
	"context"
	"errors"

	"github.com/wonny/stockpulse/backend/internal/contracts"
)

// Sentinel errors shared by every provider
var (
	// ErrNotFound: upstream has no data for the symbol
	ErrNotFound = errors.New("symbol not found")
	// ErrRateLimited: upstream refused the call because of its quota
	ErrRateLimited = errors.New("upstream rate limited")
)

// Provider fetches raw market data from one upstream.
// Implementations map symbols and normalize units; callers always see
// the basket symbol and 0-100 percentages.
type Provider interface {
	Name() string
	Quote(ctx context.Context, symbol string) (*contracts.Quote, error)
	Overview(ctx context.Context, symbol string) (*contracts.Overview, error)
	History(ctx context.Context, symbol string, days int) (contracts.History, error)
}
