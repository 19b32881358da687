package indicators

import "github.com/wonny/stockpulse/backend/internal/contracts"

// MACD defaults
const (
	DefaultMACDFast   = 12
	DefaultMACDSlow   = 26
	DefaultMACDSignal = 9
)

// EMA returns the exponential moving average over the whole history.
//
// The average is seeded with the first close of the series (not an SMA of
// the first window) and folded across every point, so adding older bars
// changes the result. MACD values depend on this; keep it full-history.
func EMA(history contracts.History, period int) *float64 {
	if period <= 0 || len(history) < period {
		return nil
	}

	k := 2.0 / float64(period+1)
	ema := history[0].Close
	for i := 1; i < len(history); i++ {
		ema = history[i].Close*k + ema*(1-k)
	}

	return contracts.Float(ema)
}

// MACD returns EMA(fast) - EMA(slow).
// The signal period is accepted for call-site symmetry but the signal line
// and histogram are not computed; both stay nil in the result.
func MACD(history contracts.History, fast, slow, signal int) *contracts.MACD {
	_ = signal

	if len(history) < slow {
		return nil
	}

	fastEMA := EMA(history, fast)
	slowEMA := EMA(history, slow)
	if fastEMA == nil || slowEMA == nil {
		return nil
	}

	return &contracts.MACD{
		MACDLine: *fastEMA - *slowEMA,
	}
}
