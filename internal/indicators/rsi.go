package indicators

import "github.com/wonny/stockpulse/backend/internal/contracts"

// DefaultRSIPeriod is the lookback used by the dashboard and the engine
const DefaultRSIPeriod = 14

// RSI computes a simple (non-smoothed) relative strength index over the
// trailing period+1 closes. A window without losses scores exactly 100.
func RSI(history contracts.History, period int) *float64 {
	if period <= 0 || len(history) < period+1 {
		return nil
	}

	window := history.Tail(period + 1)

	var gains, losses float64
	for i := 1; i < len(window); i++ {
		change := window[i].Close - window[i-1].Close
		switch {
		case change > 0:
			gains += change
		case change < 0:
			losses -= change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	if avgLoss == 0 {
		return contracts.Float(100)
	}

	rs := avgGain / avgLoss
	return contracts.Float(100 - 100/(1+rs))
}
