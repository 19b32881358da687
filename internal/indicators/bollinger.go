package indicators

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/wonny/stockpulse/backend/internal/contracts"
)

// Bollinger defaults
const (
	DefaultBollingerPeriod     = 20
	DefaultBollingerMultiplier = 2.0
)

// BollingerBands returns SMA ± multiplier × population standard deviation of
// the trailing period closes. Middle is always identical to SMA(period).
func BollingerBands(history contracts.History, period int, multiplier float64) *contracts.BollingerBands {
	if len(history) < period {
		return nil
	}

	sma := SMA(history, period)
	if sma == nil {
		return nil
	}

	// second moment about the SMA = population variance
	variance := stat.MomentAbout(2, history.Tail(period).Closes(), *sma, nil)
	sd := math.Sqrt(variance)

	return &contracts.BollingerBands{
		Upper:  *sma + multiplier*sd,
		Middle: *sma,
		Lower:  *sma - multiplier*sd,
	}
}
