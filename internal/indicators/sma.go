package indicators

import (
	"gonum.org/v1/gonum/stat"

	"github.com/wonny/stockpulse/backend/internal/contracts"
)

// SMA returns the mean close of exactly the trailing period points
func SMA(history contracts.History, period int) *float64 {
	if period <= 0 || len(history) < period {
		return nil
	}
	return contracts.Float(mean(history.Tail(period).Closes()))
}

func mean(values []float64) float64 {
	return stat.Mean(values, nil)
}
