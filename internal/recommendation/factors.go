package recommendation

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/wonny/stockpulse/backend/internal/contracts"
	"github.com/wonny/stockpulse/backend/internal/indicators"
)

// Factor names, in evaluation order
const (
	FactorPrice        = "Price Performance"
	FactorFundamentals = "Fundamentals"
	FactorTechnical    = "Technical Analysis"
	FactorVolume       = "Volume Analysis"
)

// Factor ceilings
const (
	maxPrice        = 2.0
	maxFundamentals = 3.0
	maxTechnical    = 3.0
	maxVolume       = 2.0
)

// History requirements
const (
	minTechnicalHistory = 20
	volumeWindow        = 5
	minTrendLength      = 3
)

// scorePrice tiers the day's change percent.
// Max: 2
func scorePrice(q *contracts.Quote) float64 {
	if q == nil {
		return 0
	}
	change, ok := contracts.Value(q.ChangePercent)
	if !ok {
		return 0
	}

	switch {
	case change > 5:
		return 2
	case change > 2:
		return 1.5
	case change > 0:
		return 1
	case change > -2:
		return 0.5
	default:
		return 0
	}
}

// scoreFundamentals adds P/E, ROE and profit margin checks.
// Max: 3
func scoreFundamentals(o *contracts.Overview) float64 {
	if o == nil {
		return 0
	}

	score := 0.0

	if pe, ok := contracts.Value(o.PERatio); ok {
		switch {
		case pe > 0 && pe < 25:
			score += 1
		case pe >= 25 && pe < 35:
			score += 0.5
		}
	}

	if roe, ok := contracts.Value(o.ROE); ok {
		switch {
		case roe > 15:
			score += 1
		case roe > 10:
			score += 0.5
		}
	}

	if margin, ok := contracts.Value(o.ProfitMargin); ok {
		switch {
		case margin > 10:
			score += 1
		case margin > 5:
			score += 0.5
		}
	}

	return math.Min(score, maxFundamentals)
}

// scoreTechnical checks price against SMA20 and the long SMA, plus RSI(14).
// The long SMA window is min(50, len(history)).
// Max: 3
func scoreTechnical(q *contracts.Quote, history contracts.History) float64 {
	if q == nil || len(history) < minTechnicalHistory {
		return 0
	}

	score := 0.0

	if price, ok := contracts.Value(q.Price); ok {
		if sma20 := indicators.SMA(history, 20); sma20 != nil && price > *sma20 {
			score += 1
		}
		if smaLong := indicators.SMA(history, min(50, len(history))); smaLong != nil && price > *smaLong {
			score += 1
		}
	}

	if rsi := indicators.RSI(history, indicators.DefaultRSIPeriod); rsi != nil {
		switch {
		case *rsi > 30 && *rsi < 70:
			score += 1
		case *rsi > 20 && *rsi < 80:
			score += 0.5
		}
	}

	return math.Min(score, maxTechnical)
}

// scoreVolume compares today's volume with the trailing 5-bar mean and
// rewards a rising volume trend.
// Max: 2
func scoreVolume(q *contracts.Quote, history contracts.History) float64 {
	if q == nil || len(history) < volumeWindow {
		return 0
	}

	recent := history.Tail(volumeWindow).Volumes()
	score := 0.0

	if volume, ok := contracts.Value(q.Volume); ok {
		avg := stat.Mean(recent, nil)
		switch {
		case volume > avg*1.5:
			score += 1
		case volume > avg:
			score += 0.5
		}
	}

	if isIncreasing(recent) {
		score += 1
	}

	return math.Min(score, maxVolume)
}

// isIncreasing reports whether at least half of the adjacent pairs rise.
// Sequences shorter than 3 never count as a trend.
func isIncreasing(values []float64) bool {
	if len(values) < minTrendLength {
		return false
	}

	rising := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[i-1] {
			rising++
		}
	}

	return float64(rising) >= float64(len(values))/2
}
