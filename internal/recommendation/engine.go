// Package recommendation turns a quote, fundamentals and price history into
// a 0-10 score, a factor breakdown and a BUY/HOLD/SELL verdict.
package recommendation

import (
	"math"

	"github.com/wonny/stockpulse/backend/internal/contracts"
)

// Thresholds maps a total score to an action.
// score >= Buy -> BUY, score >= Hold -> HOLD, otherwise SELL.
type Thresholds struct {
	Buy  float64
	Hold float64
}

// DefaultThresholds are the production cut-offs
var DefaultThresholds = Thresholds{Buy: 8, Hold: 5}

// MaxScore is the sum of all factor ceilings
const MaxScore = maxPrice + maxFundamentals + maxTechnical + maxVolume

var verdicts = map[contracts.Action]contracts.Verdict{
	contracts.ActionBuy: {
		Action:      contracts.ActionBuy,
		Color:       "green",
		Description: "Strong fundamentals and technical indicators suggest a buy opportunity.",
	},
	contracts.ActionHold: {
		Action:      contracts.ActionHold,
		Color:       "yellow",
		Description: "Mixed signals suggest holding current position or waiting for better entry.",
	},
	contracts.ActionSell: {
		Action:      contracts.ActionSell,
		Color:       "red",
		Description: "Weak fundamentals or technical indicators suggest considering a sell.",
	},
}

// Engine scores symbols.
// It holds only immutable configuration and is safe for concurrent use.
// ⭐ SSOT: 추천 점수 계산은 여기서만
type Engine struct {
	thresholds Thresholds
}

// NewEngine creates an engine with the given thresholds
func NewEngine(thresholds Thresholds) *Engine {
	return &Engine{thresholds: thresholds}
}

// NewDefaultEngine creates an engine with DefaultThresholds
func NewDefaultEngine() *Engine {
	return NewEngine(DefaultThresholds)
}

// Thresholds returns the configured cut-offs
func (e *Engine) Thresholds() Thresholds {
	return e.thresholds
}

// CalculateScore scores one symbol. quote and overview may be nil and
// history may be empty; missing data zeroes the affected factor, it never
// fails.
func (e *Engine) CalculateScore(quote *contracts.Quote, overview *contracts.Overview, history contracts.History) contracts.Recommendation {
	factors := []contracts.Factor{
		{Name: FactorPrice, Score: scorePrice(quote), Max: maxPrice},
		{Name: FactorFundamentals, Score: scoreFundamentals(overview), Max: maxFundamentals},
		{Name: FactorTechnical, Score: scoreTechnical(quote, history), Max: maxTechnical},
		{Name: FactorVolume, Score: scoreVolume(quote, history), Max: maxVolume},
	}

	total := 0.0
	for _, f := range factors {
		total += f.Score
	}
	total = clamp(total, 0, MaxScore)
	total = math.Round(total*10) / 10

	return contracts.Recommendation{
		Score:   total,
		Verdict: e.Recommend(total),
		Factors: factors,
	}
}

// Recommend maps a score to its verdict
func (e *Engine) Recommend(score float64) contracts.Verdict {
	switch {
	case score >= e.thresholds.Buy:
		return verdicts[contracts.ActionBuy]
	case score >= e.thresholds.Hold:
		return verdicts[contracts.ActionHold]
	default:
		return verdicts[contracts.ActionSell]
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
