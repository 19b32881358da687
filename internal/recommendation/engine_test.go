package recommendation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stockpulse/backend/internal/contracts"
	"github.com/wonny/stockpulse/backend/internal/indicators"
)

func f(v float64) *float64 { return contracts.Float(v) }

// zigzag builds n bars trending up with alternating +4/-2 steps so RSI(14)
// lands near 66.7, and with volumes rising on every bar.
func zigzag(n int) contracts.History {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	h := make(contracts.History, n)
	for i := range h {
		c := 100 + float64(i)
		if i%2 == 1 {
			c += 3
		}
		h[i] = contracts.PricePoint{
			Timestamp: start.AddDate(0, 0, i),
			Open:      c,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
			Volume:    1000 + float64(i)*100,
		}
	}
	return h
}

func factor(t *testing.T, rec contracts.Recommendation, name string) contracts.Factor {
	t.Helper()
	for _, fc := range rec.Factors {
		if fc.Name == name {
			return fc
		}
	}
	t.Fatalf("factor %q not found", name)
	return contracts.Factor{}
}

func TestCalculateScore_NoData(t *testing.T) {
	rec := NewDefaultEngine().CalculateScore(nil, nil, nil)

	assert.Equal(t, 0.0, rec.Score)
	assert.Equal(t, contracts.ActionSell, rec.Action())
	require.Len(t, rec.Factors, 4)
	for _, fc := range rec.Factors {
		assert.Zero(t, fc.Score, fc.Name)
	}
}

func TestCalculateScore_FactorOrderAndCeilings(t *testing.T) {
	rec := NewDefaultEngine().CalculateScore(nil, nil, contracts.History{})

	names := make([]string, len(rec.Factors))
	maxes := make([]float64, len(rec.Factors))
	for i, fc := range rec.Factors {
		names[i] = fc.Name
		maxes[i] = fc.Max
	}
	assert.Equal(t, []string{FactorPrice, FactorFundamentals, FactorTechnical, FactorVolume}, names)
	assert.Equal(t, []float64{2, 3, 3, 2}, maxes)
	assert.Equal(t, 10.0, MaxScore)
}

func TestCalculateScore_PriceOnly(t *testing.T) {
	quote := &contracts.Quote{Symbol: "TCS.NSE", ChangePercent: f(6)}

	rec := NewDefaultEngine().CalculateScore(quote, nil, nil)

	assert.Equal(t, 2.0, factor(t, rec, FactorPrice).Score)
	assert.Equal(t, 2.0, rec.Score)
	assert.Equal(t, contracts.ActionSell, rec.Action())
}

func TestScorePrice_Tiers(t *testing.T) {
	tests := []struct {
		change *float64
		want   float64
	}{
		{f(10), 2},
		{f(5.01), 2},
		{f(5), 1.5},
		{f(2.5), 1.5},
		{f(2), 1},
		{f(0.1), 1},
		{f(0), 0.5},
		{f(-1.99), 0.5},
		{f(-2), 0},
		{f(-8), 0},
		{nil, 0},
	}

	for _, tt := range tests {
		got := scorePrice(&contracts.Quote{ChangePercent: tt.change})
		assert.Equal(t, tt.want, got, "change %v", tt.change)
	}
	assert.Zero(t, scorePrice(nil))
}

func TestScoreFundamentals(t *testing.T) {
	tests := []struct {
		name     string
		overview *contracts.Overview
		want     float64
	}{
		{"nil overview", nil, 0},
		{"all fields missing", &contracts.Overview{}, 0},
		{"strong", &contracts.Overview{PERatio: f(15), ROE: f(20), ProfitMargin: f(15)}, 3},
		{"moderate", &contracts.Overview{PERatio: f(30), ROE: f(12), ProfitMargin: f(7)}, 1.5},
		{"pe boundary 25 is moderate", &contracts.Overview{PERatio: f(25)}, 0.5},
		{"pe 35 scores nothing", &contracts.Overview{PERatio: f(35)}, 0},
		{"negative pe", &contracts.Overview{PERatio: f(-4), ROE: f(16)}, 1},
		{"zero pe", &contracts.Overview{PERatio: f(0)}, 0},
		{"thresholds are strict", &contracts.Overview{ROE: f(15), ProfitMargin: f(10)}, 1},
		{"weak", &contracts.Overview{PERatio: f(80), ROE: f(3), ProfitMargin: f(1)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scoreFundamentals(tt.overview))
		})
	}
}

func TestScoreTechnical(t *testing.T) {
	history := zigzag(25)

	rsi := indicators.RSI(history, indicators.DefaultRSIPeriod)
	require.NotNil(t, rsi)
	require.Greater(t, *rsi, 30.0)
	require.Less(t, *rsi, 70.0)

	t.Run("all conditions met", func(t *testing.T) {
		assert.Equal(t, 3.0, scoreTechnical(&contracts.Quote{Price: f(200)}, history))
	})

	t.Run("price below both averages keeps the RSI point", func(t *testing.T) {
		assert.Equal(t, 1.0, scoreTechnical(&contracts.Quote{Price: f(50)}, history))
	})

	t.Run("missing price keeps the RSI point", func(t *testing.T) {
		assert.Equal(t, 1.0, scoreTechnical(&contracts.Quote{}, history))
	})

	t.Run("history shorter than 20", func(t *testing.T) {
		assert.Zero(t, scoreTechnical(&contracts.Quote{Price: f(200)}, history.Tail(19)))
	})

	t.Run("nil quote", func(t *testing.T) {
		assert.Zero(t, scoreTechnical(nil, history))
	})

	t.Run("overbought RSI scores nothing", func(t *testing.T) {
		rising := make(contracts.History, 20)
		for i := range rising {
			rising[i] = contracts.PricePoint{Close: float64(100 + i)}
		}
		// RSI 100: above both SMAs only
		assert.Equal(t, 2.0, scoreTechnical(&contracts.Quote{Price: f(500)}, rising))
	})
}

func TestScoreVolume(t *testing.T) {
	history := zigzag(10) // trailing volumes 1500..1900, mean 1700, rising

	tests := []struct {
		name   string
		volume *float64
		want   float64
	}{
		{"spike plus trend", f(3000), 2},
		{"above average plus trend", f(1800), 1.5},
		{"below average, trend only", f(1000), 1},
		{"missing volume, trend only", nil, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scoreVolume(&contracts.Quote{Volume: tt.volume}, history))
		})
	}

	t.Run("history shorter than 5", func(t *testing.T) {
		assert.Zero(t, scoreVolume(&contracts.Quote{Volume: f(3000)}, history.Tail(4)))
	})

	t.Run("nil quote", func(t *testing.T) {
		assert.Zero(t, scoreVolume(nil, history))
	})
}

func TestIsIncreasing(t *testing.T) {
	tests := []struct {
		values []float64
		want   bool
	}{
		{[]float64{1, 2}, false},
		{[]float64{1, 2, 3}, true},
		{[]float64{3, 2, 1}, false},
		{[]float64{1, 2, 1, 2, 1}, false}, // 2 of 5: below 2.5
		{[]float64{1, 2, 3, 2, 1}, false},
		{[]float64{1, 2, 3, 4, 1}, true},
		{[]float64{5, 5, 5, 5, 5}, false},
		{[]float64{1, 2, 1, 2}, true}, // 2 of 4
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isIncreasing(tt.values), "%v", tt.values)
	}
}

func TestCalculateScore_Maximum(t *testing.T) {
	quote := &contracts.Quote{
		Symbol:        "INFY.NSE",
		Price:         f(200),
		ChangePercent: f(10),
		Volume:        f(10000),
	}
	overview := &contracts.Overview{PERatio: f(15), ROE: f(20), ProfitMargin: f(15)}

	rec := NewDefaultEngine().CalculateScore(quote, overview, zigzag(25))

	assert.Equal(t, 10.0, rec.Score)
	assert.Equal(t, contracts.ActionBuy, rec.Action())
	assert.Equal(t, "green", rec.Verdict.Color)
	for _, fc := range rec.Factors {
		assert.Equal(t, fc.Max, fc.Score, fc.Name)
	}
}

func TestCalculateScore_Hold(t *testing.T) {
	quote := &contracts.Quote{Price: f(200), ChangePercent: f(1)}
	overview := &contracts.Overview{PERatio: f(15), ROE: f(20)}

	// 1 + 2 + 3 + 1 (trend only) = 7
	rec := NewDefaultEngine().CalculateScore(quote, overview, zigzag(25))

	assert.Equal(t, 7.0, rec.Score)
	assert.Equal(t, contracts.ActionHold, rec.Action())
}

func TestCalculateScore_Idempotent(t *testing.T) {
	engine := NewDefaultEngine()
	quote := &contracts.Quote{Price: f(130), ChangePercent: f(2.5), Volume: f(1200)}
	overview := &contracts.Overview{PERatio: f(28), ROE: f(11), ProfitMargin: f(6)}
	history := zigzag(40)
	snapshot := append(contracts.History(nil), history...)

	first := engine.CalculateScore(quote, overview, history)
	second := engine.CalculateScore(quote, overview, history)

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, history, "history must not be mutated")
}

func TestRecommend_Boundaries(t *testing.T) {
	engine := NewDefaultEngine()

	tests := []struct {
		score float64
		want  contracts.Action
		color string
	}{
		{10, contracts.ActionBuy, "green"},
		{8.0, contracts.ActionBuy, "green"},
		{7.99, contracts.ActionHold, "yellow"},
		{5.0, contracts.ActionHold, "yellow"},
		{4.99, contracts.ActionSell, "red"},
		{0, contracts.ActionSell, "red"},
	}

	for _, tt := range tests {
		v := engine.Recommend(tt.score)
		assert.Equal(t, tt.want, v.Action, "score %.2f", tt.score)
		assert.Equal(t, tt.color, v.Color, "score %.2f", tt.score)
		assert.NotEmpty(t, v.Description)
	}
}

func TestRecommend_CustomThresholds(t *testing.T) {
	engine := NewEngine(Thresholds{Buy: 6, Hold: 3})

	assert.Equal(t, contracts.ActionBuy, engine.Recommend(6).Action)
	assert.Equal(t, contracts.ActionHold, engine.Recommend(3).Action)
	assert.Equal(t, contracts.ActionSell, engine.Recommend(2.9).Action)
	assert.Equal(t, Thresholds{Buy: 6, Hold: 3}, engine.Thresholds())
}

func TestCalculateScore_Concurrent(t *testing.T) {
	engine := NewDefaultEngine()
	quote := &contracts.Quote{Price: f(200), ChangePercent: f(3), Volume: f(5000)}
	history := zigzag(30)
	want := engine.CalculateScore(quote, nil, history)

	done := make(chan contracts.Recommendation, 16)
	for i := 0; i < cap(done); i++ {
		go func() { done <- engine.CalculateScore(quote, nil, history) }()
	}
	for i := 0; i < cap(done); i++ {
		assert.Equal(t, want, <-done)
	}
}
