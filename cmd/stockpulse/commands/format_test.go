package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/stockpulse/backend/internal/contracts"
)

func TestFormatNullable(t *testing.T) {
	tests := []struct {
		name     string
		value    *float64
		decimals int
		want     string
	}{
		{"nil", nil, 2, "n/a"},
		{"two decimals", contracts.Float(1234.5678), 2, "1234.57"},
		{"zero is a value", contracts.Float(0), 1, "0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatNullable(tt.value, tt.decimals))
		})
	}
}

func TestActionIcon(t *testing.T) {
	assert.Equal(t, "🟢", actionIcon(contracts.ActionBuy))
	assert.Equal(t, "🟡", actionIcon(contracts.ActionHold))
	assert.Equal(t, "🔴", actionIcon(contracts.ActionSell))
}

func TestPrintScoreReport(t *testing.T) {
	rec := contracts.Recommendation{
		Score: 7.5,
		Verdict: contracts.Verdict{
			Action:      contracts.ActionBuy,
			Color:       "green",
			Description: "Strong buy signal",
		},
		Factors: []contracts.Factor{
			{Name: "Price Performance", Score: 1.5, Max: 2},
			{Name: "Fundamentals", Score: 3, Max: 3},
		},
	}
	ind := contracts.IndicatorSet{
		SMA20: contracts.Float(101.25),
		RSI:   contracts.Float(55),
		MACD:  &contracts.MACD{MACDLine: 0.1234},
	}
	quote := &contracts.Quote{Symbol: "TCS.NSE", Price: contracts.Float(3500), ChangePercent: contracts.Float(1.2)}
	overview := &contracts.Overview{Symbol: "TCS.NSE", Name: "Tata Consultancy Services"}

	var buf bytes.Buffer
	PrintScoreReport(&buf, "TCS.NSE", overview, quote, rec, ind)
	out := buf.String()

	assert.Contains(t, out, "TCS.NSE  (Tata Consultancy Services)")
	assert.Contains(t, out, "Price     : 3500.00 (1.20%)")
	assert.Contains(t, out, "Score     : 7.5 / 10")
	assert.Contains(t, out, "🟢 BUY - Strong buy signal")
	assert.Contains(t, out, "Price Performance    1.5 / 2")
	assert.Contains(t, out, "SMA20     : 101.25")
	assert.Contains(t, out, "SMA50     : n/a")
	assert.Contains(t, out, "MACD      : 0.1234")
	assert.Contains(t, out, "Bollinger : n/a")
}

func TestPrintScoreReport_NameFallsBackToSymbol(t *testing.T) {
	var buf bytes.Buffer
	PrintScoreReport(&buf, "XYZ.NSE", nil, nil, contracts.Recommendation{}, contracts.IndicatorSet{})

	assert.Contains(t, buf.String(), "XYZ.NSE  (XYZ.NSE)")
	assert.NotContains(t, buf.String(), "Price     :")
}

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"api", "score", "scheduler"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}
