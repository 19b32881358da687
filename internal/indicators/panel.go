package indicators

import "github.com/wonny/stockpulse/backend/internal/contracts"

// MinPanelHistory is the shortest history that produces a panel
const MinPanelHistory = 20

// Compute builds the dashboard indicator panel.
// Below MinPanelHistory points every field is nil. SMA50 uses a window of
// min(50, len) points so a 20..49 point history still gets a long average.
func Compute(history contracts.History) contracts.IndicatorSet {
	if len(history) < MinPanelHistory {
		return contracts.IndicatorSet{}
	}

	return contracts.IndicatorSet{
		SMA20:          SMA(history, 20),
		SMA50:          SMA(history, min(50, len(history))),
		RSI:            RSI(history, DefaultRSIPeriod),
		MACD:           MACD(history, DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal),
		BollingerBands: BollingerBands(history, DefaultBollingerPeriod, DefaultBollingerMultiplier),
	}
}
