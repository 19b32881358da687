package contracts

// MACD holds the MACD line only.
// Signal and Histogram are never computed and stay nil; they are kept in the
// payload so consumers handle their absence.
type MACD struct {
	MACDLine  float64  `json:"macd"`
	Signal    *float64 `json:"signal"`
	Histogram *float64 `json:"histogram"`
}

// BollingerBands is the volatility envelope around the SMA
type BollingerBands struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// IndicatorSet is the technical panel served next to a recommendation.
// A nil field means there was not enough history, never zero.
type IndicatorSet struct {
	SMA20          *float64        `json:"sma20"`
	SMA50          *float64        `json:"sma50"`
	RSI            *float64        `json:"rsi"`
	MACD           *MACD           `json:"macd"`
	BollingerBands *BollingerBands `json:"bollingerBands"`
}
