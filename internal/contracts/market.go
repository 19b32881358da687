package contracts

import "time"

// Quote is a point-in-time market snapshot for one symbol.
// Numeric fields are nil when upstream did not provide them; nil is not zero.
// ⭐ SSOT: 시세 스냅샷 타입은 여기서만
type Quote struct {
	Symbol        string    `json:"symbol"`
	Price         *float64  `json:"price"`
	Change        *float64  `json:"change"`
	ChangePercent *float64  `json:"changePercent"`
	Volume        *float64  `json:"volume"`
	High          *float64  `json:"high"`
	Low           *float64  `json:"low"`
	Open          *float64  `json:"open"`
	PreviousClose *float64  `json:"previousClose"`
	Timestamp     time.Time `json:"timestamp"`
}

// Overview holds company fundamentals.
// DividendYield, ROE, ROA and ProfitMargin are percentages on the 0-100 scale;
// providers normalize before handing an Overview to the engine.
type Overview struct {
	Symbol         string    `json:"symbol"`
	Name           string    `json:"name,omitempty"`
	Description    string    `json:"description,omitempty"`
	Sector         string    `json:"sector,omitempty"`
	Industry       string    `json:"industry,omitempty"`
	MarketCap      *float64  `json:"marketCap"`
	PERatio        *float64  `json:"peRatio"`
	PEGRatio       *float64  `json:"pegRatio"`
	EPS            *float64  `json:"eps"`
	BookValue      *float64  `json:"bookValue"`
	DividendYield  *float64  `json:"dividendYield"`
	ROE            *float64  `json:"roe"`
	ROA            *float64  `json:"roa"`
	ProfitMargin   *float64  `json:"profitMargin"`
	RevenueTTM     *float64  `json:"revenueTTM"`
	GrossProfitTTM *float64  `json:"grossProfitTTM"`
	Timestamp      time.Time `json:"timestamp"`
}

// PricePoint is one daily bar
type PricePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// History is an ordered series of bars, oldest first.
// Every window computation reads from the tail.
type History []PricePoint

// Closes returns the close prices in order
func (h History) Closes() []float64 {
	closes := make([]float64, len(h))
	for i, p := range h {
		closes[i] = p.Close
	}
	return closes
}

// Volumes returns the volumes in order
func (h History) Volumes() []float64 {
	volumes := make([]float64, len(h))
	for i, p := range h {
		volumes[i] = p.Volume
	}
	return volumes
}

// Tail returns the last n points (or all of them if n exceeds the length).
// The result shares the backing array; callers must not write to it.
func (h History) Tail(n int) History {
	if n >= len(h) {
		return h
	}
	if n <= 0 {
		return History{}
	}
	return h[len(h)-n:]
}

// Float returns a pointer to v, for building nullable fields
func Float(v float64) *float64 {
	return &v
}

// Value dereferences a nullable field, returning 0 and false when absent
func Value(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}
