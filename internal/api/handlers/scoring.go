package handlers

import (
	"sort"
	"strings"
	"time"

	"github.com/wonny/stockpulse/backend/internal/contracts"
	"github.com/wonny/stockpulse/backend/internal/marketdata"
	"github.com/wonny/stockpulse/backend/internal/recommendation"
)

// StockRecommendation is one scored basket row
type StockRecommendation struct {
	Symbol         string             `json:"symbol"`
	Name           string             `json:"name"`
	Price          *float64           `json:"price"`
	Change         *float64           `json:"change"`
	ChangePercent  *float64           `json:"changePercent"`
	Volume         *float64           `json:"volume"`
	Recommendation contracts.Verdict  `json:"recommendation"`
	Score          float64            `json:"score"`
	Factors        []contracts.Factor `json:"factors,omitempty"`
	Sector         string             `json:"sector"`
	MarketCap      *float64           `json:"marketCap"`
	PERatio        *float64           `json:"peRatio"`
	Timestamp      time.Time          `json:"timestamp"`
}

// scoreSnapshot runs the engine over one snapshot
func scoreSnapshot(engine *recommendation.Engine, snap *marketdata.Snapshot) StockRecommendation {
	rec := engine.CalculateScore(snap.Quote, snap.Overview, snap.History)

	row := StockRecommendation{
		Symbol:         snap.Symbol,
		Name:           snap.Symbol,
		Price:          snap.Quote.Price,
		Change:         snap.Quote.Change,
		ChangePercent:  snap.Quote.ChangePercent,
		Volume:         snap.Quote.Volume,
		Recommendation: rec.Verdict,
		Score:          rec.Score,
		Factors:        rec.Factors,
		Sector:         "Unknown",
		Timestamp:      time.Now().UTC(),
	}

	if o := snap.Overview; o != nil {
		if o.Name != "" {
			row.Name = o.Name
		}
		if o.Sector != "" {
			row.Sector = o.Sector
		}
		row.MarketCap = o.MarketCap
		row.PERatio = o.PERatio
	}
	return row
}

// Sort keys accepted by /api/recommendations
const (
	SortScore         = "score"
	SortPrice         = "price"
	SortChange        = "change"
	SortChangePercent = "changePercent"
	SortVolume        = "volume"
	SortSymbol        = "symbol"
)

// sortRecommendations orders rows in place; unknown keys sort by score.
// Missing numbers sort below every present number.
func sortRecommendations(rows []StockRecommendation, sortBy string, ascending bool) {
	less := func(a, b StockRecommendation) bool {
		switch sortBy {
		case SortSymbol:
			return strings.ToLower(a.Symbol) < strings.ToLower(b.Symbol)
		case SortPrice:
			return lessNullable(a.Price, b.Price)
		case SortChange:
			return lessNullable(a.Change, b.Change)
		case SortChangePercent:
			return lessNullable(a.ChangePercent, b.ChangePercent)
		case SortVolume:
			return lessNullable(a.Volume, b.Volume)
		default:
			return a.Score < b.Score
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if ascending {
			return less(rows[i], rows[j])
		}
		return less(rows[j], rows[i])
	})
}

func lessNullable(a, b *float64) bool {
	switch {
	case a == nil:
		return b != nil
	case b == nil:
		return false
	}
	return *a < *b
}

// Grouped splits rows by action, keeping their order
type Grouped struct {
	Buy  []StockRecommendation `json:"buy"`
	Hold []StockRecommendation `json:"hold"`
	Sell []StockRecommendation `json:"sell"`
}

// Summary counts rows per action
type Summary struct {
	Total int `json:"total"`
	Buy   int `json:"buy"`
	Hold  int `json:"hold"`
	Sell  int `json:"sell"`
}

func group(rows []StockRecommendation) (Grouped, Summary) {
	g := Grouped{
		Buy:  []StockRecommendation{},
		Hold: []StockRecommendation{},
		Sell: []StockRecommendation{},
	}
	for _, row := range rows {
		switch row.Recommendation.Action {
		case contracts.ActionBuy:
			g.Buy = append(g.Buy, row)
		case contracts.ActionHold:
			g.Hold = append(g.Hold, row)
		case contracts.ActionSell:
			g.Sell = append(g.Sell, row)
		}
	}
	return g, Summary{Total: len(rows), Buy: len(g.Buy), Hold: len(g.Hold), Sell: len(g.Sell)}
}
