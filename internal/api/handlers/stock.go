package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/stockpulse/backend/internal/contracts"
	"github.com/wonny/stockpulse/backend/internal/indicators"
	"github.com/wonny/stockpulse/backend/internal/marketdata"
	"github.com/wonny/stockpulse/backend/internal/recommendation"
	"github.com/wonny/stockpulse/backend/pkg/logger"
)

// detailHistoryPoints caps the history returned by GET /api/stocks/{symbol}
const detailHistoryPoints = 100

// StockHandler handles stock data API endpoints
// ⭐ SSOT: 종목 데이터 API 핸들러는 이 구조체에서만
type StockHandler struct {
	market MarketData
	engine *recommendation.Engine
	logger *logger.Logger
}

// NewStockHandler creates a new stock handler
func NewStockHandler(market MarketData, engine *recommendation.Engine, log *logger.Logger) *StockHandler {
	return &StockHandler{
		market: market,
		engine: engine,
		logger: log,
	}
}

// StockListItem is a basket quote merged with its recommendation
type StockListItem struct {
	*contracts.Quote
	Recommendation contracts.Verdict  `json:"recommendation"`
	Score          float64            `json:"score"`
	Factors        []contracts.Factor `json:"factors"`
}

// StockDetail is the payload of GET /api/stocks/{symbol}
type StockDetail struct {
	Quote               *contracts.Quote         `json:"quote"`
	Overview            *contracts.Overview      `json:"overview"`
	TimeSeries          contracts.History        `json:"timeSeries"`
	Recommendation      contracts.Recommendation `json:"recommendation"`
	TechnicalIndicators contracts.IndicatorSet   `json:"technicalIndicators"`
}

// ListStocks returns every basket stock with its score
// GET /api/stocks
func (h *StockHandler) ListStocks(w http.ResponseWriter, r *http.Request) {
	snaps, err := h.market.SnapshotBasket(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch stocks")
		RespondError(w, http.StatusInternalServerError, "Failed to fetch stocks data", err.Error())
		return
	}

	items := make([]StockListItem, 0, len(snaps))
	for _, snap := range snaps {
		rec := h.engine.CalculateScore(snap.Quote, snap.Overview, snap.History)
		items = append(items, StockListItem{
			Quote:          snap.Quote,
			Recommendation: rec.Verdict,
			Score:          rec.Score,
			Factors:        rec.Factors,
		})
	}

	respondList(w, items, len(items))
}

// GetStock returns quote, fundamentals, history, recommendation and indicators
// GET /api/stocks/{symbol}
func (h *StockHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	symbol := marketdata.NormalizeSymbol(mux.Vars(r)["symbol"])
	if symbol == "" {
		RespondError(w, http.StatusBadRequest, "Invalid symbol", "symbol is required")
		return
	}

	snap, err := h.market.Snapshot(r.Context(), symbol)
	if err != nil {
		h.respondFetchError(w, symbol, err, "Failed to fetch stock data")
		return
	}

	history := snap.History
	if history == nil {
		history = contracts.History{}
	}

	respondData(w, StockDetail{
		Quote:               snap.Quote,
		Overview:            snap.Overview,
		TimeSeries:          history.Tail(detailHistoryPoints),
		Recommendation:      h.engine.CalculateScore(snap.Quote, snap.Overview, history),
		TechnicalIndicators: indicators.Compute(history),
	})
}

// GetQuote returns the current quote only
// GET /api/quote/{symbol}
func (h *StockHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	symbol := marketdata.NormalizeSymbol(mux.Vars(r)["symbol"])
	if symbol == "" {
		RespondError(w, http.StatusBadRequest, "Invalid symbol", "symbol is required")
		return
	}

	quote, err := h.market.Quote(r.Context(), symbol)
	if err == nil && quote == nil {
		err = marketdata.ErrNotFound
	}
	if err != nil {
		h.respondFetchError(w, symbol, err, "Failed to fetch quote")
		return
	}

	respondData(w, quote)
}

// respondFetchError maps ErrNotFound to 404 and anything else to 500
func (h *StockHandler) respondFetchError(w http.ResponseWriter, symbol string, err error, title string) {
	if errors.Is(err, marketdata.ErrNotFound) {
		RespondError(w, http.StatusNotFound, "Stock not found", fmt.Sprintf("No data found for symbol: %s", symbol))
		return
	}

	h.logger.WithError(err).WithField("symbol", symbol).Error(title)
	RespondError(w, http.StatusInternalServerError, title, err.Error())
}
