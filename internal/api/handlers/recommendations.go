package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/wonny/stockpulse/backend/internal/contracts"
	"github.com/wonny/stockpulse/backend/internal/recommendation"
	"github.com/wonny/stockpulse/backend/pkg/logger"
)

const defaultTopLimit = 10

// RecommendationHandler serves the ranked basket
// ⭐ SSOT: 추천 API 핸들러는 이 구조체에서만
type RecommendationHandler struct {
	market MarketData
	engine *recommendation.Engine
	logger *logger.Logger
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(market MarketData, engine *recommendation.Engine, log *logger.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		market: market,
		engine: engine,
		logger: log,
	}
}

// RecommendationList is the payload of GET /api/recommendations
type RecommendationList struct {
	Recommendations []StockRecommendation `json:"recommendations"`
	Grouped         Grouped               `json:"grouped"`
	Summary         Summary               `json:"summary"`
}

// scoreBasket fetches and scores the whole basket
func (h *RecommendationHandler) scoreBasket(r *http.Request) ([]StockRecommendation, error) {
	snaps, err := h.market.SnapshotBasket(r.Context())
	if err != nil {
		return nil, err
	}

	rows := make([]StockRecommendation, 0, len(snaps))
	for _, snap := range snaps {
		rows = append(rows, scoreSnapshot(h.engine, snap))
	}
	return rows, nil
}

// List returns every recommendation, sorted, grouped and summarized
// GET /api/recommendations?sortBy=score&order=desc
func (h *RecommendationHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	sortBy := query.Get("sortBy")
	if sortBy == "" {
		sortBy = SortScore
	}
	ascending := strings.EqualFold(query.Get("order"), "asc")

	rows, err := h.scoreBasket(r)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch recommendations")
		RespondError(w, http.StatusInternalServerError, "Failed to fetch recommendations", err.Error())
		return
	}

	sortRecommendations(rows, sortBy, ascending)
	grouped, summary := group(rows)

	respondData(w, RecommendationList{
		Recommendations: rows,
		Grouped:         grouped,
		Summary:         summary,
	})
}

// Top returns the highest scores, optionally filtered by action
// GET /api/recommendations/top?limit=10&type=all
func (h *RecommendationHandler) Top(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := defaultTopLimit
	if s := query.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			RespondError(w, http.StatusBadRequest, "Invalid limit", "limit must be a positive integer")
			return
		}
		limit = n
	}

	var action contracts.Action
	switch t := strings.ToLower(query.Get("type")); t {
	case "", "all":
	case "buy", "hold", "sell":
		action = contracts.Action(strings.ToUpper(t))
	default:
		RespondError(w, http.StatusBadRequest, "Invalid type", "type must be one of: all, buy, hold, sell")
		return
	}

	rows, err := h.scoreBasket(r)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch top recommendations")
		RespondError(w, http.StatusInternalServerError, "Failed to fetch top recommendations", err.Error())
		return
	}

	filtered := make([]StockRecommendation, 0, len(rows))
	for _, row := range rows {
		if action == "" || row.Recommendation.Action == action {
			row.Factors = nil
			filtered = append(filtered, row)
		}
	}

	sortRecommendations(filtered, SortScore, false)
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	respondList(w, filtered, len(filtered))
}
