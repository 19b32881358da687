package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/wonny/stockpulse/backend/internal/contracts"
	"github.com/wonny/stockpulse/backend/internal/marketdata"
)

// MarketData is what the handlers need from the market data layer.
// *marketdata.Service satisfies it.
type MarketData interface {
	ProviderName() string
	Quote(ctx context.Context, symbol string) (*contracts.Quote, error)
	Snapshot(ctx context.Context, symbol string) (*marketdata.Snapshot, error)
	SnapshotBasket(ctx context.Context) ([]*marketdata.Snapshot, error)
}

// successResponse is the envelope for every 2xx body
type successResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data"`
	Count     *int        `json:"count,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// errorResponse is the envelope for every error body
type errorResponse struct {
	Success   bool      `json:"success"`
	Error     string    `json:"error"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondData(w http.ResponseWriter, data interface{}) {
	respondJSON(w, http.StatusOK, successResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}

func respondList(w http.ResponseWriter, data interface{}, count int) {
	respondJSON(w, http.StatusOK, successResponse{
		Success:   true,
		Data:      data,
		Count:     &count,
		Timestamp: time.Now().UTC(),
	})
}

// RespondError writes the error envelope; exported for router-level handlers
func RespondError(w http.ResponseWriter, status int, title, message string) {
	respondJSON(w, status, errorResponse{
		Success:   false,
		Error:     title,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}
