package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/wonny/stockpulse/backend/pkg/database"
)

// healthCheckTimeout bounds each component check
const healthCheckTimeout = 2 * time.Second

// Component states reported by /health
const (
	ComponentUp       = "up"
	ComponentDown     = "down"
	ComponentDisabled = "disabled"
)

// DatabaseChecker is satisfied by *database.DB
type DatabaseChecker interface {
	HealthCheck(ctx context.Context) (*database.HealthStatus, error)
}

// RedisPinger is satisfied by *redis.Client
type RedisPinger interface {
	Enabled() bool
	Ping(ctx context.Context) error
}

// ComponentStatus is one dependency in the health payload
type ComponentStatus struct {
	Status  string              `json:"status"`
	Latency string              `json:"latency,omitempty"`
	Error   string              `json:"error,omitempty"`
	Pool    *database.PoolStats `json:"pool,omitempty"`
}

// HealthHandler reports liveness and the state of the snapshot store and cache
type HealthHandler struct {
	service  string
	provider string
	started  time.Time
	db       DatabaseChecker
	redis    RedisPinger
}

// NewHealthHandler creates a health handler.
// Without WithDatabase / WithRedis both components report "disabled".
func NewHealthHandler(service, provider string) *HealthHandler {
	return &HealthHandler{service: service, provider: provider, started: time.Now()}
}

// WithDatabase adds the snapshot store database to the checks
func (h *HealthHandler) WithDatabase(db DatabaseChecker) *HealthHandler {
	h.db = db
	return h
}

// WithRedis adds the Redis cache to the checks
func (h *HealthHandler) WithRedis(r RedisPinger) *HealthHandler {
	h.redis = r
	return h
}

// Get returns server health status.
// A down component degrades the status but keeps 200: the API still serves
// from the provider without it.
// GET /health, GET /api/health
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	db := h.checkDatabase(ctx)
	cache := h.checkRedis(ctx)

	status := "OK"
	if db.Status == ComponentDown || cache.Status == ComponentDown {
		status = "DEGRADED"
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    status,
		"service":   h.service,
		"provider":  h.provider,
		"uptime":    time.Since(h.started).Round(time.Second).String(),
		"database":  db,
		"redis":     cache,
		"timestamp": time.Now().UTC(),
	})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) ComponentStatus {
	if h.db == nil {
		return ComponentStatus{Status: ComponentDisabled}
	}

	health, err := h.db.HealthCheck(ctx)
	if err != nil {
		return ComponentStatus{Status: ComponentDown, Error: err.Error()}
	}

	return ComponentStatus{
		Status:  ComponentUp,
		Latency: health.ResponseTime.String(),
		Pool:    &health.Stats,
	}
}

func (h *HealthHandler) checkRedis(ctx context.Context) ComponentStatus {
	if h.redis == nil || !h.redis.Enabled() {
		return ComponentStatus{Status: ComponentDisabled}
	}

	start := time.Now()
	if err := h.redis.Ping(ctx); err != nil {
		return ComponentStatus{Status: ComponentDown, Error: err.Error()}
	}
	return ComponentStatus{Status: ComponentUp, Latency: time.Since(start).String()}
}
