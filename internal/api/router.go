package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"

	"github.com/wonny/stockpulse/backend/internal/api/handlers"
	"github.com/wonny/stockpulse/backend/pkg/logger"
)

// Handlers groups everything the router mounts
type Handlers struct {
	Health          *handlers.HealthHandler
	Stocks          *handlers.StockHandler
	Recommendations *handlers.RecommendationHandler
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(h Handlers, corsOrigins []string, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", h.Health.Get).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", h.Health.Get).Methods("GET")

	// Stock endpoints
	api.HandleFunc("/quote/{symbol}", h.Stocks.GetQuote).Methods("GET")
	api.HandleFunc("/stocks", h.Stocks.ListStocks).Methods("GET")
	api.HandleFunc("/stocks/{symbol}", h.Stocks.GetStock).Methods("GET")

	// Recommendation endpoints
	api.HandleFunc("/recommendations", h.Recommendations.List).Methods("GET")
	api.HandleFunc("/recommendations/top", h.Recommendations.Top).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		handlers.RespondError(w, http.StatusNotFound, "Route not found", req.URL.Path)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		handlers.RespondError(w, http.StatusMethodNotAllowed, "Method not allowed", req.Method)
	})

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	// CORS wraps the whole router so preflight requests never reach mux
	return corsMiddleware(corsOrigins)(r)
}

// corsMiddleware allows the dashboard origin(s) to call the read-only API
func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
}

// statusRecorder captures the status code for request logs
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rec.status,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					handlers.RespondError(w, http.StatusInternalServerError, "Internal server error", fmt.Sprint(err))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
