package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/stockpulse/backend/internal/api"
	"github.com/wonny/stockpulse/backend/internal/api/handlers"
)

// serviceName is reported by the health endpoint
const serviceName = "stockpulse"

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

Endpoints:
  GET  /health                      - Health check
  GET  /api/health                  - Health check
  GET  /api/quote/{symbol}          - Raw quote
  GET  /api/stocks                  - Basket quotes with recommendations
  GET  /api/stocks/{symbol}         - Quote, overview, history, indicators
  GET  /api/recommendations         - Ranked basket (sortBy, order)
  GET  /api/recommendations/top     - Top N (limit, type)

Example:
  go run ./cmd/stockpulse api
  go run ./cmd/stockpulse api --port 8080 --scheduler`,
	RunE: runAPIServer,
}

var (
	apiPort      string
	apiScheduler bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (default: PORT or 5000)")
	apiCmd.Flags().BoolVar(&apiScheduler, "scheduler", false, "run the basket warmup scheduler in-process")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== StockPulse API Server ===")

	ctx := commandContext(cmd)

	// 1. Dependencies
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	// Override port if flag is set
	if apiPort != "" {
		rt.cfg.Port = apiPort
	}

	log := rt.log
	log.WithFields(map[string]interface{}{
		"port":     rt.cfg.Port,
		"env":      rt.cfg.Env,
		"provider": rt.market.ProviderName(),
	}).Info("Initializing API server")

	// 2. Handlers and router
	health := handlers.NewHealthHandler(serviceName, rt.market.ProviderName()).WithRedis(rt.redis)
	if rt.db != nil {
		health.WithDatabase(rt.db)
	}

	router := api.NewRouter(api.Handlers{
		Health:          health,
		Stocks:          handlers.NewStockHandler(rt.market, rt.engine, log),
		Recommendations: handlers.NewRecommendationHandler(rt.market, rt.engine, log),
	}, rt.cfg.CORSOrigins, log)

	// 3. Optional in-process scheduler
	if apiScheduler {
		sched, err := rt.newScheduler()
		if err != nil {
			return fmt.Errorf("init scheduler: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	// 4. Start server with graceful shutdown
	server := api.New(rt.cfg, log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost%s\n", server.Addr())
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  GET  /api/quote/{symbol}")
	fmt.Println("  GET  /api/stocks")
	fmt.Println("  GET  /api/stocks/{symbol}")
	fmt.Println("  GET  /api/recommendations")
	fmt.Println("  GET  /api/recommendations/top")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal or a listener failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-quit:
	}

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
