package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/opentariff/landedcost/internal/archive"
	"github.com/opentariff/landedcost/internal/auth"
	"github.com/opentariff/landedcost/internal/config"
	"github.com/opentariff/landedcost/internal/database"
	"github.com/opentariff/landedcost/internal/middleware"
	"github.com/opentariff/landedcost/internal/quote"
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	slog.Info("configuration loaded successfully",
		"db_host", cfg.Database.Host,
		"db_port", cfg.Database.Port,
		"db_name", cfg.Database.Name,
		"valuation_base_url", cfg.Valuation.BaseURL,
		"valuation_company_id", cfg.Valuation.CompanyID,
		"optimizer_workers", cfg.Optimizer.Workers,
	)

	// Initialize database connection
	db, err := database.New(&cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	// Perform health check
	if err := database.HealthCheck(db); err != nil {
		log.Fatalf("database health check failed: %v", err)
	}

	// Initialize diagnostics storage
	storage, err := archive.NewStorageFromConfig(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatalf("failed to initialize diagnostics storage: %v", err)
	}

	// Initialize quote manager
	qm, err := quote.NewManager(db, cfg, storage)
	if err != nil {
		log.Fatalf("failed to create quote manager: %v", err)
	}

	// Set up HTTP routes behind the end-user Basic gate
	gate := auth.Gate(&cfg.Gate)

	mux := http.NewServeMux()
	mux.Handle("POST /api/quotes", gate(http.HandlerFunc(qm.HandleCreateQuote)))
	mux.Handle("GET /api/quotes/{quoteID}/raw", gate(http.HandlerFunc(qm.HandleGetRawQuote)))
	mux.Handle("GET /api/catalogue", gate(http.HandlerFunc(qm.HandleGetCatalogue)))

	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)

	// Wrap handler with CORS middleware
	handler := middleware.CORS(&cfg.CORS)(mux)

	server := &http.Server{
		Addr:    serverAddr,
		Handler: handler,
	}

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		slog.Info("starting server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	// Wait for interrupt signal
	<-quit
	slog.Info("shutting down server...")

	// Create a context with timeout for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown of HTTP server
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	} else {
		slog.Info("server gracefully stopped")
	}

	slog.Info("server stopped")
}
