// Tienda Gateway - Storefront API with WhatsApp ordering.
// Serves the product catalog, per-session carts, wa.me order links, and the
// WhatsApp Cloud API webhook chat channel.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tienda-gateway/internal/broadcast"
	"tienda-gateway/internal/cart"
	"tienda-gateway/internal/catalog"
	"tienda-gateway/internal/config"
	"tienda-gateway/internal/dispatch"
	"tienda-gateway/internal/handler"
	"tienda-gateway/internal/middleware"
	"tienda-gateway/internal/store"
	"tienda-gateway/internal/webhook"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Initialize structured logger
	logger := initLogger()

	// Load configuration
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger.Info("configuration loaded",
		slog.String("environment", cfg.Environment),
		slog.Bool("graph_api", cfg.WhatsApp.HasGraphAPI()),
		slog.Bool("postgres", cfg.DatabaseURL != ""),
		slog.Bool("remote_catalog", cfg.CatalogURL != ""),
	)

	// Product store: Postgres when configured, else in-memory with the
	// demo catalog.
	var products store.Store
	if cfg.DatabaseURL != "" {
		pg, err := store.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connecting to postgres: %w", err)
		}
		defer pg.Close()
		products = pg
	}

	// Update broadcast: NATS when configured, else in-process.
	var broadcaster broadcast.Broadcaster
	if cfg.NATSURL != "" {
		nb, err := broadcast.NewNATS(cfg.NATSURL, logger)
		if err != nil {
			return fmt.Errorf("connecting to nats: %w", err)
		}
		broadcaster = nb
	} else {
		broadcaster = broadcast.NewLocal()
	}
	defer broadcaster.Close()

	// Catalog source: remote API with cache fallback, or the local store.
	var reader catalog.Reader
	switch {
	case cfg.CatalogURL != "":
		remote, err := catalog.NewRemote(cfg.CatalogURL)
		if err != nil {
			return fmt.Errorf("creating remote catalog: %w", err)
		}
		fb := catalog.NewFallback(remote, logger)
		if err := broadcaster.OnCatalogUpdated(func() { fb.Refresh(ctx) }); err != nil {
			return fmt.Errorf("subscribing to catalog updates: %w", err)
		}
		fb.StartPolling(ctx, cfg.CatalogPollInterval)
		reader = fb
	case products != nil:
		reader = products
	default:
		mem := store.NewMemory(catalog.DefaultProducts())
		products = mem
		reader = mem
	}

	// Webhook reply channel: Graph API when credentials exist.
	var replier dispatch.Dispatcher
	if cfg.WhatsApp.HasGraphAPI() {
		replier, err = dispatch.NewGraph(cfg.WhatsApp.GraphBaseURL,
			cfg.WhatsApp.GraphPhoneID, cfg.WhatsApp.GraphToken, logger)
		if err != nil {
			return fmt.Errorf("creating graph dispatcher: %w", err)
		}
	} else {
		logger.Warn("graph api not configured, webhook replies disabled")
		replier = &dispatch.Discard{Logger: logger}
	}

	wh := webhook.NewHandler(cfg.WhatsApp.VerifyToken, cfg.WhatsApp.StoreName, reader, replier, logger)

	h := handler.New(handler.Config{
		Catalog:     reader,
		Sessions:    cart.NewSessions(),
		DeepLink:    &dispatch.DeepLink{},
		Webhook:     wh,
		Products:    products,
		Broadcaster: broadcaster,
		StoreNumber: cfg.WhatsApp.StoreNumber,
		AdminToken:  cfg.AdminToken,
		Logger:      logger,
	})

	// Setup routes
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	// Apply middleware chain: recovery → request ID → logging → handler
	// Recovery must be outermost to catch panics from logging middleware
	httpHandler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logging(logger),
	)(mux)

	// Create HTTP server with timeouts
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Channel for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Channel for server errors
	serverErr := make(chan error, 1)

	// Start server in goroutine
	go func() {
		logger.Info("server starting",
			slog.String("port", cfg.Port),
			slog.String("addr", server.Addr),
		)
		serverErr <- server.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErr:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-shutdown:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		// Give outstanding requests time to complete
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			// Force close if graceful shutdown fails
			server.Close()
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	logger.Info("server stopped")
	return nil
}

// initLogger creates a structured logger configured for the environment.
// Production uses JSON format for GCP Cloud Logging compatibility.
// Development uses text format for readability.
func initLogger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
		// Add source location in debug mode
		AddSource: level == slog.LevelDebug,
	}

	// JSON for production (Cloud Logging compatible), text for development
	if os.Getenv("ENVIRONMENT") == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
