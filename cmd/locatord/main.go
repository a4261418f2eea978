package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/prometheus/client_golang/prometheus"

	"faculty-locator-backend/config"
	"faculty-locator-backend/internal/api"
	"faculty-locator-backend/internal/db"
	"faculty-locator-backend/internal/directory"
	"faculty-locator-backend/internal/live"
	"faculty-locator-backend/internal/locator"
	"faculty-locator-backend/internal/metrics"
	"faculty-locator-backend/internal/model"
	"faculty-locator-backend/internal/mw"
	"faculty-locator-backend/internal/notification"
	"faculty-locator-backend/internal/presence"
	"faculty-locator-backend/internal/seed"
	"faculty-locator-backend/internal/store"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "faculty-locator ", log.LstdFlags)

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	logger.Println("data store initialized")

	if cfg.Directory.SeedFile != "" {
		members, buildings, err := seed.Load(cfg.Directory.SeedFile)
		if err != nil {
			logger.Fatalf("failed to load directory seed: %v", err)
		}
		if err := appStore.UpsertDirectory(ctx, members, buildings); err != nil {
			logger.Fatalf("failed to store directory seed: %v", err)
		}
		logger.Printf("directory seeded from %s", cfg.Directory.SeedFile)
	}

	members, buildings, err := appStore.LoadDirectory(ctx)
	if err != nil {
		logger.Fatalf("failed to load directory: %v", err)
	}

	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	records, err := appStore.LoadPresence(ctx, ids)
	if err != nil {
		logger.Fatalf("failed to load presence: %v", err)
	}
	logger.Printf("loaded %d faculty members in %d buildings", len(members), len(buildings))

	source, err := locator.New(cfg.Location, members, buildings)
	if err != nil {
		logger.Fatalf("failed to configure location source: %v", err)
	}

	controller := presence.NewController(records, source, appStore, cfg.Location.Wait)
	dir := directory.New(members, buildings, controller)

	// Metrics
	registry := prometheus.NewRegistry()
	appMetrics := metrics.NewMetrics()
	if err := appMetrics.Register(registry); err != nil {
		logger.Fatalf("failed to register metrics: %v", err)
	}
	snapshot := controller.Snapshot()
	current := make([]model.PresenceRecord, 0, len(snapshot))
	for _, rec := range snapshot {
		current = append(current, rec)
	}
	appMetrics.SetStatusCounts(current)
	controller.OnChange(appMetrics.ObserveChange)

	responseCache := mw.NewResponseCache(cfg.Server.CacheTTL())
	controller.OnChange(responseCache.ObserveChange)

	hub := live.NewHub()
	controller.OnChange(hub.ObserveChange)

	var webpushOptions *webpush.Options
	if cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "" {
		logger.Println("VAPID keys are not configured; availability notifications are disabled")
	} else {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, webpushOptions)
		pool.Start(ctx)
		controller.OnChange(pool.ObserveChange)
	}

	// Initialize router
	handler := api.NewHandler(appStore, controller, dir, appMetrics, webpushOptions)
	router := api.NewRouter(handler, cfg.Server, responseCache, registry, hub)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	// Create a deadline to wait for.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}
	hub.Close()
	cancel()
	controller.WaitPending()

	logger.Println("Server gracefully stopped")
}
