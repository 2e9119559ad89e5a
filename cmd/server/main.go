package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/creatorscook/insight-core/internal/ai"
	"github.com/creatorscook/insight-core/internal/config"
	"github.com/creatorscook/insight-core/internal/pipeline"
	"github.com/creatorscook/insight-core/internal/scheduler"
	"github.com/creatorscook/insight-core/internal/scraping"
	"github.com/creatorscook/insight-core/internal/storage"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up logging
	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	logrus.Info("Starting CreatorsCook insight core")

	ctx := context.Background()

	// Initialize storage
	store, err := storage.NewPostgresStore(ctx, cfg.DatabaseURL, cfg.DefaultCredits)
	if err != nil {
		logrus.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	// Initialize the completion provider and generator
	provider, err := ai.NewGeminiProvider(ctx, cfg.GeminiModel)
	if err != nil {
		logrus.Fatalf("Failed to initialize completion provider: %v", err)
	}
	generator := ai.NewGenerator(provider, cfg.AITemperature, cfg.AIMaxTokens)

	// Initialize the scraper dispatch
	scrapers := scraping.NewManager()

	// Initialize the ingestion pipeline
	pipelineService := pipeline.NewService(cfg, store, scrapers, generator)

	// Initialize scheduler
	if cfg.EnableScheduler {
		schedulerService := scheduler.NewService(cfg, pipelineService, store)
		if err := schedulerService.Start(); err != nil {
			logrus.Fatalf("Failed to start scheduler: %v", err)
		}
		defer schedulerService.Stop()
	}

	// Set up HTTP server
	srv := &apiServer{
		store:     store,
		pipeline:  pipelineService,
		generator: generator,
	}

	router := mux.NewRouter()
	router.HandleFunc("/health", healthCheckHandler).Methods("GET")
	router.HandleFunc("/metrics", srv.metricsHandler).Methods("GET")

	router.HandleFunc("/products", srv.createProductHandler).Methods("POST")
	router.HandleFunc("/products/{id}", srv.getProductHandler).Methods("GET")
	router.HandleFunc("/products/{id}/analyze", srv.analyzeHandler).Methods("POST")
	router.HandleFunc("/products/{id}/cancel", srv.cancelHandler).Methods("POST")
	router.HandleFunc("/products/{id}/insights", srv.insightsHandler).Methods("GET")
	router.HandleFunc("/products/{id}/packs", srv.packsHandler).Methods("GET")
	router.HandleFunc("/products/{id}/regenerate", srv.regenerateHandler).Methods("POST")
	router.HandleFunc("/products/{id}/brand-rules", srv.brandRulesHandler).Methods("PUT")

	router.HandleFunc("/scripts", srv.saveScriptHandler).Methods("POST")
	router.HandleFunc("/scripts/scan", srv.scanHandler).Methods("POST")
	router.HandleFunc("/scripts/{id}", srv.getScriptHandler).Methods("GET")
	router.HandleFunc("/scripts/{id}/suggest", srv.suggestHandler).Methods("POST")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server in a goroutine
	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","timestamp":"` + time.Now().Format(time.RFC3339) + `"}`))
}
