package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"visibility-scan-pipeline/config"
	"visibility-scan-pipeline/database"
	"visibility-scan-pipeline/gemini"
	"visibility-scan-pipeline/handlers"
	"visibility-scan-pipeline/llm"
	"visibility-scan-pipeline/metrics"
	"visibility-scan-pipeline/models"
	"visibility-scan-pipeline/openai"
	"visibility-scan-pipeline/rabbitmq"
	"visibility-scan-pipeline/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	metrics.Register()

	if cfg.OpenAIAPIKey == "" && cfg.GeminiAPIKey == "" {
		log.Println("Warning: no provider API key configured, scans will produce empty results")
	}

	// Initialize database when persistence is enabled
	var db *database.Database
	if cfg.DBEnabled {
		var err error
		db, err = database.NewDatabase(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()

		if err := db.CreateScanResultsTable(); err != nil {
			log.Fatalf("Failed to create scan_results table: %v", err)
		}
	}

	// Initialize result publisher when RabbitMQ is configured
	var publisher *rabbitmq.Publisher
	if cfg.AMQPURL != "" {
		var err error
		publisher, err = rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.ScanResultRoutingKey)
		if err != nil {
			log.Printf("Failed to connect result publisher, continuing without it: %v", err)
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	// Initialize LLM providers
	openaiClient := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.QueryTimeout)
	geminiClient := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.QueryTimeout)

	verifier := pickVerifier(openaiClient, geminiClient)

	opts := service.Options{
		Clients:           []llm.Client{openaiClient, geminiClient},
		Verifier:          verifier,
		DefaultQueryCount: cfg.DefaultQueryCount,
		SetTimeouts: map[string]time.Duration{
			openaiClient.SourceName(): cfg.OpenAISetTimeout,
			geminiClient.SourceName(): cfg.GeminiSetTimeout,
		},
	}
	if db != nil {
		opts.Store = db
	}
	if publisher != nil {
		opts.Publisher = publisher
	}
	svc := service.New(opts)

	// Consume scan requests from the queue when RabbitMQ is configured
	subCtx, stopSubscriber := context.WithCancel(context.Background())
	defer stopSubscriber()
	if cfg.AMQPURL != "" {
		subscriber := rabbitmq.NewSubscriber(cfg.AMQPURL, cfg.AMQPExchange, cfg.ScanRequestQueue,
			func(req models.ScanRequest) error {
				_, err := svc.StartScan(req)
				return err
			})
		go subscriber.Start(subCtx)
	}

	// Initialize handlers
	h := handlers.NewHandlers(svc, db)

	// Setup HTTP server
	router := gin.Default()

	// API routes
	api := router.Group("/api/v3")
	{
		api.GET("/health", h.HealthCheck)
		api.POST("/scan", h.StartScan)
		api.GET("/scan/:id", h.GetScan)
		api.DELETE("/scan/:id", h.AbortScan)
		api.GET("/scans", h.GetRecentScans)
		api.GET("/stats", h.GetStats)
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	stopSubscriber()

	// Create a deadline for server shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// pickVerifier prefers OpenAI for the verification pass and falls back to
// whichever provider has a credential.
func pickVerifier(candidates ...llm.Client) llm.Client {
	for _, c := range candidates {
		if c.Configured() {
			return c
		}
	}
	return nil
}
